package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readResourceRequest(uri string) mcp.ReadResourceRequest {
	request := mcp.ReadResourceRequest{}
	request.Params.URI = uri
	return request
}

func resourceText(t *testing.T, contents []mcp.ResourceContents) mcp.TextResourceContents {
	t.Helper()
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok, "expected TextResourceContents, got %T", contents[0])
	return text
}

func TestDeckResourceRendersDocument(t *testing.T) {
	fake := newFakeMochi()
	deckID := fake.addDeck(map[string]any{"name": "Biology", "archived?": false})
	s := newTestServer(t, fake.ServeHTTP, false)

	contents, err := s.handleDeckResource(context.Background(),
		readResourceRequest(deckURIPrefix+deckID))
	require.NoError(t, err)

	text := resourceText(t, contents)
	assert.Equal(t, deckURIPrefix+deckID, text.URI)
	assert.Equal(t, "application/json", text.MIMEType)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &doc))
	assert.Equal(t, "Biology", doc["name"])
	assert.Equal(t, false, doc["archived?"])
}

func TestNoteResourceRendersDocument(t *testing.T) {
	fake := newFakeMochi()
	noteID := fake.addNote(map[string]any{"deckId": "deck-1", "content": "Q: ..."})
	s := newTestServer(t, fake.ServeHTTP, false)

	contents, err := s.handleNoteResource(context.Background(),
		readResourceRequest(noteURIPrefix+noteID))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(resourceText(t, contents).Text), &doc))
	assert.Equal(t, "Q: ...", doc["content"])
}

func TestDeckResourceErrorsOnMissingDeck(t *testing.T) {
	s := newTestServer(t, newFakeMochi().ServeHTTP, false)

	_, err := s.handleDeckResource(context.Background(),
		readResourceRequest(deckURIPrefix+"missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResourceIDRejectsBadURIs(t *testing.T) {
	for _, uri := range []string{
		"article://deck-1",
		"mochi://cards/deck-1",
		deckURIPrefix,
	} {
		_, err := resourceID(uri, deckURIPrefix)
		assert.Error(t, err, "uri %q should be rejected", uri)
	}

	id, err := resourceID(deckURIPrefix+"deck-1", deckURIPrefix)
	require.NoError(t, err)
	assert.Equal(t, "deck-1", id)
}

func TestDeckCatalogPagesThroughCursor(t *testing.T) {
	// Two-page fake: the first request returns a cursor, the second does not.
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/decks", r.URL.Path)
		assert.Equal(t, "200", r.URL.Query().Get("limit"))
		if r.URL.Query().Get("cursor") == "" {
			fmt.Fprint(w, `{"decks": [{"id": "deck-1"}], "nextCursor": "page-2"}`)
			return
		}
		assert.Equal(t, "page-2", r.URL.Query().Get("cursor"))
		fmt.Fprint(w, `{"decks": [{"id": "deck-2"}]}`)
	}, false)

	contents, err := s.handleDeckCatalogResource(context.Background(),
		readResourceRequest(deckCatalogURI))
	require.NoError(t, err)

	var decks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resourceText(t, contents).Text), &decks))
	require.Len(t, decks, 2)
	assert.Equal(t, "deck-1", decks[0]["id"])
	assert.Equal(t, "deck-2", decks[1]["id"])
}

func TestDeckCatalogEmptyWorkspaceRendersEmptyArray(t *testing.T) {
	s := newTestServer(t, newFakeMochi().ServeHTTP, false)

	contents, err := s.handleDeckCatalogResource(context.Background(),
		readResourceRequest(deckCatalogURI))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", resourceText(t, contents).Text)
}
