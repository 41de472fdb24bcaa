package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/nakrule/mochi-mcp/internal/mochi"
)

const (
	deckCatalogURI = "mochi://decks"
	deckURIPrefix  = "mochi://deck/"
	noteURIPrefix  = "mochi://note/"

	// maxCatalogDecks bounds how many decks the catalog resource will page
	// through; workspaces larger than this are truncated.
	maxCatalogDecks = 500
	catalogPageSize = 200
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcp.NewResource(
			deckCatalogURI,
			"Deck catalog",
			mcp.WithResourceDescription(
				"All decks in the authenticated Mochi workspace, fetched live "+
					"from the API."),
			mcp.WithMIMEType("application/json"),
		),
		s.handleDeckCatalogResource,
	)

	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			deckURIPrefix+"{id}",
			"Mochi deck",
			mcp.WithTemplateDescription(
				"A single deck document, including service-defined metadata fields."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleDeckResource,
	)

	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			noteURIPrefix+"{id}",
			"Mochi note",
			mcp.WithTemplateDescription(
				"A single note/card document, including service-defined metadata fields."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleNoteResource,
	)
}

// handleDeckCatalogResource renders the full deck list, paging through the
// API until the workspace is exhausted or maxCatalogDecks is reached.
func (s *Server) handleDeckCatalogResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {
	var decks []mochi.Deck
	cursor := ""
	for {
		page, err := s.client.ListDecks(ctx, mochi.ListOptions{
			Cursor: cursor,
			Limit:  catalogPageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("listing decks: %w", err)
		}
		decks = append(decks, page.Decks...)
		if page.NextCursor == "" || len(decks) >= maxCatalogDecks {
			break
		}
		cursor = page.NextCursor
	}
	if len(decks) > maxCatalogDecks {
		decks = decks[:maxCatalogDecks]
	}
	if decks == nil {
		decks = []mochi.Deck{}
	}

	s.logger.Debug("deck catalog rendered", zap.Int("decks", len(decks)))
	return renderJSONResource(request.Params.URI, decks)
}

func (s *Server) handleDeckResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {
	id, err := resourceID(request.Params.URI, deckURIPrefix)
	if err != nil {
		return nil, err
	}

	deck, err := s.client.GetDeck(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching deck %s: %w", id, err)
	}
	return renderJSONResource(request.Params.URI, deck)
}

func (s *Server) handleNoteResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {
	id, err := resourceID(request.Params.URI, noteURIPrefix)
	if err != nil {
		return nil, err
	}

	note, err := s.client.GetNote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching note %s: %w", id, err)
	}
	return renderJSONResource(request.Params.URI, note)
}

func resourceID(uri, prefix string) (string, error) {
	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("unsupported resource URI: %s", uri)
	}
	id := strings.TrimPrefix(uri, prefix)
	if id == "" {
		return "", fmt.Errorf("missing identifier in resource URI: %s", uri)
	}
	return id, nil
}

func renderJSONResource(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource payload: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
