package mochi

import (
	"encoding/json"
	"fmt"
)

// Deck is a deck document as returned by the Mochi API. The raw document is
// preserved so service-defined metadata fields survive the round trip; ID and
// Name are extracted for addressing and display.
type Deck struct {
	ID   string
	Name string

	raw json.RawMessage
}

// Note is a note (flashcard) document as returned by the Mochi API. Like
// Deck, the raw document passes through untouched.
type Note struct {
	ID      string
	DeckID  string
	Content string

	raw json.RawMessage
}

// DeckPage is one page of a deck listing.
type DeckPage struct {
	Decks      []Deck
	NextCursor string
}

// NotePage is one page of a note listing.
type NotePage struct {
	Notes      []Note
	NextCursor string
}

// MarshalJSON emits the deck exactly as the service sent it.
func (d Deck) MarshalJSON() ([]byte, error) {
	if d.raw == nil {
		return []byte("null"), nil
	}
	return d.raw, nil
}

func (d *Deck) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding deck: %w", err)
	}
	d.raw = append(json.RawMessage(nil), data...)
	d.ID = stringField(doc, "id", "uuid", "slug")
	d.Name = stringField(doc, "name", "title")
	return nil
}

// MarshalJSON emits the note exactly as the service sent it.
func (n Note) MarshalJSON() ([]byte, error) {
	if n.raw == nil {
		return []byte("null"), nil
	}
	return n.raw, nil
}

func (n *Note) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding note: %w", err)
	}
	n.raw = append(json.RawMessage(nil), data...)
	n.ID = stringField(doc, "id", "uuid")
	n.DeckID = stringField(doc, "deckId", "deck-id", "deck_id")
	n.Content = stringField(doc, "content", "front")
	return nil
}

// stringField returns the first of the named keys that holds a non-empty
// string. Numeric ids are rendered as their decimal form.
func stringField(doc map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

// envelope handles the loose response shapes the Mochi API uses: a document
// or collection may arrive bare, nested under "data", or keyed by kind
// ("deck", "decks", "items", ...). Cursors show up as "nextCursor" or
// "cursor".
type envelope struct {
	body json.RawMessage
}

// item locates a single document keyed by kind, unwrapping a "data" layer if
// present, and decodes it into out.
func (e envelope) item(kind string, out json.Unmarshaler) error {
	raw := e.body
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err == nil {
		if inner, ok := doc["data"]; ok && isObject(inner) {
			raw = inner
			doc = nil
			_ = json.Unmarshal(raw, &doc)
		}
		if nested, ok := doc[kind]; ok && isObject(nested) {
			raw = nested
		}
	}
	if !isObject(raw) {
		return fmt.Errorf("unexpected %s response shape", kind)
	}
	return out.UnmarshalJSON(raw)
}

// collection locates the array of documents for the named collection and the
// pagination cursor, if any.
func (e envelope) collection(name string) ([]json.RawMessage, string, error) {
	// A bare array is a complete, cursorless page.
	var items []json.RawMessage
	if err := json.Unmarshal(e.body, &items); err == nil {
		return items, "", nil
	}

	doc := e.container()
	raw, ok := doc[name]
	if !ok {
		raw, ok = doc["items"]
	}
	if !ok {
		return nil, "", fmt.Errorf("response has no %q collection", name)
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, "", fmt.Errorf("decoding %s collection: %w", name, err)
	}

	cursor := stringField(doc, "nextCursor", "cursor", "bookmark")
	return items, cursor, nil
}

// container unwraps a single "data" object layer when the response uses one.
func (e envelope) container() map[string]json.RawMessage {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(e.body, &doc); err != nil {
		return nil
	}
	if inner, ok := doc["data"]; ok && isObject(inner) {
		var innerDoc map[string]json.RawMessage
		if err := json.Unmarshal(inner, &innerDoc); err == nil {
			return innerDoc
		}
	}
	return doc
}

func isObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
