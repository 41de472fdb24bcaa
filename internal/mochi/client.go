// Package mochi provides an HTTP client for the Mochi flashcard REST API.
package mochi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const userAgent = "mochi-mcp/1.0.0"

// DefaultBaseURL is the production Mochi API endpoint.
const DefaultBaseURL = "https://api.mochi.cards/v1"

// Client is an HTTP client for the Mochi API. Every operation performs
// exactly one request; there is no caching and no automatic retry.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the Mochi API at baseURL. The API key is
// sent on every request; timeout bounds each HTTP round trip.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ListOptions controls pagination for deck listings.
type ListOptions struct {
	Cursor string
	Limit  int
}

func (o ListOptions) query() url.Values {
	params := url.Values{}
	if o.Cursor != "" {
		params.Set("cursor", o.Cursor)
	}
	if o.Limit > 0 {
		params.Set("limit", strconv.Itoa(o.Limit))
	}
	return params
}

// NoteListOptions controls filtering and pagination for note listings.
type NoteListOptions struct {
	DeckID string
	Query  string
	Cursor string
	Limit  int
}

func (o NoteListOptions) query() url.Values {
	params := url.Values{}
	if o.DeckID != "" {
		params.Set("deckId", o.DeckID)
	}
	if o.Query != "" {
		params.Set("query", o.Query)
	}
	if o.Cursor != "" {
		params.Set("cursor", o.Cursor)
	}
	if o.Limit > 0 {
		params.Set("limit", strconv.Itoa(o.Limit))
	}
	return params
}

// ListDecks lists decks in the authenticated workspace.
func (c *Client) ListDecks(ctx context.Context, opts ListOptions) (DeckPage, error) {
	data, err := c.do(ctx, http.MethodGet, "/decks", opts.query(), nil)
	if err != nil {
		return DeckPage{}, err
	}

	items, cursor, err := envelope{data}.collection("decks")
	if err != nil {
		return DeckPage{}, parseError(err)
	}

	page := DeckPage{NextCursor: cursor}
	for _, item := range items {
		if !isObject(item) {
			continue
		}
		var deck Deck
		if err := deck.UnmarshalJSON(item); err != nil {
			return DeckPage{}, parseError(err)
		}
		page.Decks = append(page.Decks, deck)
	}
	return page, nil
}

// GetDeck fetches a single deck by id. A 404 from the service is returned as
// a NotFoundError.
func (c *Client) GetDeck(ctx context.Context, id string) (Deck, error) {
	data, err := c.do(ctx, http.MethodGet, "/decks/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return Deck{}, notFoundOr(err, "deck", id)
	}

	var deck Deck
	if err := (envelope{data}).item("deck", &deck); err != nil {
		return Deck{}, parseError(err)
	}
	return deck, nil
}

// ListNotes lists notes, optionally scoped to a deck or search query.
func (c *Client) ListNotes(ctx context.Context, opts NoteListOptions) (NotePage, error) {
	data, err := c.do(ctx, http.MethodGet, "/notes", opts.query(), nil)
	if err != nil {
		return NotePage{}, err
	}

	items, cursor, err := envelope{data}.collection("notes")
	if err != nil {
		return NotePage{}, parseError(err)
	}

	page := NotePage{NextCursor: cursor}
	for _, item := range items {
		if !isObject(item) {
			continue
		}
		var note Note
		if err := note.UnmarshalJSON(item); err != nil {
			return NotePage{}, parseError(err)
		}
		page.Notes = append(page.Notes, note)
	}
	return page, nil
}

// GetNote fetches a single note by id.
func (c *Client) GetNote(ctx context.Context, id string) (Note, error) {
	data, err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return Note{}, notFoundOr(err, "note", id)
	}

	var note Note
	if err := (envelope{data}).item("note", &note); err != nil {
		return Note{}, parseError(err)
	}
	return note, nil
}

// CreateDeck creates a deck from the given fields.
func (c *Client) CreateDeck(ctx context.Context, fields map[string]any) (Deck, error) {
	data, err := c.do(ctx, http.MethodPost, "/decks", nil, fields)
	if err != nil {
		return Deck{}, err
	}

	var deck Deck
	if err := (envelope{data}).item("deck", &deck); err != nil {
		return Deck{}, parseError(err)
	}
	return deck, nil
}

// UpdateDeck applies a partial update to an existing deck.
func (c *Client) UpdateDeck(ctx context.Context, id string, fields map[string]any) (Deck, error) {
	data, err := c.do(ctx, http.MethodPatch, "/decks/"+url.PathEscape(id), nil, fields)
	if err != nil {
		return Deck{}, notFoundOr(err, "deck", id)
	}

	var deck Deck
	if err := (envelope{data}).item("deck", &deck); err != nil {
		return Deck{}, parseError(err)
	}
	return deck, nil
}

// DeleteDeck deletes a deck and its notes.
func (c *Client) DeleteDeck(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/decks/"+url.PathEscape(id), nil, nil)
	return notFoundOr(err, "deck", id)
}

// CreateNote creates a note from the given fields.
func (c *Client) CreateNote(ctx context.Context, fields map[string]any) (Note, error) {
	data, err := c.do(ctx, http.MethodPost, "/notes", nil, fields)
	if err != nil {
		return Note{}, err
	}

	var note Note
	if err := (envelope{data}).item("note", &note); err != nil {
		return Note{}, parseError(err)
	}
	return note, nil
}

// UpdateNote applies a partial update to an existing note.
func (c *Client) UpdateNote(ctx context.Context, id string, fields map[string]any) (Note, error) {
	data, err := c.do(ctx, http.MethodPatch, "/notes/"+url.PathEscape(id), nil, fields)
	if err != nil {
		return Note{}, notFoundOr(err, "note", id)
	}

	var note Note
	if err := (envelope{data}).item("note", &note); err != nil {
		return Note{}, parseError(err)
	}
	return note, nil
}

// DeleteNote deletes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil)
	return notFoundOr(err, "note", id)
}

// do performs one HTTP request against the Mochi API and returns the raw
// response body. Non-2xx responses become UpstreamError; failures before a
// response arrives become TransportError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	op := method + " " + path

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshalling request for %s: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", op, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("op", op), zap.Error(err))
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	c.logger.Debug("mochi API response",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}
	return data, nil
}

// errorMessage extracts the service-provided error text from an error body.
// Mochi reports errors under "message", "error", or "detail"; anything else
// is returned as trimmed body text.
func errorMessage(body []byte) string {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err == nil {
		for _, key := range []string{"message", "error", "detail"} {
			var msg string
			if raw, ok := doc[key]; ok && json.Unmarshal(raw, &msg) == nil && msg != "" {
				return msg
			}
		}
	}
	return strings.TrimSpace(string(body))
}

// notFoundOr converts an upstream 404 into a NotFoundError for the given
// document; other errors pass through unchanged.
func notFoundOr(err error, kind, id string) error {
	var upstream *UpstreamError
	if errors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return err
}

// parseError wraps a body-parsing failure on a 2xx response.
func parseError(err error) error {
	return &UpstreamError{
		StatusCode: http.StatusOK,
		Message:    fmt.Sprintf("invalid response body: %v", err),
	}
}
