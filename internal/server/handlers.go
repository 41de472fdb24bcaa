package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/nakrule/mochi-mcp/internal/mochi"
)

// maxListLimit is the largest page size the Mochi API accepts.
const maxListLimit = 200

func (s *Server) handleListDecks(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	page, err := s.client.ListDecks(ctx, mochi.ListOptions{
		Cursor: optionalString(args, "cursor"),
		Limit:  optionalLimit(args),
	})
	if err != nil {
		return s.toolError("list_decks", err), nil
	}

	decks := page.Decks
	if decks == nil {
		decks = []mochi.Deck{}
	}
	return jsonResult(struct {
		Decks      []mochi.Deck `json:"decks"`
		NextCursor string       `json:"nextCursor,omitempty"`
	}{decks, page.NextCursor})
}

func (s *Server) handleGetDeck(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	deckID, ok := request.Params.Arguments["deck_id"].(string)
	if !ok || deckID == "" {
		return mcp.NewToolResultError("deck_id is required"), nil
	}

	deck, err := s.client.GetDeck(ctx, deckID)
	if err != nil {
		return s.toolError("get_deck", err), nil
	}

	return jsonResult(struct {
		Deck mochi.Deck `json:"deck"`
	}{deck})
}

func (s *Server) handleListNotes(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	page, err := s.client.ListNotes(ctx, mochi.NoteListOptions{
		DeckID: optionalString(args, "deck_id"),
		Query:  optionalString(args, "query"),
		Cursor: optionalString(args, "cursor"),
		Limit:  optionalLimit(args),
	})
	if err != nil {
		return s.toolError("list_notes", err), nil
	}

	notes := page.Notes
	if notes == nil {
		notes = []mochi.Note{}
	}
	return jsonResult(struct {
		Notes      []mochi.Note `json:"notes"`
		NextCursor string       `json:"nextCursor,omitempty"`
	}{notes, page.NextCursor})
}

func (s *Server) handleGetNote(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	noteID, ok := request.Params.Arguments["note_id"].(string)
	if !ok || noteID == "" {
		return mcp.NewToolResultError("note_id is required"), nil
	}

	note, err := s.client.GetNote(ctx, noteID)
	if err != nil {
		return s.toolError("get_note", err), nil
	}

	return jsonResult(struct {
		Note mochi.Note `json:"note"`
	}{note})
}

func (s *Server) handleCreateDeck(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	payload := map[string]any{"name": name}
	if description := optionalString(args, "description"); description != "" {
		payload["description"] = description
	}
	if parent := optionalString(args, "parent_deck_id"); parent != "" {
		payload["parentDeckId"] = parent
	}
	if raw, present := args["fields"]; present {
		fields, ok := raw.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("fields must be an object"), nil
		}
		for key, value := range fields {
			payload[key] = value
		}
	}

	deck, err := s.client.CreateDeck(ctx, payload)
	if err != nil {
		return s.toolError("create_deck", err), nil
	}

	s.logger.Info("deck created", zap.String("deck_id", deck.ID))
	return jsonResult(struct {
		Deck mochi.Deck `json:"deck"`
	}{deck})
}

func (s *Server) handleUpdateDeck(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	deckID, ok := args["deck_id"].(string)
	if !ok || deckID == "" {
		return mcp.NewToolResultError("deck_id is required"), nil
	}
	fields, ok := args["fields"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("fields is required and must be an object"), nil
	}

	deck, err := s.client.UpdateDeck(ctx, deckID, fields)
	if err != nil {
		return s.toolError("update_deck", err), nil
	}

	return jsonResult(struct {
		Deck mochi.Deck `json:"deck"`
	}{deck})
}

func (s *Server) handleDeleteDeck(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	deckID, ok := request.Params.Arguments["deck_id"].(string)
	if !ok || deckID == "" {
		return mcp.NewToolResultError("deck_id is required"), nil
	}

	if err := s.client.DeleteDeck(ctx, deckID); err != nil {
		return s.toolError("delete_deck", err), nil
	}

	s.logger.Info("deck deleted", zap.String("deck_id", deckID))
	return jsonResult(struct {
		Status string `json:"status"`
		DeckID string `json:"deck_id"`
	}{"deleted", deckID})
}

func (s *Server) handleCreateNote(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	deckID, ok := args["deck_id"].(string)
	if !ok || deckID == "" {
		return mcp.NewToolResultError("deck_id is required"), nil
	}
	fields, ok := args["fields"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("fields is required and must be an object"), nil
	}

	payload := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		payload[key] = value
	}
	payload["deckId"] = deckID

	note, err := s.client.CreateNote(ctx, payload)
	if err != nil {
		return s.toolError("create_note", err), nil
	}

	s.logger.Info("note created",
		zap.String("note_id", note.ID),
		zap.String("deck_id", deckID))
	return jsonResult(struct {
		Note mochi.Note `json:"note"`
	}{note})
}

func (s *Server) handleUpdateNote(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	noteID, ok := args["note_id"].(string)
	if !ok || noteID == "" {
		return mcp.NewToolResultError("note_id is required"), nil
	}
	fields, ok := args["fields"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("fields is required and must be an object"), nil
	}

	note, err := s.client.UpdateNote(ctx, noteID, fields)
	if err != nil {
		return s.toolError("update_note", err), nil
	}

	return jsonResult(struct {
		Note mochi.Note `json:"note"`
	}{note})
}

func (s *Server) handleDeleteNote(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	noteID, ok := request.Params.Arguments["note_id"].(string)
	if !ok || noteID == "" {
		return mcp.NewToolResultError("note_id is required"), nil
	}

	if err := s.client.DeleteNote(ctx, noteID); err != nil {
		return s.toolError("delete_note", err), nil
	}

	s.logger.Info("note deleted", zap.String("note_id", noteID))
	return jsonResult(struct {
		Status string `json:"status"`
		NoteID string `json:"note_id"`
	}{"deleted", noteID})
}

// toolError converts a client failure into an MCP tool error result. Errors
// never escape as Go errors here; a failed call must not kill the serve loop.
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	s.logger.Warn("tool call failed", zap.String("tool", tool), zap.Error(err))
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err))
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func optionalString(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return value
}

// optionalLimit reads a numeric "limit" argument and clamps it to the range
// the Mochi API accepts. Zero means "let the service pick".
func optionalLimit(args map[string]any) int {
	limit, ok := args["limit"].(float64)
	if !ok || limit <= 0 {
		return 0
	}
	return min(int(limit), maxListLimit)
}
