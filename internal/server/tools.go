package server

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registeredTool pairs a tool declaration with its handler.
type registeredTool struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

// toolset builds the full tool list for this server instance. The read-only
// tools are always present; write tools exist only when the server was
// started with --allow-write. Membership never changes after startup.
func (s *Server) toolset() []registeredTool {
	tools := []registeredTool{
		{
			tool: mcp.NewTool("list_decks",
				mcp.WithDescription("List decks from the authenticated Mochi workspace."),
				mcp.WithNumber("limit",
					mcp.Description("Maximum number of decks to return (1-200)."),
				),
				mcp.WithString("cursor",
					mcp.Description("Cursor returned by a previous list_decks call."),
				),
				mcp.WithToolAnnotation(readOnlyAnnotation("List decks")),
			),
			handler: s.handleListDecks,
		},
		{
			tool: mcp.NewTool("get_deck",
				mcp.WithDescription("Fetch metadata about a single deck by identifier."),
				mcp.WithString("deck_id",
					mcp.Required(),
					mcp.Description("Deck identifier (id or slug)."),
				),
				mcp.WithToolAnnotation(readOnlyAnnotation("Get deck")),
			),
			handler: s.handleGetDeck,
		},
		{
			tool: mcp.NewTool("list_notes",
				mcp.WithDescription("List notes/cards from Mochi. Optionally scope to a deck or search query."),
				mcp.WithString("deck_id",
					mcp.Description("Only return notes that belong to this deck."),
				),
				mcp.WithString("query",
					mcp.Description("Full text search term."),
				),
				mcp.WithNumber("limit",
					mcp.Description("Maximum number of notes to return (1-200)."),
				),
				mcp.WithString("cursor",
					mcp.Description("Cursor returned by a previous list_notes call."),
				),
				mcp.WithToolAnnotation(readOnlyAnnotation("List notes")),
			),
			handler: s.handleListNotes,
		},
		{
			tool: mcp.NewTool("get_note",
				mcp.WithDescription("Fetch a single note/card by identifier."),
				mcp.WithString("note_id",
					mcp.Required(),
					mcp.Description("Note identifier."),
				),
				mcp.WithToolAnnotation(readOnlyAnnotation("Get note")),
			),
			handler: s.handleGetNote,
		},
	}

	if !s.allowWrite {
		return tools
	}

	return append(tools,
		registeredTool{
			tool: mcp.NewTool("create_deck",
				mcp.WithDescription("Create a new deck in Mochi."),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Name of the deck."),
				),
				mcp.WithString("description",
					mcp.Description("Optional deck description."),
				),
				mcp.WithString("parent_deck_id",
					mcp.Description("Optional parent deck identifier."),
				),
				mcp.WithObject("fields",
					mcp.Description("Additional raw fields to merge into the request body."),
				),
				mcp.WithToolAnnotation(writeAnnotation("Create deck", false)),
			),
			handler: s.handleCreateDeck,
		},
		registeredTool{
			tool: mcp.NewTool("update_deck",
				mcp.WithDescription("Update fields on an existing deck."),
				mcp.WithString("deck_id",
					mcp.Required(),
					mcp.Description("Deck identifier."),
				),
				mcp.WithObject("fields",
					mcp.Required(),
					mcp.Description("Fields to update on the deck payload."),
				),
				mcp.WithToolAnnotation(writeAnnotation("Update deck", false)),
			),
			handler: s.handleUpdateDeck,
		},
		registeredTool{
			tool: mcp.NewTool("delete_deck",
				mcp.WithDescription("Delete a deck and its notes."),
				mcp.WithString("deck_id",
					mcp.Required(),
					mcp.Description("Deck identifier."),
				),
				mcp.WithToolAnnotation(writeAnnotation("Delete deck", true)),
			),
			handler: s.handleDeleteDeck,
		},
		registeredTool{
			tool: mcp.NewTool("create_note",
				mcp.WithDescription("Create a new note/card in Mochi."),
				mcp.WithString("deck_id",
					mcp.Required(),
					mcp.Description("Deck to add the note to."),
				),
				mcp.WithObject("fields",
					mcp.Required(),
					mcp.Description("Payload describing the note fields (content, front/back, etc)."),
				),
				mcp.WithToolAnnotation(writeAnnotation("Create note", false)),
			),
			handler: s.handleCreateNote,
		},
		registeredTool{
			tool: mcp.NewTool("update_note",
				mcp.WithDescription("Update an existing note/card."),
				mcp.WithString("note_id",
					mcp.Required(),
					mcp.Description("Note identifier."),
				),
				mcp.WithObject("fields",
					mcp.Required(),
					mcp.Description("Fields to update on the note."),
				),
				mcp.WithToolAnnotation(writeAnnotation("Update note", false)),
			),
			handler: s.handleUpdateNote,
		},
		registeredTool{
			tool: mcp.NewTool("delete_note",
				mcp.WithDescription("Delete a note/card."),
				mcp.WithString("note_id",
					mcp.Required(),
					mcp.Description("Note identifier."),
				),
				mcp.WithToolAnnotation(writeAnnotation("Delete note", true)),
			),
			handler: s.handleDeleteNote,
		},
	)
}

func readOnlyAnnotation(title string) mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:          title,
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  true,
	}
}

func writeAnnotation(title string, destructive bool) mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           title,
		DestructiveHint: destructive,
		OpenWorldHint:   true,
	}
}
