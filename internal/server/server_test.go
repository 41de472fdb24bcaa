package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nakrule/mochi-mcp/internal/mochi"
)

// newTestServer points a real client at a fake upstream and builds the MCP
// server around it.
func newTestServer(t *testing.T, handler http.HandlerFunc, allowWrite bool) *Server {
	t.Helper()
	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)
	client := mochi.NewClient(upstream.URL, "secret", 5*time.Second, nil)
	return New(client, allowWrite, zap.NewNop())
}

func callToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return text.Text
}

var readOnlyToolNames = []string{"list_decks", "get_deck", "list_notes", "get_note"}

var writeToolNames = []string{
	"create_deck", "update_deck", "delete_deck",
	"create_note", "update_note", "delete_note",
}

func toolNames(tools []registeredTool) []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.tool.Name)
	}
	return names
}

func TestReadOnlyModeRegistersOnlyReadTools(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {}, false)

	names := toolNames(s.toolset())
	assert.ElementsMatch(t, readOnlyToolNames, names)
	for _, writeName := range writeToolNames {
		assert.NotContains(t, names, writeName)
	}
}

func TestWriteModeRegistersAllTools(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {}, true)

	names := toolNames(s.toolset())
	assert.ElementsMatch(t, append(append([]string{}, readOnlyToolNames...), writeToolNames...), names)
}

func TestToolAnnotations(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {}, true)

	annotations := map[string]mcp.ToolAnnotation{}
	for _, rt := range s.toolset() {
		annotations[rt.tool.Name] = rt.tool.Annotations
	}

	for _, name := range readOnlyToolNames {
		assert.True(t, annotations[name].ReadOnlyHint, "%s should be read-only", name)
		assert.False(t, annotations[name].DestructiveHint, "%s should not be destructive", name)
	}
	for _, name := range []string{"delete_deck", "delete_note"} {
		assert.True(t, annotations[name].DestructiveHint, "%s should be destructive", name)
		assert.False(t, annotations[name].ReadOnlyHint)
	}
	for _, name := range []string{"create_deck", "create_note", "update_deck", "update_note"} {
		assert.False(t, annotations[name].ReadOnlyHint, "%s is a write tool", name)
		assert.False(t, annotations[name].DestructiveHint, "%s is not destructive", name)
	}
}
