// Package server wires the Mochi API client into an MCP server: tool and
// resource registration, argument validation, and response rendering.
package server

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/nakrule/mochi-mcp/internal/mochi"
)

const (
	serverName    = "mochi-mcp"
	serverVersion = "1.0.0"
)

const readOnlyInstructions = `Interact with the Mochi flashcard API through MCP tools.
The server authenticates with the API using the configured MOCHI_API_KEY.
Write operations are disabled; only read-only tools are available.`

const writeInstructions = `Interact with the Mochi flashcard API through MCP tools.
The server authenticates with the API using the configured MOCHI_API_KEY.
Write tools are enabled; use destructive operations carefully.`

// Server exposes the Mochi API as MCP tools and resources over stdio.
type Server struct {
	client     *mochi.Client
	logger     *zap.Logger
	allowWrite bool
	mcpServer  *server.MCPServer
}

// New builds the MCP server. The tool set is fixed here for the lifetime of
// the process: write tools exist only when allowWrite is set.
func New(client *mochi.Client, allowWrite bool, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		client:     client,
		logger:     logger,
		allowWrite: allowWrite,
	}

	instructions := readOnlyInstructions
	if allowWrite {
		instructions = writeInstructions
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithInstructions(instructions),
		server.WithResourceCapabilities(false, true),
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	for _, t := range s.toolset() {
		s.mcpServer.AddTool(t.tool, t.handler)
	}
	s.registerResources()

	return s
}

// Run serves MCP over stdio until the stream closes.
func (s *Server) Run() error {
	s.logger.Info("serving MCP over stdio",
		zap.Bool("allow_write", s.allowWrite))
	return server.ServeStdio(s.mcpServer)
}
