// Command mochi-mcp serves the Mochi flashcard API as MCP tools and
// resources over stdio.
//
// Configuration:
//
//	MOCHI_API_KEY         - API key for api.mochi.cards (required)
//	MOCHI_BASE_URL        - API base URL (default: https://api.mochi.cards/v1)
//	MOCHI_REQUEST_TIMEOUT - per-request timeout in seconds (default: 30)
//
// A .env file in the working directory is honored. CLI flags override the
// environment. The server is read-only unless started with --allow-write.
package main

import (
	"flag"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/nakrule/mochi-mcp/internal/config"
	"github.com/nakrule/mochi-mcp/internal/mochi"
	"github.com/nakrule/mochi-mcp/internal/server"
)

func main() {
	allowWrite := flag.Bool("allow-write", false,
		"Enable write tools (create/update/delete). Defaults to read-only mode.")
	baseURL := flag.String("base-url", "",
		"Override the Mochi API base URL (defaults to "+mochi.DefaultBaseURL+").")
	timeout := flag.Float64("timeout", 0,
		"HTTP timeout in seconds for API requests.")
	logLevel := flag.String("log-level", "",
		"Logging level (debug, info, warn, error).")
	flag.Parse()

	settings, err := config.Load(config.Overrides{
		BaseURL:    *baseURL,
		Timeout:    *timeout,
		AllowWrite: *allowWrite,
		LogLevel:   *logLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	client := mochi.NewClient(settings.BaseURL, settings.APIKey, settings.Timeout,
		logger.Named("mochi"))
	srv := server.New(client, settings.AllowWrite, logger.Named("server"))

	if err := srv.Run(); err != nil {
		logger.Error("MCP server exited", zap.Error(err))
		os.Exit(1)
	}
}

// newLogger builds the process logger. Output goes to stderr only; stdout
// carries the MCP protocol stream.
func newLogger(settings config.Settings) (*zap.Logger, error) {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(settings.LogLevel)
	logConfig.OutputPaths = []string{"stderr"}
	logConfig.ErrorOutputPaths = []string{"stderr"}
	return logConfig.Build()
}
