// monday-mcp: monday.com MCP Server
//
// An MCP server that connects AI agent hosts (Claude Code, OpenCode,
// Cursor, and anything else speaking MCP over stdio) to monday.com:
// boards, items, updates, docs, plus background update notifications
// and session/contact integrations.
//
// Usage:
//
//	monday-mcp serve    # Start MCP server (stdio transport)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/openclaw/monday-mcp/internal/config"
	mondayserver "github.com/openclaw/monday-mcp/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("monday-mcp v%s\n", mondayserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := flags.String("config", "", "config file path (default: user config dir)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	path := *configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs go to stderr: stdout belongs to the MCP stdio transport.
	log := newLogger(cfg.LogLevel)

	// Root context for background polling; cancelled on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, cleanup, err := mondayserver.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	log.Info().Str("version", mondayserver.Version).Msg("starting monday-mcp on stdio")
	return server.ServeStdio(s)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `monday-mcp v%s — monday.com MCP Server

Usage:
  monday-mcp serve [-config path]   Start the MCP server (stdio transport)

Configuration:
  Set MONDAY_API_TOKEN in the environment, or put "token:" in
  ~/.config/monday-mcp/config.yaml. Then add to your AI tool's MCP config:

  {
    "mcpServers": {
      "monday": {
        "command": "monday-mcp",
        "args": ["serve"],
        "env": { "MONDAY_API_TOKEN": "your-token" }
      }
    }
  }
`, mondayserver.Version)
}
