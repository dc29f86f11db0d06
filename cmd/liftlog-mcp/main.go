package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/logging"
	liftmcp "github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/training"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// liftlog-mcp serves the MCP tools over stdio against a remote LiftLog
// server, for assistants running on a machine in the same tailnet.
func main() {
	serverURL := flag.String("server", os.Getenv("LIFTLOG_SERVER_URL"), "LiftLog server URL (defaults to $LIFTLOG_SERVER_URL)")
	logFile := flag.String("log-file", "", "write logs to this file instead of stderr")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-mcp", Version)
		return
	}
	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Error: -server is required\n")
		os.Exit(1)
	}

	log, logCloser := logging.New(config.LoggingConfig{
		Level:  os.Getenv("LIFTLOG_LOG_LEVEL"),
		File:   *logFile,
		Stderr: true,
	})
	defer logCloser.Close()

	s := liftmcp.New(liftmcp.NewHTTPClient(*serverURL), training.DefaultThresholds, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("stdio server stopped", "error", err)
		fmt.Fprintf(os.Stderr, "liftlog-mcp: %v\n", err)
		os.Exit(1)
	}
}
