package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/logging"
	"github.com/claude/liftlog/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "LiftLog server URL (e.g. https://liftlog.tail1234.ts.net)")
	exportPath := flag.String("path", "", "directory of export files to upload")
	apiKey := flag.String("api-key", os.Getenv("LIFTLOG_AUTH_API_KEY"), "import API key (defaults to $LIFTLOG_AUTH_API_KEY)")
	stateDir := flag.String("state-dir", "", "directory for the upload state database (defaults to ~/.liftlog-upload)")
	dryRun := flag.Bool("dry-run", false, "list files that would be uploaded without sending them")
	history := flag.Bool("history", false, "print previously uploaded files and exit")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-upload", Version)
		return
	}

	log, logCloser := logging.New(config.LoggingConfig{Level: os.Getenv("LIFTLOG_LOG_LEVEL")})
	defer logCloser.Close()

	if *stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(homeDir, ".liftlog-upload")
	}

	state, err := upload.OpenStateDB(*stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *history {
		printHistory(state)
		return
	}

	if *exportPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-upload -server <URL> -path <export dir> [-api-key KEY] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *serverURL == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
		os.Exit(1)
	}

	dir, err := upload.ResolveDir(*exportPath)
	if err != nil {
		log.Error("export directory not found", "path", *exportPath, "error", err)
		os.Exit(1)
	}
	log.Info("using export directory", "path", dir)

	// nil-safe in dry-run mode
	var client *upload.Client
	if !*dryRun {
		client = upload.NewClient(*serverURL, *apiKey)
	} else {
		log.Info("DRY RUN mode: files will be listed but not sent")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := upload.New(client, state, dir, *dryRun, log).Run(ctx)
	printStats(stats)
	if err != nil {
		log.Error("upload failed", "error", err)
		os.Exit(1)
	}
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded:   %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:    %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Workouts new:     %d\n", stats.WorkoutsInserted)
	fmt.Printf("  Duplicates:       %d\n", stats.WorkoutsDuplicated)
	fmt.Printf("  Rejected:         %d\n", stats.WorkoutsRejected)
	fmt.Println()
}

func printHistory(state *upload.StateDB) {
	uploads, err := state.Uploads()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading upload history: %v\n", err)
		os.Exit(1)
	}
	if len(uploads) == 0 {
		fmt.Println("No files uploaded yet.")
		return
	}
	for _, u := range uploads {
		fmt.Printf("%s  %-40s %8d bytes  %3d workouts\n",
			u.UploadedAt.Format("2006-01-02 15:04"), u.Path, u.Size, u.Inserted)
	}
}
