package upload

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/liftlog/internal/importer"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	WorkoutsInserted   int
	WorkoutsDuplicated int
	WorkoutsRejected   int
}

// Uploader walks an export directory and POSTs every new file to the
// LiftLog server.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{client: client, state: state, dir: dir, dryRun: dryRun, log: log}
}

// Run uploads every export file under the directory that has not been
// uploaded before with the same size and content.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	err := filepath.WalkDir(u.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || importer.Format(d.Name()) == nil {
			return nil
		}
		u.stats.FilesTotal++
		return u.uploadFile(ctx, path)
	})
	return &u.stats, err
}

func (u *Uploader) uploadFile(ctx context.Context, path string) error {
	relPath, _ := filepath.Rel(u.dir, path)
	info, err := os.Stat(path)
	if err != nil {
		u.log.Warn("stat failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	hash, err := HashFile(path)
	if err != nil {
		u.log.Warn("hash failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
	if err != nil {
		u.log.Warn("state check failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	if uploaded {
		u.stats.FilesSkipped++
		return nil
	}

	if u.dryRun {
		u.log.Info("dry-run: would upload", "file", relPath, "bytes", info.Size())
		u.stats.FilesUploaded++
		return nil
	}

	body, err := os.ReadFile(path)
	if err != nil {
		u.log.Warn("read failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	result, err := u.client.Send(ctx, fileFor(relPath, body))
	if err != nil {
		return err
	}

	u.stats.FilesUploaded++
	u.stats.WorkoutsInserted += result.WorkoutsInserted
	u.stats.WorkoutsDuplicated += result.WorkoutsSkipped
	u.stats.WorkoutsRejected += result.WorkoutsRejected
	if err := u.state.MarkUploaded(relPath, info.Size(), hash, result.WorkoutsInserted); err != nil {
		u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
	}
	u.log.Info("uploaded file", "file", relPath,
		"inserted", result.WorkoutsInserted, "duplicates", result.WorkoutsSkipped, "rejected", result.WorkoutsRejected)
	return nil
}

// fileFor describes an export by its name: content type from the inner
// extension, gzip from a trailing .gz.
func fileFor(name string, body []byte) File {
	lower := strings.ToLower(name)
	f := File{Name: filepath.Base(name), Body: body, ContentType: "application/json"}
	if trimmed, ok := strings.CutSuffix(lower, ".gz"); ok {
		f.Gzipped = true
		lower = trimmed
	}
	if strings.HasSuffix(lower, ".csv") {
		f.ContentType = "text/csv"
	}
	return f
}

// ResolveDir checks that path is a readable directory.
func ResolveDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}
