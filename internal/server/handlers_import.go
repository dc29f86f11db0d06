package server

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/storage"
)

const (
	sourceJSON  = "liftlog"
	sourceAlpha = "alpha"
)

// handleImport accepts a LiftLog JSON export or an Alpha Progression CSV,
// picked by Content-Type. Bodies may be gzip-encoded.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	// Imports authenticate by API key, not tailnet identity; they land on the dev user
	// unless the uploader names one.
	uid := devUserID
	if v := r.URL.Query().Get("user_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user_id"})
			return
		}
		uid = id
	}

	body := io.Reader(r.Body)
	if strings.EqualFold(r.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid gzip body: " + err.Error()})
			return
		}
		defer gz.Close()
		body = gz
	}

	start := time.Now()
	source := sourceJSON
	var (
		result *ingest.Result
		err    error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		source = sourceAlpha
		result, err = s.alpha.Ingest(r.Context(), body, uid)
	} else {
		result, err = s.ingest.Ingest(r.Context(), body, uid)
	}
	s.logImport(uid, source, r.Header.Get("X-Filename"), result, err, int(time.Since(start).Milliseconds()))

	if err != nil {
		s.log.Error("import error", "source", source, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.metrics.CounterImportedWorkouts.WithLabelValues(source, "inserted").Add(float64(result.WorkoutsInserted))
	s.metrics.CounterImportedWorkouts.WithLabelValues(source, "duplicate").Add(float64(result.WorkoutsSkipped))
	s.metrics.CounterImportedWorkouts.WithLabelValues(source, "rejected").Add(float64(result.WorkoutsRejected))
	if result.WorkoutsInserted > 0 {
		s.history.Invalidate(uid)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := s.store.QueryImportLogs(r.Context(), uid, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if logs == nil {
		logs = []storage.ImportLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// handleExport downloads every completed workout as a JSON export that
// /api/v1/import accepts back.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	workouts, err := s.history.Completed(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	name := fmt.Sprintf("liftlog-export-%s.json", s.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := ingest.Encode(w, workouts); err != nil {
		s.log.Error("writing export", "user_id", uid, "error", err)
	}
}

// logImport records an import operation's result to the import_logs table.
func (s *Server) logImport(uid int, source, filename string, result *ingest.Result, importErr error, durationMs int) {
	entry := storage.ImportLog{
		UserID:     uid,
		Source:     source,
		Status:     "success",
		DurationMs: &durationMs,
	}
	if filename != "" {
		entry.Source = source + ":" + filename
	}
	if importErr != nil {
		entry.Status = "error"
		msg := importErr.Error()
		entry.ErrorMessage = &msg
	}
	if result != nil {
		entry.WorkoutsReceived = result.WorkoutsReceived
		entry.WorkoutsInserted = result.WorkoutsInserted
		entry.WorkoutsRejected = result.WorkoutsRejected
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	if _, err := s.store.InsertImportLog(ctx, entry); err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
	}
}

// contextWithTimeout returns a background context with a 5-second timeout,
// so a log write outlives a cancelled request.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
}
