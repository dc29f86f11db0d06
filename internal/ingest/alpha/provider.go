package alpha

import (
	"context"
	"fmt"
	"io"

	"github.com/claude/liftlog/internal/ingest"
)

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	persist *ingest.Provider
}

// NewProvider creates an Alpha Progression provider that stores workouts
// through p.
func NewProvider(p *ingest.Provider) *Provider {
	return &Provider{persist: p}
}

// Ingest parses a CSV export and stores one completed workout per session.
// Sessions imported before are skipped.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	workouts, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	return p.persist.Persist(ctx, workouts, userID)
}
