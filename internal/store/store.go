// Package store persists the leads produced by directory searches.
package store

import (
	"context"
	"time"
)

// SearchRun captures one completed directory search.
type SearchRun struct {
	ID           string
	UserID       int64
	BusinessType string
	City         string
	Pages        int
	RequestedAt  time.Time
}

// Lead is one business record attributed to a search run.
type Lead struct {
	RunID   string
	Name    string
	Address string
	Phone   string
	Website string
}

// Store saves search runs and their leads. Implementations are best-effort
// sinks: callers log failures but never block the chat reply on them.
type Store interface {
	SaveRun(ctx context.Context, run SearchRun, leads []Lead) error
	Close()
}

// Noop discards everything. Used when lead persistence is disabled.
type Noop struct{}

// SaveRun drops the run.
func (Noop) SaveRun(context.Context, SearchRun, []Lead) error { return nil }

// Close is a no-op.
func (Noop) Close() {}
