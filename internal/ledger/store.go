package ledger

import (
	"context"
	"time"
)

// Entry is one recorded acquisition outcome.
type Entry struct {
	Kind      string
	Name      string
	URL       string
	Path      string
	SizeBytes int64
	Valid     bool
	At        time.Time
}

// Store persists acquisition outcomes so runs can be audited later.
type Store interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}
