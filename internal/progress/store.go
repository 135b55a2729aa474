package progress

import (
	"context"
	"errors"

	"poetrade/scraper/internal/domain"
)

// ErrCorruptCheckpoint signals an existing but unreadable progress file.
// A missing file is a clean first run; a corrupt one needs operator
// attention and must not be silently discarded.
var ErrCorruptCheckpoint = errors.New("progress checkpoint is corrupt")

// Store persists the progress checkpoint between runs
type Store interface {
	// Load returns the last persisted state, or a fresh empty state when
	// nothing was persisted yet.
	Load(ctx context.Context) (*domain.ProgressState, error)
	// Save overwrites the checkpoint with the given state.
	Save(ctx context.Context, state *domain.ProgressState) error
}
