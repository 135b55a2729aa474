package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"poetrade/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

type fileStore struct {
	path string
}

// NewFileStore persists the checkpoint as a JSON file at path
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (s *fileStore) Load(ctx context.Context) (*domain.ProgressState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Infof("No progress file at %s, starting fresh", s.path)
			return domain.NewProgressState(), nil
		}
		return nil, fmt.Errorf("failed to read progress file %s: %w", s.path, err)
	}

	state := domain.NewProgressState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptCheckpoint, s.path, err)
	}

	log.Infof("Loaded progress: %d completed categories, %d seen items",
		len(state.CompletedCategories), len(state.SeenItemIDs))
	return state, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target, so a crash mid-write never corrupts the previous checkpoint.
func (s *fileStore) Save(ctx context.Context, state *domain.ProgressState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode progress state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".progress-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp progress file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write progress file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close progress file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace progress file %s: %w", s.path, err)
	}
	return nil
}
