package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"poetrade/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

// CategoryFile is the on-disk shape of one category's results
type CategoryFile struct {
	Metadata CategoryMetadata    `json:"metadata"`
	Items    []domain.ItemRecord `json:"items"`
}

type CategoryMetadata struct {
	Category   string    `json:"category"`
	TotalItems int       `json:"total_items"`
	ScrapeDate time.Time `json:"scrape_date"`
	Subdivided bool      `json:"subdivided,omitempty"`
	Status     string    `json:"status,omitempty"`
}

// SanitizeName maps a category name to a safe file name
func SanitizeName(name string) string {
	r := strings.NewReplacer(" ", "_", "|", "-", "/", "-", ":", "")
	return r.Replace(name)
}

// WriteCategoryFile persists one category result as JSON. Empty item lists
// write nothing and return an empty path. Subdivided results get a
// _COMBINED suffix so the single combined file is recognizable on disk.
func WriteCategoryFile(dir string, result *domain.CategoryResult) (string, error) {
	if len(result.Items) == 0 {
		return "", nil
	}

	name := SanitizeName(result.Category.Name)
	if result.Subdivided {
		name += "_COMBINED"
	}
	path := filepath.Join(dir, name+".json")

	doc := CategoryFile{
		Metadata: CategoryMetadata{
			Category:   result.Category.Name,
			TotalItems: len(result.Items),
			ScrapeDate: time.Now(),
			Subdivided: result.Subdivided,
			Status:     string(result.Status),
		},
		Items: result.Items,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode category file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write category file %s: %w", path, err)
	}

	log.Infof("💾 Saved %d items to %s", len(result.Items), path)
	return path, nil
}

// EnsureDir creates the output directory if it does not exist
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}
