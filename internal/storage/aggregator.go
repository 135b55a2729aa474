package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"poetrade/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

const masterPrefix = "MASTER_"

// MasterFile is the on-disk shape of the deduplicated union of all
// category files. Derived from disk state, regenerated on demand.
type MasterFile struct {
	Metadata MasterMetadata      `json:"metadata"`
	Items    []domain.ItemRecord `json:"items"`
}

type MasterMetadata struct {
	TotalUniqueItems int       `json:"total_unique_items"`
	ScrapeDate       time.Time `json:"scrape_date"`
}

// WriteMasterFile merges every category file in dir into one deduplicated
// master file and returns its path and item count. The progress file and
// prior master files are skipped. Files are visited in sorted name order so
// the first-occurrence-wins dedup is deterministic.
func WriteMasterFile(dir, progressFileName string) (string, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", 0, fmt.Errorf("failed to list output directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if name == progressFileName || strings.HasPrefix(name, masterPrefix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]struct{})
	var items []domain.ItemRecord

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", 0, fmt.Errorf("failed to read category file %s: %w", path, err)
		}

		var doc CategoryFile
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Warnf("⚠ Skipping unparseable file %s: %v", path, err)
			continue
		}

		for _, item := range doc.Items {
			if item.ID == "" {
				continue
			}
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			items = append(items, item)
		}
	}

	master := MasterFile{
		Metadata: MasterMetadata{
			TotalUniqueItems: len(items),
			ScrapeDate:       time.Now(),
		},
		Items: items,
	}

	data, err := json.MarshalIndent(master, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode master file: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s%d_items.json", masterPrefix, len(items)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("failed to write master file %s: %w", path, err)
	}

	log.Infof("✅ Master file created: %s (%d unique items from %d category files)",
		path, len(items), len(names))
	return path, len(items), nil
}
