package service

import (
	"context"
	"fmt"

	"poetrade/scraper/internal/category"
	"poetrade/scraper/internal/client"
	"poetrade/scraper/internal/config"
	"poetrade/scraper/internal/domain"
	"poetrade/scraper/internal/progress"
	"poetrade/scraper/internal/repository"
	"poetrade/scraper/internal/storage"

	log "github.com/sirupsen/logrus"
)

// Service runs the category pipeline: search, subdivide or fetch, persist,
// checkpoint. Strictly sequential; the only suspension points are the
// configured delays and the client's rate-limit cooldown.
type Service struct {
	client           client.TradeClient
	store            progress.Store
	repository       repository.ItemRepository
	trade            config.TradeConfig
	outputDir        string
	progressFileName string
}

func NewService(
	tradeClient client.TradeClient,
	store progress.Store,
	repo repository.ItemRepository,
	cfg *config.Config,
) *Service {
	return &Service{
		client:           tradeClient,
		store:            store,
		repository:       repo,
		trade:            cfg.Trade,
		outputDir:        cfg.Output.Dir,
		progressFileName: cfg.Output.ProgressFile,
	}
}

// RunSession scrapes one predefined category batch, skipping categories
// completed in prior runs and checkpointing after every category.
func (s *Service) RunSession(ctx context.Context, number int) error {
	sess, err := category.FindSession(number)
	if err != nil {
		return err
	}

	state, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	log.Infof("🚀 Session %d (%s): %d categories, %d already completed, %d unique items so far",
		sess.Number, sess.Name, len(sess.Categories),
		len(state.CompletedCategories), len(state.SeenItemIDs))

	newItems := 0
	for i, cat := range sess.Categories {
		if state.IsCompleted(cat.Name) {
			log.Infof("⏭ [%d/%d] Skipping %s (already completed)", i+1, len(sess.Categories), cat.Name)
			continue
		}

		log.Infof("▶ [%d/%d] %s", i+1, len(sess.Categories), cat.Name)
		result := s.runCategory(ctx, cat, true)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		added := 0
		for _, item := range result.Items {
			if item.ID == "" {
				continue
			}
			if state.MarkSeen(item.ID) {
				added++
			}
		}
		newItems += added
		if added > 0 {
			log.Infof("→ Added %d new unique items", added)
		}

		// Checkpoint regardless of outcome so a rerun resumes past this
		// category. Degraded categories are visible via their file status.
		state.MarkCompleted(cat.Name)
		if err := s.store.Save(ctx, state); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		if i < len(sess.Categories)-1 {
			if err := sleepCtx(ctx, s.trade.SearchDelay); err != nil {
				return err
			}
		}
	}

	log.Infof("✅ Session %d complete: %d new unique items, %d total unique items",
		sess.Number, newItems, len(state.SeenItemIDs))
	return nil
}

// Aggregate merges all category files into one deduplicated master file
func (s *Service) Aggregate(ctx context.Context) (string, int, error) {
	return storage.WriteMasterFile(s.outputDir, s.progressFileName)
}

// runCategory collects a category's items and persists them. One file per
// category; subdivision groups produce a single combined file.
func (s *Service) runCategory(ctx context.Context, cat domain.Category, allowSubdivide bool) *domain.CategoryResult {
	result := s.collectCategory(ctx, cat, allowSubdivide)

	if len(result.Items) > 0 {
		if err := s.repository.SaveItems(ctx, cat.Name, result.Items); err != nil {
			log.Errorf("❌ Failed to mirror %s into the database: %v", cat.Name, err)
		}
		if _, err := storage.WriteCategoryFile(s.outputDir, result); err != nil {
			log.Errorf("❌ Failed to write category file for %s: %v", cat.Name, err)
		}
	}
	return result
}

// collectCategory drives the per-category state machine:
// search -> (subdivide | fetch) without touching disk.
func (s *Service) collectCategory(ctx context.Context, cat domain.Category, allowSubdivide bool) *domain.CategoryResult {
	result := &domain.CategoryResult{Category: cat, Status: domain.StatusFailed}

	searchResult, err := s.client.Search(ctx, cat.Filters)
	if err != nil {
		log.Errorf("❌ Search failed for %s: %v", cat.Name, err)
		return result
	}

	if len(searchResult.IDs) == 0 {
		log.Infof("∅ No items found for %s", cat.Name)
		result.Status = domain.StatusEmpty
		return result
	}

	log.Infof("🔍 %s: %d total matches, %d IDs in window", cat.Name, searchResult.Total, len(searchResult.IDs))

	if searchResult.Windowed() {
		if allowSubdivide {
			return s.collectSubdivided(ctx, cat)
		}
		// One level of subdivision only; a windowed sub-range stays truncated
		log.Warnf("⚠ %s still exceeds the %d-ID window, results are truncated",
			cat.Name, domain.IDWindowLimit)
	}

	items, failedBatches, err := s.client.FetchItems(ctx, searchResult.IDs, searchResult.QueryToken)
	result.Items = items
	result.FailedBatches = failedBatches
	if err != nil {
		log.Errorf("❌ Fetch aborted for %s: %v", cat.Name, err)
	}
	result.Status = rollUpStatus(len(items), failedBatches, err)
	return result
}

// collectSubdivided partitions the item-level axis into the fixed ranges and
// collects each sub-range with subdivision disabled, combining everything
// into one result tagged subdivided.
func (s *Service) collectSubdivided(ctx context.Context, cat domain.Category) *domain.CategoryResult {
	log.Warnf("⚠ %s hit the %d-ID window, subdividing by item level", cat.Name, domain.IDWindowLimit)

	combined := &domain.CategoryResult{Category: cat, Subdivided: true}
	subs := category.Subdivide(cat)

	for i, sub := range subs {
		log.Infof("  → %s", sub.Name)
		subResult := s.collectCategory(ctx, sub, false)
		combined.Items = append(combined.Items, subResult.Items...)
		combined.FailedBatches += subResult.FailedBatches
		if subResult.Status == domain.StatusFailed {
			combined.FailedBatches++
		}
		if ctx.Err() != nil {
			break
		}

		if i < len(subs)-1 {
			if err := sleepCtx(ctx, s.trade.SubdivideDelay); err != nil {
				break
			}
		}
	}

	combined.Status = rollUpStatus(len(combined.Items), combined.FailedBatches, nil)
	log.Infof("✅ Subdivision of %s complete: %d items from %d ranges",
		cat.Name, len(combined.Items), len(subs))
	return combined
}

func rollUpStatus(itemCount, failedBatches int, err error) domain.CategoryStatus {
	switch {
	case itemCount == 0 && (err != nil || failedBatches > 0):
		return domain.StatusFailed
	case itemCount == 0:
		return domain.StatusEmpty
	case err != nil || failedBatches > 0:
		return domain.StatusPartial
	default:
		return domain.StatusComplete
	}
}
