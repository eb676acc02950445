package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

// reconcileWordAnalytics applies one upsert per entry. It must run inside the
// session transaction; the first failing upsert aborts the whole batch.
func reconcileWordAnalytics(ctx context.Context, repo repository.WordAnalyticsRepository, flashcardID string, entries []models.WordAnalysis, at time.Time) error {
	if len(entries) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	applied := 0
	for i, entry := range entries {
		if strings.TrimSpace(entry.WordKey) == "" {
			log.Warn("skipping word analysis entry %d: empty wordKey", i)
			continue
		}
		if _, err := repo.Upsert(ctx, flashcardID, entry, at); err != nil {
			return fmt.Errorf("upsert word analytics %q: %w", entry.WordKey, err)
		}
		applied++
	}

	log.Debug("word analytics reconciled: applied=%d, skipped=%d", applied, len(entries)-applied)
	return nil
}
