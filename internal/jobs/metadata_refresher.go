package jobs

import (
	"time"

	"log/slog"

	"adlens/internal/config"
	"adlens/internal/database"
	"adlens/internal/pages"
)

// MetadataRefresherJob re-extracts metadata for every active page so that
// edits to the tracked landing pages eventually show up in search and the
// dashboard without a manual save.
type MetadataRefresherJob struct {
	dbManager *database.DBManager
	logger    *slog.Logger
	cfg       *config.Config
}

func NewMetadataRefresherJob(dbManager *database.DBManager, logger *slog.Logger, cfg *config.Config) *MetadataRefresherJob {
	return &MetadataRefresherJob{
		dbManager: dbManager,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run refreshes every active page. A single failing page is logged and
// skipped; the sweep keeps going.
func (j *MetadataRefresherJob) Run() error {
	db := j.dbManager.GetConnection()

	pagesList, err := pages.Active(db)
	if err != nil {
		j.logger.Error("Failed to list pages for metadata refresh", slog.Any("error", err))
		return err
	}
	if len(pagesList) == 0 {
		return nil
	}

	timeout := time.Duration(j.cfg.MetadataFetchTimeout) * time.Second
	extractor, err := pages.NewExtractor(db, j.logger, timeout)
	if err != nil {
		return err
	}

	refreshed := 0
	for i := range pagesList {
		if _, err := extractor.Refresh(&pagesList[i]); err != nil {
			j.logger.Warn("Metadata refresh failed for page",
				slog.Uint64("pageId", uint64(pagesList[i].ID)),
				slog.String("url", pagesList[i].URL),
				slog.Any("error", err))
			continue
		}
		refreshed++
	}

	j.logger.Info("Metadata refresh sweep completed",
		slog.Int("pages", len(pagesList)),
		slog.Int("refreshed", refreshed))
	return nil
}
