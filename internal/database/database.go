package database

import (
	"log/slog"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"adlens/internal/audiences"
	"adlens/internal/campaigns"
	"adlens/internal/clients"
	"adlens/internal/config"
	"adlens/internal/events"
	"adlens/internal/geo"
	"adlens/internal/metrics"
	"adlens/internal/pages"
	"adlens/internal/products"
	"adlens/internal/subscriptions"
)

// DBManager wraps cartridge's sqlite.Manager with adlens-specific migration methods.
type DBManager struct {
	*sqlite.Manager
	logger *slog.Logger
}

// NewDBManager creates a new database manager using cartridge's sqlite.Manager.
func NewDBManager(cfg *config.Config, logger *slog.Logger) *DBManager {
	sqliteCfg := sqlite.Config{
		Path:         cfg.DatabaseName,
		MaxOpenConns: cfg.GetMaxOpenConns(),
		MaxIdleConns: cfg.GetMaxIdleConns(),
		Logger:       logger,
		EnableWAL:    true,
		TxImmediate:  true,
		BusyTimeout:  5000,
	}

	return &DBManager{
		Manager: sqlite.NewManager(sqliteCfg),
		logger:  logger,
	}
}

// Init initializes the database connection.
func (dm *DBManager) Init() error {
	_, err := dm.Manager.Connect()
	return err
}

// MigrateDatabase runs adlens-specific migrations.
func (dm *DBManager) MigrateDatabase() error {
	db := dm.GetConnection()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	// Run migrations in a transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(
			&geo.Country{},
			&geo.State{},
			&geo.City{},
			&audiences.Audience{},
			&products.Product{},
			&clients.Client{},
			&campaigns.Campaign{},
			&pages.Page{},
			&pages.Metadata{},
			&pages.ContentCache{},
			&metrics.Metric{},
			&events.Event{},
			&subscriptions.Subscription{},
		)
	})
	if err != nil {
		dm.logger.Error("Failed to auto-migrate database", slog.Any("error", err))
		return err
	}

	if err := dm.CheckpointWAL("FULL"); err != nil {
		dm.logger.Warn("Failed to checkpoint WAL after migration", slog.Any("error", err))
	}

	dm.logger.Info("Database migration completed successfully")
	return nil
}
