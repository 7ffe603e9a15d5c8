package jobs

import (
	"log/slog"

	"github.com/karloscodes/cartridge/cache"

	"folio/internal/database"
)

// MaintenanceJob keeps the SQLite database lean: it drops expired cache
// rows and folds the WAL back into the main file. Page views are never
// touched; the visit log is permanent.
type MaintenanceJob struct {
	dbManager *database.DBManager
	logger    *slog.Logger
}

func NewMaintenanceJob(dbManager *database.DBManager, logger *slog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		dbManager: dbManager,
		logger:    logger,
	}
}

func (j *MaintenanceJob) Run() error {
	db := j.dbManager.GetConnection()
	if db == nil {
		j.logger.Error("Maintenance skipped: database connection unavailable")
		return nil
	}

	rowsAffected, err := cache.PurgeAllCaches(db)
	if err != nil {
		j.logger.Error("Failed to purge caches", slog.Any("error", err))
		return err
	}
	if rowsAffected > 0 {
		j.logger.Info("Purged cache rows", slog.Int64("rows_deleted", rowsAffected))
	}

	if err := j.dbManager.CheckpointWAL("TRUNCATE"); err != nil {
		j.logger.Warn("WAL checkpoint failed", slog.Any("error", err))
		return err
	}

	j.logger.Info("Maintenance completed")
	return nil
}
