package inventory

import (
	"database/sql"

	"go.uber.org/zap"

	"stockledger/internal/config"
	"stockledger/internal/inventory/controller"
	"stockledger/internal/inventory/repository"
	"stockledger/internal/inventory/service"
	"stockledger/internal/inventory/usecase"
)

// NewModule wires the inventory slice. The record use case is returned
// separately because the order module drives it too.
func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) (*controller.ActivityController, *usecase.RecordActivityUseCase) {
	stockRepo := repository.NewMySQLStockRepository(db)
	ledgerRepo := repository.NewMySQLLedgerRepository(db)

	recorderSvc := service.NewRecorderService(
		db,
		stockRepo,
		ledgerRepo,
		logger,
		cfg.Inventory.TxTimeout,
	)

	recordUC := usecase.NewRecordActivityUseCase(recorderSvc, logger, cfg.Inventory.MaxRetryAttempts)
	listUC := usecase.NewListActivitiesUseCase(ledgerRepo)

	return controller.NewActivityController(recordUC, listUC, logger), recordUC
}
