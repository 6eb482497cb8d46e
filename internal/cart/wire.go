package cart

import (
	"database/sql"

	"go.uber.org/zap"

	"stockledger/internal/cart/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLRepository(db)
	guard := NewQuantityGuard(repo)
	uc := NewUseCase(guard, repo)
	return NewController(uc, logger)
}
