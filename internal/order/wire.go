package order

import (
	"database/sql"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"stockledger/internal/config"
	"stockledger/internal/order/consumer"
	"stockledger/internal/order/repository"
	"stockledger/internal/order/service"
)

// NewModule wires the order fulfillment reactor behind the broker consumer.
// The recorder comes from the inventory module.
func NewModule(
	db *sql.DB,
	channel *amqp.Channel,
	cfg *config.Config,
	recorder service.ActivityRecorder,
	logger *zap.Logger,
) *consumer.OrderEventsConsumer {
	orderRepo := repository.NewMySQLOrderRepository(db)
	fulfillmentSvc := service.NewFulfillmentService(recorder, orderRepo, logger)

	return consumer.NewOrderEventsConsumer(channel, cfg.Broker, fulfillmentSvc, logger)
}
