package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"stockledger/internal/config"
	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
)

const (
	routingKeyOrderConfirmed = "order.confirmed"
	routingKeyOrderCancelled = "order.cancelled"
)

type FulfillmentReactor interface {
	OnOrderConfirmed(ctx context.Context, event dto.OrderEvent) (*dto.FulfillmentResult, error)
	OnOrderCancelled(ctx context.Context, event dto.OrderEvent) (*dto.FulfillmentResult, error)
}

// OrderEventsConsumer feeds order status transitions from the broker into
// the fulfillment reactor. Malformed payloads and unknown routing keys are
// dropped; transient failures are requeued.
type OrderEventsConsumer struct {
	channel  *amqp.Channel
	exchange string
	queue    string
	reactor  FulfillmentReactor
	logger   *zap.Logger
}

func NewOrderEventsConsumer(channel *amqp.Channel, cfg config.BrokerConfig, reactor FulfillmentReactor, logger *zap.Logger) *OrderEventsConsumer {
	return &OrderEventsConsumer{
		channel:  channel,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
		reactor:  reactor,
		logger:   logger,
	}
}

func (c *OrderEventsConsumer) Start(ctx context.Context) error {
	queue, err := c.channel.QueueDeclare(
		c.queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declaring queue %s: %w", c.queue, err)
	}

	for _, key := range []string{routingKeyOrderConfirmed, routingKeyOrderCancelled} {
		if err := c.channel.QueueBind(queue.Name, key, c.exchange, false, nil); err != nil {
			return fmt.Errorf("binding queue to %s: %w", key, err)
		}
		c.logger.Info("listening for order events", zap.String("routingKey", key))
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"stockledger", // consumer tag
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("registering consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			c.handleMessage(ctx, msg)
		}
	}
}

func (c *OrderEventsConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	logger := c.logger.With(zap.String("routingKey", msg.RoutingKey))

	var event dto.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Warn("dropping malformed order event", zap.Error(err))
		msg.Nack(false, false)
		return
	}

	var result *dto.FulfillmentResult
	var err error

	switch msg.RoutingKey {
	case routingKeyOrderConfirmed:
		result, err = c.reactor.OnOrderConfirmed(ctx, event)
	case routingKeyOrderCancelled:
		result, err = c.reactor.OnOrderCancelled(ctx, event)
	default:
		logger.Warn("dropping event with unknown routing key")
		msg.Nack(false, false)
		return
	}

	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			// The order will not appear on redelivery either.
			logger.Warn("dropping event for unknown order",
				zap.Uint("orderId", event.OrderID),
				zap.Error(err))
			msg.Nack(false, false)
			return
		}

		logger.Error("order event handling failed, requeueing",
			zap.Uint("orderId", event.OrderID),
			zap.Error(err))
		msg.Nack(false, true)
		return
	}

	logger.Info("order event processed",
		zap.Uint("orderId", event.OrderID),
		zap.String("status", string(result.Status)))
	msg.Ack(false)
}
