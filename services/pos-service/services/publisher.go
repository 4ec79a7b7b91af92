package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	awspkg "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/pkg/aws"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

// OrderEventStream is satisfied by the Kafka producer.
type OrderEventStream interface {
	PublishOrderCompleted(ctx context.Context, evt models.OrderCompletedEvent) error
}

// OrderEventPublisher fans order.completed out to Kafka and SNS. Either side
// may be absent. Failures are logged and dropped.
type OrderEventPublisher struct {
	stream      OrderEventStream
	snsClient   awspkg.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

func NewOrderEventPublisher(stream OrderEventStream, snsClient awspkg.SNSPublisher, snsTopicArn string, logger *zap.Logger) *OrderEventPublisher {
	return &OrderEventPublisher{stream: stream, snsClient: snsClient, snsTopicArn: snsTopicArn, logger: logger}
}

func (p *OrderEventPublisher) OrderCompleted(ctx context.Context, evt models.OrderCompletedEvent) {
	if p.stream != nil {
		if err := p.stream.PublishOrderCompleted(ctx, evt); err != nil {
			p.logger.Warn("Failed to stream order event", zap.String("order_id", evt.OrderID), zap.Error(err))
		}
	}

	if p.snsClient == nil || p.snsTopicArn == "" {
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("Failed to marshal order event", zap.Error(err))
		return
	}
	attrs := map[string]string{
		"event_type":     evt.EventType,
		"terminal_id":    evt.TerminalID,
		"payment_method": string(evt.PaymentMethod),
	}
	if err := p.snsClient.Publish(ctx, p.snsTopicArn, payload, attrs); err != nil {
		p.logger.Warn("Failed to publish order event to SNS", zap.String("order_id", evt.OrderID), zap.Error(err))
	}
}
