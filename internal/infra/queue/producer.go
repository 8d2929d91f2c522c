package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/leadflow/internal/infra/metrics"
)

// OutreachPayload is one approved outreach draft on its way to the lead.
type OutreachPayload struct {
	MessageID     string `json:"message_id"`
	LeadID        int64  `json:"lead_id"`
	InteractionID int64  `json:"interaction_id"`
	Channel       string `json:"channel"`
	To            string `json:"to"`
	Name          string `json:"name"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	Origin        string `json:"origin"`
}

// Publisher is the part of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) DispatchOutreach(ctx context.Context, payload OutreachPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode outreach payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    payload.MessageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		metrics.RecordOutreachDispatch("publish", "error")
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}

	metrics.RecordOutreachDispatch("publish", "ok")
	return nil
}
