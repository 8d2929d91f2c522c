package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/infra/metrics"
)

// MailSender delivers one outreach email.
type MailSender interface {
	SendOutreach(ctx context.Context, to, name, subject, body string) error
}

// Consumer is the part of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Sender  MailSender
	Logger  *zap.Logger
}

func NewWorker(ch Consumer, sender MailSender, logger *zap.Logger) *Worker {
	return &Worker{
		Channel: ch,
		Sender:  sender,
		Logger:  logger,
	}
}

// Start consumes queueName until ctx is cancelled or the broker closes the
// delivery channel.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.Info("worker waiting for outreach", zap.String("queue", queueName))
	return w.Run(ctx, msgs)
}

// Run acks each delivery that was sent and rejects, without requeue, the ones
// that could not be decoded or sent so they land in the dead-letter queue.
func (w *Worker) Run(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload OutreachPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.Logger.Error("invalid outreach message", zap.String("message_id", d.MessageId), zap.Error(err))
		metrics.RecordOutreachDispatch("send", "invalid")
		d.Nack(false, false)
		return
	}

	log := w.Logger.With(
		zap.String("message_id", payload.MessageID),
		zap.Int64("lead_id", payload.LeadID),
		zap.Int64("interaction_id", payload.InteractionID),
	)

	if err := w.processMessage(ctx, payload); err != nil {
		log.Error("outreach send failed", zap.Error(err))
		metrics.RecordOutreachDispatch("send", "error")
		metrics.RecordIntegrationError("smtp")
		d.Nack(false, false)
		return
	}

	log.Info("outreach sent")
	metrics.RecordOutreachDispatch("send", "ok")
	d.Ack(false)
}

func (w *Worker) processMessage(ctx context.Context, payload OutreachPayload) error {
	switch payload.Channel {
	case "email", "":
		return w.Sender.SendOutreach(ctx, payload.To, payload.Name, payload.Subject, payload.Body)
	default:
		return fmt.Errorf("channel %q cannot be delivered automatically", payload.Channel)
	}
}
