package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) SendOutreach(ctx context.Context, to, name, subject, body string) error {
	args := m.Called(ctx, to, name, subject, body)
	return args.Error(0)
}

type capturePublisher struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (p *capturePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	p.exchange, p.key, p.msg = exchange, key, msg
	return p.err
}

// ackRecorder stands in for the broker side of a delivery.
type ackRecorder struct {
	mu     sync.Mutex
	acked  []uint64
	nacked []uint64
}

func (a *ackRecorder) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *ackRecorder) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !requeue {
		a.nacked = append(a.nacked, tag)
	}
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *ackRecorder) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.acked), len(a.nacked)
}

func samplePayload() OutreachPayload {
	return OutreachPayload{
		MessageID:     "6f1c2b1e-8d1c-4c1a-9a55-2a4b5f0f1d10",
		LeadID:        7,
		InteractionID: 12,
		Channel:       "email",
		To:            "pat@acme.com",
		Name:          "Pat Lee",
		Subject:       "Quick idea",
		Body:          "Hi Pat, worth a chat?",
		Origin:        "leadflow",
	}
}

func delivery(t *testing.T, ack amqp.Acknowledger, tag uint64, payload any) amqp.Delivery {
	t.Helper()
	var body []byte
	switch p := payload.(type) {
	case []byte:
		body = p
	default:
		var err error
		body, err = json.Marshal(p)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Body: body}
}

func TestProducerPublishesPersistentJSON(t *testing.T) {
	pub := &capturePublisher{}
	payload := samplePayload()

	require.NoError(t, NewProducer(pub).DispatchOutreach(context.Background(), payload))

	assert.Equal(t, ExchangeName, pub.exchange)
	assert.Equal(t, RoutingKey, pub.key)
	assert.Equal(t, "application/json", pub.msg.ContentType)
	assert.Equal(t, payload.MessageID, pub.msg.MessageId)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.False(t, pub.msg.Timestamp.IsZero())

	var got OutreachPayload
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, payload, got)
}

func TestProducerWrapsPublishError(t *testing.T) {
	pub := &capturePublisher{err: amqp.ErrClosed}

	err := NewProducer(pub).DispatchOutreach(context.Background(), samplePayload())
	assert.ErrorIs(t, err, amqp.ErrClosed)
	assert.ErrorContains(t, err, "publish to rabbitmq")
}

func TestWorkerAcksAndRejects(t *testing.T) {
	defer goleak.VerifyNone(t)

	sender := new(MockMailSender)
	sender.On("SendOutreach", mock.Anything, "pat@acme.com", "Pat Lee", "Quick idea", "Hi Pat, worth a chat?").Return(nil).Once()
	sender.On("SendOutreach", mock.Anything, "riley@nimbus.ai", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp: 550 mailbox unavailable")).Once()

	failing := samplePayload()
	failing.To = "riley@nimbus.ai"
	linkedin := samplePayload()
	linkedin.Channel = "linkedin"

	acks := &ackRecorder{}
	msgs := make(chan amqp.Delivery, 4)
	msgs <- delivery(t, acks, 1, samplePayload())
	msgs <- delivery(t, acks, 2, []byte("{not json"))
	msgs <- delivery(t, acks, 3, failing)
	msgs <- delivery(t, acks, 4, linkedin)
	close(msgs)

	w := NewWorker(nil, sender, zap.NewNop())
	err := w.Run(context.Background(), msgs)
	assert.EqualError(t, err, "delivery channel closed")

	assert.Equal(t, []uint64{1}, acks.acked)
	assert.Equal(t, []uint64{2, 3, 4}, acks.nacked)
	sender.AssertExpectations(t)
}

func TestWorkerStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	sender := new(MockMailSender)
	sender.On("SendOutreach", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	acks := &ackRecorder{}
	msgs := make(chan amqp.Delivery)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewWorker(nil, sender, zap.NewNop()).Run(ctx, msgs)
	}()

	msgs <- delivery(t, acks, 1, samplePayload())
	require.Eventually(t, func() bool {
		acked, _ := acks.counts()
		return acked == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

type fakeConsumer struct {
	msgs  chan amqp.Delivery
	queue string
	err   error
}

func (c *fakeConsumer) Consume(queue, _ string, autoAck, _, _, _ bool, _ amqp.Table) (<-chan amqp.Delivery, error) {
	c.queue = queue
	if autoAck {
		return nil, errors.New("worker must ack manually")
	}
	return c.msgs, c.err
}

func TestWorkerStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := &fakeConsumer{msgs: make(chan amqp.Delivery)}
	close(ch.msgs)

	err := NewWorker(ch, new(MockMailSender), zap.NewNop()).Start(context.Background(), QueueName)
	assert.EqualError(t, err, "delivery channel closed")
	assert.Equal(t, QueueName, ch.queue)

	ch = &fakeConsumer{err: amqp.ErrClosed}
	err = NewWorker(ch, new(MockMailSender), zap.NewNop()).Start(context.Background(), QueueName)
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestDirectDispatcher(t *testing.T) {
	sender := new(MockMailSender)
	sender.On("SendOutreach", mock.Anything, "pat@acme.com", "Pat Lee", "Quick idea", "Hi Pat, worth a chat?").Return(nil).Once()

	d := NewDirectDispatcher(sender)
	require.NoError(t, d.DispatchOutreach(context.Background(), samplePayload()))

	tweet := samplePayload()
	tweet.Channel = "twitter"
	assert.ErrorContains(t, d.DispatchOutreach(context.Background(), tweet), `channel "twitter"`)

	sender.AssertExpectations(t)
}

func TestDirectDispatcherReturnsSendError(t *testing.T) {
	sender := new(MockMailSender)
	sendErr := errors.New("smtp: 421 try later")
	sender.On("SendOutreach", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sendErr)

	err := NewDirectDispatcher(sender).DispatchOutreach(context.Background(), samplePayload())
	assert.ErrorIs(t, err, sendErr)
}

func TestHealthyOnNilBroker(t *testing.T) {
	var r *RabbitMQ
	assert.False(t, r.Healthy())
	assert.False(t, (&RabbitMQ{}).Healthy())
}
