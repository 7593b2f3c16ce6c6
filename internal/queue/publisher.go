package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/metrics"
)

// Publisher sends events to RabbitMQ.  Each publish opens its own
// connection; fixture completions are rare enough that pooling is not worth
// the reconnect bookkeeping.
type Publisher struct {
	url string
	log *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{url: url, log: log}
}

// PublishFixtureCompleted publishes ev to the fixture.completed queue as a
// persistent JSON message.  Errors are logged and returned so the caller can
// choose to ignore them.
func (p *Publisher) PublishFixtureCompleted(ctx context.Context, ev FixtureCompletedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return p.fail(FixtureCompletedQueue, "marshal event", err)
	}
	return p.publish(ctx, FixtureCompletedQueue, body)
}

func (p *Publisher) publish(ctx context.Context, queue string, body []byte) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return p.fail(queue, "dial", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return p.fail(queue, "channel open", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return p.fail(queue, "queue declare", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return p.fail(queue, "publish", err)
	}
	metrics.EventsPublished.WithLabelValues(queue, metrics.ResultOK).Inc()
	p.log.Debug("event published", zap.String("queue", queue))
	return nil
}

func (p *Publisher) fail(queue, step string, err error) error {
	metrics.EventsPublished.WithLabelValues(queue, metrics.ResultError).Inc()
	p.log.Warn("rabbitmq: "+step+" failed", zap.String("queue", queue), zap.Error(err))
	return err
}
