// Package regional publishes an additive, best-effort event stream to a
// stubbed tier of regional servers over RabbitMQ. It sits outside the
// core client-facing protocol — every operation there completes without
// it — since a central server's local fanout.Hub only reaches its own
// connected clients, and a real deployment needs something to carry the
// same updates to other regions' central servers.
//
// Grounded on internal/shared/mq.RabbitMQ in the retrieved ride-hailing
// corpus: same dial-with-retry shape, same topic-exchange publish call,
// simplified to publish-only since this server has no regional consumer
// to run.
package regional

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ap876/protokol-javni-prevoz/internal/logger"
)

const exchangeName = "transit.events"

// Relay is a best-effort publisher: a broken or absent RabbitMQ broker
// never blocks or fails the operation that triggered a Publish call.
type Relay struct {
	url string
	log *logger.Logger

	mu   sync.RWMutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Connect dials url and declares the topic exchange, retrying with
// bounded exponential backoff. Unlike the store's connection, a failure
// here does not abort startup — each failed attempt is logged, and Publish
// is a silent no-op until an attempt succeeds, since the relay is additive.
func Connect(ctx context.Context, url string, log *logger.Logger) *Relay {
	r := &Relay{url: url, log: log}
	go r.connectLoop(ctx)
	return r
}

func (r *Relay) connectLoop(ctx context.Context) {
	delay := time.Second
	const maxDelay = 30 * time.Second

	for attempt := 1; ; attempt++ {
		if err := r.dial(); err != nil {
			r.log.Warn(logger.Entry{
				Action:  "regional_relay_connect_failed",
				Message: fmt.Sprintf("attempt %d", attempt),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				delay *= 2
				if delay > maxDelay {
					delay = maxDelay
				}
			}
			continue
		}
		r.log.Info(logger.Entry{Action: "regional_relay_connected", Message: r.url})
		return
	}
}

func (r *Relay) dial() error {
	conn, err := amqp.Dial(r.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	r.mu.Lock()
	r.conn, r.ch = conn, ch
	r.mu.Unlock()
	return nil
}

// Publish emits a JSON event with routing key updateType. Failures are
// logged and swallowed.
func (r *Relay) Publish(updateType string, data map[string]string) {
	r.mu.RLock()
	ch := r.ch
	r.mu.RUnlock()
	if ch == nil {
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		r.log.Error(logger.Entry{Action: "regional_relay_marshal_failed", Error: &logger.ErrObj{Msg: err.Error()}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = ch.PublishWithContext(ctx, exchangeName, updateType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		r.log.Warn(logger.Entry{Action: "regional_relay_publish_failed", Message: updateType, Error: &logger.ErrObj{Msg: err.Error()}})
	}
}

func (r *Relay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}
