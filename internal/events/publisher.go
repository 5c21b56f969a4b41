package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// Ключи маршрутизации событий.
const (
	AccountRegistered = "account.registered"
	AccountDeleted    = "account.deleted"
)

// AccountEvent тело события об учётной записи.
type AccountEvent struct {
	Type       string    `json:"type"`
	AccountID  string    `json:"account_id"`
	Username   string    `json:"username,omitempty"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher публикует JSON-сообщения в topic exchange.
type Publisher struct {
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

// NewPublisher открывает канал и объявляет exchange.
func NewPublisher(conn *amqp.Connection, exchange string) (*Publisher, error) {
	const op = "events.NewPublisher"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Publisher{ch: ch, exchange: exchange}, nil
}

// Publish сериализует message в JSON и отправляет с ключом routingKey.
func (p *Publisher) Publish(ctx context.Context, routingKey string, message any) error {
	const op = "events.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает канал.
func (p *Publisher) Close() error {
	return p.ch.Close()
}

// Discard пишет события в лог вместо брокера. Используется, когда rabbitmq.url не задан.
type Discard struct {
	Log *slog.Logger
}

// Publish логирует событие.
func (d Discard) Publish(_ context.Context, routingKey string, _ any) error {
	if d.Log != nil {
		d.Log.Debug("event discarded", slog.String("routing_key", routingKey))
	}
	return nil
}
