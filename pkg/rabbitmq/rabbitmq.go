// Package rabbitmq owns the message broker topology shared by the
// api-service (publisher) and the notification subscriber (consumer).
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"orders-bot/internal/xpkg/config"
	"orders-bot/internal/xpkg/logger"
	"orders-bot/pkg/models"
)

const (
	ExchangeName       = "orders_topic"
	NotificationsQueue = "notifications_queue"
	notificationsKey   = "notification.*"

	DeadLetterExchange = "dlx"
	DeadLetterQueue    = "notifications_dlq"
)

// topologyChannel is the slice of *amqp.Channel that topology declaration
// needs.
type topologyChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

type Broker struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mylog   logger.Logger
}

// New dials RabbitMQ and declares the notification topology: a durable
// topic exchange and the notifications queue bound to notification.*.
func New(ctx context.Context, cfg config.RabbitMQ, mylog logger.Logger) (*Broker, error) {
	connStr := fmt.Sprintf("amqp://%s:%s@%s:%s/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.VHost)

	conn, err := amqp.Dial(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	mylog.Action("mb_topology_declared").Info("RabbitMQ topology declared")
	return &Broker{conn: conn, channel: channel, mylog: mylog}, nil
}

func declareTopology(channel topologyChannel) error {
	err := channel.ExchangeDeclare(
		ExchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Dead-letter destination for rejected notification payloads.
	err = channel.ExchangeDeclare(
		DeadLetterExchange,
		"fanout",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare dead-letter exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		DeadLetterQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare dead-letter queue: %w", err)
	}

	err = channel.QueueBind(
		DeadLetterQueue,
		"", // fanout ignores the routing key
		DeadLetterExchange,
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to bind dead-letter queue: %w", err)
	}

	_, err = channel.QueueDeclare(
		NotificationsQueue, // name
		true,               // durable
		false,              // delete when unused
		false,              // exclusive
		false,              // no-wait
		amqp.Table{
			"x-dead-letter-exchange": DeadLetterExchange,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		NotificationsQueue, // queue name
		notificationsKey,   // routing key
		ExchangeName,       // exchange
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}

// PublishEvent sends an order event with routing key notification.<kind>.
func (b *Broker) PublishEvent(ctx context.Context, event models.OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return b.channel.PublishWithContext(pubCtx,
		ExchangeName,
		"notification."+event.Kind,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
}

// Consume starts delivering messages from the given queue. Messages must
// be acknowledged by the consumer.
func (b *Broker) Consume(ctx context.Context, queue, consumerTag string) (<-chan amqp.Delivery, error) {
	deliveries, err := b.channel.ConsumeWithContext(ctx,
		queue,
		consumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume from %s: %w", queue, err)
	}
	return deliveries, nil
}

func (b *Broker) Close() error {
	if b.channel != nil {
		if err := b.channel.Close(); err != nil {
			return err
		}
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
