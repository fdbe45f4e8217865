package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"orders-bot/internal/notify"
	"orders-bot/internal/xpkg/logger"
	"orders-bot/pkg/models"
	"orders-bot/pkg/rabbitmq"
)

// Broker is the consuming half of the message broker.
type Broker interface {
	Consume(ctx context.Context, queue, consumerTag string) (<-chan amqp.Delivery, error)
	Close() error
}

// Subscriber drains the notifications queue and delivers each order event
// through the chat transport. Delivery is best-effort: a failed send is
// logged and the message is still acknowledged; only unparseable payloads
// go to the dead-letter exchange.
type Subscriber struct {
	mb         Broker
	dispatcher *notify.Dispatcher
	mylog      logger.Logger

	ctx    context.Context
	appCtx context.Context

	mu sync.Mutex
	wg sync.WaitGroup
}

func New(ctx, appCtx context.Context, mb Broker, dispatcher *notify.Dispatcher, mylog logger.Logger) *Subscriber {
	return &Subscriber{
		ctx:        ctx,
		appCtx:     appCtx,
		mb:         mb,
		dispatcher: dispatcher,
		mylog:      mylog,
	}
}

// Run consumes until the context is cancelled.
func (s *Subscriber) Run() error {
	mylog := s.mylog.Action("run_subscriber")

	deliveries, err := s.mb.Consume(s.appCtx, rabbitmq.NotificationsQueue, "")
	if err != nil {
		mylog.Action("mb_consume_failed").Error("Failed to consume from queue", err)
		return fmt.Errorf("failed to consume notifications: %w", err)
	}
	mylog.Action("mb_consuming").Info("Consuming notifications queue")

	s.work(deliveries)
	return nil
}

func (s *Subscriber) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down subscriber")

	s.wg.Wait()

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		s.mylog.Action("mb_closed").Info("Message broker closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("Successfully shut down")
	return nil
}

func (s *Subscriber) work(deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-s.ctx.Done():
			s.mylog.Action("work_shutdown").Info("Stopping message consumption due to context cancel")
			return

		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			s.wg.Add(1)
			go func(msg amqp.Delivery) {
				defer s.wg.Done()

				if err := s.processMsg(msg); err != nil {
					s.mylog.Action("process_msg_failed").Error("Failed to process notification", err)
					// Poison payload: reject without requeue so it lands
					// in the dead-letter exchange.
					if nackErr := msg.Nack(false, false); nackErr != nil {
						s.mylog.Action("nack_failed").Error("Failed to nack message", nackErr)
					}
				}
			}(msg)
		}
	}
}

func (s *Subscriber) processMsg(msg amqp.Delivery) error {
	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	mylog := s.mylog.WithGroup("details").With(
		"order_number", event.Order.OrderNumber, "kind", event.Kind)
	mylog.Action("notification_received").Info("Received order event")

	text := notify.FormatOrderUpdate(event.Order, event.Kind)
	if ok := s.dispatcher.Send(s.ctx, event.Recipient, text); !ok {
		mylog.Action("notification_undelivered").Warn("Notification could not be delivered")
	}

	if err := msg.Ack(false); err != nil {
		return fmt.Errorf("acknowledge message: %w", err)
	}
	return nil
}
