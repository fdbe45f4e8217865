package core

import (
	"context"

	"orders-bot/pkg/models"
)

// Message is one inbound chat text message.
type Message struct {
	SenderID string
	Text     string
}

// ChatTransport abstracts the messaging network. Connection lifecycle
// (reconnects, auth) is the transport's own concern.
type ChatTransport interface {
	Messages(ctx context.Context) (<-chan Message, error)
	SendMessage(ctx context.Context, userID string, text string) error
	Close() error
}

// OrderStore is the slice of the order repository the dialogue engine
// needs: persist finalized drafts, plus the admin chat commands.
type OrderStore interface {
	Create(ctx context.Context, order models.Order) (models.Order, error)
	ListRecent(ctx context.Context, limit int) ([]models.Order, error)
	Stats(ctx context.Context) (models.OrderStats, error)
}
