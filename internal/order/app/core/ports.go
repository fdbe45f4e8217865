package core

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"orders-bot/internal/order/domain/dto"
	"orders-bot/pkg/models"
)

type IDB interface {
	Close() error
	IsAlive(ctx context.Context) error
	GetPool() *pgxpool.Pool
}

type IOrderRepo interface {
	Create(ctx context.Context, order models.Order) (models.Order, error)
	List(ctx context.Context, filter dto.ListFilter) ([]models.Order, error)
	GetByID(ctx context.Context, id int64) (models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (models.Order, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (models.OrderStats, error)
}

type IBroker interface {
	Close() error
	PublishEvent(ctx context.Context, event models.OrderEvent) error
}
