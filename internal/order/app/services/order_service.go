package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orders-bot/internal/order/app/core"
	"orders-bot/internal/order/domain/dto"
	"orders-bot/internal/xpkg/logger"
	"orders-bot/pkg/models"
)

type OrderService struct {
	orderRepo core.IOrderRepo
	broker    core.IBroker
	mylog     logger.Logger
}

func NewOrderService(orderRepo core.IOrderRepo, broker core.IBroker, mylog logger.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		broker:    broker,
		mylog:     mylog,
	}
}

// Create validates the request, persists the order with status pending and
// publishes a new_order event. Event publishing is best-effort: the order
// is already stored, so a broker failure is logged and swallowed.
func (s *OrderService) Create(ctx context.Context, req dto.CreateOrderRequest) (models.Order, error) {
	mylog := s.mylog.Action("create_order")

	if err := s.ValidateCreate(req); err != nil {
		return models.Order{}, err
	}

	scheduled, err := parseScheduledDate(req.ScheduledDate)
	if err != nil {
		return models.Order{}, fmt.Errorf("invalid scheduledDate: %w", core.ErrFieldIsEmpty)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.OrderItem{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	order := models.Order{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: NormalizePhone(req.CustomerPhone),
		Items:         items,
		TotalAmount:   req.TotalAmount,
		Status:        models.StatusPending,
		Notes:         req.Notes,
		ScheduledDate: scheduled,
	}

	newOrder, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		mylog.Error("Failed to save order record in db", err)
		return models.Order{}, fmt.Errorf("cannot save order in db: %w", err)
	}

	s.publish(ctx, models.UpdateNewOrder, newOrder)

	mylog.Info("Order created successfully", "order_number", newOrder.OrderNumber)
	return newOrder, nil
}

// UpdateStatus rejects unrecognized statuses before touching storage and
// publishes a status_change event after a successful write.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (models.Order, error) {
	mylog := s.mylog.Action("update_status")

	if !models.ValidStatus(status) {
		return models.Order{}, fmt.Errorf("%w: %s, must be one of: %s",
			core.ErrInvalidStatus, status, strings.Join(models.ValidStatuses(), ", "))
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		mylog.Error("Failed to update order status", err, "order_id", id)
		return models.Order{}, err
	}

	s.publish(ctx, models.UpdateStatusChange, order)

	mylog.Info("Order status updated", "order_number", order.OrderNumber, "status", status)
	return order, nil
}

func (s *OrderService) List(ctx context.Context, filter dto.ListFilter) ([]models.Order, error) {
	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.mylog.Action("list_orders").Error("Failed to list orders", err)
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) GetByID(ctx context.Context, id int64) (models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	return s.orderRepo.Delete(ctx, id)
}

func (s *OrderService) Stats(ctx context.Context) (models.OrderStats, error) {
	stats, err := s.orderRepo.Stats(ctx)
	if err != nil {
		s.mylog.Action("order_stats").Error("Failed to aggregate order stats", err)
		return models.OrderStats{}, err
	}
	return stats, nil
}

// ValidateCreate checks the required fields of a create request.
func (s *OrderService) ValidateCreate(req dto.CreateOrderRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("customerName: %w", core.ErrFieldIsEmpty)
	}
	if NormalizePhone(req.CustomerPhone) == "" {
		return fmt.Errorf("customerPhone: %w", core.ErrFieldIsEmpty)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("items: %w", core.ErrFieldIsEmpty)
	}
	for i, it := range req.Items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("items[%d].name: %w", i, core.ErrFieldIsEmpty)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("items[%d].quantity must be at least 1: %w", i, core.ErrFieldIsEmpty)
		}
		if it.Price < 0 {
			return fmt.Errorf("items[%d].price must be non-negative: %w", i, core.ErrFieldIsEmpty)
		}
	}
	if req.TotalAmount <= 0 {
		return fmt.Errorf("totalAmount: %w", core.ErrFieldIsEmpty)
	}
	if strings.TrimSpace(req.ScheduledDate) == "" {
		return fmt.Errorf("scheduledDate: %w", core.ErrFieldIsEmpty)
	}
	return nil
}

func (s *OrderService) publish(ctx context.Context, kind string, order models.Order) {
	event := models.OrderEvent{
		Kind:      kind,
		Recipient: order.CustomerPhone,
		Order:     order,
		Timestamp: time.Now().UTC(),
	}
	if err := s.broker.PublishEvent(ctx, event); err != nil {
		s.mylog.Action("event_publish_failed").Error("Failed to publish order event", err,
			"kind", kind, "order_number", order.OrderNumber)
	}
}

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseScheduledDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
