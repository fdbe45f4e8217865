package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"orders-bot/internal/order/app/core"
	"orders-bot/internal/order/domain/dto"
	"orders-bot/internal/xpkg/logger"
	"orders-bot/pkg/models"
)

// Mock order repository
type mockOrderRepo struct {
	mu      sync.Mutex
	orders  map[int64]models.Order
	nextID  int64
	failure error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[int64]models.Order)}
}

func (m *mockOrderRepo) Create(ctx context.Context, order models.Order) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		return models.Order{}, m.failure
	}
	m.nextID++
	order.ID = m.nextID
	order.OrderNumber = "ORD_20260831_001"
	m.orders[order.ID] = order
	return order, nil
}

func (m *mockOrderRepo) List(ctx context.Context, filter dto.ListFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		return nil, m.failure
	}
	var out []models.Order
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, core.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id int64, status string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, core.ErrOrderNotFound
	}
	o.Status = status
	m.orders[id] = o
	return o, nil
}

func (m *mockOrderRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return core.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepo) Stats(ctx context.Context) (models.OrderStats, error) {
	return models.OrderStats{}, nil
}

// Mock broker recording published events
type mockBroker struct {
	mu      sync.Mutex
	events  []models.OrderEvent
	failure error
}

func (m *mockBroker) Close() error { return nil }

func (m *mockBroker) PublishEvent(ctx context.Context, event models.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		return m.failure
	}
	m.events = append(m.events, event)
	return nil
}

func newTestService(t *testing.T) (*OrderService, *mockOrderRepo, *mockBroker) {
	t.Helper()
	mylog, err := logger.New("ERROR")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	repo := newMockOrderRepo()
	broker := &mockBroker{}
	return NewOrderService(repo, broker, mylog), repo, broker
}

func validRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		CustomerName:  "Juan Pérez",
		CustomerPhone: "+54 (11) 5555-1234",
		Items: []dto.OrderItemRequest{
			{ItemID: 1, Name: "Pizza Margherita", Quantity: 2, Price: 1500},
		},
		TotalAmount:   3000,
		ScheduledDate: "2026-08-31",
	}
}

func TestCreate_Success(t *testing.T) {
	svc, repo, broker := newTestService(t)

	order, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if order.Status != models.StatusPending {
		t.Errorf("expected pending status, got %s", order.Status)
	}
	if order.OrderNumber == "" {
		t.Error("expected an order number")
	}
	if order.CustomerPhone != "541155551234" {
		t.Errorf("expected normalized phone, got %s", order.CustomerPhone)
	}
	if len(repo.orders) != 1 {
		t.Errorf("expected 1 stored order, got %d", len(repo.orders))
	}

	if len(broker.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(broker.events))
	}
	event := broker.events[0]
	if event.Kind != models.UpdateNewOrder {
		t.Errorf("expected new_order event, got %s", event.Kind)
	}
	if event.Recipient != order.CustomerPhone {
		t.Errorf("expected recipient %s, got %s", order.CustomerPhone, event.Recipient)
	}
}

func TestCreate_MissingFields(t *testing.T) {
	svc, repo, broker := newTestService(t)

	cases := []struct {
		name   string
		mutate func(*dto.CreateOrderRequest)
	}{
		{"customerName", func(r *dto.CreateOrderRequest) { r.CustomerName = "  " }},
		{"customerPhone", func(r *dto.CreateOrderRequest) { r.CustomerPhone = "abc" }},
		{"items", func(r *dto.CreateOrderRequest) { r.Items = nil }},
		{"totalAmount", func(r *dto.CreateOrderRequest) { r.TotalAmount = 0 }},
		{"scheduledDate", func(r *dto.CreateOrderRequest) { r.ScheduledDate = "" }},
		{"item quantity", func(r *dto.CreateOrderRequest) { r.Items[0].Quantity = 0 }},
		{"item name", func(r *dto.CreateOrderRequest) { r.Items[0].Name = "" }},
	}
	for _, tc := range cases {
		req := validRequest()
		tc.mutate(&req)

		_, err := svc.Create(context.Background(), req)
		if !errors.Is(err, core.ErrFieldIsEmpty) {
			t.Errorf("%s: expected ErrFieldIsEmpty, got %v", tc.name, err)
		}
	}

	if len(repo.orders) != 0 {
		t.Errorf("no order should have been stored, got %d", len(repo.orders))
	}
	if len(broker.events) != 0 {
		t.Errorf("no event should have been published, got %d", len(broker.events))
	}
}

func TestCreate_BadScheduledDate(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validRequest()
	req.ScheduledDate = "31/08/2026"

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, core.ErrFieldIsEmpty) {
		t.Errorf("expected ErrFieldIsEmpty for unparseable date, got %v", err)
	}
}

func TestCreate_RFC3339ScheduledDate(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validRequest()
	req.ScheduledDate = "2026-08-31T18:30:00Z"

	order, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if order.ScheduledDate.Hour() != 18 {
		t.Errorf("expected scheduled hour 18, got %d", order.ScheduledDate.Hour())
	}
}

func TestCreate_BrokerFailureIsSwallowed(t *testing.T) {
	svc, repo, broker := newTestService(t)
	broker.failure = errors.New("broker down")

	_, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("broker failure must not fail the create, got %v", err)
	}
	if len(repo.orders) != 1 {
		t.Errorf("expected stored order despite broker failure")
	}
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc, _, broker := newTestService(t)

	_, err := svc.UpdateStatus(context.Background(), 1, "shipped")
	if !errors.Is(err, core.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if len(broker.events) != 0 {
		t.Errorf("no event should be published for an invalid status")
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _, broker := newTestService(t)

	_, err := svc.UpdateStatus(context.Background(), 42, models.StatusReady)
	if !errors.Is(err, core.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if len(broker.events) != 0 {
		t.Errorf("no event should be published when the order is missing")
	}
}

func TestUpdateStatus_PublishesStatusChange(t *testing.T) {
	svc, _, broker := newTestService(t)

	created, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), created.ID, models.StatusReady)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if updated.Status != models.StatusReady {
		t.Errorf("expected ready status, got %s", updated.Status)
	}

	if len(broker.events) != 2 {
		t.Fatalf("expected 2 events (create + update), got %d", len(broker.events))
	}
	if broker.events[1].Kind != models.UpdateStatusChange {
		t.Errorf("expected status_change event, got %s", broker.events[1].Kind)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+54 (11) 5555-1234", "541155551234"},
		{"12345", "12345"},
		{"abc", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
