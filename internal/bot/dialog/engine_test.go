package dialog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"orders-bot/internal/bot/app/core"
	"orders-bot/internal/catalog"
	"orders-bot/internal/notify"
	"orders-bot/internal/xpkg/config"
	"orders-bot/internal/xpkg/logger"
	"orders-bot/pkg/models"
)

// Mock sender recording outbound messages
type mockSender struct {
	mu   sync.Mutex
	sent []sentMessage
	fail bool
}

type sentMessage struct {
	userID string
	text   string
}

func (m *mockSender) SendMessage(ctx context.Context, userID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("transport down")
	}
	m.sent = append(m.sent, sentMessage{userID: userID, text: text})
	return nil
}

func (m *mockSender) messagesTo(userID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var texts []string
	for _, s := range m.sent {
		if s.userID == userID {
			texts = append(texts, s.text)
		}
	}
	return texts
}

func (m *mockSender) lastTo(userID string) string {
	texts := m.messagesTo(userID)
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

// Mock order store
type mockOrderStore struct {
	mu      sync.Mutex
	created []models.Order
	recent  []models.Order
	stats   models.OrderStats
	failOn  error
	nextID  int64
}

func (m *mockOrderStore) Create(ctx context.Context, order models.Order) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != nil {
		return models.Order{}, m.failOn
	}
	m.nextID++
	order.ID = m.nextID
	order.OrderNumber = "ORD_20260831_001"
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	m.created = append(m.created, order)
	return order, nil
}

func (m *mockOrderStore) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != nil {
		return nil, m.failOn
	}
	if limit > len(m.recent) {
		limit = len(m.recent)
	}
	return m.recent[:limit], nil
}

func (m *mockOrderStore) Stats(ctx context.Context) (models.OrderStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != nil {
		return models.OrderStats{}, m.failOn
	}
	return m.stats, nil
}

const adminID = "999"

func newTestEngine(t *testing.T) (*Engine, *mockSender, *mockOrderStore) {
	t.Helper()

	mylog, err := logger.New("ERROR")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	sender := &mockSender{}
	store := &mockOrderStore{}
	business := &config.Business{
		Name:    "La Esquina",
		Phone:   "+54 11 5555-0000",
		Address: "Av. Siempre Viva 742",
		Hours:   "Lun-Dom 11:00-23:00",
	}

	engine := NewEngine(
		NewManager(30*time.Minute, mylog),
		catalog.New(nil),
		store,
		notify.NewDispatcher(sender, adminID, mylog),
		business,
		adminID,
		mylog,
	)
	return engine, sender, store
}

func say(e *Engine, userID, text string) {
	e.HandleMessage(context.Background(), core.Message{SenderID: userID, Text: text})
}

func TestHandleMessage_FullOrderFlow(t *testing.T) {
	engine, sender, store := newTestEngine(t)
	user := "12345"

	say(engine, user, "pedido")
	if got := sender.lastTo(user); got != askNameMessage {
		t.Fatalf("expected name prompt, got %q", got)
	}

	say(engine, user, "Juan Pérez")
	say(engine, user, "1")
	if got := sender.lastTo(user); !strings.Contains(got, "Pizza Margherita") {
		t.Fatalf("expected quantity prompt for Pizza Margherita, got %q", got)
	}

	say(engine, user, "2")
	if got := sender.lastTo(user); !strings.Contains(got, "Total: $3000") {
		t.Fatalf("expected summary with total 3000, got %q", got)
	}

	say(engine, user, "no")

	if len(store.created) != 1 {
		t.Fatalf("expected 1 order created, got %d", len(store.created))
	}
	order := store.created[0]
	if order.CustomerName != "Juan Pérez" {
		t.Errorf("expected customer Juan Pérez, got %s", order.CustomerName)
	}
	if order.CustomerPhone != "12345" {
		t.Errorf("expected phone 12345, got %s", order.CustomerPhone)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(order.Items))
	}
	if order.Items[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", order.Items[0].Quantity)
	}
	if order.TotalAmount != 3000 {
		t.Errorf("expected total 3000, got %f", order.TotalAmount)
	}
	if order.Status != models.StatusPending {
		t.Errorf("expected pending status, got %s", order.Status)
	}

	// Confirmation reaches the customer, notification reaches the admin.
	if got := sender.lastTo(user); !strings.Contains(got, "¡Pedido Confirmado!") {
		t.Errorf("expected confirmation, got %q", got)
	}
	if got := sender.lastTo(adminID); !strings.Contains(got, "Nuevo pedido") {
		t.Errorf("expected admin notification, got %q", got)
	}

	// Session is back to idle: the next keyword routes as a command.
	say(engine, user, "menu")
	if got := sender.lastTo(user); !strings.Contains(got, "Menú de La Esquina") {
		t.Errorf("expected menu after completed order, got %q", got)
	}
}

func TestHandleMessage_StepTakesPriorityOverKeywords(t *testing.T) {
	engine, _, store := newTestEngine(t)
	user := "200"

	say(engine, user, "pedido")
	// "menu" is a keyword, but mid-order it is the customer's name.
	say(engine, user, "menu")
	say(engine, user, "4")
	say(engine, user, "1")
	say(engine, user, "no")

	if len(store.created) != 1 {
		t.Fatalf("expected 1 order, got %d", len(store.created))
	}
	if store.created[0].CustomerName != "menu" {
		t.Errorf("expected name \"menu\", got %q", store.created[0].CustomerName)
	}
}

func TestHandleMessage_InvalidItemKeepsStep(t *testing.T) {
	engine, sender, _ := newTestEngine(t)
	user := "300"

	say(engine, user, "pedido")
	say(engine, user, "Ana")

	say(engine, user, "99")
	if got := sender.messagesTo(user); !strings.Contains(strings.Join(got, "\n"), invalidItemMessage) {
		t.Fatalf("expected invalid item message")
	}

	// Still awaiting an item: a valid number proceeds to quantity.
	say(engine, user, "abc")
	say(engine, user, "2")
	if got := sender.lastTo(user); !strings.Contains(got, "Hamburguesa Clásica") {
		t.Errorf("expected quantity prompt after recovery, got %q", got)
	}

	s := engine.sessions.Acquire(user)
	defer engine.sessions.Release(s)
	if len(s.Draft.Items) != 0 {
		t.Errorf("invalid selections must not mutate the draft, got %d items", len(s.Draft.Items))
	}
}

func TestHandleMessage_InvalidQuantityKeepsStep(t *testing.T) {
	engine, sender, _ := newTestEngine(t)
	user := "400"

	say(engine, user, "pedido")
	say(engine, user, "Ana")
	say(engine, user, "1")

	for _, bad := range []string{"cero", "0", "-3"} {
		say(engine, user, bad)
		if got := sender.lastTo(user); got != invalidQuantityMessage {
			t.Fatalf("input %q: expected quantity re-prompt, got %q", bad, got)
		}
	}

	say(engine, user, "3")
	if got := sender.lastTo(user); !strings.Contains(got, "Resumen del Pedido") {
		t.Errorf("expected summary after valid quantity, got %q", got)
	}
}

func TestHandleMessage_AddMoreReprompts(t *testing.T) {
	engine, sender, store := newTestEngine(t)
	user := "500"

	say(engine, user, "pedido")
	say(engine, user, "Ana")
	say(engine, user, "1")
	say(engine, user, "1")

	say(engine, user, "tal vez")
	if got := sender.lastTo(user); got != answerYesNoMessage {
		t.Fatalf("expected yes/no re-prompt, got %q", got)
	}

	say(engine, user, "sí")
	say(engine, user, "5")
	say(engine, user, "2")
	say(engine, user, "no")

	if len(store.created) != 1 {
		t.Fatalf("expected 1 order, got %d", len(store.created))
	}
	if len(store.created[0].Items) != 2 {
		t.Errorf("expected 2 line items, got %d", len(store.created[0].Items))
	}
	if store.created[0].TotalAmount != 1500+2*400 {
		t.Errorf("unexpected total %f", store.created[0].TotalAmount)
	}
}

func TestHandleMessage_PersistenceFailureResetsSession(t *testing.T) {
	engine, sender, store := newTestEngine(t)
	user := "600"
	store.failOn = errors.New("db down")

	say(engine, user, "pedido")
	say(engine, user, "Ana")
	say(engine, user, "1")
	say(engine, user, "1")
	say(engine, user, "no")

	if got := sender.lastTo(user); got != orderFailedMessage {
		t.Fatalf("expected failure message, got %q", got)
	}

	// Draft is discarded, session idle again.
	store.failOn = nil
	say(engine, user, "hola")
	if got := sender.lastTo(user); !strings.Contains(got, "¡Hola!") {
		t.Errorf("expected greeting after reset, got %q", got)
	}
	if len(store.created) != 0 {
		t.Errorf("no order should have been stored, got %d", len(store.created))
	}
}

func TestHandleMessage_EmptyNameReprompts(t *testing.T) {
	engine, sender, _ := newTestEngine(t)
	user := "700"

	say(engine, user, "pedido")
	say(engine, user, "   ")
	if got := sender.lastTo(user); got != askNameMessage {
		t.Fatalf("expected name re-prompt, got %q", got)
	}
}

func TestHandleMessage_IdleCommands(t *testing.T) {
	engine, sender, _ := newTestEngine(t)
	user := "800"

	cases := []struct {
		text string
		want string
	}{
		{"Hola!!", "¡Hola!"},
		{"MENU", "Menú de La Esquina"},
		{"contacto", "Contacto"},
		{"horario", "Horario de Atención"},
		{"ubicacion", "Nuestra Ubicación"},
		{"estado", statusPromptMessage},
		{"qwerty", "No estoy seguro"},
	}
	for _, tc := range cases {
		say(engine, user, tc.text)
		if got := sender.lastTo(user); !strings.Contains(got, tc.want) {
			t.Errorf("input %q: expected reply containing %q, got %q", tc.text, tc.want, got)
		}
	}
}

func TestHandleAdminCommand_Gating(t *testing.T) {
	engine, sender, _ := newTestEngine(t)

	say(engine, "12345", "admin pedidos")
	if got := sender.lastTo("12345"); got != adminDeniedMessage {
		t.Fatalf("expected denial for non-admin, got %q", got)
	}

	say(engine, adminID, "admin")
	if got := sender.lastTo(adminID); got != adminHelpMessage {
		t.Errorf("expected admin help, got %q", got)
	}
}

func TestHandleAdminCommand_RecentOrdersAndStats(t *testing.T) {
	engine, sender, store := newTestEngine(t)

	say(engine, adminID, "admin pedidos")
	if got := sender.lastTo(adminID); got != noRecentOrdersMessage {
		t.Fatalf("expected empty list message, got %q", got)
	}

	store.recent = []models.Order{{
		OrderNumber:  "ORD_20260831_007",
		CustomerName: "Ana",
		TotalAmount:  1200,
		Status:       models.StatusPreparing,
		CreatedAt:    time.Now(),
	}}
	say(engine, adminID, "admin pedidos")
	if got := sender.lastTo(adminID); !strings.Contains(got, "ORD_20260831_007") {
		t.Errorf("expected recent orders listing, got %q", got)
	}

	store.stats = models.OrderStats{
		Stats:        []models.StatusStat{{Status: models.StatusPending, Count: 3, TotalAmount: 4500}},
		TotalOrders:  3,
		TotalRevenue: 4500,
	}
	say(engine, adminID, "admin estadisticas")
	if got := sender.lastTo(adminID); !strings.Contains(got, "Pedidos: 3") {
		t.Errorf("expected stats message, got %q", got)
	}
}
