// Package dialog implements the conversational order-taking state machine.
// Each inbound message is interpreted in the context of the sender's
// session: an active step always takes priority over the idle-state
// keyword router, so a user mid-order can never fall back into command
// handling until the session returns to idle.
package dialog

import (
	"context"
	"strconv"
	"strings"
	"time"

	"orders-bot/internal/bot/app/core"
	"orders-bot/internal/catalog"
	"orders-bot/internal/notify"
	"orders-bot/internal/xpkg/config"
	"orders-bot/internal/xpkg/logger"
	"orders-bot/pkg/models"
)

const recentOrdersLimit = 5

type Engine struct {
	sessions    *Manager
	catalog     *catalog.Catalog
	orders      core.OrderStore
	dispatcher  *notify.Dispatcher
	business    *config.Business
	adminChatID string
	mylog       logger.Logger
}

func NewEngine(
	sessions *Manager,
	cat *catalog.Catalog,
	orders core.OrderStore,
	dispatcher *notify.Dispatcher,
	business *config.Business,
	adminChatID string,
	mylog logger.Logger,
) *Engine {
	return &Engine{
		sessions:    sessions,
		catalog:     cat,
		orders:      orders,
		dispatcher:  dispatcher,
		business:    business,
		adminChatID: adminChatID,
		mylog:       mylog,
	}
}

// Sessions exposes the session manager so the run loop can start its
// eviction janitor.
func (e *Engine) Sessions() *Manager {
	return e.sessions
}

// HandleMessage processes one inbound chat message. The sender's session
// is held for the whole call; messages for different users proceed in
// parallel.
func (e *Engine) HandleMessage(ctx context.Context, msg core.Message) {
	s := e.sessions.Acquire(msg.SenderID)
	defer e.sessions.Release(s)

	if s.Step != StepIdle {
		e.continueOrder(ctx, s, msg.Text)
		return
	}

	e.routeIdleCommand(ctx, s, msg.Text)
}

func (e *Engine) routeIdleCommand(ctx context.Context, s *Session, text string) {
	normalized := normalizeCommand(text)

	switch routeCommand(normalized) {
	case cmdGreeting:
		e.send(ctx, s.UserID, e.welcomeMessage())
	case cmdMenu:
		e.send(ctx, s.UserID, e.menuMessage())
	case cmdOrder:
		e.startOrder(ctx, s)
	case cmdStatus:
		e.send(ctx, s.UserID, statusPromptMessage)
	case cmdContact:
		e.send(ctx, s.UserID, e.contactMessage())
	case cmdHours:
		e.send(ctx, s.UserID, e.hoursMessage())
	case cmdLocation:
		e.send(ctx, s.UserID, e.locationMessage())
	case cmdAdmin:
		e.handleAdminCommand(ctx, s, normalized)
	default:
		e.send(ctx, s.UserID, unknownMessage(normalized))
	}
}

func (e *Engine) startOrder(ctx context.Context, s *Session) {
	s.Step = StepAwaitingName
	s.Draft = DraftOrder{CustomerPhone: derivePhone(s.UserID)}
	s.PendingItem = nil

	e.send(ctx, s.UserID, askNameMessage)
}

func (e *Engine) continueOrder(ctx context.Context, s *Session, text string) {
	switch s.Step {
	case StepAwaitingName:
		e.handleName(ctx, s, text)
	case StepAwaitingItem:
		e.handleItemSelection(ctx, s, text)
	case StepAwaitingQuantity:
		e.handleQuantity(ctx, s, text)
	case StepAwaitingMore:
		e.handleAddMore(ctx, s, text)
	default:
		// Unknown step: the session state is corrupt, start over.
		e.mylog.Action("unknown_step").Warn("Resetting session with unknown step",
			"user_id", s.UserID, "step", string(s.Step))
		s.Reset()
		e.send(ctx, s.UserID, e.welcomeMessage())
	}
}

func (e *Engine) handleName(ctx context.Context, s *Session, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		e.send(ctx, s.UserID, askNameMessage)
		return
	}

	s.Draft.CustomerName = name
	s.Step = StepAwaitingItem

	e.send(ctx, s.UserID, e.menuMessage())
	e.send(ctx, s.UserID, askItemMessage)
}

func (e *Engine) handleItemSelection(ctx context.Context, s *Session, text string) {
	id, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		e.send(ctx, s.UserID, invalidItemMessage)
		e.send(ctx, s.UserID, e.menuMessage())
		return
	}

	item, ok := e.catalog.Find(id)
	if !ok {
		e.send(ctx, s.UserID, invalidItemMessage)
		e.send(ctx, s.UserID, e.menuMessage())
		return
	}

	s.PendingItem = &item
	s.Step = StepAwaitingQuantity

	e.send(ctx, s.UserID, askQuantityMessage(item))
}

func (e *Engine) handleQuantity(ctx context.Context, s *Session, text string) {
	quantity, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || quantity < 1 {
		e.send(ctx, s.UserID, invalidQuantityMessage)
		return
	}

	item := s.PendingItem
	if item == nil {
		// Should not happen: the quantity step always has a pending item.
		s.Reset()
		e.send(ctx, s.UserID, orderFailedMessage)
		return
	}
	s.Draft.Items = append(s.Draft.Items, models.OrderItem{
		ItemID:   item.ID,
		Name:     item.Name,
		Quantity: quantity,
		Price:    item.Price,
	})
	s.PendingItem = nil
	s.Step = StepAwaitingMore

	e.send(ctx, s.UserID, orderSummaryMessage(&s.Draft))
}

func (e *Engine) handleAddMore(ctx context.Context, s *Session, text string) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "sí", "si", "s":
		s.Step = StepAwaitingItem
		e.send(ctx, s.UserID, e.menuMessage())
		e.send(ctx, s.UserID, askItemMessage)
	case "no", "n":
		e.completeOrder(ctx, s)
	default:
		e.send(ctx, s.UserID, answerYesNoMessage)
	}
}

// completeOrder persists the draft and confirms it to the customer. On
// persistence failure the draft is discarded and the session returns to
// idle either way; the user restarts rather than retrying automatically.
func (e *Engine) completeOrder(ctx context.Context, s *Session) {
	mylog := e.mylog.Action("complete_order").With("user_id", s.UserID)

	order := models.Order{
		CustomerName:  s.Draft.CustomerName,
		CustomerPhone: s.Draft.CustomerPhone,
		Items:         s.Draft.Items,
		TotalAmount:   s.Draft.Total(),
		Status:        models.StatusPending,
		ScheduledDate: time.Now(),
	}

	saved, err := e.orders.Create(ctx, order)
	if err != nil {
		mylog.Error("Failed to save order", err)
		e.send(ctx, s.UserID, orderFailedMessage)
		s.Reset()
		return
	}

	e.send(ctx, s.UserID, notify.FormatOrderConfirmation(saved))

	if e.adminChatID != "" {
		e.dispatcher.NotifyAdmin(ctx, adminNewOrderMessage(saved))
	}

	mylog.Info("Order completed", "order_number", saved.OrderNumber, "total_amount", saved.TotalAmount)
	s.Reset()
}

func (e *Engine) handleAdminCommand(ctx context.Context, s *Session, normalized string) {
	if s.UserID != e.adminChatID || e.adminChatID == "" {
		e.send(ctx, s.UserID, adminDeniedMessage)
		return
	}

	fields := strings.Fields(normalized)
	sub := ""
	if len(fields) > 1 {
		sub = fields[1]
	}

	switch sub {
	case "pedidos":
		orders, err := e.orders.ListRecent(ctx, recentOrdersLimit)
		if err != nil {
			e.mylog.Action("admin_list_failed").Error("Failed to list recent orders", err)
			e.send(ctx, s.UserID, "❌ Ocurrió un error al listar los pedidos.")
			return
		}
		if len(orders) == 0 {
			e.send(ctx, s.UserID, noRecentOrdersMessage)
			return
		}
		e.send(ctx, s.UserID, recentOrdersMessage(orders))
	case "estadisticas":
		stats, err := e.orders.Stats(ctx)
		if err != nil {
			e.mylog.Action("admin_stats_failed").Error("Failed to aggregate stats", err)
			e.send(ctx, s.UserID, "❌ Ocurrió un error al mostrar las estadísticas.")
			return
		}
		e.send(ctx, s.UserID, statsMessage(stats))
	default:
		e.send(ctx, s.UserID, adminHelpMessage)
	}
}

func (e *Engine) send(ctx context.Context, userID, text string) {
	e.dispatcher.Send(ctx, userID, text)
}

// derivePhone extracts the digits of the chat user id, the closest thing
// to a callback number the transport gives us.
func derivePhone(userID string) string {
	var b strings.Builder
	for _, r := range userID {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
