// Package notify formats and delivers order-related messages through the
// chat transport. Delivery is best-effort: a failed send is logged and
// reported as false, never as an error to the triggering operation.
package notify

import (
	"context"
	"fmt"
	"strings"

	"orders-bot/internal/xpkg/logger"
	"orders-bot/pkg/models"
)

// Sender is the outbound half of the chat transport.
type Sender interface {
	SendMessage(ctx context.Context, userID string, text string) error
}

type Dispatcher struct {
	sender      Sender
	adminChatID string
	mylog       logger.Logger
}

func NewDispatcher(sender Sender, adminChatID string, mylog logger.Logger) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		adminChatID: adminChatID,
		mylog:       mylog,
	}
}

// Send delivers text to the given user. Returns false on failure.
func (d *Dispatcher) Send(ctx context.Context, userID, text string) bool {
	if err := d.sender.SendMessage(ctx, userID, text); err != nil {
		d.mylog.Action("notification_send_failed").Error("Failed to send notification", err, "user_id", userID)
		return false
	}
	return true
}

// NotifyAdmin sends a system notification to the configured admin chat.
// Returns false when no admin is configured or the send fails.
func (d *Dispatcher) NotifyAdmin(ctx context.Context, message string) bool {
	if d.adminChatID == "" {
		d.mylog.Action("admin_notification_skipped").Warn("Admin chat is not configured")
		return false
	}
	return d.Send(ctx, d.adminChatID, "🔔 *Notificación del Sistema*\n\n"+message)
}

// FormatOrderUpdate produces the customer-facing text for an order event.
func FormatOrderUpdate(order models.Order, kind string) string {
	var b strings.Builder

	switch kind {
	case models.UpdateStatusChange:
		fmt.Fprintf(&b, "📦 *Actualización de Pedido #%s*\n\n", order.OrderNumber)
		fmt.Fprintf(&b, "El estado de tu pedido ha cambiado a: *%s*\n\n", models.StatusLabel(order.Status))
	case models.UpdatePaymentReceived:
		b.WriteString("💳 *Pago Confirmado*\n\n")
		fmt.Fprintf(&b, "Hemos recibido tu pago por el pedido #%s.\n", order.OrderNumber)
		fmt.Fprintf(&b, "Monto: *$%.2f*\n\n", order.TotalAmount)
	default:
		fmt.Fprintf(&b, "ℹ️ *Actualización de Pedido #%s*\n\n", order.OrderNumber)
	}

	b.WriteString("*Detalles del Pedido:*\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %dx %s\n", item.Quantity, item.Name)
	}
	fmt.Fprintf(&b, "\n*Total: $%.2f*", order.TotalAmount)

	switch order.Status {
	case models.StatusPreparing:
		b.WriteString("\n\nTu pedido está siendo preparado. Te notificaremos cuando esté listo para retirar.")
	case models.StatusReady:
		b.WriteString("\n\n¡Tu pedido está listo para ser retirado! ¡Te esperamos pronto!")
	}

	return b.String()
}

// FormatOrderConfirmation is the message sent right after an order is
// placed through the chat.
func FormatOrderConfirmation(order models.Order) string {
	var b strings.Builder

	b.WriteString("✅ *¡Pedido Confirmado!*\n\n")
	fmt.Fprintf(&b, "N° de Pedido: *%s*\n", order.OrderNumber)
	fmt.Fprintf(&b, "Fecha: *%s*\n", order.CreatedAt.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Estado: *%s*\n\n", models.StatusLabel(order.Status))

	b.WriteString("*Detalles del Pedido:*\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %dx %s - $%.2f\n", item.Quantity, item.Name, item.Subtotal())
	}
	fmt.Fprintf(&b, "\n*Total: $%.2f*\n\n", order.TotalAmount)
	b.WriteString("¡Gracias por tu compra! Te notificaremos cuando tu pedido esté listo.")

	return b.String()
}
