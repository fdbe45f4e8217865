package models

import (
	"time"
)

// Order statuses. Cancelled and completed are terminal by convention;
// transitions between the other statuses are not constrained.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusPreparing: true,
	StatusReady:     true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// ValidStatus reports whether s is one of the six recognized statuses.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

// ValidStatuses returns the recognized statuses in lifecycle order.
func ValidStatuses() []string {
	return []string{
		StatusPending,
		StatusConfirmed,
		StatusPreparing,
		StatusReady,
		StatusCompleted,
		StatusCancelled,
	}
}

var statusLabels = map[string]string{
	StatusPending:   "Pendiente",
	StatusConfirmed: "Confirmado",
	StatusPreparing: "En preparación",
	StatusReady:     "Listo para retirar",
	StatusCompleted: "Completado",
	StatusCancelled: "Cancelado",
}

// StatusLabel returns the customer-facing Spanish label for a status.
// Unknown statuses are returned as-is.
func StatusLabel(s string) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return s
}

type CatalogItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type Order struct {
	ID            int64       `json:"id"`
	OrderNumber   string      `json:"order_number"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"total_amount"`
	Status        string      `json:"status"`
	Notes         string      `json:"notes,omitempty"`
	ScheduledDate time.Time   `json:"scheduled_date"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ItemID   int     `json:"item_id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Subtotal is the line amount for the item.
func (it OrderItem) Subtotal() float64 {
	return it.Price * float64(it.Quantity)
}

// Notification event kinds carried on the message broker.
const (
	UpdateNewOrder        = "new_order"
	UpdateStatusChange    = "status_change"
	UpdatePaymentReceived = "payment_received"
	UpdateGeneric         = "generic"
)

// OrderEvent is published by the api-service after a successful
// repository write and consumed by the notification subscriber.
type OrderEvent struct {
	Kind      string    `json:"kind"`
	Recipient string    `json:"recipient"`
	Order     Order     `json:"order"`
	Timestamp time.Time `json:"timestamp"`
}

type StatusStat struct {
	Status      string  `json:"status"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

type OrderStats struct {
	Stats        []StatusStat `json:"stats"`
	TotalOrders  int          `json:"total_orders"`
	TotalRevenue float64      `json:"total_revenue"`
}
