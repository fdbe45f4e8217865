package dto

import (
	"time"

	"orders-bot/pkg/models"
)

type CreateOrderRequest struct {
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	Items         []OrderItemRequest `json:"items"`
	TotalAmount   float64            `json:"totalAmount"`
	ScheduledDate string             `json:"scheduledDate"`
	Notes         string             `json:"notes,omitempty"`
}

type OrderItemRequest struct {
	ItemID   int     `json:"item_id,omitempty"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListFilter narrows a listing. Zero-valued fields are not applied.
// EndDate is extended to end-of-day by the repository, making the range
// inclusive on both sides.
type ListFilter struct {
	Status    string
	StartDate time.Time
	EndDate   time.Time
	SortBy    string
}

type StatsResponse struct {
	Stats        []models.StatusStat `json:"stats"`
	TotalOrders  int                 `json:"totalOrders"`
	TotalRevenue float64             `json:"totalRevenue"`
}
