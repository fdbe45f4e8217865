package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"orders-bot/internal/order/app/core"
	"orders-bot/internal/order/domain/dto"
	"orders-bot/pkg/models"
)

type OrderRepo struct {
	db core.IDB
}

func NewOrderRepo(db core.IDB) *OrderRepo {
	return &OrderRepo{db: db}
}

// sortColumns whitelists the caller-facing sort keys.
var sortColumns = map[string]string{
	"created_at":     "created_at",
	"createdAt":      "created_at",
	"updated_at":     "updated_at",
	"total_amount":   "total_amount",
	"totalAmount":    "total_amount",
	"status":         "status",
	"scheduled_date": "scheduled_date",
	"scheduledDate":  "scheduled_date",
	"customer_name":  "customer_name",
	"customerName":   "customer_name",
}

// Create persists the order and its items in one transaction. The order
// number is ORD_YYYYMMDD_NNN where NNN restarts each day.
func (r *OrderRepo) Create(ctx context.Context, order models.Order) (models.Order, error) {
	if err := r.db.IsAlive(ctx); err != nil {
		return models.Order{}, core.ErrDBConn
	}

	currentDate := time.Now().UTC().Format("20060102")

	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderCount int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE created_at::DATE = CURRENT_DATE
	`).Scan(&orderCount)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to count today's orders: %w", err)
	}

	order.OrderNumber = fmt.Sprintf("ORD_%s_%03d", currentDate, orderCount+1)
	if order.Status == "" {
		order.Status = models.StatusPending
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (
			order_number,
			customer_name,
			customer_phone,
			total_amount,
			status,
			notes,
			scheduled_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`,
		order.OrderNumber,
		order.CustomerName,
		order.CustomerPhone,
		order.TotalAmount,
		order.Status,
		order.Notes,
		order.ScheduledDate,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, item_id, name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)
		`, order.ID, item.ItemID, item.Name, item.Quantity, item.Price)
		if err != nil {
			return models.Order{}, fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return order, nil
}

func (r *OrderRepo) List(ctx context.Context, filter dto.ListFilter) ([]models.Order, error) {
	query := `
		SELECT id, order_number, customer_name, customer_phone,
		       total_amount, status, notes, scheduled_date, created_at, updated_at
		FROM orders
	`

	var conds []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, endOfDay(filter.EndDate))
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	orderBy, err := buildOrderBy(filter.SortBy)
	if err != nil {
		return nil, err
	}
	query += " ORDER BY " + orderBy

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListRecent returns the most recently created orders, newest first.
func (r *OrderRepo) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	rows, err := r.db.GetPool().Query(ctx, `
		SELECT id, order_number, customer_name, customer_phone,
		       total_amount, status, notes, scheduled_date, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (models.Order, error) {
	row := r.db.GetPool().QueryRow(ctx, `
		SELECT id, order_number, customer_name, customer_phone,
		       total_amount, status, notes, scheduled_date, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, core.ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	orders := []models.Order{order}
	if err := r.loadItems(ctx, orders); err != nil {
		return models.Order{}, err
	}
	return orders[0], nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status string) (models.Order, error) {
	row := r.db.GetPool().QueryRow(ctx, `
		UPDATE orders
		SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, order_number, customer_name, customer_phone,
		          total_amount, status, notes, scheduled_date, created_at, updated_at
	`, status, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, core.ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	orders := []models.Order{order}
	if err := r.loadItems(ctx, orders); err != nil {
		return models.Order{}, err
	}
	return orders[0], nil
}

func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.GetPool().Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepo) Stats(ctx context.Context) (models.OrderStats, error) {
	rows, err := r.db.GetPool().Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		GROUP BY status
	`)
	if err != nil {
		return models.OrderStats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var stats models.OrderStats
	for rows.Next() {
		var st models.StatusStat
		if err := rows.Scan(&st.Status, &st.Count, &st.TotalAmount); err != nil {
			return models.OrderStats{}, err
		}
		stats.Stats = append(stats.Stats, st)
		stats.TotalOrders += st.Count
		stats.TotalRevenue += st.TotalAmount
	}
	if err := rows.Err(); err != nil {
		return models.OrderStats{}, err
	}

	return stats, nil
}

// loadItems attaches line items to the given orders in one query.
func (r *OrderRepo) loadItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	index := make(map[int64]int, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].ID)
		index[orders[i].ID] = i
	}

	rows, err := r.db.GetPool().Query(ctx, `
		SELECT order_id, item_id, name, quantity, unit_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int64
		var item models.OrderItem
		if err := rows.Scan(&orderID, &item.ItemID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return err
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return rows.Err()
}

// endOfDay extends a date to the last instant of that day, making the
// created-date range filter inclusive on both sides.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

func buildOrderBy(sortBy string) (string, error) {
	if sortBy == "" {
		sortBy = core.DefaultSort
	}
	dir := "ASC"
	if strings.HasPrefix(sortBy, "-") {
		dir = "DESC"
		sortBy = sortBy[1:]
	}
	col, ok := sortColumns[sortBy]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrInvalidSort, sortBy)
	}
	return col + " " + dir, nil
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.TotalAmount,
		&o.Status,
		&o.Notes,
		&o.ScheduledDate,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}
