package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"orders-bot/internal/order/app/core"
	"orders-bot/internal/order/app/services"
	"orders-bot/internal/order/domain/dto"
	"orders-bot/internal/xpkg/logger"
	"orders-bot/pkg/models"
)

const version = "1.0.0"

type OrderHandler struct {
	orderService *services.OrderService
	mylog        logger.Logger
}

func NewOrderHandler(orderService *services.OrderService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		mylog:        mylog,
	}
}

func (oh *OrderHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := oh.mylog.With("request_id", uuid.NewString())

		var req dto.CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Action("parse_failed").Error("Failed to parse order", err)
			jsonError(w, http.StatusBadRequest, "No se pudo interpretar el cuerpo de la petición.", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		order, err := oh.orderService.Create(ctx, req)
		if err != nil {
			if errors.Is(err, core.ErrFieldIsEmpty) {
				jsonError(w, http.StatusBadRequest, "Por favor, proporcione todos los campos requeridos.", err)
				return
			}
			mylog.Action("create_failed").Error("Failed to create order", err)
			jsonError(w, http.StatusInternalServerError, "Error al crear el pedido.", nil)
			return
		}

		mylog.Action("order_created").Info("Order created",
			"order_number", order.OrderNumber, "total_amount", order.TotalAmount)
		jsonResponse(w, http.StatusCreated, order, "Pedido creado exitosamente.")
	}
}

func (oh *OrderHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := oh.mylog.With("request_id", uuid.NewString())

		filter, err := parseListFilter(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "Parámetros de búsqueda no válidos.", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		orders, err := oh.orderService.List(ctx, filter)
		if err != nil {
			if errors.Is(err, core.ErrInvalidSort) {
				jsonError(w, http.StatusBadRequest, "Parámetros de búsqueda no válidos.", err)
				return
			}
			mylog.Action("list_failed").Error("Failed to list orders", err)
			jsonError(w, http.StatusInternalServerError, "Error al obtener los pedidos.", nil)
			return
		}

		if orders == nil {
			orders = []models.Order{}
		}
		jsonList(w, http.StatusOK, orders, len(orders))
	}
}

func (oh *OrderHandler) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := oh.mylog.With("request_id", uuid.NewString())

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		stats, err := oh.orderService.Stats(ctx)
		if err != nil {
			mylog.Action("stats_failed").Error("Failed to aggregate stats", err)
			jsonError(w, http.StatusInternalServerError, "Error al obtener estadísticas de pedidos.", nil)
			return
		}

		resp := dto.StatsResponse{
			Stats:        stats.Stats,
			TotalOrders:  stats.TotalOrders,
			TotalRevenue: stats.TotalRevenue,
		}
		if resp.Stats == nil {
			resp.Stats = []models.StatusStat{}
		}
		jsonResponse(w, http.StatusOK, resp, "")
	}
}

func (oh *OrderHandler) GetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := oh.mylog.With("request_id", uuid.NewString())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			jsonError(w, http.StatusNotFound, "Pedido no encontrado.", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		order, err := oh.orderService.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, core.ErrOrderNotFound) {
				jsonError(w, http.StatusNotFound, "Pedido no encontrado.", nil)
				return
			}
			mylog.Action("get_failed").Error("Failed to get order", err, "order_id", id)
			jsonError(w, http.StatusInternalServerError, "Error al obtener el pedido.", nil)
			return
		}

		jsonResponse(w, http.StatusOK, order, "")
	}
}

func (oh *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := oh.mylog.With("request_id", uuid.NewString())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			jsonError(w, http.StatusNotFound, "Pedido no encontrado.", nil)
			return
		}

		var req dto.UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, "No se pudo interpretar el cuerpo de la petición.", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		order, err := oh.orderService.UpdateStatus(ctx, id, req.Status)
		if err != nil {
			if errors.Is(err, core.ErrInvalidStatus) {
				jsonError(w, http.StatusBadRequest, "Estado no válido.", err)
				return
			}
			if errors.Is(err, core.ErrOrderNotFound) {
				jsonError(w, http.StatusNotFound, "Pedido no encontrado.", nil)
				return
			}
			mylog.Action("update_status_failed").Error("Failed to update order status", err, "order_id", id)
			jsonError(w, http.StatusInternalServerError, "Error al actualizar el estado del pedido.", nil)
			return
		}

		jsonResponse(w, http.StatusOK, order, "Estado del pedido actualizado a: "+order.Status)
	}
}

func (oh *OrderHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := oh.mylog.With("request_id", uuid.NewString())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			jsonError(w, http.StatusNotFound, "Pedido no encontrado.", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := oh.orderService.Delete(ctx, id); err != nil {
			if errors.Is(err, core.ErrOrderNotFound) {
				jsonError(w, http.StatusNotFound, "Pedido no encontrado.", nil)
				return
			}
			mylog.Action("delete_failed").Error("Failed to delete order", err, "order_id", id)
			jsonError(w, http.StatusInternalServerError, "Error al eliminar el pedido.", nil)
			return
		}

		jsonResponse(w, http.StatusOK, struct{}{}, "Pedido eliminado exitosamente.")
	}
}

func (oh *OrderHandler) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   version,
		})
	}
}

func parseListFilter(r *http.Request) (dto.ListFilter, error) {
	q := r.URL.Query()
	filter := dto.ListFilter{
		Status: q.Get("status"),
		SortBy: q.Get("sortBy"),
	}

	if raw := q.Get("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return dto.ListFilter{}, err
		}
		filter.StartDate = t
	}
	if raw := q.Get("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return dto.ListFilter{}, err
		}
		filter.EndDate = t
	}

	return filter, nil
}
