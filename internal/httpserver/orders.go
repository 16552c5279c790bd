package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/YousefHatem4/food_storefront/internal/events"
	"github.com/YousefHatem4/food_storefront/internal/history"
	"github.com/YousefHatem4/food_storefront/internal/logging"
	"github.com/YousefHatem4/food_storefront/internal/models"
)

type OrdersHTTP struct {
	History  *history.Store
	Producer *events.Producer
}

func (h *OrdersHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders := h.History.List(ctx)
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}

func (h *OrdersHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get_order")

	order, err := h.History.Find(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			l.Warn("order_not_found", "status", 404, "order_id", c.Param("id"))
			return c.JSON(http.StatusNotFound, map[string]any{
				"message":  "order not found",
				"redirect": "/orders",
			})
		}
		l.Error("get_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load order")
	}

	return c.JSON(http.StatusOK, order)
}

// Reorder replays a historical order into the current cart, additively.
func (h *OrdersHTTP) Reorder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.reorder")

	sess := sessionFrom(c)
	added, err := h.History.Reorder(ctx, c.Param("id"), sess.Cart)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			l.Warn("reorder_not_found", "status", 404, "order_id", c.Param("id"))
			return c.JSON(http.StatusNotFound, map[string]any{
				"message":  "order not found",
				"redirect": "/orders",
			})
		}
		l.Error("reorder_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not reorder")
	}

	publish(c, h.Producer, sess.ID, map[string]any{
		"type":    "reorder",
		"orderID": c.Param("id"),
		"items":   added,
	})

	l.Info("order replayed into cart", "order_id", c.Param("id"), "items", added)
	return c.JSON(http.StatusOK, map[string]any{
		"added": added,
		"cart":  cartView(sess.Cart),
	})
}
