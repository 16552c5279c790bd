package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/YousefHatem4/food_storefront/internal/events"
	"github.com/YousefHatem4/food_storefront/internal/logging"
	"github.com/YousefHatem4/food_storefront/internal/models"
)

type CartHTTP struct {
	Producer *events.Producer
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, cartView(sessionFrom(c).Cart))
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Price    decimal.Decimal `json:"price"`
		Image    string          `json:"image"`
		Quantity int             `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ID == "" {
		l.Warn("add_item_error", "status", 400, "reason", "id required")
		return echo.NewHTTPError(http.StatusBadRequest, "item id required")
	}
	if req.Price.IsNegative() {
		l.Warn("add_item_error", "status", 400, "reason", "negative price")
		return echo.NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	sess := sessionFrom(c)
	sess.Cart.Add(models.CartLine{
		ItemID:   req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Image:    req.Image,
		Quantity: req.Quantity,
	})

	publish(c, h.Producer, sess.ID, map[string]any{
		"type":     "add_cart_items",
		"itemID":   req.ID,
		"quantity": req.Quantity,
	})

	l.Info("item added to cart", "item_id", req.ID)
	return c.JSON(http.StatusOK, cartView(sess.Cart))
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	itemID := c.Param("id")
	if itemID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "item id required")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess := sessionFrom(c)
	sess.Cart.UpdateQuantity(itemID, req.Quantity)

	publish(c, h.Producer, sess.ID, map[string]any{
		"type":         "cart_quantity_updated",
		"itemID":       itemID,
		"new_quantity": req.Quantity,
	})

	return c.JSON(http.StatusOK, cartView(sess.Cart))
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	sess := sessionFrom(c)
	sess.Cart.Clear()

	publish(c, h.Producer, sess.ID, map[string]any{"type": "cart_cleared"})

	logging.FromContext(c.Request().Context()).Info("cart cleared")
	return c.JSON(http.StatusOK, cartView(sess.Cart))
}

func (h *CartHTTP) ApplyCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.apply_coupon")

	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("apply_coupon_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess := sessionFrom(c)
	valid := sess.Cart.ApplyCoupon(req.Code)
	if valid {
		l.Info("coupon applied")
	} else {
		l.Info("coupon rejected")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"valid":    valid,
		"subtotal": sess.Cart.Subtotal(),
		"discount": sess.Cart.Discount(),
		"total":    sess.Cart.Total(),
	})
}
