package httpserver

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/YousefHatem4/food_storefront/internal/cart"
	"github.com/YousefHatem4/food_storefront/internal/events"
	"github.com/YousefHatem4/food_storefront/internal/logging"
	"github.com/YousefHatem4/food_storefront/internal/models"
)

type cartResponse struct {
	Items    []models.CartLine `json:"items"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Discount decimal.Decimal   `json:"discount"`
	Total    decimal.Decimal   `json:"total"`
}

func cartView(c *cart.Cart) cartResponse {
	items := c.Lines()
	if items == nil {
		items = []models.CartLine{}
	}
	return cartResponse{
		Items:    items,
		Subtotal: c.Subtotal(),
		Discount: c.Discount(),
		Total:    c.Total(),
	}
}

// publish sends an event on the side channel; failures are logged and
// swallowed so they never affect the response.
func publish(c echo.Context, p *events.Producer, key string, event map[string]any) {
	if p == nil || !p.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.Publish(ctx, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("event publish failed", "error", err)
	}
}
