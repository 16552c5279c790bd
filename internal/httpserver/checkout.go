package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/YousefHatem4/food_storefront/internal/checkout"
	"github.com/YousefHatem4/food_storefront/internal/events"
	"github.com/YousefHatem4/food_storefront/internal/logging"
	"github.com/YousefHatem4/food_storefront/internal/models"
)

type CheckoutHTTP struct {
	Producer *events.Producer
}

func (h *CheckoutHTTP) EnterAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.enter_address")

	var req models.Address
	if err := c.Bind(&req); err != nil {
		l.Warn("enter_address_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	co := sessionFrom(c).Checkout()
	if err := co.EnterAddress(req); err != nil {
		return h.mapError(l, "enter_address_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{"step": co.Step()})
}

func (h *CheckoutHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.place_order")

	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	method, err := paymentMethod(req.PaymentMethod)
	if err != nil {
		l.Warn("place_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess := sessionFrom(c)
	co := sess.Checkout()

	order, err := co.PlaceOrder(ctx, method)
	if err != nil {
		return h.mapError(l, "place_order_error", err)
	}
	if order == nil {
		// Card branch: details collected in a separate step.
		return c.JSON(http.StatusOK, map[string]any{"step": co.Step()})
	}

	publish(c, h.Producer, sess.ID, map[string]any{
		"type":    "order_created",
		"orderID": order.OrderID,
		"method":  order.PaymentMethod,
		"total":   order.Total,
	})

	l.Info("order placed", "order_id", order.OrderID, "method", order.PaymentMethod)
	return c.JSON(http.StatusOK, map[string]any{"step": co.Step(), "order": order})
}

func (h *CheckoutHTTP) SubmitCard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.submit_card")

	var req checkout.CardDetails
	if err := c.Bind(&req); err != nil {
		l.Warn("submit_card_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess := sessionFrom(c)
	co := sess.Checkout()

	order, err := co.SubmitCard(ctx, req)
	if err != nil {
		return h.mapError(l, "submit_card_error", err)
	}

	publish(c, h.Producer, sess.ID, map[string]any{
		"type":          "order_created",
		"orderID":       order.OrderID,
		"method":        order.PaymentMethod,
		"transactionID": order.TransactionID,
		"total":         order.Total,
	})

	l.Info("card payment accepted", "order_id", order.OrderID, "transaction_id", order.TransactionID)
	return c.JSON(http.StatusOK, map[string]any{"step": co.Step(), "order": order})
}

// Abandon drops the in-progress checkout without recording anything, the API
// counterpart of navigating away mid-flow.
func (h *CheckoutHTTP) Abandon(c echo.Context) error {
	sessionFrom(c).AbandonCheckout()
	logging.FromContext(c.Request().Context()).Info("checkout abandoned")
	return c.NoContent(http.StatusNoContent)
}

func (h *CheckoutHTTP) mapError(l *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, checkout.ErrValidation):
		l.Warn(op, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrSubmitInFlight):
		l.Warn(op, "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, "a submission is already in progress")
	case errors.Is(err, checkout.ErrConflict):
		l.Warn(op, "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		l.Error(op, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not complete the order, please try again")
	}
}

func paymentMethod(s string) (models.PaymentMethod, error) {
	switch s {
	case "cash", "cash-on-delivery":
		return models.PaymentCashOnDelivery, nil
	case "card", "bank":
		return models.PaymentBankTransfer, nil
	default:
		return "", errors.New("payment_method must be cash-on-delivery or card")
	}
}
