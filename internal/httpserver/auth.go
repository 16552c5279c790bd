package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/YousefHatem4/food_storefront/internal/authclient"
	"github.com/YousefHatem4/food_storefront/internal/logging"
	"github.com/YousefHatem4/food_storefront/internal/session"
)

type AuthHTTP struct {
	Auth     *authclient.Client
	Sessions *session.Store
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req authclient.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	reg, err := h.Auth.Register(ctx, req)
	if err != nil {
		var fe authclient.FieldErrors
		if errors.As(err, &fe) {
			l.Warn("register_validation_failed", "status", 400, "fields", len(fe))
			return c.JSON(http.StatusBadRequest, map[string]any{"errors": fe})
		}
		l.Error("register_error", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "registration failed, please try again")
	}

	sessionFrom(c).SetAccessToken(reg.AccessToken)

	resp := map[string]any{"access_token": reg.AccessToken}
	if !reg.ExpiresAt.IsZero() {
		resp["expires_at"] = reg.ExpiresAt.UTC().Format(time.RFC3339)
	}

	l.Info("registration succeeded")
	return c.JSON(http.StatusOK, resp)
}

// Logout tears the session down; the cart and any in-progress checkout are
// discarded, order history survives on-device.
func (h *AuthHTTP) Logout(c echo.Context) error {
	sess := sessionFrom(c)
	h.Sessions.Drop(sess.ID)

	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	logging.FromContext(c.Request().Context()).Info("session ended")
	return c.NoContent(http.StatusNoContent)
}
