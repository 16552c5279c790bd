package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/YousefHatem4/food_storefront/internal/catalog"
	"github.com/YousefHatem4/food_storefront/internal/logging"
	"github.com/YousefHatem4/food_storefront/internal/models"
)

type MenuHTTP struct {
	Catalog *catalog.Client
}

// GetMenu proxies the external catalog. A collaborator failure degrades to an
// empty list with a user-visible message; the menu view always renders.
func (h *MenuHTTP) GetMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get_menu")

	category := c.QueryParam("category")
	items, err := h.Catalog.MenuItems(ctx, category)
	if err != nil {
		l.Warn("menu_fetch_failed", "category", category, "error", err)
		return c.JSON(http.StatusOK, map[string]any{
			"items": []models.MenuItem{},
			"error": "could not load the menu, please try again",
		})
	}
	if items == nil {
		items = []models.MenuItem{}
	}

	l.Info("menu fetched", "category", category, "count", len(items))
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}
