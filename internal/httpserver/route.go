package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/YousefHatem4/food_storefront/internal/session"
)

type Deps struct {
	Sessions *session.Store

	Menu     *MenuHTTP
	Cart     *CartHTTP
	Checkout *CheckoutHTTP
	Orders   *OrdersHTTP
	Auth     *AuthHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("", SessionMiddleware(d.Sessions))

	api.GET("/menu/items", d.Menu.GetMenu)

	cart := api.Group("/cart")
	cart.GET("", d.Cart.GetCart)
	cart.POST("/items", d.Cart.AddItem)
	cart.PATCH("/items/:id", d.Cart.UpdateItem)
	cart.DELETE("", d.Cart.ClearCart)
	cart.POST("/coupon", d.Cart.ApplyCoupon)

	co := api.Group("/checkout")
	co.POST("/address", d.Checkout.EnterAddress)
	co.POST("/place", d.Checkout.PlaceOrder)
	co.POST("/card", d.Checkout.SubmitCard)
	co.DELETE("", d.Checkout.Abandon)

	orders := api.Group("/orders")
	orders.GET("", d.Orders.ListOrders)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.POST("/:id/reorder", d.Orders.Reorder)

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/logout", d.Auth.Logout)
}
