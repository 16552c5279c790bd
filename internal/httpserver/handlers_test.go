package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YousefHatem4/food_storefront/internal/authclient"
	"github.com/YousefHatem4/food_storefront/internal/cart"
	"github.com/YousefHatem4/food_storefront/internal/catalog"
	"github.com/YousefHatem4/food_storefront/internal/checkout"
	"github.com/YousefHatem4/food_storefront/internal/events"
	"github.com/YousefHatem4/food_storefront/internal/history"
	"github.com/YousefHatem4/food_storefront/internal/models"
	"github.com/YousefHatem4/food_storefront/internal/session"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	Sessions *session.Store
	Sess     *session.Session
	History  *history.Store

	Cart     *CartHTTP
	Checkout *CheckoutHTTP
	Orders   *OrdersHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := history.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	historyStore := history.NewStore(&history.GormRepo{DB: db})
	sessions := session.NewStore(func(c *cart.Cart) *checkout.Checkout {
		return checkout.New(c, historyStore, 0)
	})
	producer := events.NewProducer(nil, "")

	return &testEnv{
		T:        t,
		E:        echo.New(),
		Sessions: sessions,
		Sess:     sessions.Create(),
		History:  historyStore,
		Cart:     &CartHTTP{Producer: producer},
		Checkout: &CheckoutHTTP{Producer: producer},
		Orders:   &OrdersHTTP{History: historyStore, Producer: producer},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.Set("session", env.Sess)
	return rec, c
}

func (env *testEnv) addItem(id string, price float64, qty int) {
	env.Sess.Cart.Add(models.CartLine{
		ItemID:   id,
		Name:     "item " + id,
		Price:    decimal.NewFromFloat(price),
		Quantity: qty,
	})
}

func TestCartHandlers_AddAndUpdate(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart/items", map[string]any{
		"id": "1", "name": "koshari", "price": 50, "quantity": 2,
	})
	require.NoError(t, env.Cart.AddItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/cart/items", map[string]any{
		"id": "1", "name": "koshari", "price": 50,
	})
	require.NoError(t, env.Cart.AddItem(c))

	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(150)))

	rec, c = env.doJSONRequest(http.MethodPatch, "/cart/items/1", map[string]any{"quantity": 0})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Cart.UpdateItem(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestCartHandlers_AddItemValidation(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/cart/items", map[string]any{"name": "no id"})
	err := env.Cart.AddItem(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)

	_, c = env.doJSONRequest(http.MethodPost, "/cart/items", map[string]any{"id": "1", "price": -5})
	err = env.Cart.AddItem(c)
	require.Error(t, err)
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCartHandlers_Coupon(t *testing.T) {
	env := newTestEnv(t)
	env.addItem("1", 50, 2)
	env.addItem("2", 30, 1)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart/coupon", map[string]string{"code": "aa21"})
	require.NoError(t, env.Cart.ApplyCoupon(c))

	var resp struct {
		Valid    bool            `json:"valid"`
		Discount decimal.Decimal `json:"discount"`
		Total    decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.True(t, resp.Discount.Equal(decimal.NewFromFloat(13.0)))
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(117.0)))

	rec, c = env.doJSONRequest(http.MethodPost, "/cart/coupon", map[string]string{"code": "bogus"})
	require.NoError(t, env.Cart.ApplyCoupon(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.True(t, resp.Discount.IsZero())
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(130)))
}

func TestCheckoutHandlers_CashFlow(t *testing.T) {
	env := newTestEnv(t)
	env.addItem("1", 50, 2)

	rec, c := env.doJSONRequest(http.MethodPost, "/checkout/address", map[string]string{
		"street": "12 Tahrir St", "city": "Cairo", "phone": "01012345678",
	})
	require.NoError(t, env.Checkout.EnterAddress(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/checkout/place", map[string]string{"payment_method": "cash"})
	require.NoError(t, env.Checkout.PlaceOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Step  checkout.Step `json:"step"`
		Order *models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, checkout.StepConfirmed, resp.Step)
	require.NotNil(t, resp.Order)
	assert.Equal(t, models.PaymentCashOnDelivery, resp.Order.PaymentMethod)
	assert.Equal(t, models.OrderStatusProcessing, resp.Order.Status)

	assert.Equal(t, 0, env.Sess.Cart.Len(), "cart cleared after submission")

	orders := env.History.List(c.Request().Context())
	require.Len(t, orders, 1)
	assert.Equal(t, resp.Order.OrderID, orders[0].OrderID)
}

func TestCheckoutHandlers_CardFlow(t *testing.T) {
	env := newTestEnv(t)
	env.addItem("1", 50, 2)

	_, c := env.doJSONRequest(http.MethodPost, "/checkout/address", map[string]string{
		"street": "12 Tahrir St", "city": "Cairo", "phone": "01012345678",
	})
	require.NoError(t, env.Checkout.EnterAddress(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/checkout/place", map[string]string{"payment_method": "card"})
	require.NoError(t, env.Checkout.PlaceOrder(c))

	var stepResp struct {
		Step checkout.Step `json:"step"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stepResp))
	require.Equal(t, checkout.StepCardDetails, stepResp.Step)

	rec, c = env.doJSONRequest(http.MethodPost, "/checkout/card", map[string]string{
		"number": "4111 1111 1111 1111", "expiry": "12/25", "cvv": "123", "name": "A B",
	})
	require.NoError(t, env.Checkout.SubmitCard(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Order *models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Order)
	assert.Equal(t, models.PaymentBankTransfer, resp.Order.PaymentMethod)
	assert.Contains(t, resp.Order.TransactionID, "TXN-")
}

func TestCheckoutHandlers_InvalidCardKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	env.addItem("1", 50, 2)

	_, c := env.doJSONRequest(http.MethodPost, "/checkout/address", map[string]string{
		"street": "s", "city": "c", "phone": "p",
	})
	require.NoError(t, env.Checkout.EnterAddress(c))
	_, c = env.doJSONRequest(http.MethodPost, "/checkout/place", map[string]string{"payment_method": "card"})
	require.NoError(t, env.Checkout.PlaceOrder(c))

	_, c = env.doJSONRequest(http.MethodPost, "/checkout/card", map[string]string{
		"number": "4111 1111 1111 111", "expiry": "12/25", "cvv": "123", "name": "A B",
	})
	err := env.Checkout.SubmitCard(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)

	assert.Equal(t, 1, env.Sess.Cart.Len())
	assert.Empty(t, env.History.List(c.Request().Context()))
}

func TestCheckoutHandlers_UnknownPaymentMethod(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/checkout/place", map[string]string{"payment_method": "crypto"})
	err := env.Checkout.PlaceOrder(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestMenuHandler_FallsBackToEmptyList(t *testing.T) {
	env := newTestEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	menu := &MenuHTTP{Catalog: catalog.NewClient(srv.URL)}

	rec, c := env.doJSONRequest(http.MethodGet, "/menu/items", nil)
	require.NoError(t, menu.GetMenu(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []models.MenuItem `json:"items"`
		Error string            `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.NotEmpty(t, resp.Error)
}

func TestOrdersHandlers_GetAndReorder(t *testing.T) {
	env := newTestEnv(t)

	env.addItem("1", 50, 2)
	_, c := env.doJSONRequest(http.MethodPost, "/checkout/address", map[string]string{
		"street": "s", "city": "c", "phone": "p",
	})
	require.NoError(t, env.Checkout.EnterAddress(c))
	rec, c := env.doJSONRequest(http.MethodPost, "/checkout/place", map[string]string{"payment_method": "cash"})
	require.NoError(t, env.Checkout.PlaceOrder(c))

	var placed struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	rec, c = env.doJSONRequest(http.MethodGet, "/orders/"+placed.Order.OrderID, nil)
	c.SetParamNames("id")
	c.SetParamValues(placed.Order.OrderID)
	require.NoError(t, env.Orders.GetOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/orders/"+placed.Order.OrderID+"/reorder", nil)
	c.SetParamNames("id")
	c.SetParamValues(placed.Order.OrderID)
	require.NoError(t, env.Orders.Reorder(c))

	var reorder struct {
		Added int          `json:"added"`
		Cart  cartResponse `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reorder))
	assert.Equal(t, 1, reorder.Added)
	require.Len(t, reorder.Cart.Items, 1)
	assert.Equal(t, 2, reorder.Cart.Items[0].Quantity)
}

func TestOrdersHandlers_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/orders/ORD-NOPE0000", nil)
	c.SetParamNames("id")
	c.SetParamValues("ORD-NOPE0000")
	require.NoError(t, env.Orders.GetOrder(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/orders", resp.Redirect)
}

func TestAuthHandler_Register(t *testing.T) {
	env := newTestEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access": "granted-token"})
	}))
	t.Cleanup(srv.Close)

	auth := &AuthHTTP{Auth: authclient.NewClient(srv.URL), Sessions: env.Sessions}

	rec, c := env.doJSONRequest(http.MethodPost, "/auth/register", map[string]string{
		"email": "user@example.com", "password": "secret1",
		"first_name": "Yousef", "last_name": "Hatem", "phone_number": "01012345678",
	})
	require.NoError(t, auth.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "granted-token", env.Sess.AccessToken())

	// Per-field validation errors come back as a keyed map.
	rec, c = env.doJSONRequest(http.MethodPost, "/auth/register", map[string]string{
		"email": "bad", "password": "123",
		"first_name": "Yousef", "last_name": "Hatem", "phone_number": "01012345678",
	})
	require.NoError(t, auth.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "password")
}
