package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chinmay1190/stepup-storefront/internal/gateway"
	"github.com/Chinmay1190/stepup-storefront/internal/identity"
	"github.com/Chinmay1190/stepup-storefront/internal/localstore"
	"github.com/Chinmay1190/stepup-storefront/internal/order"
	"github.com/Chinmay1190/stepup-storefront/internal/realtime"
	"github.com/Chinmay1190/stepup-storefront/internal/selection"
)

// testClient drives the full router like a browser: one session cookie,
// JSON in and out.
type testClient struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

type testEnv struct {
	t        *testing.T
	client   *testClient
	router   http.Handler
	store    *gateway.MemoryGateway
	registry *identity.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	feed := realtime.NewHub()
	store := gateway.NewMemoryGateway(feed)
	local := localstore.NewMemoryStore()
	registry := identity.NewRegistry()
	pipeline := order.NewPipeline(store, nil)
	history := order.NewHistory(store)

	sessions := NewSessionStore(func(id string) *Session {
		ident := registry.Session()
		return &Session{
			ID:       id,
			Identity: ident,
			Wishlist: selection.NewWishlist(selection.WishlistConfig{
				Store:    store,
				Local:    local,
				CacheKey: id + ":wishlist",
				Feed:     feed,
				Identity: ident,
			}),
			Cart: selection.NewCart(selection.CartConfig{
				Local:    local,
				CacheKey: id + ":cart",
				Identity: ident,
			}),
		}
	})

	router := NewRouter(RouterDeps{
		Sessions: sessions,
		Pipeline: pipeline,
		History:  history,
	})
	return &testEnv{
		t:        t,
		client:   &testClient{t: t, handler: router},
		router:   router,
		store:    store,
		registry: registry,
	}
}

// newClient opens a second browser against the same router, with its own
// session cookie.
func (env *testEnv) newClient() *testClient {
	return &testClient{t: env.t, handler: env.router}
}

func (c *testClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	if len(c.cookies) == 0 {
		c.cookies = rec.Result().Cookies()
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

func addTestItem(t *testing.T, c *testClient, productID string, qty int, price float64) {
	t.Helper()
	rec := c.do(http.MethodPost, "/api/v1/cart/items", AddLineRequestDTO{
		ProductID: productID,
		Name:      "Runner " + productID,
		Size:      9,
		Color:     "black",
		Quantity:  qty,
		Price:     price,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func signIn(t *testing.T, env *testEnv, email string) {
	t.Helper()
	rec := env.client.do(http.MethodPost, "/api/v1/auth/signup", CredentialsDTO{
		Email: email, Password: "secret", FullName: "Asha Rao",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = env.client.do(http.MethodPost, "/api/v1/auth/signin", CredentialsDTO{
		Email: email, Password: "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCartEndpoints(t *testing.T) {
	env := newTestEnv(t)

	addTestItem(t, env.client, "P1", 1, 2999)
	addTestItem(t, env.client, "P1", 2, 2999)

	var resp CartResponseDTO
	rec := env.client.do(http.MethodGet, "/api/v1/cart/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	require.Len(t, resp.Items, 1, "same (product, size, color) merges into one line")
	assert.Equal(t, 3, resp.Items[0].Quantity)
	assert.Equal(t, 8997.0, resp.Pricing.Subtotal)
	assert.Equal(t, 0.0, resp.Pricing.Shipping)

	rec = env.client.do(http.MethodPut, "/api/v1/cart/items", UpdateQuantityRequestDTO{
		ProductID: "P1", Size: 9, Color: "black", Quantity: 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.Empty(t, resp.Items, "quantity 0 removes the line")

	addTestItem(t, env.client, "P2", 1, 1500)
	rec = env.client.do(http.MethodDelete, "/api/v1/cart/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.Empty(t, resp.Items)
}

func TestCart_RejectsInvalidPayloads(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  AddLineRequestDTO
		code string
	}{
		{"missing product id", AddLineRequestDTO{Quantity: 1, Price: 10}, "invalid_product_id"},
		{"zero quantity", AddLineRequestDTO{ProductID: "P1", Quantity: 0, Price: 10}, "invalid_quantity"},
		{"excessive quantity", AddLineRequestDTO{ProductID: "P1", Quantity: 100, Price: 10}, "invalid_quantity"},
		{"negative price", AddLineRequestDTO{ProductID: "P1", Quantity: 1, Price: -1}, "invalid_price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.client.do(http.MethodPost, "/api/v1/cart/items", tt.req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			var errResp ErrorResponse
			decode(t, rec, &errResp)
			assert.Equal(t, tt.code, errResp.Code)
		})
	}
}

func TestWishlistEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.client.do(http.MethodPost, "/api/v1/wishlist/P1/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var toggle struct {
		ProductID  string `json:"product_id"`
		Wishlisted bool   `json:"wishlisted"`
	}
	decode(t, rec, &toggle)
	assert.True(t, toggle.Wishlisted)

	rec = env.client.do(http.MethodGet, "/api/v1/wishlist/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []string `json:"items"`
	}
	decode(t, rec, &list)
	assert.Equal(t, []string{"P1"}, list.Items)

	rec = env.client.do(http.MethodPost, "/api/v1/wishlist/P1/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &toggle)
	assert.False(t, toggle.Wishlisted)
}

func TestCheckout_EmptyCartIsRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.client.do(http.MethodPost, "/api/v1/checkout/", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, "empty_cart", errResp.Code)
}

func TestCheckout_FullFlow(t *testing.T) {
	env := newTestEnv(t)
	addTestItem(t, env.client, "P1", 3, 2000)

	rec := env.client.do(http.MethodPost, "/api/v1/checkout/", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var state CheckoutStateDTO
	decode(t, rec, &state)
	assert.Equal(t, 1, state.Step)
	assert.Equal(t, 3, state.Steps)

	// Advancing an empty contact form is blocked with the field in details.
	rec = env.client.do(http.MethodPost, "/api/v1/checkout/advance", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, "validation_failed", errResp.Code)
	assert.Equal(t, "contact", errResp.Details)
	assert.Equal(t, "Please fill in all required fields", errResp.Error)

	rec = env.client.do(http.MethodPut, "/api/v1/checkout/draft", map[string]interface{}{
		"first_name": "Asha", "last_name": "Rao",
		"email": "a@b.com", "phone": "+91 98765 43210",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.client.do(http.MethodPost, "/api/v1/checkout/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &state)
	assert.Equal(t, 2, state.Step)

	rec = env.client.do(http.MethodPut, "/api/v1/checkout/draft", map[string]interface{}{
		"street": "12 MG Road", "city": "Mumbai", "state": "MH", "zip": "400001",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.client.do(http.MethodPost, "/api/v1/checkout/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &state)
	assert.Equal(t, 3, state.Step)

	// Back and forward again: no gate on the way back, contact still valid.
	rec = env.client.do(http.MethodPost, "/api/v1/checkout/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &state)
	assert.Equal(t, 2, state.Step)
	rec = env.client.do(http.MethodPost, "/api/v1/checkout/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var quote struct {
		Subtotal float64 `json:"subtotal"`
		Shipping float64 `json:"shipping"`
		Total    float64 `json:"total"`
	}
	rec = env.client.do(http.MethodGet, "/api/v1/checkout/quote", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &quote)
	assert.Equal(t, 6000.0, quote.Subtotal)
	assert.Equal(t, 0.0, quote.Shipping)
	assert.Equal(t, 6000.0, quote.Total)

	rec = env.client.do(http.MethodPut, "/api/v1/checkout/draft", map[string]interface{}{
		"payment_method": "cod",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.client.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var conf struct {
		OrderID            string  `json:"order_id"`
		Persisted          bool    `json:"persisted"`
		PaymentMethodLabel string  `json:"payment_method_label"`
		Pricing            struct {
			Total float64 `json:"total"`
		} `json:"pricing"`
	}
	decode(t, rec, &conf)
	assert.Regexp(t, `^SH[0-9A-Z]+$`, conf.OrderID)
	assert.False(t, conf.Persisted, "anonymous order is not persisted")
	assert.Equal(t, "Cash on Delivery", conf.PaymentMethodLabel)
	assert.Equal(t, 6000.0, conf.Pricing.Total)

	// Success clears the cart and discards the flow.
	var cart CartResponseDTO
	rec = env.client.do(http.MethodGet, "/api/v1/cart/", nil)
	decode(t, rec, &cart)
	assert.Empty(t, cart.Items)

	rec = env.client.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	decode(t, rec, &errResp)
	assert.Equal(t, "no_checkout", errResp.Code)
}

func TestCheckout_SubmitBeforePaymentStep(t *testing.T) {
	env := newTestEnv(t)
	addTestItem(t, env.client, "P1", 1, 2000)

	rec := env.client.do(http.MethodPost, "/api/v1/checkout/", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.client.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, "invalid_state", errResp.Code)
}

func walkToPayment(t *testing.T, c *testClient) {
	t.Helper()
	rec := c.do(http.MethodPost, "/api/v1/checkout/", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = c.do(http.MethodPut, "/api/v1/checkout/draft", map[string]interface{}{
		"first_name": "Asha", "last_name": "Rao",
		"email": "a@b.com", "phone": "+91 98765 43210",
		"street": "12 MG Road", "city": "Mumbai", "state": "MH", "zip": "400001",
		"payment_method": "cod",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	for i := 0; i < 2; i++ {
		rec = c.do(http.MethodPost, "/api/v1/checkout/advance", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestCheckout_GatewayFailureKeepsCartForRetry(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, "asha@b.com")
	addTestItem(t, env.client, "P1", 1, 2000)
	walkToPayment(t, env.client)

	env.store.FailLineWrites = fmt.Errorf("batch insert failed")
	rec := env.client.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, "order_submission_failed", errResp.Code)
	assert.Equal(t, "Failed to place order. Please try again.", errResp.Error)

	var cart CartResponseDTO
	rec = env.client.do(http.MethodGet, "/api/v1/cart/", nil)
	decode(t, rec, &cart)
	require.Len(t, cart.Items, 1, "failed submission must not clear the cart")

	// The flow is still at payment; fixing the backend makes the retry land.
	env.store.FailLineWrites = nil
	rec = env.client.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var conf struct {
		Persisted bool `json:"persisted"`
	}
	decode(t, rec, &conf)
	assert.True(t, conf.Persisted)
}

func TestOrders_RequireAuthentication(t *testing.T) {
	env := newTestEnv(t)

	rec := env.client.do(http.MethodGet, "/api/v1/orders/", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrders_ListAndInvoice(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, "asha@b.com")

	rec := env.client.do(http.MethodGet, "/api/v1/orders/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Orders []json.RawMessage `json:"orders"`
		Count  int               `json:"count"`
	}
	decode(t, rec, &list)
	assert.NotNil(t, list.Orders, "orders is an array even when empty")
	assert.Equal(t, 0, list.Count)

	addTestItem(t, env.client, "P1", 1, 2000)
	walkToPayment(t, env.client)
	rec = env.client.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var conf struct {
		StorageID string `json:"storage_id"`
	}
	decode(t, rec, &conf)
	require.NotEmpty(t, conf.StorageID)

	rec = env.client.do(http.MethodGet, "/api/v1/orders/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	assert.Equal(t, 1, list.Count)

	rec = env.client.do(http.MethodGet, "/api/v1/orders/"+conf.StorageID+"/invoice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inv struct {
		Number   string  `json:"number"`
		Subtotal float64 `json:"subtotal"`
		Shipping float64 `json:"shipping"`
		Total    float64 `json:"total"`
	}
	decode(t, rec, &inv)
	assert.Regexp(t, `^INV-[0-9A-F-]{8}$`, inv.Number)
	assert.Equal(t, 2000.0, inv.Subtotal)
	assert.Equal(t, 499.0, inv.Shipping)
	assert.Equal(t, 2499.0, inv.Total)

	rec = env.client.do(http.MethodGet, "/api/v1/orders/nope/invoice", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth_SignInIsScopedToOneSession(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, "asha@b.com")

	// A second browser session stays anonymous.
	other := env.newClient()
	rec := other.do(http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Identity *identity.Identity `json:"identity"`
	}
	decode(t, rec, &me)
	assert.Nil(t, me.Identity, "another session signing in must not authenticate this one")

	rec = other.do(http.MethodGet, "/api/v1/orders/", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The signed-in session itself is unaffected.
	rec = env.client.do(http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &me)
	require.NotNil(t, me.Identity)
	assert.Equal(t, "asha@b.com", me.Identity.Email)
}

func TestAuth_ErrorMapping(t *testing.T) {
	env := newTestEnv(t)

	rec := env.client.do(http.MethodPost, "/api/v1/auth/signin", CredentialsDTO{
		Email: "nobody@b.com", Password: "secret",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, "invalid_credentials", errResp.Code)
	assert.Equal(t, "Invalid email or password. Please try again.", errResp.Error)

	signIn(t, env, "asha@b.com")
	rec = env.client.do(http.MethodPost, "/api/v1/auth/signup", CredentialsDTO{
		Email: "asha@b.com", Password: "other",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	decode(t, rec, &errResp)
	assert.Equal(t, "already_registered", errResp.Code)

	rec = env.client.do(http.MethodPost, "/api/v1/auth/signout", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
