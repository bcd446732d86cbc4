package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sahanw/restopos/config"
	"github.com/sahanw/restopos/internal/bus"
	"github.com/sahanw/restopos/internal/menu"
	menudto "github.com/sahanw/restopos/internal/menu/dto"
	"github.com/sahanw/restopos/internal/model"
	"github.com/sahanw/restopos/internal/order"
	orderdto "github.com/sahanw/restopos/internal/order/dto"
	"github.com/sahanw/restopos/internal/refund"
	"github.com/sahanw/restopos/internal/settings"
	"github.com/sahanw/restopos/internal/user"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSettingsRepo struct {
	values map[string]json.RawMessage
}

func (f *fakeSettingsRepo) Get(_ context.Context, key string) (json.RawMessage, error) {
	v, ok := f.values[key]
	if !ok {
		return nil, settings.ErrNotFound
	}
	return v, nil
}

func (f *fakeSettingsRepo) Set(_ context.Context, key string, value json.RawMessage) error {
	f.values[key] = value
	return nil
}

type fakeOrders struct {
	orders       []model.Order
	refundWrites int
}

func (f *fakeOrders) Create(_ context.Context, input *orderdto.CreateOrderInput) (*model.Order, error) {
	o := &model.Order{ID: "neworder1", Items: input.Items, Status: model.StatusPending}
	return o, nil
}

func (f *fakeOrders) GetAll(context.Context) []model.Order { return f.orders }

func (f *fakeOrders) Advance(_ context.Context, code string) (model.OrderStatus, error) {
	for _, o := range f.orders {
		if o.ID == code {
			return model.NextStatus(o.Status), nil
		}
	}
	return "", order.ErrNotFound
}

func (f *fakeOrders) UpdateStatus(context.Context, string, model.OrderStatus) error { return nil }

func (f *fakeOrders) UpdateRefundStatus(_ context.Context, code string, status model.RefundStatus) error {
	for i := range f.orders {
		if f.orders[i].ID == code {
			f.orders[i].RefundStatus = status
			f.refundWrites++
			return nil
		}
	}
	return order.ErrNotFound
}

type fakeMenu struct {
	items []model.MenuItem
}

func (f *fakeMenu) Create(_ context.Context, input *menudto.CreateMenuItemInput) (*model.MenuItem, error) {
	item := &model.MenuItem{ID: "m1", Name: input.Name, Price: input.Price, Category: input.Category, Available: true}
	f.items = append(f.items, *item)
	return item, nil
}

func (f *fakeMenu) GetAll(context.Context, bool) ([]model.MenuItem, error) { return f.items, nil }

func (f *fakeMenu) GetByID(_ context.Context, id string) (*model.MenuItem, error) {
	return nil, menu.ErrNotFound
}

func (f *fakeMenu) Update(context.Context, *menudto.UpdateMenuItemInput) (*model.MenuItem, error) {
	return nil, menu.ErrNotFound
}

func (f *fakeMenu) SetAvailability(context.Context, string, bool) error { return menu.ErrNotFound }
func (f *fakeMenu) Delete(context.Context, string) error                { return menu.ErrNotFound }

type env struct {
	router *gin.Engine
	orders *fakeOrders
}

func newEnv(t *testing.T) *env {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{AppEnv: "test"},
		JWT:    config.JWTConfig{SecretKey: "test-secret", TTL: 3600000000000},
	}

	settingsSvc := settings.NewService(&fakeSettingsRepo{values: map[string]json.RawMessage{}}, t.TempDir(), zap.NewNop())

	users := []model.User{}
	for _, u := range []struct {
		id, name, pass string
		role           model.Role
	}{
		{"u1", "Admin", "pass1", model.RoleAdmin},
		{"u2", "Nimal", "pass2", model.RoleManager},
		{"u3", "Kasun", "pass3", model.RoleStaff},
	} {
		hashed, err := user.HashPassword(u.pass)
		require.NoError(t, err)
		users = append(users, model.User{ID: u.id, Name: u.name, Role: u.role, Password: hashed, IsActive: true})
	}
	require.NoError(t, settingsSvc.SetSystem(context.Background(), model.SystemSettings{Users: users}))

	userSvc := user.NewService(settingsSvc, bus.New(), zap.NewNop())

	orders := &fakeOrders{orders: []model.Order{
		{
			ID:     "done12345",
			Status: model.StatusCompleted, RefundStatus: model.RefundNone,
			Total:         100,
			PaymentMethod: model.PaymentCash,
			Items: []model.OrderItem{
				{MenuItem: model.MenuItem{Name: "Kottu", Price: 100}, Quantity: 1},
			},
		},
		{ID: "open67890", Status: model.StatusPending, Total: 20},
	}}

	h := Handlers{
		Auth:     NewAuthHandler(userSvc, cfg.JWT),
		Menu:     NewMenuHandler(&fakeMenu{}),
		Orders:   NewOrdersHandler(orders, refund.NewProcessor(orders, nil, zap.NewNop()), settingsSvc),
		Settings: NewSettingsHandler(settingsSvc),
	}
	return &env{router: NewRouter(cfg, h), orders: orders}
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) login(t *testing.T, username, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLogin(t *testing.T) {
	e := newEnv(t)

	t.Run("success", func(t *testing.T) {
		e.login(t, "Admin", "pass1")
	})
	t.Run("wrong password", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": "Admin", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("missing fields", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": "Admin"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRoutesRequireToken(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/orders", "/menu", "/settings"} {
		w := e.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := e.do(t, http.MethodGet, "/orders", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMenuCapabilityGate(t *testing.T) {
	e := newEnv(t)
	staff := e.login(t, "Kasun", "pass3")
	manager := e.login(t, "Nimal", "pass2")

	item := gin.H{"name": "Kottu", "price": 950, "category": "food"}

	w := e.do(t, http.MethodPost, "/menu", staff, item)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPost, "/menu", manager, item)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Staff can still read the menu.
	w = e.do(t, http.MethodGet, "/menu", staff, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefundStatusMapping(t *testing.T) {
	e := newEnv(t)
	manager := e.login(t, "Nimal", "pass2")
	staff := e.login(t, "Kasun", "pass3")

	t.Run("unknown order", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/orders/missing/refund", manager,
			gin.H{"type": "full", "reason": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("not completed", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/orders/open67890/refund", manager,
			gin.H{"type": "full", "reason": "x"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("blank reason", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/orders/done12345/refund", manager,
			gin.H{"type": "partial", "amount": 40, "reason": "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("staff over ceiling", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/orders/done12345/refund", staff,
			gin.H{"type": "partial", "amount": 40, "reason": "cold"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("manager partial succeeds then conflicts", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/orders/done12345/refund", manager,
			gin.H{"type": "partial", "amount": 40, "reason": "cold"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var tx model.RefundTransaction
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tx))
		assert.Equal(t, 40.0, tx.RefundAmount)
		assert.Equal(t, 1, e.orders.refundWrites)

		w = e.do(t, http.MethodPost, "/orders/done12345/refund", manager,
			gin.H{"type": "partial", "amount": 10, "reason": "again"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 1, e.orders.refundWrites)
	})
}

func TestAdvanceOrder(t *testing.T) {
	e := newEnv(t)
	manager := e.login(t, "Nimal", "pass2")

	w := e.do(t, http.MethodPost, "/orders/open67890/advance", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "preparing")

	w = e.do(t, http.MethodPost, "/orders/missing/advance", manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettingsAccess(t *testing.T) {
	e := newEnv(t)
	admin := e.login(t, "Admin", "pass1")
	staff := e.login(t, "Kasun", "pass3")

	body := gin.H{"name": "Spice Garden", "serviceCharge": 10, "currency": "LKR"}

	w := e.do(t, http.MethodPut, "/settings/restaurant", staff, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPut, "/settings/restaurant", admin, body)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(t, http.MethodGet, "/settings/restaurant", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Spice Garden")

	w = e.do(t, http.MethodGet, "/settings/bogus", staff, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
