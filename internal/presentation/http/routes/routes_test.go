package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gokmen-54/nalburos-web-deploy/internal/application/service"
	"github.com/gokmen-54/nalburos-web-deploy/internal/config"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
	"github.com/gokmen-54/nalburos-web-deploy/internal/gate"
	infrastore "github.com/gokmen-54/nalburos-web-deploy/internal/infrastructure/store"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/handler"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/utils"
)

// routerEnv wires the full HTTP stack over an in-memory store, the same
// composition main performs for a real backend.
type routerEnv struct {
	router *gin.Engine
	store  store.RecordStore
	sales  *service.SaleService
	jwt    *utils.JWTManager
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rs := infrastore.NewMemoryStore()
	g := gate.New()
	logger := zaptest.NewLogger(t)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	saleService := service.NewSaleService(rs, g, logger, "br_main", "reg_1")
	handlers := &Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(rs, jwtManager, logger)),
		Sale:     handler.NewSaleHandler(saleService),
		Payment:  handler.NewPaymentHandler(service.NewPaymentService(rs, g, logger)),
		Sync:     handler.NewSyncHandler(service.NewSyncService(rs, g, logger)),
		Product:  handler.NewProductHandler(service.NewProductService(rs, g, logger)),
		Customer: handler.NewCustomerHandler(service.NewCustomerService(rs, g, logger)),
	}

	cfg := &config.Config{
		App:       config.AppConfig{Name: "nalburos-pos-test", Env: "test"},
		RateLimit: config.RateLimitConfig{Requests: 100, Duration: 1},
	}
	router := Setup(handlers, &Deps{JWTManager: jwtManager, Cfg: cfg, Logger: logger})

	return &routerEnv{router: router, store: rs, sales: saleService, jwt: jwtManager}
}

func (e *routerEnv) token(t *testing.T, username string, role enum.UserRole) string {
	t.Helper()
	tok, err := e.jwt.GenerateAccessToken(username, username, role)
	require.NoError(t, err)
	return tok
}

func (e *routerEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// creditDraft seeds a customer with creditLimit 50 and balance 40, then opens
// a draft bound to that customer carrying a single line of net 120.
func (e *routerEnv) creditDraft(t *testing.T, actor entity.Actor) *entity.Sale {
	t.Helper()
	ctx := context.Background()

	product := entity.Product{
		ID:        uuid.New(),
		SKU:       "SKU-matkap",
		Name:      "matkap",
		Unit:      "adet",
		Quantity:  100,
		SalePrice: 50,
		LastCost:  30,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Save(ctx, e.store, store.Products, []entity.Product{product}))

	customer := entity.Customer{
		ID:          uuid.New(),
		Name:        "Usta Mehmet",
		CreditLimit: 50,
		Balance:     40,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, store.Save(ctx, e.store, store.Customers, []entity.Customer{customer}))

	sale, err := e.sales.CreateDraftSale(ctx, actor, &service.CreateDraftInput{CustomerID: &customer.ID})
	require.NoError(t, err)
	sale, err = e.sales.AddLine(ctx, actor, &service.AddLineInput{
		SaleID:    sale.ID,
		ProductID: product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	return sale
}

func TestFinalizeOverLimit_CashierForbidden(t *testing.T) {
	env := newRouterEnv(t)
	cashier := entity.Actor{Username: "kasiyer1", Name: "kasiyer1", Role: enum.RoleCashier}
	sale := env.creditDraft(t, cashier)

	w := env.do(t, http.MethodPost, "/api/v1/sales/"+sale.ID.String()+"/finalize",
		env.token(t, "kasiyer1", enum.RoleCashier),
		`{"allow_over_limit":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Nothing committed, the draft is still open and stock is untouched.
	after, err := env.sales.GetSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusDraft, after.Status)
	products, err := store.Load[entity.Product](context.Background(), env.store, store.Products)
	require.NoError(t, err)
	assert.Equal(t, 100.0, products[0].Quantity)
}

func TestFinalizeOverLimit_PlainFinalizeStillRejected(t *testing.T) {
	env := newRouterEnv(t)
	cashier := entity.Actor{Username: "kasiyer1", Name: "kasiyer1", Role: enum.RoleCashier}
	sale := env.creditDraft(t, cashier)

	w := env.do(t, http.MethodPost, "/api/v1/sales/"+sale.ID.String()+"/finalize",
		env.token(t, "kasiyer1", enum.RoleCashier), "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "credit_limit_exceeded", body.Kind)
}

func TestFinalizeOverLimit_ManagerAllowed(t *testing.T) {
	env := newRouterEnv(t)
	manager := entity.Actor{Username: "mudur1", Name: "mudur1", Role: enum.RoleManager}
	sale := env.creditDraft(t, manager)

	w := env.do(t, http.MethodPost, "/api/v1/sales/"+sale.ID.String()+"/finalize",
		env.token(t, "mudur1", enum.RoleManager),
		`{"allow_over_limit":true}`)
	assert.Equal(t, http.StatusOK, w.Code)

	after, err := env.sales.GetSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusCompleted, after.Status)
}
