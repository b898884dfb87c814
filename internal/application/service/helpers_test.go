package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
	"github.com/gokmen-54/nalburos-web-deploy/internal/gate"
	infrastore "github.com/gokmen-54/nalburos-web-deploy/internal/infrastructure/store"
)

// testEnv wires every service against a shared in-memory store and gate,
// the same way main does for a real backend.
type testEnv struct {
	store     store.RecordStore
	sales     *SaleService
	payments  *PaymentService
	sync      *SyncService
	products  *ProductService
	customers *CustomerService
	actor     entity.Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	rs := infrastore.NewMemoryStore()
	g := gate.New()
	logger := zaptest.NewLogger(t)
	return &testEnv{
		store:     rs,
		sales:     NewSaleService(rs, g, logger, "br_main", "reg_1"),
		payments:  NewPaymentService(rs, g, logger),
		sync:      NewSyncService(rs, g, logger),
		products:  NewProductService(rs, g, logger),
		customers: NewCustomerService(rs, g, logger),
		actor:     entity.Actor{Username: "kasiyer1", Name: "Test Kasiyer", Role: enum.RoleCashier},
	}
}

func (e *testEnv) seedProduct(t *testing.T, name string, price, cost, stock float64) entity.Product {
	t.Helper()
	ctx := context.Background()
	products, err := store.Load[entity.Product](ctx, e.store, store.Products)
	require.NoError(t, err)
	p := entity.Product{
		ID:        uuid.New(),
		SKU:       "SKU-" + name,
		Name:      name,
		Unit:      "adet",
		Quantity:  stock,
		SalePrice: price,
		LastCost:  cost,
		CreatedAt: time.Now().UTC(),
	}
	products = append(products, p)
	require.NoError(t, store.Save(ctx, e.store, store.Products, products))
	return p
}

func (e *testEnv) seedCustomer(t *testing.T, name string, limit, balance float64) entity.Customer {
	t.Helper()
	ctx := context.Background()
	customers, err := store.Load[entity.Customer](ctx, e.store, store.Customers)
	require.NoError(t, err)
	c := entity.Customer{
		ID:          uuid.New(),
		Name:        name,
		CreditLimit: limit,
		Balance:     balance,
		CreatedAt:   time.Now().UTC(),
	}
	customers = append(customers, c)
	require.NoError(t, store.Save(ctx, e.store, store.Customers, customers))
	return c
}

// draftWithLine opens a draft and puts qty of the product on it.
func (e *testEnv) draftWithLine(t *testing.T, p entity.Product, qty float64) *entity.Sale {
	t.Helper()
	ctx := context.Background()
	sale, err := e.sales.CreateDraftSale(ctx, e.actor, &CreateDraftInput{})
	require.NoError(t, err)
	sale, err = e.sales.AddLine(ctx, e.actor, &AddLineInput{
		SaleID:    sale.ID,
		ProductID: p.ID,
		Quantity:  qty,
	})
	require.NoError(t, err)
	return sale
}

func (e *testEnv) loadSale(t *testing.T, id uuid.UUID) entity.Sale {
	t.Helper()
	sale, err := e.sales.GetSale(context.Background(), id)
	require.NoError(t, err)
	return *sale
}

func (e *testEnv) loadAuditActions(t *testing.T) []string {
	t.Helper()
	logs, err := store.Load[entity.AuditLog](context.Background(), e.store, store.AuditLogs)
	require.NoError(t, err)
	actions := make([]string, len(logs))
	for i, l := range logs {
		actions[i] = l.Action
	}
	return actions
}
