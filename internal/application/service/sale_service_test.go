package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/apperror"
)

func TestCreateDraftSale_Defaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sale, err := env.sales.CreateDraftSale(ctx, env.actor, &CreateDraftInput{})
	require.NoError(t, err)

	assert.Equal(t, enum.SaleStatusDraft, sale.Status)
	assert.Equal(t, entity.DefaultCustomerName, sale.CustomerName)
	assert.Equal(t, "br_main", sale.BranchID)
	assert.Equal(t, "reg_1", sale.RegisterID)
	assert.Equal(t, env.actor.Username, sale.CreatedBy)
	assert.Empty(t, sale.Lines)

	actions := env.loadAuditActions(t)
	require.Contains(t, actions, entity.AuditSaleDraftCreate)
}

func TestGetOpenDraftSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	got, err := env.sales.GetOpenDraftSale(ctx, env.actor)
	require.NoError(t, err)
	assert.Nil(t, got)

	sale, err := env.sales.CreateDraftSale(ctx, env.actor, &CreateDraftInput{})
	require.NoError(t, err)

	got, err = env.sales.GetOpenDraftSale(ctx, env.actor)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sale.ID, got.ID)

	// Another cashier's draft is invisible.
	other := entity.Actor{Username: "kasiyer2", Role: enum.RoleCashier}
	got, err = env.sales.GetOpenDraftSale(ctx, other)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAddLine_MergesSameProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "vida", 50, 30, 100)

	sale := env.draftWithLine(t, p, 2)
	require.Len(t, sale.Lines, 1)
	assert.InDelta(t, 100, sale.SubTotal, 1e-9)

	// Repeat add merges quantity and takes the latest price.
	newPrice := 40.0
	sale, err := env.sales.AddLine(ctx, env.actor, &AddLineInput{
		SaleID:    sale.ID,
		ProductID: p.ID,
		Quantity:  3,
		UnitPrice: &newPrice,
	})
	require.NoError(t, err)
	require.Len(t, sale.Lines, 1)
	assert.InDelta(t, 5, sale.Lines[0].Quantity, 1e-9)
	assert.InDelta(t, 40, sale.Lines[0].UnitPrice, 1e-9)
}

func TestAddLine_SnapshotsTaxAndName(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "boya", 100, 60, 10)

	sale := env.draftWithLine(t, p, 1)
	line := sale.Lines[0]
	assert.Equal(t, p.Name, line.ProductName)
	assert.Equal(t, p.SKU, line.SKU)
	assert.InDelta(t, float64(entity.DefaultTaxRate), line.TaxRate, 1e-9)
}

func TestAddLine_NegativeMarginAudit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "matkap", 500, 400, 5)

	sale, err := env.sales.CreateDraftSale(ctx, env.actor, &CreateDraftInput{})
	require.NoError(t, err)

	below := 350.0
	_, err = env.sales.AddLine(ctx, env.actor, &AddLineInput{
		SaleID:    sale.ID,
		ProductID: p.ID,
		Quantity:  1,
		UnitPrice: &below,
	})
	require.NoError(t, err)

	actions := env.loadAuditActions(t)
	assert.Contains(t, actions, entity.AuditSaleLineAdd)
	assert.Contains(t, actions, entity.AuditNegativeMargin)
}

func TestAddLine_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "civi", 10, 5, 100)

	sale, err := env.sales.CreateDraftSale(ctx, env.actor, &CreateDraftInput{})
	require.NoError(t, err)

	_, err = env.sales.AddLine(ctx, env.actor, &AddLineInput{SaleID: sale.ID, ProductID: p.ID, Quantity: 0})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidQuantity))

	_, err = env.sales.AddLine(ctx, env.actor, &AddLineInput{SaleID: sale.ID, ProductID: uuid.New(), Quantity: 1})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = env.sales.AddLine(ctx, env.actor, &AddLineInput{SaleID: uuid.New(), ProductID: p.ID, Quantity: 1})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUpdateLine_DecrementAndRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "silikon", 20, 10, 50)

	sale := env.draftWithLine(t, p, 3)
	lineID := sale.Lines[0].ID

	sale2, err := env.sales.UpdateLine(ctx, env.actor, &UpdateLineInput{
		SaleID: sale.ID, LineID: lineID, Mode: LineUpdateDecreaseOne,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2, sale2.Lines[0].Quantity, 1e-9)

	sale3, err := env.sales.UpdateLine(ctx, env.actor, &UpdateLineInput{
		SaleID: sale.ID, LineID: lineID, Mode: LineUpdateRemove,
	})
	require.NoError(t, err)
	assert.Empty(t, sale3.Lines)
	assert.Zero(t, sale3.SubTotal)
}

func TestUpdateLine_DecrementAtOneRemoves(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "bant", 15, 8, 50)

	sale := env.draftWithLine(t, p, 1)
	updated, err := env.sales.UpdateLine(ctx, env.actor, &UpdateLineInput{
		SaleID: sale.ID, LineID: sale.Lines[0].ID, Mode: LineUpdateDecreaseOne,
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Lines)
}

func TestSetManualDiscount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "kablo", 100, 70, 10)

	sale := env.draftWithLine(t, p, 1) // net 120 with default VAT

	updated, err := env.sales.SetManualDiscount(ctx, env.actor, sale.ID, 20)
	require.NoError(t, err)
	assert.InDelta(t, 100, updated.NetTotal, 1e-9)

	// Oversized discounts clamp instead of failing.
	updated, err = env.sales.SetManualDiscount(ctx, env.actor, sale.ID, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 120, updated.ManualDiscountTotal, 1e-9)
	assert.Zero(t, updated.NetTotal)

	_, err = env.sales.SetManualDiscount(ctx, env.actor, sale.ID, -5)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidAmount))
}

func TestFinalize_HappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "vida", 50, 30, 100)

	sale := env.draftWithLine(t, p, 2) // net 120
	_, err := env.payments.AddPayment(ctx, env.actor, &AddPaymentInput{
		SaleID: sale.ID, Method: enum.PaymentMethodCash, Amount: 150,
	})
	require.NoError(t, err)

	result, err := env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: sale.ID})
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusCompleted, result.Sale.Status)
	assert.Zero(t, result.Sale.DueTotal)
	assert.NotEqual(t, uuid.Nil, result.SyncEventID)

	// Stock decremented and one OUT movement per line.
	products, err := store.Load[entity.Product](ctx, env.store, store.Products)
	require.NoError(t, err)
	assert.InDelta(t, 98, products[0].Quantity, 1e-9)

	movements, err := store.Load[entity.StockMovement](ctx, env.store, store.StockMovements)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, enum.StockMovementOut, movements[0].Type)
	assert.InDelta(t, 2, movements[0].Quantity, 1e-9)

	// Cashbook: 120 collected, 30 change returned.
	cashbook, err := store.Load[entity.CashbookEntry](ctx, env.store, store.Cashbook)
	require.NoError(t, err)
	require.Len(t, cashbook, 2)
	var income, expense float64
	for _, e := range cashbook {
		switch e.Type {
		case enum.CashbookIncome:
			income += e.Amount
		case enum.CashbookExpense:
			expense += e.Amount
		}
	}
	assert.InDelta(t, 120, income, 1e-9)
	assert.InDelta(t, 30, expense, 1e-9)

	// One PENDING sync event referencing the sale.
	events, err := store.Load[entity.SyncEvent](ctx, env.store, store.SyncEvents)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, enum.SyncEventStatusPending, events[0].Status)
	assert.Equal(t, sale.ID, events[0].SaleID)
	assert.Equal(t, entity.SyncEventTypeSaleFinalize, events[0].EventType)
}

func TestFinalize_EmptySaleRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sale, err := env.sales.CreateDraftSale(ctx, env.actor, &CreateDraftInput{})
	require.NoError(t, err)

	_, err = env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: sale.ID})
	assert.True(t, apperror.IsKind(err, apperror.KindEmptySale))
}

func TestFinalize_NonDraftRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "vida", 50, 30, 100)

	sale := env.draftWithLine(t, p, 1)
	_, err := env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: sale.ID})
	require.NoError(t, err)

	_, err = env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: sale.ID})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestFinalize_IdempotentReplay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "vida", 50, 30, 100)

	sale := env.draftWithLine(t, p, 2)
	first, err := env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: sale.ID, IdempotencyKey: "req-1"})
	require.NoError(t, err)

	second, err := env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: sale.ID, IdempotencyKey: "req-1"})
	require.NoError(t, err)
	assert.Equal(t, first.SyncEventID, second.SyncEventID)
	assert.Equal(t, enum.SaleStatusCompleted, second.Sale.Status)

	// No duplicated side effects.
	products, _ := store.Load[entity.Product](ctx, env.store, store.Products)
	assert.InDelta(t, 98, products[0].Quantity, 1e-9)
	movements, _ := store.Load[entity.StockMovement](ctx, env.store, store.StockMovements)
	assert.Len(t, movements, 1)
	events, _ := store.Load[entity.SyncEvent](ctx, env.store, store.SyncEvents)
	assert.Len(t, events, 1)

	// A different key against the completed sale is a state error, not a replay.
	_, err = env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: sale.ID, IdempotencyKey: "req-2"})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestFinalize_CreditSalePostsLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "vida", 50, 30, 100)
	customer := env.seedCustomer(t, "Usta Mehmet", 1000, 0)

	sale, err := env.sales.CreateDraftSale(ctx, env.actor, &CreateDraftInput{CustomerID: &customer.ID, CustomerName: customer.Name})
	require.NoError(t, err)
	_, err = env.sales.AddLine(ctx, env.actor, &AddLineInput{SaleID: sale.ID, ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	result, err := env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: sale.ID})
	require.NoError(t, err)
	assert.InDelta(t, 120, result.Sale.DueTotal, 1e-9)

	customers, _ := store.Load[entity.Customer](ctx, env.store, store.Customers)
	assert.InDelta(t, 120, customers[0].Balance, 1e-9)

	entries, _ := store.Load[entity.AccountEntry](ctx, env.store, store.AccountEntries)
	require.Len(t, entries, 1)
	assert.Equal(t, enum.AccountEntryDebit, entries[0].Type)
	assert.InDelta(t, 120, entries[0].Amount, 1e-9)
	assert.Equal(t, customer.ID, entries[0].CustomerID)

	// Unpaid credit sale leaves the cashbook untouched.
	cashbook, _ := store.Load[entity.CashbookEntry](ctx, env.store, store.Cashbook)
	assert.Empty(t, cashbook)
}

func TestFinalize_CreditLimitBlocksAtomically(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "vida", 50, 30, 100)
	customer := env.seedCustomer(t, "Usta Mehmet", 50, 40)

	sale, err := env.sales.CreateDraftSale(ctx, env.actor, &CreateDraftInput{CustomerID: &customer.ID})
	require.NoError(t, err)
	_, err = env.sales.AddLine(ctx, env.actor, &AddLineInput{SaleID: sale.ID, ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: sale.ID})
	require.True(t, apperror.IsKind(err, apperror.KindCreditLimitExceeded))

	// Nothing was written: sale still a draft, stock and queues untouched.
	reloaded := env.loadSale(t, sale.ID)
	assert.Equal(t, enum.SaleStatusDraft, reloaded.Status)
	products, _ := store.Load[entity.Product](ctx, env.store, store.Products)
	assert.InDelta(t, 100, products[0].Quantity, 1e-9)
	movements, _ := store.Load[entity.StockMovement](ctx, env.store, store.StockMovements)
	assert.Empty(t, movements)
	events, _ := store.Load[entity.SyncEvent](ctx, env.store, store.SyncEvents)
	assert.Empty(t, events)
	customers, _ := store.Load[entity.Customer](ctx, env.store, store.Customers)
	assert.InDelta(t, 40, customers[0].Balance, 1e-9)

	// The supervisor override completes the same sale.
	result, err := env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: sale.ID, AllowOverLimit: true})
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusCompleted, result.Sale.Status)
}

func TestFinalize_MissingProductBlocksAtomically(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "vida", 50, 30, 100)
	sale := env.draftWithLine(t, p, 2)

	// The product disappears between the line add and the finalize.
	require.NoError(t, store.Save(ctx, env.store, store.Products, []entity.Product{}))

	_, err := env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: sale.ID})
	require.True(t, apperror.IsKind(err, apperror.KindMissingProduct))

	// Nothing was written: sale still a draft, stock and queues untouched.
	reloaded := env.loadSale(t, sale.ID)
	assert.Equal(t, enum.SaleStatusDraft, reloaded.Status)
	movements, _ := store.Load[entity.StockMovement](ctx, env.store, store.StockMovements)
	assert.Empty(t, movements)
	events, _ := store.Load[entity.SyncEvent](ctx, env.store, store.SyncEvents)
	assert.Empty(t, events)
	entries, _ := store.Load[entity.CashbookEntry](ctx, env.store, store.Cashbook)
	assert.Empty(t, entries)
}

func TestVoidAndRefundTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "vida", 50, 30, 100)
	manager := entity.Actor{Username: "mudur", Role: enum.RoleManager}

	sale := env.draftWithLine(t, p, 1)

	// A draft cannot be voided.
	_, err := env.sales.VoidSale(ctx, manager, sale.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))

	_, err = env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: sale.ID})
	require.NoError(t, err)

	voided, err := env.sales.VoidSale(ctx, manager, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusVoided, voided.Status)

	// Terminal: no refund after void.
	_, err = env.sales.RefundSale(ctx, manager, sale.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))

	// Void leaves stock untouched.
	products, _ := store.Load[entity.Product](ctx, env.store, store.Products)
	assert.InDelta(t, 99, products[0].Quantity, 1e-9)
}

func TestListSales_FilterAndPaging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "vida", 50, 30, 100)

	first := env.draftWithLine(t, p, 1)
	_, err := env.sales.Finalize(ctx, env.actor, &FinalizeInput{SaleID: first.ID})
	require.NoError(t, err)
	_ = env.draftWithLine(t, p, 1)

	status := enum.SaleStatusCompleted
	result, err := env.sales.ListSales(ctx, &SaleFilterParams{Status: &status})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, first.ID, result.Items[0].ID)

	all, err := env.sales.ListSales(ctx, &SaleFilterParams{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.EqualValues(t, 2, all.Pagination.Total)

	// A nil filter lists everything with default paging.
	unfiltered, err := env.sales.ListSales(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, unfiltered.Items, 2)
}
