package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
	"github.com/gokmen-54/nalburos-web-deploy/internal/gate"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/apperror"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/pagination"
)

// SaleService owns the sale lifecycle: draft creation, line mutation,
// discounting, finalization and the void/refund status transitions. Every
// mutation runs through the serialization gate and reads whole collections,
// mutates working copies, then flushes.
type SaleService struct {
	store      store.RecordStore
	gate       *gate.Gate
	logger     *zap.Logger
	branchID   string
	registerID string
}

// NewSaleService creates a new sale service
func NewSaleService(rs store.RecordStore, g *gate.Gate, logger *zap.Logger, branchID, registerID string) *SaleService {
	return &SaleService{
		store:      rs,
		gate:       g,
		logger:     logger,
		branchID:   branchID,
		registerID: registerID,
	}
}

// CreateDraftInput represents the create draft sale input
type CreateDraftInput struct {
	CustomerID   *uuid.UUID
	CustomerName string
}

// AddLineInput represents the add line input
type AddLineInput struct {
	SaleID       uuid.UUID
	ProductID    uuid.UUID
	Quantity     float64
	UnitPrice    *float64
	DiscountRate *float64
}

// LineUpdateMode selects how UpdateLine changes a line.
type LineUpdateMode string

const (
	LineUpdateDecreaseOne LineUpdateMode = "DECREASE_ONE"
	LineUpdateRemove      LineUpdateMode = "REMOVE"
)

// UpdateLineInput represents the update line input
type UpdateLineInput struct {
	SaleID uuid.UUID
	LineID uuid.UUID
	Mode   LineUpdateMode
}

// FinalizeInput represents the finalize input
type FinalizeInput struct {
	SaleID         uuid.UUID
	IdempotencyKey string
	AllowOverLimit bool
}

// FinalizeResult carries the completed sale and the id of the sync event
// created for it.
type FinalizeResult struct {
	Sale        entity.Sale `json:"sale"`
	SyncEventID uuid.UUID   `json:"sync_event_id"`
}

// SaleFilterParams filters the read-only sale listing.
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.SaleStatus
}

// CreateDraftSale opens a new DRAFT sale attributed to the actor. An omitted
// customer name falls back to the walk-in default.
func (s *SaleService) CreateDraftSale(ctx context.Context, actor entity.Actor, input *CreateDraftInput) (*entity.Sale, error) {
	return gate.Run(ctx, s.gate, func(ctx context.Context) (*entity.Sale, error) {
		sales, err := store.Load[entity.Sale](ctx, s.store, store.Sales)
		if err != nil {
			return nil, err
		}

		name := entity.DefaultCustomerName
		if input != nil && input.CustomerName != "" {
			name = input.CustomerName
		}
		now := time.Now().UTC()
		sale := entity.Sale{
			ID:           uuid.New(),
			BranchID:     s.branchID,
			RegisterID:   s.registerID,
			CustomerName: name,
			Status:       enum.SaleStatusDraft,
			Lines:        []entity.SaleLine{},
			CreatedAt:    now,
			UpdatedAt:    now,
			CreatedBy:    actor.Username,
		}
		if input != nil {
			sale.CustomerID = input.CustomerID
		}

		sales = append([]entity.Sale{sale}, sales...)

		batch := store.NewBatch()
		if err := store.Put(batch, store.Sales, sales); err != nil {
			return nil, err
		}
		if err := s.appendAudit(ctx, batch, actor, entity.AuditSaleDraftCreate, map[string]any{"sale_id": sale.ID}); err != nil {
			return nil, err
		}
		if err := batch.Flush(ctx, s.store); err != nil {
			return nil, err
		}

		s.logger.Info("draft sale created",
			zap.String("sale_id", sale.ID.String()),
			zap.String("created_by", actor.Username))
		return &sale, nil
	})
}

// GetOpenDraftSale returns the actor's most recent DRAFT sale, or nil when
// there is none. Read-only; bypasses the gate.
func (s *SaleService) GetOpenDraftSale(ctx context.Context, actor entity.Actor) (*entity.Sale, error) {
	sales, err := store.Load[entity.Sale](ctx, s.store, store.Sales)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		if sales[i].Status == enum.SaleStatusDraft && sales[i].CreatedBy == actor.Username {
			sales[i].Recalculate()
			return &sales[i], nil
		}
	}
	return nil, nil
}

// GetSale returns a sale by id. Read-only; bypasses the gate.
func (s *SaleService) GetSale(ctx context.Context, saleID uuid.UUID) (*entity.Sale, error) {
	sales, err := store.Load[entity.Sale](ctx, s.store, store.Sales)
	if err != nil {
		return nil, err
	}
	idx := saleIndex(sales, saleID)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return &sales[idx], nil
}

// ListSales returns the sale history, newest first, optionally filtered by
// status. Read-only; bypasses the gate.
func (s *SaleService) ListSales(ctx context.Context, params *SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params == nil {
		params = &SaleFilterParams{}
	}
	sales, err := store.Load[entity.Sale](ctx, s.store, store.Sales)
	if err != nil {
		return nil, err
	}

	filtered := make([]entity.Sale, 0, len(sales))
	for _, sale := range sales {
		if params.Status != nil && sale.Status != *params.Status {
			continue
		}
		filtered = append(filtered, sale)
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	page := paginateSlice(filtered, params.Pagination)
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, int64(len(filtered)))
	return pagination.NewPaginatedResult(page, pag), nil
}

// AddLine adds a product to a draft sale. A repeat add of the same product
// merges quantities and overwrites unit price and discount rate with the
// latest values. A price below the product's last cost appends a
// negative-margin audit warning alongside the regular entry.
func (s *SaleService) AddLine(ctx context.Context, actor entity.Actor, input *AddLineInput) (*entity.Sale, error) {
	return gate.Run(ctx, s.gate, func(ctx context.Context) (*entity.Sale, error) {
		sales, err := store.Load[entity.Sale](ctx, s.store, store.Sales)
		if err != nil {
			return nil, err
		}
		products, err := store.Load[entity.Product](ctx, s.store, store.Products)
		if err != nil {
			return nil, err
		}

		saleIdx := saleIndex(sales, input.SaleID)
		if saleIdx < 0 {
			return nil, apperror.NewNotFoundError("Sale")
		}
		sale := &sales[saleIdx]
		if !sale.Status.IsMutable() {
			return nil, apperror.NewInvalidStateError("Only draft sales can be edited")
		}

		var product *entity.Product
		for i := range products {
			if products[i].ID == input.ProductID {
				product = &products[i]
				break
			}
		}
		if product == nil {
			return nil, apperror.NewNotFoundError("Product")
		}

		if !isFinite(input.Quantity) || input.Quantity <= 0 {
			return nil, apperror.NewInvalidQuantityError("Invalid quantity")
		}

		price := product.SalePrice
		if input.UnitPrice != nil {
			price = *input.UnitPrice
		}
		var discountRate float64
		if input.DiscountRate != nil {
			discountRate = *input.DiscountRate
		}

		if idx := sale.LineIndexByProduct(product.ID); idx >= 0 {
			line := &sale.Lines[idx]
			line.Quantity += input.Quantity
			line.UnitPrice = price
			line.DiscountRate = discountRate
			line.RecalcLineTotal()
		} else {
			line := entity.SaleLine{
				ID:           uuid.New(),
				ProductID:    product.ID,
				ProductName:  product.Name,
				SKU:          product.SKU,
				Quantity:     input.Quantity,
				UnitPrice:    price,
				DiscountRate: discountRate,
				TaxRate:      product.EffectiveTaxRate(),
			}
			line.RecalcLineTotal()
			sale.Lines = append(sale.Lines, line)
		}

		sale.UpdatedAt = time.Now().UTC()
		sale.Recalculate()

		batch := store.NewBatch()
		if err := store.Put(batch, store.Sales, sales); err != nil {
			return nil, err
		}
		audits := []entity.AuditLog{
			entity.NewAuditLog(actor.Username, actor.Role, entity.AuditSaleLineAdd, map[string]any{
				"sale_id":    sale.ID,
				"product_id": product.ID,
				"quantity":   input.Quantity,
				"price":      price,
			}),
		}
		if price < product.LastCost {
			audits = append(audits, entity.NewAuditLog(actor.Username, actor.Role, entity.AuditNegativeMargin, map[string]any{
				"sale_id":    sale.ID,
				"product_id": product.ID,
				"sale_price": price,
				"cost":       product.LastCost,
			}))
			s.logger.Warn("line added below cost",
				zap.String("sale_id", sale.ID.String()),
				zap.String("product_id", product.ID.String()),
				zap.Float64("price", price),
				zap.Float64("cost", product.LastCost))
		}
		if err := s.appendAudits(ctx, batch, audits); err != nil {
			return nil, err
		}
		if err := batch.Flush(ctx, s.store); err != nil {
			return nil, err
		}

		s.logger.Info("sale line added",
			zap.String("sale_id", sale.ID.String()),
			zap.String("product_id", product.ID.String()),
			zap.Float64("quantity", input.Quantity))
		result := *sale
		return &result, nil
	})
}

// UpdateLine removes a line or decrements its quantity by one. A decrement
// that reaches zero removes the line instead of keeping it at zero quantity.
func (s *SaleService) UpdateLine(ctx context.Context, actor entity.Actor, input *UpdateLineInput) (*entity.Sale, error) {
	return gate.Run(ctx, s.gate, func(ctx context.Context) (*entity.Sale, error) {
		sales, err := store.Load[entity.Sale](ctx, s.store, store.Sales)
		if err != nil {
			return nil, err
		}

		saleIdx := saleIndex(sales, input.SaleID)
		if saleIdx < 0 {
			return nil, apperror.NewNotFoundError("Sale")
		}
		sale := &sales[saleIdx]
		if !sale.Status.IsMutable() {
			return nil, apperror.NewInvalidStateError("Only draft sales can be edited")
		}

		lineIdx := sale.LineIndex(input.LineID)
		if lineIdx < 0 {
			return nil, apperror.NewNotFoundError("Sale line")
		}

		switch {
		case input.Mode == LineUpdateRemove:
			sale.Lines = append(sale.Lines[:lineIdx], sale.Lines[lineIdx+1:]...)
		case sale.Lines[lineIdx].Quantity <= 1:
			sale.Lines = append(sale.Lines[:lineIdx], sale.Lines[lineIdx+1:]...)
		default:
			line := &sale.Lines[lineIdx]
			line.Quantity--
			line.RecalcLineTotal()
		}

		sale.UpdatedAt = time.Now().UTC()
		sale.Recalculate()

		batch := store.NewBatch()
		if err := store.Put(batch, store.Sales, sales); err != nil {
			return nil, err
		}
		if err := s.appendAudit(ctx, batch, actor, entity.AuditSaleLineUpdate, map[string]any{
			"sale_id": sale.ID,
			"line_id": input.LineID,
			"mode":    input.Mode,
		}); err != nil {
			return nil, err
		}
		if err := batch.Flush(ctx, s.store); err != nil {
			return nil, err
		}

		result := *sale
		return &result, nil
	})
}

// SetManualDiscount sets the flat sale-level discount. The value is clamped
// during recalculation, never rejected for being too large.
func (s *SaleService) SetManualDiscount(ctx context.Context, actor entity.Actor, saleID uuid.UUID, amount float64) (*entity.Sale, error) {
	return gate.Run(ctx, s.gate, func(ctx context.Context) (*entity.Sale, error) {
		sales, err := store.Load[entity.Sale](ctx, s.store, store.Sales)
		if err != nil {
			return nil, err
		}

		saleIdx := saleIndex(sales, saleID)
		if saleIdx < 0 {
			return nil, apperror.NewNotFoundError("Sale")
		}
		sale := &sales[saleIdx]
		if !sale.Status.IsMutable() {
			return nil, apperror.NewInvalidStateError("Discounts can only change on draft sales")
		}
		if !isFinite(amount) || amount < 0 {
			return nil, apperror.NewInvalidAmountError("Invalid discount amount")
		}

		sale.ManualDiscountTotal = amount
		sale.UpdatedAt = time.Now().UTC()
		sale.Recalculate()

		batch := store.NewBatch()
		if err := store.Put(batch, store.Sales, sales); err != nil {
			return nil, err
		}
		if err := s.appendAudit(ctx, batch, actor, entity.AuditSaleDiscountSet, map[string]any{
			"sale_id": saleID,
			"amount":  amount,
		}); err != nil {
			return nil, err
		}
		if err := batch.Flush(ctx, s.store); err != nil {
			return nil, err
		}

		result := *sale
		return &result, nil
	})
}

// Finalize converts a draft sale into a completed one: stock is decremented
// with one OUT movement per line, cash postings and the customer ledger are
// updated, and a PENDING sync event is emitted. Every mutation happens on
// working copies and is flushed in a single batch only after the credit-limit
// check has passed, so a rejection leaves no partial writes behind.
//
// Supplying the idempotency key already stamped on the sale replays the
// previous result without re-executing any side effect.
func (s *SaleService) Finalize(ctx context.Context, actor entity.Actor, input *FinalizeInput) (*FinalizeResult, error) {
	return gate.Run(ctx, s.gate, func(ctx context.Context) (*FinalizeResult, error) {
		sales, err := store.Load[entity.Sale](ctx, s.store, store.Sales)
		if err != nil {
			return nil, err
		}
		products, err := store.Load[entity.Product](ctx, s.store, store.Products)
		if err != nil {
			return nil, err
		}
		movements, err := store.Load[entity.StockMovement](ctx, s.store, store.StockMovements)
		if err != nil {
			return nil, err
		}
		syncEvents, err := store.Load[entity.SyncEvent](ctx, s.store, store.SyncEvents)
		if err != nil {
			return nil, err
		}
		customers, err := store.Load[entity.Customer](ctx, s.store, store.Customers)
		if err != nil {
			return nil, err
		}
		accountEntries, err := store.Load[entity.AccountEntry](ctx, s.store, store.AccountEntries)
		if err != nil {
			return nil, err
		}
		cashbook, err := store.Load[entity.CashbookEntry](ctx, s.store, store.Cashbook)
		if err != nil {
			return nil, err
		}

		saleIdx := saleIndex(sales, input.SaleID)
		if saleIdx < 0 {
			return nil, apperror.NewNotFoundError("Sale")
		}
		sale := &sales[saleIdx]

		// Retry with the key already stamped on the sale: return the prior
		// result, no side effects.
		if sale.IdempotencyKey != "" && input.IdempotencyKey != "" && sale.IdempotencyKey == input.IdempotencyKey {
			result := &FinalizeResult{Sale: *sale}
			for _, event := range syncEvents {
				if event.SaleID == sale.ID {
					result.SyncEventID = event.ID
					break
				}
			}
			s.logger.Info("finalize replayed from idempotency key",
				zap.String("sale_id", sale.ID.String()))
			return result, nil
		}

		if sale.Status != enum.SaleStatusDraft {
			return nil, apperror.NewInvalidStateError("Sale cannot be finalized")
		}
		if len(sale.Lines) == 0 {
			return nil, apperror.NewEmptySaleError()
		}

		now := time.Now().UTC()

		for _, line := range sale.Lines {
			productIdx := -1
			for i := range products {
				if products[i].ID == line.ProductID {
					productIdx = i
					break
				}
			}
			if productIdx < 0 {
				return nil, apperror.NewMissingProductError(fmt.Sprintf("Product missing for line %s", line.ID))
			}
			products[productIdx].Quantity -= line.Quantity
			movements = append([]entity.StockMovement{{
				ID:        uuid.New(),
				ProductID: line.ProductID,
				Type:      enum.StockMovementOut,
				Quantity:  line.Quantity,
				Note:      fmt.Sprintf("Sale %s", sale.ID),
				CreatedAt: now,
				CreatedBy: actor.Username,
			}}, movements...)
		}

		sale.Status = enum.SaleStatusCompleted
		if input.IdempotencyKey != "" {
			sale.IdempotencyKey = input.IdempotencyKey
		}
		sale.UpdatedAt = now
		sale.DueTotal = max(sale.NetTotal-sale.PaidTotal, 0)

		payload, err := snapshotSale(*sale)
		if err != nil {
			return nil, err
		}
		syncEvent := entity.SyncEvent{
			ID:        uuid.New(),
			EventType: entity.SyncEventTypeSaleFinalize,
			SaleID:    sale.ID,
			Payload:   payload,
			Status:    enum.SyncEventStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		syncEvents = append([]entity.SyncEvent{syncEvent}, syncEvents...)

		saleID := sale.ID
		if sale.PaidTotal > 0 {
			netCollection := min(sale.PaidTotal, sale.NetTotal)
			cashbook = append([]entity.CashbookEntry{{
				ID:            uuid.New(),
				Type:          enum.CashbookIncome,
				Category:      enum.CashbookCategorySale,
				Amount:        netCollection,
				Note:          fmt.Sprintf("Satis tahsilati %s", saleID),
				RelatedSaleID: &saleID,
				CreatedAt:     now,
				CreatedBy:     actor.Username,
			}}, cashbook...)

			if change := max(sale.PaidTotal-sale.NetTotal, 0); change > 0 {
				cashbook = append([]entity.CashbookEntry{{
					ID:            uuid.New(),
					Type:          enum.CashbookExpense,
					Category:      enum.CashbookCategoryOther,
					Amount:        change,
					Note:          fmt.Sprintf("Paraustu iadesi %s", saleID),
					RelatedSaleID: &saleID,
					CreatedAt:     now,
					CreatedBy:     actor.Username,
				}}, cashbook...)
			}
		}

		if sale.CustomerID != nil && sale.DueTotal > 0 {
			for i := range customers {
				if customers[i].ID != *sale.CustomerID {
					continue
				}
				if customers[i].WouldExceedLimit(sale.DueTotal) && !input.AllowOverLimit {
					return nil, apperror.NewCreditLimitExceededError("Customer credit limit exceeded, manager approval required")
				}
				customers[i].Balance += sale.DueTotal
				break
			}
			accountEntries = append([]entity.AccountEntry{{
				ID:            uuid.New(),
				CustomerID:    *sale.CustomerID,
				Type:          enum.AccountEntryDebit,
				Amount:        sale.DueTotal,
				Note:          fmt.Sprintf("Vadeli satis %s", saleID),
				RelatedSaleID: &saleID,
				CreatedAt:     now,
				CreatedBy:     actor.Username,
			}}, accountEntries...)
		}

		batch := store.NewBatch()
		if err := store.Put(batch, store.Products, products); err != nil {
			return nil, err
		}
		if err := store.Put(batch, store.StockMovements, movements); err != nil {
			return nil, err
		}
		if err := store.Put(batch, store.Sales, sales); err != nil {
			return nil, err
		}
		if err := store.Put(batch, store.SyncEvents, syncEvents); err != nil {
			return nil, err
		}
		if err := store.Put(batch, store.Customers, customers); err != nil {
			return nil, err
		}
		if err := store.Put(batch, store.AccountEntries, accountEntries); err != nil {
			return nil, err
		}
		if err := store.Put(batch, store.Cashbook, cashbook); err != nil {
			return nil, err
		}
		if err := s.appendAudit(ctx, batch, actor, entity.AuditSaleFinalize, map[string]any{"sale_id": saleID}); err != nil {
			return nil, err
		}
		if err := batch.Flush(ctx, s.store); err != nil {
			return nil, err
		}

		s.logger.Info("sale finalized",
			zap.String("sale_id", saleID.String()),
			zap.Float64("net_total", sale.NetTotal),
			zap.Float64("paid_total", sale.PaidTotal),
			zap.Float64("due_total", sale.DueTotal))
		return &FinalizeResult{Sale: *sale, SyncEventID: syncEvent.ID}, nil
	})
}

// SaleTransitionFunc is the shape shared by VoidSale and RefundSale.
type SaleTransitionFunc func(ctx context.Context, actor entity.Actor, saleID uuid.UUID) (*entity.Sale, error)

// VoidSale marks a completed sale VOIDED. Stock and cash postings are left
// untouched; corrections go through payment reversal or manual ledger
// entries.
func (s *SaleService) VoidSale(ctx context.Context, actor entity.Actor, saleID uuid.UUID) (*entity.Sale, error) {
	return s.setStatus(ctx, actor, saleID, enum.SaleStatusVoided, entity.AuditSaleVoid)
}

// RefundSale marks a completed sale REFUNDED. Like VoidSale it is a status
// marker only.
func (s *SaleService) RefundSale(ctx context.Context, actor entity.Actor, saleID uuid.UUID) (*entity.Sale, error) {
	return s.setStatus(ctx, actor, saleID, enum.SaleStatusRefunded, entity.AuditSaleRefund)
}

func (s *SaleService) setStatus(ctx context.Context, actor entity.Actor, saleID uuid.UUID, status enum.SaleStatus, action string) (*entity.Sale, error) {
	return gate.Run(ctx, s.gate, func(ctx context.Context) (*entity.Sale, error) {
		sales, err := store.Load[entity.Sale](ctx, s.store, store.Sales)
		if err != nil {
			return nil, err
		}
		saleIdx := saleIndex(sales, saleID)
		if saleIdx < 0 {
			return nil, apperror.NewNotFoundError("Sale")
		}
		sale := &sales[saleIdx]
		if !sale.Status.CanTransitionTo(status) {
			return nil, apperror.NewInvalidStateError(fmt.Sprintf("Sale cannot move from %s to %s", sale.Status, status))
		}
		sale.Status = status
		sale.UpdatedAt = time.Now().UTC()

		batch := store.NewBatch()
		if err := store.Put(batch, store.Sales, sales); err != nil {
			return nil, err
		}
		if err := s.appendAudit(ctx, batch, actor, action, map[string]any{"sale_id": saleID}); err != nil {
			return nil, err
		}
		if err := batch.Flush(ctx, s.store); err != nil {
			return nil, err
		}

		s.logger.Info("sale status changed",
			zap.String("sale_id", saleID.String()),
			zap.String("status", status.String()))
		result := *sale
		return &result, nil
	})
}

func (s *SaleService) appendAudit(ctx context.Context, batch *store.Batch, actor entity.Actor, action string, meta any) error {
	return s.appendAudits(ctx, batch, []entity.AuditLog{entity.NewAuditLog(actor.Username, actor.Role, action, meta)})
}

// appendAudits stages new audit entries, newest first, on top of the current
// log.
func (s *SaleService) appendAudits(ctx context.Context, batch *store.Batch, entries []entity.AuditLog) error {
	logs, err := store.Load[entity.AuditLog](ctx, s.store, store.AuditLogs)
	if err != nil {
		return err
	}
	logs = append(entries, logs...)
	return store.Put(batch, store.AuditLogs, logs)
}

func saleIndex(sales []entity.Sale, id uuid.UUID) int {
	for i := range sales {
		if sales[i].ID == id {
			return i
		}
	}
	return -1
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func snapshotSale(sale entity.Sale) (string, error) {
	blob, err := json.Marshal(sale)
	if err != nil {
		return "", err
	}
	return string(blob), nil
}

func paginateSlice[T any](items []T, p *pagination.PaginationParams) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
