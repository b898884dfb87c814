package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
	"github.com/gokmen-54/nalburos-web-deploy/internal/gate"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/apperror"
)

// PaymentService records and reverses payments against sales.
type PaymentService struct {
	store  store.RecordStore
	gate   *gate.Gate
	logger *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(rs store.RecordStore, g *gate.Gate, logger *zap.Logger) *PaymentService {
	return &PaymentService{store: rs, gate: g, logger: logger}
}

// AddPaymentInput represents the add payment input
type AddPaymentInput struct {
	SaleID          uuid.UUID
	Method          enum.PaymentMethod
	Amount          float64
	Reference       string
	InstallmentPlan *entity.InstallmentPlan
}

// ReversePaymentResult reports what a reversal undid.
type ReversePaymentResult struct {
	SaleID         uuid.UUID `json:"sale_id"`
	ReversedAmount float64   `json:"reversed_amount"`
}

// AddPayment appends an immutable payment to a draft sale and raises its
// paid total. Overpayment is allowed; it surfaces as change, not an error.
func (s *PaymentService) AddPayment(ctx context.Context, actor entity.Actor, input *AddPaymentInput) (*entity.Sale, error) {
	return gate.Run(ctx, s.gate, func(ctx context.Context) (*entity.Sale, error) {
		sales, err := store.Load[entity.Sale](ctx, s.store, store.Sales)
		if err != nil {
			return nil, err
		}
		payments, err := store.Load[entity.Payment](ctx, s.store, store.Payments)
		if err != nil {
			return nil, err
		}

		saleIdx := saleIndex(sales, input.SaleID)
		if saleIdx < 0 {
			return nil, apperror.NewNotFoundError("Sale")
		}
		sale := &sales[saleIdx]
		if !sale.Status.IsMutable() {
			return nil, apperror.NewInvalidStateError("Only draft sales can receive payments")
		}
		if !isFinite(input.Amount) || input.Amount <= 0 {
			return nil, apperror.NewInvalidAmountError("Invalid payment amount")
		}
		if !input.Method.Valid() {
			return nil, apperror.NewBadRequestError("Unknown payment method")
		}

		payment := entity.Payment{
			ID:              uuid.New(),
			SaleID:          input.SaleID,
			Method:          input.Method,
			Amount:          input.Amount,
			Reference:       input.Reference,
			InstallmentPlan: input.InstallmentPlan,
			CreatedAt:       time.Now().UTC(),
			CreatedBy:       actor.Username,
		}
		payments = append([]entity.Payment{payment}, payments...)

		sale.PaidTotal += input.Amount
		sale.UpdatedAt = time.Now().UTC()
		sale.Recalculate()

		batch := store.NewBatch()
		if err := store.Put(batch, store.Payments, payments); err != nil {
			return nil, err
		}
		if err := store.Put(batch, store.Sales, sales); err != nil {
			return nil, err
		}
		if err := s.appendAudit(ctx, batch, actor, entity.AuditSalePaymentAdd, map[string]any{
			"sale_id":    input.SaleID,
			"payment_id": payment.ID,
			"amount":     input.Amount,
		}); err != nil {
			return nil, err
		}
		if err := batch.Flush(ctx, s.store); err != nil {
			return nil, err
		}

		s.logger.Info("payment added",
			zap.String("sale_id", input.SaleID.String()),
			zap.String("payment_id", payment.ID.String()),
			zap.String("method", input.Method.String()),
			zap.Float64("amount", input.Amount))
		result := *sale
		return &result, nil
	})
}

// ListPayments returns the payments recorded against a sale. Read-only;
// bypasses the gate.
func (s *PaymentService) ListPayments(ctx context.Context, saleID uuid.UUID) ([]entity.Payment, error) {
	payments, err := store.Load[entity.Payment](ctx, s.store, store.Payments)
	if err != nil {
		return nil, err
	}
	matched := make([]entity.Payment, 0)
	for _, p := range payments {
		if p.SaleID == saleID {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// ListCashbook returns the cash drawer ledger, newest first. Read-only;
// bypasses the gate.
func (s *PaymentService) ListCashbook(ctx context.Context) ([]entity.CashbookEntry, error) {
	return store.Load[entity.CashbookEntry](ctx, s.store, store.Cashbook)
}

// ReversePayment deletes a payment, lowers the sale's paid total (floored at
// zero) and posts a compensating cash-outflow entry. The sale may be in any
// status; reversal is a financial correction, not an undo of the sale, so it
// never restores inventory or reopens the sale.
func (s *PaymentService) ReversePayment(ctx context.Context, actor entity.Actor, paymentID uuid.UUID, note string) (*ReversePaymentResult, error) {
	return gate.Run(ctx, s.gate, func(ctx context.Context) (*ReversePaymentResult, error) {
		payments, err := store.Load[entity.Payment](ctx, s.store, store.Payments)
		if err != nil {
			return nil, err
		}
		sales, err := store.Load[entity.Sale](ctx, s.store, store.Sales)
		if err != nil {
			return nil, err
		}
		cashbook, err := store.Load[entity.CashbookEntry](ctx, s.store, store.Cashbook)
		if err != nil {
			return nil, err
		}

		paymentIdx := -1
		for i := range payments {
			if payments[i].ID == paymentID {
				paymentIdx = i
				break
			}
		}
		if paymentIdx < 0 {
			return nil, apperror.NewNotFoundError("Payment")
		}
		payment := payments[paymentIdx]

		saleIdx := saleIndex(sales, payment.SaleID)
		if saleIdx < 0 {
			return nil, apperror.NewNotFoundError("Sale")
		}
		sale := &sales[saleIdx]

		sale.PaidTotal = max(sale.PaidTotal-payment.Amount, 0)
		sale.UpdatedAt = time.Now().UTC()
		sale.Recalculate()

		payments = append(payments[:paymentIdx], payments[paymentIdx+1:]...)

		reference := note
		if reference == "" {
			reference = paymentID.String()
		}
		saleID := payment.SaleID
		cashbook = append([]entity.CashbookEntry{{
			ID:            uuid.New(),
			Type:          enum.CashbookExpense,
			Category:      enum.CashbookCategoryOther,
			Amount:        payment.Amount,
			Note:          fmt.Sprintf("Yanlis odeme duzeltme: %s", reference),
			RelatedSaleID: &saleID,
			CreatedAt:     time.Now().UTC(),
			CreatedBy:     actor.Username,
		}}, cashbook...)

		batch := store.NewBatch()
		if err := store.Put(batch, store.Sales, sales); err != nil {
			return nil, err
		}
		if err := store.Put(batch, store.Payments, payments); err != nil {
			return nil, err
		}
		if err := store.Put(batch, store.Cashbook, cashbook); err != nil {
			return nil, err
		}
		if err := s.appendAudit(ctx, batch, actor, entity.AuditPaymentReverse, map[string]any{
			"payment_id": paymentID,
			"sale_id":    payment.SaleID,
			"amount":     payment.Amount,
		}); err != nil {
			return nil, err
		}
		if err := batch.Flush(ctx, s.store); err != nil {
			return nil, err
		}

		s.logger.Info("payment reversed",
			zap.String("payment_id", paymentID.String()),
			zap.String("sale_id", payment.SaleID.String()),
			zap.Float64("amount", payment.Amount))
		return &ReversePaymentResult{SaleID: payment.SaleID, ReversedAmount: payment.Amount}, nil
	})
}

func (s *PaymentService) appendAudit(ctx context.Context, batch *store.Batch, actor entity.Actor, action string, meta any) error {
	logs, err := store.Load[entity.AuditLog](ctx, s.store, store.AuditLogs)
	if err != nil {
		return err
	}
	logs = append([]entity.AuditLog{entity.NewAuditLog(actor.Username, actor.Role, action, meta)}, logs...)
	return store.Put(batch, store.AuditLogs, logs)
}
