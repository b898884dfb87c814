package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
	"github.com/gokmen-54/nalburos-web-deploy/internal/gate"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/apperror"
)

// CustomerService manages account customers and their ledgers.
type CustomerService struct {
	store  store.RecordStore
	gate   *gate.Gate
	logger *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(rs store.RecordStore, g *gate.Gate, logger *zap.Logger) *CustomerService {
	return &CustomerService{store: rs, gate: g, logger: logger}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Code        string
	Name        string
	Phone       string
	Address     string
	CreditLimit float64
}

// CreateCustomer adds an account customer with a zero opening balance.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Customer name is required")
	}
	if !isFinite(input.CreditLimit) || input.CreditLimit < 0 {
		return nil, apperror.NewInvalidAmountError("Invalid credit limit")
	}
	return gate.Run(ctx, s.gate, func(ctx context.Context) (*entity.Customer, error) {
		customers, err := store.Load[entity.Customer](ctx, s.store, store.Customers)
		if err != nil {
			return nil, err
		}
		customer := entity.Customer{
			ID:          uuid.New(),
			Code:        input.Code,
			Name:        input.Name,
			Phone:       input.Phone,
			Address:     input.Address,
			CreditLimit: input.CreditLimit,
			CreatedAt:   time.Now().UTC(),
		}
		customers = append([]entity.Customer{customer}, customers...)
		if err := store.Save(ctx, s.store, store.Customers, customers); err != nil {
			return nil, err
		}
		s.logger.Info("customer created",
			zap.String("customer_id", customer.ID.String()),
			zap.String("name", customer.Name))
		return &customer, nil
	})
}

// ListCustomers returns every customer. Read-only; bypasses the gate.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	return store.Load[entity.Customer](ctx, s.store, store.Customers)
}

// GetCustomer returns a customer by id. Read-only; bypasses the gate.
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customers, err := store.Load[entity.Customer](ctx, s.store, store.Customers)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if customers[i].ID == id {
			return &customers[i], nil
		}
	}
	return nil, apperror.NewNotFoundError("Customer")
}

// ListEntries returns a customer's ledger postings, newest first. Read-only;
// bypasses the gate.
func (s *CustomerService) ListEntries(ctx context.Context, customerID uuid.UUID) ([]entity.AccountEntry, error) {
	entries, err := store.Load[entity.AccountEntry](ctx, s.store, store.AccountEntries)
	if err != nil {
		return nil, err
	}
	matched := make([]entity.AccountEntry, 0)
	for _, e := range entries {
		if e.CustomerID == customerID {
			matched = append(matched, e)
		}
	}
	return matched, nil
}
