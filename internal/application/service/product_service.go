package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
	"github.com/gokmen-54/nalburos-web-deploy/internal/gate"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/apperror"
)

// ProductService manages the catalog consumed by the POS terminal.
type ProductService struct {
	store  store.RecordStore
	gate   *gate.Gate
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(rs store.RecordStore, g *gate.Gate, logger *zap.Logger) *ProductService {
	return &ProductService{store: rs, gate: g, logger: logger}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	SKU        string
	Barcode    string
	Name       string
	Unit       string
	Quantity   float64
	MinStock   float64
	SalePrice  float64
	LastCost   float64
	VATRate    *float64
	BranchID   string
	CategoryID *uuid.UUID
}

// CatalogQuery filters the read-only catalog lookup.
type CatalogQuery struct {
	BranchID   string
	CategoryID *uuid.UUID
	Text       string
}

// CreateProduct adds a catalog item.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Name == "" || input.SKU == "" {
		return nil, apperror.NewBadRequestError("Product name and sku are required")
	}
	if !isFinite(input.SalePrice) || input.SalePrice < 0 {
		return nil, apperror.NewInvalidAmountError("Invalid sale price")
	}
	return gate.Run(ctx, s.gate, func(ctx context.Context) (*entity.Product, error) {
		products, err := store.Load[entity.Product](ctx, s.store, store.Products)
		if err != nil {
			return nil, err
		}
		product := entity.Product{
			ID:         uuid.New(),
			BranchID:   input.BranchID,
			CategoryID: input.CategoryID,
			SKU:        input.SKU,
			Barcode:    input.Barcode,
			Name:       input.Name,
			Unit:       input.Unit,
			Quantity:   input.Quantity,
			MinStock:   input.MinStock,
			SalePrice:  input.SalePrice,
			LastCost:   input.LastCost,
			VATRate:    input.VATRate,
			CreatedAt:  time.Now().UTC(),
		}
		products = append([]entity.Product{product}, products...)
		if err := store.Save(ctx, s.store, store.Products, products); err != nil {
			return nil, err
		}
		s.logger.Info("product created",
			zap.String("product_id", product.ID.String()),
			zap.String("sku", product.SKU))
		return &product, nil
	})
}

// Catalog returns products matching branch, category and free text over
// name, sku and barcode. Read-only; bypasses the gate.
func (s *ProductService) Catalog(ctx context.Context, q *CatalogQuery) ([]entity.Product, error) {
	products, err := store.Load[entity.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	matched := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if p.BranchID != "" && q.BranchID != "" && p.BranchID != q.BranchID {
			continue
		}
		if q.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *q.CategoryID) {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(p.Name), text) &&
			!strings.Contains(strings.ToLower(p.SKU), text) &&
			!strings.Contains(strings.ToLower(p.Barcode), text) {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

// GetProduct returns a product by id. Read-only; bypasses the gate.
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	products, err := store.Load[entity.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, apperror.NewNotFoundError("Product")
}

// ListMovements returns the stock movement history for a product, newest
// first. Read-only; bypasses the gate.
func (s *ProductService) ListMovements(ctx context.Context, productID uuid.UUID) ([]entity.StockMovement, error) {
	movements, err := store.Load[entity.StockMovement](ctx, s.store, store.StockMovements)
	if err != nil {
		return nil, err
	}
	matched := make([]entity.StockMovement, 0)
	for _, m := range movements {
		if m.ProductID == productID {
			matched = append(matched, m)
		}
	}
	return matched, nil
}
