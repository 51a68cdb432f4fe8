package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/starter-api/backend/internal/domain"
	"github.com/starter-api/backend/internal/repo"
	"github.com/starter-api/backend/internal/validate"
)

var maxPrice = decimal.RequireFromString(MaxPrice)

const (
	// MaxStock is the largest stock level a product may carry.
	MaxStock = 1_000_000
	// MaxPrice is the largest amount the NUMERIC(12, 2) price column holds.
	MaxPrice = "9999999999.99"
	// MaxBatchSize caps the number of products accepted by CreateBatch.
	MaxBatchSize = 500
)

// ProductInput is an unvalidated product as decoded from a request body.
// Numeric fields stay untyped so the validators see exactly what the
// client sent (a json.Number, a string, a bool, ...).
type ProductInput struct {
	CategoryID any    `json:"category_id"`
	Name       string `json:"name"`
	Price      any    `json:"price"`
	Stock      any    `json:"stock"`
}

// ProductService implements business logic for Product operations.
type ProductService struct {
	products   repo.ProductRepo
	categories validate.Lookup[domain.Category]
}

// NewProductService constructs a ProductService. Category references are
// resolved through categories.GetByID.
func NewProductService(products repo.ProductRepo, categories repo.CategoryRepo) *ProductService {
	return &ProductService{
		products:   products,
		categories: validate.LookupFunc[domain.Category](categories.GetByID),
	}
}

// Create validates and persists a single product.
// Validation failures are returned as *validate.Errors.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (domain.Product, error) {
	var errs validate.Errors

	p, err := s.check(ctx, s.categories, in, &errs)
	if err != nil {
		return domain.Product{}, fmt.Errorf("service.ProductService.Create: %w", err)
	}
	if err := errs.Err(); err != nil {
		return domain.Product{}, err
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("service.ProductService.Create: %w", err)
	}
	return created, nil
}

// CreateBatch validates every item before writing any of them, then
// persists the batch atomically. Descriptors carry the item's index.
func (s *ProductService) CreateBatch(ctx context.Context, ins []ProductInput) ([]domain.Product, error) {
	var errs validate.Errors
	switch {
	case len(ins) == 0:
		errs.Add(validate.NewError(validate.ErrRequired, "items", len(ins), "items must not be empty"))
	case len(ins) > MaxBatchSize:
		errs.Add(validate.NewError(validate.ErrRange, "items", len(ins),
			fmt.Sprintf("items must contain at most %d products", MaxBatchSize)))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	lookup := memoize(s.categories)
	products := make([]domain.Product, 0, len(ins))
	for i, in := range ins {
		p, err := s.check(ctx, lookup, in, &errs, validate.WithIndex(i))
		if err != nil {
			return nil, fmt.Errorf("service.ProductService.CreateBatch: %w", err)
		}
		products = append(products, p)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	created, err := s.products.CreateMany(ctx, products)
	if err != nil {
		return nil, fmt.Errorf("service.ProductService.CreateBatch: %w", err)
	}
	return created, nil
}

// ListByCategory returns one page of a category's products.
// Returns domain.ErrNotFound if the category does not exist.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID int64, p domain.PageParams) (domain.Page[domain.Product], error) {
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("service.ProductService.ListByCategory: %w", err)
	}

	items, total, err := s.products.ListByCategory(ctx, categoryID, p)
	if err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("service.ProductService.ListByCategory: %w", err)
	}
	return domain.Page[domain.Product]{Count: total, Results: items, Params: p}, nil
}

// check runs every field validator for in and records failures in errs.
// The returned error is reserved for lookup failures other than not-found.
func (s *ProductService) check(ctx context.Context, lookup validate.Lookup[domain.Category], in ProductInput, errs *validate.Errors, opts ...validate.Option) (domain.Product, error) {
	var p domain.Product

	fk, err := validate.ForeignKey(ctx, in.CategoryID, "category_id", lookup, opts...)
	if err != nil {
		return domain.Product{}, err
	}
	errs.Add(fk.Err())
	if fk.Instance != nil {
		p.CategoryID = fk.Instance.ID
	}

	p.Name = strings.TrimSpace(in.Name)
	errs.Add(checkName(p.Name, opts...))

	price := validate.Decimal(in.Price, "price", append(slices.Clip(opts), validate.WithDecimalMin(decimal.Zero), validate.WithDecimalMax(maxPrice))...)
	errs.Add(price.Error)
	if price.Value != nil {
		p.Price = *price.Value
	}

	// A missing stock falls back to zero instead of failing.
	stock := validate.Int(in.Stock, "stock", append(slices.Clip(opts), validate.WithMin(0), validate.WithMax(MaxStock))...)
	if stock.Error != nil && !errors.Is(stock.Error, validate.ErrRequired) {
		errs.Add(stock.Error)
	}
	if stock.Value != nil {
		p.Stock = *stock.Value
	}

	return p, nil
}

// memoize caches lookups for the duration of one batch so repeated
// category ids hit the database once.
func memoize(l validate.Lookup[domain.Category]) validate.Lookup[domain.Category] {
	type result struct {
		c   domain.Category
		err error
	}
	seen := map[int64]result{}
	return validate.LookupFunc[domain.Category](func(ctx context.Context, id int64) (domain.Category, error) {
		if r, ok := seen[id]; ok {
			return r.c, r.err
		}
		c, err := l.Get(ctx, id)
		if err == nil || errors.Is(err, domain.ErrNotFound) {
			seen[id] = result{c, err}
		}
		return c, err
	})
}
