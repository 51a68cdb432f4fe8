package service_test

import (
	"context"

	"github.com/starter-api/backend/internal/domain"
	"github.com/starter-api/backend/internal/repo"
)

// ---- mock CategoryRepo -----------------------------------------------------

type mockCategoryRepo struct {
	create  func(ctx context.Context, c domain.Category) (domain.Category, error)
	getByID func(ctx context.Context, id int64) (domain.Category, error)
	list    func(ctx context.Context, p domain.PageParams) ([]domain.Category, int64, error)
}

func (m *mockCategoryRepo) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	return m.create(ctx, c)
}
func (m *mockCategoryRepo) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	return m.getByID(ctx, id)
}
func (m *mockCategoryRepo) List(ctx context.Context, p domain.PageParams) ([]domain.Category, int64, error) {
	return m.list(ctx, p)
}

// compile-time check
var _ repo.CategoryRepo = (*mockCategoryRepo)(nil)

// ---- mock ProductRepo ------------------------------------------------------

type mockProductRepo struct {
	create         func(ctx context.Context, p domain.Product) (domain.Product, error)
	createMany     func(ctx context.Context, ps []domain.Product) ([]domain.Product, error)
	listByCategory func(ctx context.Context, categoryID int64, p domain.PageParams) ([]domain.Product, int64, error)
}

func (m *mockProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	return m.create(ctx, p)
}
func (m *mockProductRepo) CreateMany(ctx context.Context, ps []domain.Product) ([]domain.Product, error) {
	return m.createMany(ctx, ps)
}
func (m *mockProductRepo) ListByCategory(ctx context.Context, categoryID int64, p domain.PageParams) ([]domain.Product, int64, error) {
	return m.listByCategory(ctx, categoryID, p)
}

var _ repo.ProductRepo = (*mockProductRepo)(nil)

// knownCategories returns a CategoryRepo whose GetByID resolves only ids.
// calls, when non-nil, counts lookups.
func knownCategories(calls *int, ids ...int64) *mockCategoryRepo {
	return &mockCategoryRepo{
		getByID: func(_ context.Context, id int64) (domain.Category, error) {
			if calls != nil {
				*calls++
			}
			for _, known := range ids {
				if id == known {
					return domain.Category{ID: id, Name: "known"}, nil
				}
			}
			return domain.Category{}, domain.ErrNotFound
		},
	}
}
