package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/starter-api/backend/internal/domain"
	"github.com/starter-api/backend/internal/handler"
	"github.com/starter-api/backend/internal/service"
)

// mockCategoryServicer is a test double for handler.CategoryServicer.
// Set only the method fields your test needs.
type mockCategoryServicer struct {
	create  func(ctx context.Context, name string) (domain.Category, error)
	getByID func(ctx context.Context, id int64) (domain.Category, error)
	list    func(ctx context.Context, p domain.PageParams) (domain.Page[domain.Category], error)
}

func (m *mockCategoryServicer) Create(ctx context.Context, name string) (domain.Category, error) {
	return m.create(ctx, name)
}
func (m *mockCategoryServicer) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	return m.getByID(ctx, id)
}
func (m *mockCategoryServicer) List(ctx context.Context, p domain.PageParams) (domain.Page[domain.Category], error) {
	return m.list(ctx, p)
}

// mockProductServicer is a test double for handler.ProductServicer.
type mockProductServicer struct {
	create         func(ctx context.Context, in service.ProductInput) (domain.Product, error)
	createBatch    func(ctx context.Context, ins []service.ProductInput) ([]domain.Product, error)
	listByCategory func(ctx context.Context, categoryID int64, p domain.PageParams) (domain.Page[domain.Product], error)
}

func (m *mockProductServicer) Create(ctx context.Context, in service.ProductInput) (domain.Product, error) {
	return m.create(ctx, in)
}
func (m *mockProductServicer) CreateBatch(ctx context.Context, ins []service.ProductInput) ([]domain.Product, error) {
	return m.createBatch(ctx, ins)
}
func (m *mockProductServicer) ListByCategory(ctx context.Context, categoryID int64, p domain.PageParams) (domain.Page[domain.Product], error) {
	return m.listByCategory(ctx, categoryID, p)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.CategoryServicer = (*mockCategoryServicer)(nil)
	_ handler.ProductServicer  = (*mockProductServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

var fixedNow = time.Date(2025, 3, 10, 22, 30, 15, 500_000_000, time.UTC)

// newHTTPHandler mounts a Server on the same paths the router uses.
func newHTTPHandler(categories handler.CategoryServicer, products handler.ProductServicer) http.Handler {
	srv := handler.NewServer(categories, products, handler.Options{
		PageSize: 2,
		TimeZone: "Asia/Dhaka",
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:      func() time.Time { return fixedNow },
	})

	r := chi.NewRouter()
	r.Get("/healthz", srv.GetHealth)
	r.Get("/api/time", srv.GetTime)
	r.Get("/api/categories", srv.ListCategories)
	r.Post("/api/categories", srv.CreateCategory)
	r.Get("/api/categories/{id}", srv.GetCategory)
	r.Get("/api/categories/{id}/products", srv.ListCategoryProducts)
	r.Post("/api/products", srv.CreateProduct)
	r.Post("/api/products/bulk", srv.CreateProducts)
	return r
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeMap(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&m))
	return m
}
