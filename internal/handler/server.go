// Package handler implements the HTTP handlers for the starter API.
// All handlers are methods on Server. Methods are split into
// domain-specific files (health.go, category.go, etc.) but all share the
// same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/starter-api/backend/internal/domain"
	"github.com/starter-api/backend/internal/service"
)

// CategoryServicer defines the business operations the category handlers
// depend on. Defining the interface here (in the consumer package) lets
// handler tests inject a mock without touching the database or service layer.
type CategoryServicer interface {
	Create(ctx context.Context, name string) (domain.Category, error)
	GetByID(ctx context.Context, id int64) (domain.Category, error)
	List(ctx context.Context, p domain.PageParams) (domain.Page[domain.Category], error)
}

// ProductServicer defines the business operations the product handlers depend on.
type ProductServicer interface {
	Create(ctx context.Context, in service.ProductInput) (domain.Product, error)
	CreateBatch(ctx context.Context, ins []service.ProductInput) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64, p domain.PageParams) (domain.Page[domain.Product], error)
}

// Check is a named dependency probe reported by GET /healthz.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// Options carries the rendering and pagination settings handlers need.
type Options struct {
	// PageSize is the default limit of list endpoints.
	PageSize int
	// Pretty renders indented JSON for humans browsing the API.
	Pretty bool
	// TimeZone is the zone /api/time uses when the request names none.
	TimeZone string
	Checks   []Check
	Logger   *slog.Logger
	// Now replaces time.Now, for tests.
	Now func() time.Time
}

// Server holds the dependencies shared by every handler.
type Server struct {
	categories CategoryServicer
	products   ProductServicer
	pageSize   int
	pretty     bool
	timeZone   string
	checks     []Check
	log        *slog.Logger
	now        func() time.Time
}

// NewServer constructs the Server with all its dependencies.
func NewServer(categories CategoryServicer, products ProductServicer, opts Options) *Server {
	s := &Server{
		categories: categories,
		products:   products,
		pageSize:   opts.PageSize,
		pretty:     opts.Pretty,
		timeZone:   opts.TimeZone,
		checks:     opts.Checks,
		log:        opts.Logger,
		now:        opts.Now,
	}
	if s.pageSize <= 0 {
		s.pageSize = 10
	}
	if s.timeZone == "" {
		s.timeZone = "UTC"
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler(checks ...Check) *Server {
	return NewServer(nil, nil, Options{Checks: checks})
}
