// Package service contains the business logic for the starter API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here. Services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/starter-api/backend/internal/domain"
	"github.com/starter-api/backend/internal/repo"
	"github.com/starter-api/backend/internal/validate"
)

// maxNameLength bounds category and product names.
const maxNameLength = 200

// CategoryService implements business logic for Category operations.
type CategoryService struct {
	repo repo.CategoryRepo
}

// NewCategoryService constructs a CategoryService backed by the provided CategoryRepo.
func NewCategoryService(r repo.CategoryRepo) *CategoryService {
	return &CategoryService{repo: r}
}

// Create validates and persists a new category.
// Returns *validate.Errors for a blank or overlong name and
// domain.ErrConflict if the name is taken.
func (s *CategoryService) Create(ctx context.Context, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)

	var errs validate.Errors
	errs.Add(checkName(name))
	if err := errs.Err(); err != nil {
		return domain.Category{}, err
	}

	c, err := s.repo.Create(ctx, domain.Category{Name: name})
	if err != nil {
		return domain.Category{}, fmt.Errorf("service.CategoryService.Create: %w", err)
	}
	return c, nil
}

// GetByID returns a single category by ID.
func (s *CategoryService) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("service.CategoryService.GetByID: %w", err)
	}
	return c, nil
}

// List returns one page of categories ordered by name.
func (s *CategoryService) List(ctx context.Context, p domain.PageParams) (domain.Page[domain.Category], error) {
	items, total, err := s.repo.List(ctx, p)
	if err != nil {
		return domain.Page[domain.Category]{}, fmt.Errorf("service.CategoryService.List: %w", err)
	}
	return domain.Page[domain.Category]{Count: total, Results: items, Params: p}, nil
}

// checkName returns a descriptor when name is blank or too long.
func checkName(name string, opts ...validate.Option) *validate.ErrorDescriptor {
	switch {
	case name == "":
		return validate.NewError(validate.ErrRequired, "name", name, "name is required", opts...)
	case utf8.RuneCountInString(name) > maxNameLength:
		return validate.NewError(validate.ErrRange, "name", name,
			fmt.Sprintf("name must be at most %d characters", maxNameLength), opts...)
	}
	return nil
}
