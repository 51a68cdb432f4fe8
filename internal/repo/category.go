package repo

import (
	"context"
	"fmt"

	"github.com/starter-api/backend/internal/database"
	"github.com/starter-api/backend/internal/domain"
)

// CategoryRepo defines the persistence operations for Categories.
// The service layer depends on this interface, not the concrete SQL implementation,
// which allows the service to be unit-tested with a mock.
type CategoryRepo interface {
	// Create inserts a new category and returns the persisted record.
	// Returns domain.ErrConflict if the name is taken.
	Create(ctx context.Context, c domain.Category) (domain.Category, error)

	// GetByID retrieves a single category by primary key.
	// Returns domain.ErrNotFound if no category with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Category, error)

	// List returns one page of categories ordered by name, and the total count.
	List(ctx context.Context, p domain.PageParams) ([]domain.Category, int64, error)
}

// sqlCategoryRepo is the database/sql implementation of CategoryRepo.
type sqlCategoryRepo struct {
	db      db
	dialect database.Dialect
}

// NewCategoryRepo constructs a CategoryRepo backed by the provided db connection.
// In production pass the *sql.DB; in tests pass a *sql.Tx for rollback isolation.
func NewCategoryRepo(db db, dialect database.Dialect) CategoryRepo {
	return &sqlCategoryRepo{db: db, dialect: dialect}
}

func (r *sqlCategoryRepo) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	c.CreatedAt = now()

	id, err := insertReturningID(ctx, r.db, r.dialect,
		`INSERT INTO categories (name, created_at) VALUES (?, ?)`, c.Name, c.CreatedAt)
	if err != nil {
		return domain.Category{}, fmt.Errorf("repo.CategoryRepo.Create: %w", err)
	}
	c.ID = id
	return c, nil
}

func (r *sqlCategoryRepo) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	const q = `
		SELECT id, name, created_at
		FROM categories
		WHERE id = ?`

	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(q), id)
	result, err := scanCategory(row)
	if err != nil {
		return domain.Category{}, fmt.Errorf("repo.CategoryRepo.GetByID: %w", mapErr(err))
	}
	return result, nil
}

func (r *sqlCategoryRepo) List(ctx context.Context, p domain.PageParams) ([]domain.Category, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.CategoryRepo.List: count: %w", err)
	}

	const q = `
		SELECT id, name, created_at
		FROM categories
		ORDER BY name, id
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.CategoryRepo.List: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.CategoryRepo.List: scan: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.CategoryRepo.List: rows: %w", err)
	}
	return categories, total, nil
}

func scanCategory(row scanner) (domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		return domain.Category{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}
