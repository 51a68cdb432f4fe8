package repo

import (
	"context"
	"fmt"

	"github.com/starter-api/backend/internal/database"
	"github.com/starter-api/backend/internal/domain"
)

// ProductRepo defines the persistence operations for Products.
type ProductRepo interface {
	// Create inserts a product and returns the persisted record.
	// Returns domain.ErrNotFound if the category does not exist.
	Create(ctx context.Context, p domain.Product) (domain.Product, error)

	// CreateMany inserts every product or none of them.
	CreateMany(ctx context.Context, ps []domain.Product) ([]domain.Product, error)

	// ListByCategory returns one page of a category's products ordered by
	// id, and the total count.
	ListByCategory(ctx context.Context, categoryID int64, p domain.PageParams) ([]domain.Product, int64, error)
}

type sqlProductRepo struct {
	db      db
	dialect database.Dialect
}

// NewProductRepo constructs a ProductRepo backed by the provided db connection.
func NewProductRepo(db db, dialect database.Dialect) ProductRepo {
	return &sqlProductRepo{db: db, dialect: dialect}
}

func (r *sqlProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	result, err := insertProduct(ctx, r.db, r.dialect, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("repo.ProductRepo.Create: %w", err)
	}
	return result, nil
}

func (r *sqlProductRepo) CreateMany(ctx context.Context, ps []domain.Product) ([]domain.Product, error) {
	beginner, ok := r.db.(txBeginner)
	if !ok {
		// Already inside a transaction.
		out, err := insertProducts(ctx, r.db, r.dialect, ps)
		if err != nil {
			return nil, fmt.Errorf("repo.ProductRepo.CreateMany: %w", err)
		}
		return out, nil
	}

	tx, err := beginner.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.ProductRepo.CreateMany: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	out, err := insertProducts(ctx, tx, r.dialect, ps)
	if err != nil {
		return nil, fmt.Errorf("repo.ProductRepo.CreateMany: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("repo.ProductRepo.CreateMany: commit: %w", err)
	}
	return out, nil
}

func (r *sqlProductRepo) ListByCategory(ctx context.Context, categoryID int64, p domain.PageParams) ([]domain.Product, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT COUNT(*) FROM products WHERE category_id = ?`), categoryID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ProductRepo.ListByCategory: count: %w", err)
	}

	const q = `
		SELECT id, category_id, name, price, stock, created_at
		FROM products
		WHERE category_id = ?
		ORDER BY id
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), categoryID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ProductRepo.ListByCategory: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		prod, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ProductRepo.ListByCategory: scan: %w", err)
		}
		products = append(products, prod)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ProductRepo.ListByCategory: rows: %w", err)
	}
	return products, total, nil
}

func insertProducts(ctx context.Context, q db, dialect database.Dialect, ps []domain.Product) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(ps))
	for i, p := range ps {
		created, err := insertProduct(ctx, q, dialect, p)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, created)
	}
	return out, nil
}

func insertProduct(ctx context.Context, q db, dialect database.Dialect, p domain.Product) (domain.Product, error) {
	p.CreatedAt = now()
	p.Price = p.Price.Round(2)

	// Prices are stored as their decimal text so SQLite keeps every digit.
	id, err := insertReturningID(ctx, q, dialect,
		`INSERT INTO products (category_id, name, price, stock, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.CategoryID, p.Name, p.Price.StringFixed(2), p.Stock, p.CreatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	return p, nil
}

func scanProduct(row scanner) (domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt); err != nil {
		return domain.Product{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}
