package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item that belongs to exactly one Category.
// Price is stored with two fractional digits, rounded half away from zero.
type Product struct {
	ID         int64           `json:"id"`
	CategoryID int64           `json:"category_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int64           `json:"stock"`
	CreatedAt  time.Time       `json:"created_at"`
}
