// Package domain contains the core data types for the starter API.
// This package has no dependencies on other internal packages and is
// imported by every layer (repo, service, handler).
package domain

import "time"

// Category groups products. It is the target of the products.category_id
// foreign key and the canonical example of a lookup-backed reference.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
