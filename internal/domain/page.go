package domain

// MaxPageLimit caps the limit a client may request.
const MaxPageLimit = 100

// PageParams carries limit/offset values from the HTTP layer to the repo layer.
type PageParams struct {
	// Limit is the maximum number of items to return.
	Limit int
	// Offset is the number of items to skip.
	Offset int
}

// NewPageParams builds PageParams from optional HTTP query params.
// A nil or non-positive limit falls back to defaultLimit, and the limit is
// capped at MaxPageLimit. Negative offsets become 0.
func NewPageParams(limit, offset *int, defaultLimit int) PageParams {
	p := PageParams{Limit: defaultLimit}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
	}
	p.Limit = min(max(p.Limit, 1), MaxPageLimit)
	if offset != nil && *offset > 0 {
		p.Offset = *offset
	}
	return p
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Count   int64
	Results []T
	Params  PageParams
}

// HasNext reports whether items remain after this page.
func (p Page[T]) HasNext() bool {
	return int64(p.Params.Offset+p.Params.Limit) < p.Count
}

// HasPrevious reports whether this page skipped any items.
func (p Page[T]) HasPrevious() bool {
	return p.Params.Offset > 0
}
