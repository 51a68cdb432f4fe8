package handler

import (
	"net/http"

	"github.com/starter-api/backend/internal/service"
)

// CreateProduct handles POST /api/products. JSON and form bodies are
// accepted; form values reach the validators as strings.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if isForm(r) {
		form, err := parseForm(r)
		if err != nil {
			s.requestError(w, err)
			return
		}
		in = service.ProductInput{
			CategoryID: form.Get("category_id"),
			Name:       form.Get("name"),
			Price:      form.Get("price"),
			Stock:      form.Get("stock"),
		}
	} else if err := decodeJSON(r, &in); err != nil {
		s.requestError(w, err)
		return
	}

	created, err := s.products.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err, "Category not found.")
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// CreateProducts handles POST /api/products/bulk. The body is a JSON array
// of products; nothing is written unless every item is valid.
func (s *Server) CreateProducts(w http.ResponseWriter, r *http.Request) {
	var ins []service.ProductInput
	if err := decodeJSON(r, &ins); err != nil {
		s.requestError(w, err)
		return
	}

	created, err := s.products.CreateBatch(r.Context(), ins)
	if err != nil {
		s.writeError(w, r, err, "Category not found.")
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// ListCategoryProducts handles GET /api/categories/{id}/products.
func (s *Server) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.requestError(w, err)
		return
	}

	page, err := s.products.ListByCategory(r.Context(), id, s.pageParams(r))
	if err != nil {
		s.writeError(w, r, err, "Category not found.")
		return
	}
	s.writeJSON(w, http.StatusOK, newPageResponse(r, page))
}
