package handler

import (
	"net/http"
)

type createCategoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory handles POST /api/categories.
func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if isForm(r) {
		form, err := parseForm(r)
		if err != nil {
			s.requestError(w, err)
			return
		}
		req.Name = form.Get("name")
	} else if err := decodeJSON(r, &req); err != nil {
		s.requestError(w, err)
		return
	}

	created, err := s.categories.Create(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err, "Category not found.")
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// ListCategories handles GET /api/categories.
// Supports ?limit= and ?offset= query parameters (default limit REST_PAGE_SIZE, max 100).
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, err := s.categories.List(r.Context(), s.pageParams(r))
	if err != nil {
		s.writeError(w, r, err, "Not found.")
		return
	}
	s.writeJSON(w, http.StatusOK, newPageResponse(r, page))
}

// GetCategory handles GET /api/categories/{id}.
func (s *Server) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.requestError(w, err)
		return
	}

	c, err := s.categories.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "Category not found.")
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}
