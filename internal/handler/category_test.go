package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starter-api/backend/internal/domain"
	"github.com/starter-api/backend/internal/validate"
)

func categoryFixture() domain.Category {
	return domain.Category{ID: 3, Name: "Tools", CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

// ---- POST /api/categories --------------------------------------------------

func TestCreateCategory_201(t *testing.T) {
	var got string
	svc := &mockCategoryServicer{
		create: func(_ context.Context, name string) (domain.Category, error) {
			got = name
			return categoryFixture(), nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/categories", jsonBody(t, map[string]any{"name": "Tools"}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Tools", got)
	body := decodeMap(t, rec.Body)
	assert.Equal(t, float64(3), body["id"])
	assert.Equal(t, "Tools", body["name"])
}

func TestCreateCategory_201_Form(t *testing.T) {
	var got string
	svc := &mockCategoryServicer{
		create: func(_ context.Context, name string) (domain.Category, error) {
			got = name
			return categoryFixture(), nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader("name=Tools"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Tools", got)
}

func TestCreateCategory_400_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "empty", body: "", want: "request body is required"},
		{name: "not json", body: "{", want: "malformed JSON"},
		{name: "unknown field", body: `{"name":"a","color":"red"}`, want: "malformed JSON"},
		{name: "two values", body: `{"name":"a"}{"name":"b"}`, want: "single JSON value"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockCategoryServicer{}

			req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			newHTTPHandler(svc, nil).ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeMap(t, rec.Body)["detail"], tc.want)
		})
	}
}

func TestCreateCategory_400_ValidationError(t *testing.T) {
	svc := &mockCategoryServicer{
		create: func(_ context.Context, name string) (domain.Category, error) {
			var errs validate.Errors
			errs.Add(validate.NewError(validate.ErrRequired, "name", name, "name is required"))
			return domain.Category{}, errs.Err()
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/categories", jsonBody(t, map[string]any{"name": ""}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"invalid":[{"name":"","info":"name is required"}]}`, rec.Body.String())
}

func TestCreateCategory_409_Conflict(t *testing.T) {
	svc := &mockCategoryServicer{
		create: func(context.Context, string) (domain.Category, error) {
			return domain.Category{}, domain.ErrConflict
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/categories", jsonBody(t, map[string]any{"name": "Tools"}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateCategory_500_InternalError(t *testing.T) {
	svc := &mockCategoryServicer{
		create: func(context.Context, string) (domain.Category, error) {
			return domain.Category{}, errors.New("db exploded")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/categories", jsonBody(t, map[string]any{"name": "Tools"}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "A server error occurred.", decodeMap(t, rec.Body)["detail"])
}

// ---- GET /api/categories/{id} ----------------------------------------------

func TestGetCategory_200(t *testing.T) {
	svc := &mockCategoryServicer{
		getByID: func(_ context.Context, id int64) (domain.Category, error) {
			c := categoryFixture()
			c.ID = id
			return c, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/categories/42", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec.Body)
	assert.Equal(t, float64(42), body["id"])
	assert.Equal(t, "2025-03-01T09:00:00Z", body["created_at"])
}

func TestGetCategory_404(t *testing.T) {
	svc := &mockCategoryServicer{
		getByID: func(context.Context, int64) (domain.Category, error) {
			return domain.Category{}, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/categories/42", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found.", decodeMap(t, rec.Body)["detail"])
}

func TestGetCategory_400_BadID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-4"} {
		t.Run(id, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/categories/"+id, nil)
			rec := httptest.NewRecorder()

			newHTTPHandler(&mockCategoryServicer{}, nil).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

// ---- GET /api/categories ---------------------------------------------------

func TestListCategories_Pagination(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantParams   domain.PageParams
		wantNext     any
		wantPrevious any
	}{
		{
			name:       "defaults",
			query:      "",
			wantParams: domain.PageParams{Limit: 2, Offset: 0},
			wantNext:   "http://example.com/api/categories?limit=2&offset=2",
		},
		{
			name:         "middle page",
			query:        "?limit=2&offset=2",
			wantParams:   domain.PageParams{Limit: 2, Offset: 2},
			wantNext:     "http://example.com/api/categories?limit=2&offset=4",
			wantPrevious: "http://example.com/api/categories?limit=2",
		},
		{
			name:         "last page",
			query:        "?limit=3&offset=3",
			wantParams:   domain.PageParams{Limit: 3, Offset: 3},
			wantPrevious: "http://example.com/api/categories?limit=3",
		},
		{
			name:       "malformed values fall back",
			query:      "?limit=lots&offset=-1",
			wantParams: domain.PageParams{Limit: 2, Offset: 0},
			wantNext:   "http://example.com/api/categories?limit=2&offset=2",
		},
		{
			name:       "limit capped",
			query:      "?limit=1000",
			wantParams: domain.PageParams{Limit: domain.MaxPageLimit, Offset: 0},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got domain.PageParams
			svc := &mockCategoryServicer{
				list: func(_ context.Context, p domain.PageParams) (domain.Page[domain.Category], error) {
					got = p
					return domain.Page[domain.Category]{
						Count:   6,
						Results: []domain.Category{categoryFixture()},
						Params:  p,
					}, nil
				},
			}

			req := httptest.NewRequest(http.MethodGet, "/api/categories"+tc.query, nil)
			rec := httptest.NewRecorder()

			newHTTPHandler(svc, nil).ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.wantParams, got)

			body := decodeMap(t, rec.Body)
			assert.Equal(t, float64(6), body["count"])
			assert.Equal(t, tc.wantNext, body["next"])
			assert.Equal(t, tc.wantPrevious, body["previous"])
			assert.Len(t, body["results"], 1)
		})
	}
}

func TestListCategories_EmptyResultsIsArray(t *testing.T) {
	svc := &mockCategoryServicer{
		list: func(_ context.Context, p domain.PageParams) (domain.Page[domain.Category], error) {
			return domain.Page[domain.Category]{Params: p}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0,"next":null,"previous":null,"results":[]}`, rec.Body.String())
}
