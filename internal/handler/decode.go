package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starter-api/backend/internal/domain"
	"github.com/starter-api/backend/internal/validate"
)

// maxMultipartMemory bounds the in-memory part of multipart forms.
const maxMultipartMemory = 1 << 20

// decodeJSON decodes a single JSON value from the body into v. Numbers are
// kept as json.Number so validators see them unrounded.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return err
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// isForm reports whether the request carries form-encoded fields.
func isForm(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// parseForm parses url-encoded and multipart bodies alike.
func parseForm(r *http.Request) (url.Values, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mt == "multipart/form-data" {
		err = r.ParseMultipartForm(maxMultipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

// pageParams reads ?limit= and ?offset=. Missing or malformed values fall
// back to the defaults rather than failing the request.
func (s *Server) pageParams(r *http.Request) domain.PageParams {
	q := r.URL.Query()
	var limit, offset *int
	if out := validate.Int(q.Get("limit"), "limit", validate.WithMin(1)); out.OK() {
		n := int(*out.Value)
		limit = &n
	}
	if out := validate.Int(q.Get("offset"), "offset", validate.WithMin(0)); out.OK() {
		n := int(*out.Value)
		offset = &n
	}
	return domain.NewPageParams(limit, offset, s.pageSize)
}

// pageResponse is the limit/offset envelope of list endpoints.
type pageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func newPageResponse[T any](r *http.Request, page domain.Page[T]) pageResponse[T] {
	resp := pageResponse[T]{Count: page.Count, Results: page.Results}
	if resp.Results == nil {
		resp.Results = []T{}
	}
	p := page.Params
	if page.HasNext() {
		u := pageURL(r, p.Limit, p.Offset+p.Limit)
		resp.Next = &u
	}
	if page.HasPrevious() {
		u := pageURL(r, p.Limit, max(p.Offset-p.Limit, 0))
		resp.Previous = &u
	}
	return resp
}

// pageURL rebuilds the absolute request URL with new paging parameters.
// A zero offset is dropped from the query.
func pageURL(r *http.Request, limit, offset int) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}

	q := r.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}
