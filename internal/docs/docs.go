// Package docs publishes the OpenAPI document together with Swagger UI and
// Redoc pages. The embedded document is rewritten from the documentation
// settings before it is served.
package docs

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/starter-api/backend/internal/config"
)

// Sidecar selects the pinned default UI distribution.
const Sidecar = "SIDECAR"

const (
	defaultSwaggerUIDist = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@5.17.14"
	defaultRedocDist     = "https://cdn.jsdelivr.net/npm/redoc@2.1.5/bundles"
	defaultFavicon       = defaultSwaggerUIDist + "/favicon-32x32.png"
)

// Document is an OpenAPI document rendered once at startup.
type Document struct {
	yaml []byte
	json []byte
	cfg  config.Documentation
}

// Build merges cfg into the OpenAPI document in base: info, servers and
// security schemes are replaced, and only paths under cfg.PathPrefix are
// kept, with cfg.PathPrefixTrim swapped for cfg.PathPrefixInsert.
func Build(base []byte, cfg config.Documentation) (*Document, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(base, &doc); err != nil {
		return nil, fmt.Errorf("docs.Build: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("docs.Build: empty document")
	}

	doc["info"] = info(cfg)
	if len(cfg.Servers) > 0 {
		doc["servers"] = cfg.Servers
	}
	if len(cfg.SecuritySchemes) > 0 {
		components, _ := doc["components"].(map[string]any)
		if components == nil {
			components = map[string]any{}
			doc["components"] = components
		}
		components["securitySchemes"] = map[string]any(cfg.SecuritySchemes)
	}

	paths, _ := doc["paths"].(map[string]any)
	doc["paths"] = rewritePaths(paths, cfg)

	y, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("docs.Build: %w", err)
	}
	j, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("docs.Build: %w", err)
	}
	return &Document{yaml: y, json: j, cfg: cfg}, nil
}

func info(cfg config.Documentation) map[string]any {
	out := map[string]any{
		"title":   cfg.Title,
		"version": cfg.Version,
	}
	if cfg.Description != "" {
		out["description"] = cfg.Description
	}
	if cfg.TermsOfService != "" {
		out["termsOfService"] = cfg.TermsOfService
	}

	contact := map[string]any{}
	if cfg.ContactName != "" {
		contact["name"] = cfg.ContactName
	}
	if cfg.ContactURL != "" {
		contact["url"] = cfg.ContactURL
	}
	if cfg.ContactEmail != "" {
		contact["email"] = cfg.ContactEmail
	}
	if len(contact) > 0 {
		out["contact"] = contact
	}

	if cfg.LicenseName != "" {
		license := map[string]any{"name": cfg.LicenseName}
		if cfg.LicenseURL != "" {
			license["url"] = cfg.LicenseURL
		}
		out["license"] = license
	}
	return out
}

func rewritePaths(paths map[string]any, cfg config.Documentation) map[string]any {
	out := make(map[string]any, len(paths))
	for p, item := range paths {
		if !strings.HasPrefix(p, cfg.PathPrefix) {
			continue
		}
		if cfg.PathPrefixTrim != "" {
			p = strings.TrimPrefix(p, cfg.PathPrefixTrim)
		}
		p = cfg.PathPrefixInsert + p
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		out[p] = item
	}
	return out
}

// YAML returns the rendered document.
func (d *Document) YAML() []byte { return d.yaml }

// JSON returns the rendered document as JSON.
func (d *Document) JSON() []byte { return d.json }

// Routes mounts the schema and both UIs on r. Patterns carry no trailing
// slash; the router's CleanPath middleware strips it before matching.
func (d *Document) Routes(r chi.Router) {
	r.Get("/schema", d.Schema)
	r.Get("/docs", d.SwaggerUI)
	r.Get("/redoc", d.Redoc)
}

// Schema serves the document as YAML, or as JSON when ?format=json is set
// or the client only accepts JSON.
func (d *Document) Schema(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "json" || r.Header.Get("Accept") == "application/json" {
		w.Header().Set("Content-Type", "application/vnd.oai.openapi+json")
		_, _ = w.Write(d.json)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.oai.openapi")
	_, _ = w.Write(d.yaml)
}

// SwaggerUI serves the Swagger UI page pointing at the schema.
func (d *Document) SwaggerUI(w http.ResponseWriter, r *http.Request) {
	d.render(w, swaggerTemplate, page{
		Title:     d.cfg.Title,
		Dist:      dist(d.cfg.SwaggerUIDist, defaultSwaggerUIDist),
		Favicon:   dist(d.cfg.SwaggerUIFaviconHref, defaultFavicon),
		SchemaURL: schemaURL(r),
	})
}

// Redoc serves the Redoc page pointing at the schema.
func (d *Document) Redoc(w http.ResponseWriter, r *http.Request) {
	d.render(w, redocTemplate, page{
		Title:     d.cfg.Title,
		Dist:      dist(d.cfg.RedocDist, defaultRedocDist),
		SchemaURL: schemaURL(r),
	})
}

func (d *Document) render(w http.ResponseWriter, t *template.Template, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, p); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type page struct {
	Title     string
	Dist      string
	Favicon   string
	SchemaURL string
}

func dist(v, fallback string) string {
	if v == "" || v == Sidecar {
		return fallback
	}
	return strings.TrimSuffix(v, "/")
}

// schemaURL resolves the schema route relative to the page being served.
func schemaURL(r *http.Request) string {
	p := strings.TrimSuffix(r.URL.Path, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[:i]
	}
	return p + "/schema/?format=json"
}

var swaggerTemplate = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="icon" href="{{.Favicon}}">
<link rel="stylesheet" href="{{.Dist}}/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="{{.Dist}}/swagger-ui-bundle.js"></script>
<script>
window.ui = SwaggerUIBundle({url: "{{.SchemaURL}}", dom_id: "#swagger-ui", deepLinking: true, persistAuthorization: true});
</script>
</body>
</html>
`))

var redocTemplate = template.Must(template.New("redoc").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<redoc spec-url="{{.SchemaURL}}"></redoc>
<script src="{{.Dist}}/redoc.standalone.js"></script>
</body>
</html>
`))
