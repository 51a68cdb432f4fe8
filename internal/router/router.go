// Package router assembles the HTTP handler from settings: the base chain,
// the configured middleware in order, and the routes of every installed
// app.
package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/starter-api/backend/internal/config"
	"github.com/starter-api/backend/internal/docs"
	"github.com/starter-api/backend/internal/handler"
	"github.com/starter-api/backend/internal/middleware"
	"github.com/starter-api/backend/internal/session"
	"github.com/starter-api/backend/internal/throttle"
)

// CatalogScope is the throttle scope of the catalog routes.
const CatalogScope = "catalog"

// ErrUnknown is returned for a middleware or app name with no registration.
var ErrUnknown = errors.New("not registered")

// Deps are the components routes and middleware are built from. Sessions,
// Throttle and Docs may be nil when nothing configured needs them.
type Deps struct {
	Settings *config.Settings
	Server   *handler.Server
	Sessions *session.Manager
	Throttle *throttle.Throttler
	Docs     *docs.Document

	// Logger receives one line per request. RequestLogger receives the
	// detailed request_log records. Both default to slog.Default.
	Logger        *slog.Logger
	RequestLogger *slog.Logger
}

type middlewareFactory func(d Deps) (func(http.Handler) http.Handler, error)

var middlewares = map[string]middlewareFactory{
	"security": func(Deps) (func(http.Handler) http.Handler, error) {
		return middleware.NewSecurityHeaders(), nil
	},
	"session": func(d Deps) (func(http.Handler) http.Handler, error) {
		if d.Sessions == nil {
			return nil, errors.New("no session manager")
		}
		return d.Sessions.Middleware, nil
	},
	"common": func(d Deps) (func(http.Handler) http.Handler, error) {
		hosts := middleware.NewAllowedHosts(d.Settings.Base.AllowedHosts)
		return func(next http.Handler) http.Handler {
			return hosts(chimiddleware.CleanPath(next))
		}, nil
	},
	"clickjacking": func(Deps) (func(http.Handler) http.Handler, error) {
		return middleware.NewClickjackingGuard(), nil
	},
	"cors": func(d Deps) (func(http.Handler) http.Handler, error) {
		return middleware.NewCORSHandler(d.Settings.Server.CORSOrigins), nil
	},
	"throttle": func(d Deps) (func(http.Handler) http.Handler, error) {
		if d.Throttle == nil {
			return nil, errors.New("no throttler")
		}
		return d.Throttle.Middleware, nil
	},
	"request_log": func(d Deps) (func(http.Handler) http.Handler, error) {
		return middleware.NewRequestLog(d.RequestLogger), nil
	},
	"body_limit": func(d Deps) (func(http.Handler) http.Handler, error) {
		return middleware.NewMaxBodySizeHandler(d.Settings.Server.MaxBodyBytes), nil
	},
}

type app func(r chi.Router, d Deps) error

var apps = map[string]app{
	"health":  healthRoutes,
	"static":  staticRoutes,
	"docs":    docsRoutes,
	"common":  commonRoutes,
	"catalog": catalogRoutes,
}

// New builds the router. The base chain is RequestID, RealIP, the request
// logger and Recoverer, followed by settings.Middleware in order.
func New(d Deps) (http.Handler, error) {
	if d.Settings == nil || d.Server == nil {
		return nil, errors.New("router.New: settings and server are required")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.RequestLogger == nil {
		d.RequestLogger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(d.Logger))
	r.Use(chimiddleware.Recoverer)

	for _, name := range d.Settings.Middleware.Ordered() {
		factory, ok := middlewares[name]
		if !ok {
			return nil, fmt.Errorf("router.New: middleware %q: %w", name, ErrUnknown)
		}
		mw, err := factory(d)
		if err != nil {
			return nil, fmt.Errorf("router.New: middleware %q: %w", name, err)
		}
		r.Use(mw)
	}

	for _, name := range d.Settings.InstalledApps.Ordered() {
		mount, ok := apps[name]
		if !ok {
			return nil, fmt.Errorf("router.New: app %q: %w", name, ErrUnknown)
		}
		if err := mount(r, d); err != nil {
			return nil, fmt.Errorf("router.New: app %q: %w", name, err)
		}
	}
	return r, nil
}

func healthRoutes(r chi.Router, d Deps) error {
	r.Get("/healthz", d.Server.GetHealth)
	return nil
}

// staticRoutes serves static assets and uploaded media from disk in debug
// mode. Production serves them from the front proxy.
func staticRoutes(r chi.Router, d Deps) error {
	if !d.Settings.Security.Debug {
		return nil
	}
	s := d.Settings.Static
	fileServer(r, s.StaticURL, s.StaticRoot)
	fileServer(r, s.MediaURL, s.MediaRoot)
	return nil
}

func fileServer(r chi.Router, prefix, root string) {
	prefix = "/" + strings.Trim(prefix, "/")
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(root)))
	r.Get(prefix+"/*", fs.ServeHTTP)
}

func docsRoutes(r chi.Router, d Deps) error {
	if !d.Settings.Security.Debug {
		return nil
	}
	if d.Docs == nil {
		return errors.New("no document")
	}
	r.Route("/dev/api", d.Docs.Routes)
	return nil
}

// apiGroup applies the API policy shared by every /api route: the request
// deadline and the permission class.
func apiGroup(r chi.Router, d Deps, fn func(r chi.Router)) {
	rest := d.Settings.REST
	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(rest.Timeout()))
		r.Use(middleware.NewRequireAuthenticated(rest.RequiresAuthentication()))
		fn(r)
	})
}

func commonRoutes(r chi.Router, d Deps) error {
	apiGroup(r, d, func(r chi.Router) {
		r.Get("/api/time", d.Server.GetTime)
	})
	return nil
}

func catalogRoutes(r chi.Router, d Deps) error {
	s := d.Server
	apiGroup(r, d, func(r chi.Router) {
		if d.Throttle != nil {
			r.Use(d.Throttle.Scope(CatalogScope))
		}
		parsed := r.With(chimiddleware.AllowContentType(d.Settings.REST.ContentTypes()...))

		r.Get("/api/categories", s.ListCategories)
		parsed.Post("/api/categories", s.CreateCategory)
		r.Get("/api/categories/{id}", s.GetCategory)
		r.Get("/api/categories/{id}/products", s.ListCategoryProducts)
		parsed.Post("/api/products", s.CreateProduct)
		parsed.Post("/api/products/bulk", s.CreateProducts)
	})
	return nil
}
