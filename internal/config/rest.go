package config

import "time"

// Permission policies.
const (
	PermissionAllowAny        = "allow_any"
	PermissionIsAuthenticated = "is_authenticated"
)

// Renderers.
const (
	RendererJSON      = "json"
	RendererBrowsable = "browsable"
)

// Throttle classes. Each needs an entry in REST.ThrottleRates.
const (
	ThrottleAnon   = "anon"
	ThrottleUser   = "user"
	ThrottleScoped = "scoped"
)

// REST holds API policy: authentication, permissions, throttling, request
// parsing, response rendering and pagination.
//
// PermissionClasses and RendererClasses are not configurable. They follow
// the environment: production requires authentication and renders plain
// JSON, every other environment allows anonymous access and renders
// indented JSON.
type REST struct {
	PermissionClasses     []string          `yaml:"default_permission_classes"`
	AuthenticationClasses []string          `env:"REST_AUTHENTICATION_CLASSES" envDefault:"session,basic,token" validate:"dive,oneof=session basic token" yaml:"default_authentication_classes"`
	ThrottleClasses       []string          `env:"REST_THROTTLE_CLASSES" envDefault:"anon,user,scoped" validate:"dive,oneof=anon user scoped" yaml:"default_throttle_classes"`
	ThrottleRates         map[string]string `env:"REST_THROTTLE_RATES" envDefault:"anon:1000/hour,user:1000/hour,scoped:1000/hour" validate:"dive,throttle_rate" yaml:"default_throttle_rates"`
	ParserClasses         []string          `env:"REST_PARSER_CLASSES" envDefault:"json,form,multipart" validate:"min=1,dive,oneof=json form multipart" yaml:"default_parser_classes"`
	RendererClasses       []string          `yaml:"default_renderer_classes"`
	PaginationClass       string            `env:"REST_PAGINATION_CLASS" envDefault:"limit_offset" validate:"oneof=limit_offset" yaml:"default_pagination_class"`
	PageSize              int               `env:"REST_PAGE_SIZE" envDefault:"10" validate:"gt=0,lte=1000" yaml:"page_size"`
	TimeoutSeconds        int               `env:"REST_DEFAULT_TIMEOUT" envDefault:"3600" validate:"gt=0" yaml:"default_timeout"`
}

func (r *REST) finalize(e Environment) {
	if e.IsProduction() {
		r.PermissionClasses = []string{PermissionIsAuthenticated}
		r.RendererClasses = []string{RendererJSON}
	} else {
		r.PermissionClasses = []string{PermissionAllowAny}
		r.RendererClasses = []string{RendererBrowsable}
	}
	r.AuthenticationClasses = trimAll(r.AuthenticationClasses)
	r.ThrottleClasses = trimAll(r.ThrottleClasses)
	r.ParserClasses = trimAll(r.ParserClasses)
}

// Timeout is the hard deadline for a single API request.
func (r REST) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// RequiresAuthentication reports whether anonymous requests are refused.
func (r REST) RequiresAuthentication() bool {
	for _, p := range r.PermissionClasses {
		if p == PermissionIsAuthenticated {
			return true
		}
	}
	return false
}

// Browsable reports whether responses are rendered for humans.
func (r REST) Browsable() bool {
	for _, c := range r.RendererClasses {
		if c == RendererBrowsable {
			return true
		}
	}
	return false
}

// ContentTypes maps ParserClasses to the request media types they accept.
func (r REST) ContentTypes() []string {
	var out []string
	for _, p := range r.ParserClasses {
		switch p {
		case "json":
			out = append(out, "application/json")
		case "form":
			out = append(out, "application/x-www-form-urlencoded")
		case "multipart":
			out = append(out, "multipart/form-data")
		}
	}
	return out
}
