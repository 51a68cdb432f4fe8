package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Documentation holds OpenAPI document metadata and UI options.
type Documentation struct {
	Title          string `env:"DOCS_TITLE" envDefault:"Starter API" validate:"required" yaml:"title"`
	Description    string `env:"DOCS_DESCRIPTION" envDefault:"Starter API documentation" yaml:"description"`
	Version        string `env:"DOCS_VERSION" envDefault:"1.0.0" validate:"required" yaml:"version"`
	TermsOfService string `env:"DOCS_TERMS_OF_SERVICE" envDefault:"https://example.com/terms/" validate:"omitempty,url" yaml:"terms_of_service"`

	ContactName  string `env:"DOCS_CONTACT_NAME" envDefault:"API Support" yaml:"contact_name"`
	ContactURL   string `env:"DOCS_CONTACT_URL" envDefault:"https://example.com/support" validate:"omitempty,url" yaml:"contact_url"`
	ContactEmail string `env:"DOCS_CONTACT_EMAIL" envDefault:"support@example.com" validate:"omitempty,email" yaml:"contact_email"`

	LicenseName string `env:"DOCS_LICENSE_NAME" envDefault:"MIT" yaml:"license_name"`
	LicenseURL  string `env:"DOCS_LICENSE_URL" envDefault:"https://opensource.org/licenses/MIT" validate:"omitempty,url" yaml:"license_url"`

	// UI assets. "SIDECAR" loads the pinned default distribution, anything
	// else is a base URL to load them from.
	SwaggerUIDist        string `env:"DOCS_SWAGGER_UI_DIST" envDefault:"SIDECAR" yaml:"swagger_ui_dist"`
	SwaggerUIFaviconHref string `env:"DOCS_SWAGGER_UI_FAVICON_HREF" envDefault:"SIDECAR" yaml:"swagger_ui_favicon_href"`
	RedocDist            string `env:"DOCS_REDOC_DIST" envDefault:"SIDECAR" yaml:"redoc_dist"`

	// Paths in the document are rewritten: PathPrefixTrim is removed and
	// PathPrefixInsert put in its place. Only paths under PathPrefix are
	// published.
	PathPrefix       string `env:"DOCS_SCHEMA_PATH_PREFIX" envDefault:"/api" yaml:"schema_path_prefix"`
	PathPrefixInsert string `env:"DOCS_SCHEMA_PATH_PREFIX_INSERT" yaml:"schema_path_prefix_insert"`
	PathPrefixTrim   string `env:"DOCS_SCHEMA_PATH_PREFIX_TRIM" envDefault:"/api" yaml:"schema_path_prefix_trim"`

	// Servers and SecuritySchemes take YAML flow values, for example
	// DOCS_SERVERS='[{url: https://api.example.com, description: Production}]'.
	Servers         Servers         `env:"DOCS_SERVERS" validate:"dive" yaml:"servers"`
	SecuritySchemes SecuritySchemes `env:"DOCS_SECURITY_SCHEMES" yaml:"security_schemes"`
}

// DocServer is one entry of the OpenAPI servers list.
type DocServer struct {
	URL         string `yaml:"url" json:"url" validate:"required,url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Servers is a list of DocServer parsed from YAML.
type Servers []DocServer

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Servers) UnmarshalText(b []byte) error {
	var out []DocServer
	if err := yaml.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("servers: %w", err)
	}
	*s = out
	return nil
}

// SecuritySchemes maps scheme names to OpenAPI security scheme objects.
type SecuritySchemes map[string]any

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SecuritySchemes) UnmarshalText(b []byte) error {
	var out map[string]any
	if err := yaml.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("security schemes: %w", err)
	}
	*s = out
	return nil
}
