package config

import "github.com/starter-api/backend/internal/validate"

// Middleware lists the HTTP middleware to install by registry name. The
// final order is Core, then ThirdParty, then Custom.
type Middleware struct {
	Core       []string `env:"MIDDLEWARE_CORE" envDefault:"security,session,common,clickjacking" yaml:"core"`
	ThirdParty []string `env:"MIDDLEWARE_THIRD_PARTY" envDefault:"cors,throttle" yaml:"third_party"`
	Custom     []string `env:"MIDDLEWARE_CUSTOM" envDefault:"request_log,body_limit" yaml:"custom"`
}

// Ordered returns every middleware name in installation order.
func (m Middleware) Ordered() []string {
	return concat(m.Core, m.ThirdParty, m.Custom)
}

// InstalledApps lists the route groups to mount. The final order is Core,
// then ThirdParty, then Local.
type InstalledApps struct {
	Core       []string `env:"INSTALLED_APPS_CORE" envDefault:"health,static" yaml:"core"`
	ThirdParty []string `env:"INSTALLED_APPS_THIRD_PARTY" envDefault:"docs" yaml:"third_party"`
	Local      []string `env:"INSTALLED_APPS_LOCAL" envDefault:"common,catalog" yaml:"local"`
}

// Ordered returns every app name in load order.
func (a InstalledApps) Ordered() []string {
	return concat(a.Core, a.ThirdParty, a.Local)
}

// Has reports whether app is installed.
func (a InstalledApps) Has(app string) bool {
	for _, name := range a.Ordered() {
		if name == app {
			return true
		}
	}
	return false
}

// Authentication holds the password validator set. It is fixed and cannot
// be changed through the environment.
type Authentication struct {
	PasswordValidators []string `yaml:"password_validators"`
}

func (a *Authentication) finalize() {
	a.PasswordValidators = []string{
		validate.UserAttributeSimilarity,
		validate.MinimumLength,
		validate.CommonPassword,
		validate.NumericPassword,
	}
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, trimAll(l)...)
	}
	return out
}
