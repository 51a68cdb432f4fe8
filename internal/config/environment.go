package config

import "fmt"

// Environment is the runtime environment the process is deployed to.
type Environment string

const (
	Local       Environment = "local"
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown
// environments.
func (e *Environment) UnmarshalText(b []byte) error {
	switch v := Environment(b); v {
	case Local, Development, Staging, Production:
		*e = v
		return nil
	}
	return fmt.Errorf("unknown environment %q (want local, development, staging or production)", string(b))
}

// IsProduction reports whether e is Production.
func (e Environment) IsProduction() bool { return e == Production }
