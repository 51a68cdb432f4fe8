package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

var settingsValidator = mustValidator()

// mustValidator builds the validator used for Settings. Registration only
// fails for an invalid tag name, so an error here is a programming mistake.
func mustValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their environment variable name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("env"), ",")
		if name == "" {
			return f.Name
		}
		return name
	})

	custom := map[string]validator.Func{
		"throttle_rate": func(fl validator.FieldLevel) bool {
			_, err := ParseRate(fl.Field().String())
			return err == nil
		},
		"language_code": func(fl validator.FieldLevel) bool {
			_, err := language.Parse(fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("config: register %q validation: %v", tag, err))
		}
	}

	return v
}

// validateSettings runs struct tag validation plus the checks that span
// fields, and reports every failure at once.
func validateSettings(s *Settings) error {
	var errs []error

	if err := settingsValidator.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fieldError(fe))
		}
	}

	for _, class := range s.REST.ThrottleClasses {
		if _, ok := s.REST.ThrottleRates[class]; !ok {
			errs = append(errs, fmt.Errorf("REST_THROTTLE_RATES: no rate for throttle class %q", class))
		}
	}

	if s.Sessions.CookieSameSite == "None" && !s.Sessions.CookieSecure {
		errs = append(errs, errors.New("SESSION_COOKIE_SAMESITE=None requires SESSION_COOKIE_SECURE=true"))
	}

	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s must be set", fe.Field())
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fmt.Sprint(fe.Value()))
	case "throttle_rate":
		return fmt.Errorf("%s: %w: %q", fe.Namespace(), ErrInvalidRate, fmt.Sprint(fe.Value()))
	case "language_code":
		return fmt.Errorf("%s must be a BCP 47 language tag, got %q", fe.Field(), fmt.Sprint(fe.Value()))
	case "gt", "gte", "lt", "lte":
		return fmt.Errorf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Errorf("%s failed %q validation (value %v)", fe.Field(), fe.Tag(), fe.Value())
	}
}
