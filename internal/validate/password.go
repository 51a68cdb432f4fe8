package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Password validator names accepted by PasswordValidatorByName.
const (
	UserAttributeSimilarity = "user_attribute_similarity"
	MinimumLength           = "minimum_length"
	CommonPassword          = "common_password"
	NumericPassword         = "numeric_password"
)

// ErrWeakPassword is wrapped by every password validator failure.
var ErrWeakPassword = errors.New("weak password")

// PasswordValidator checks one property of a candidate password. attrs are
// user attributes (username, e-mail, names) the password must not resemble.
type PasswordValidator interface {
	Validate(password string, attrs ...string) error
}

// PasswordValidatorFunc adapts a function to PasswordValidator.
type PasswordValidatorFunc func(password string, attrs ...string) error

// Validate calls f.
func (f PasswordValidatorFunc) Validate(password string, attrs ...string) error {
	return f(password, attrs...)
}

const (
	defaultMinLength     = 8
	maxSimilarity        = 0.7
	minSimilarityPartLen = 3
)

// commonPasswords is a short deny list of the most used passwords.
var commonPasswords = map[string]struct{}{
	"123456": {}, "123456789": {}, "12345678": {}, "password": {}, "qwerty": {},
	"qwerty123": {}, "1q2w3e": {}, "12345": {}, "1234567": {}, "111111": {},
	"1234567890": {}, "123123": {}, "abc123": {}, "password1": {}, "iloveyou": {},
	"000000": {}, "dragon": {}, "monkey": {}, "letmein": {}, "football": {},
	"baseball": {}, "welcome": {}, "admin": {}, "admin123": {}, "sunshine": {},
	"princess": {}, "master": {}, "passw0rd": {}, "shadow": {}, "trustno1": {},
	"superman": {}, "qwertyuiop": {}, "starwars": {}, "whatever": {}, "michael": {},
	"654321": {}, "zaq12wsx": {}, "password123": {}, "changeme": {}, "secret": {},
}

// PasswordValidatorByName returns the validator registered under name.
func PasswordValidatorByName(name string) (PasswordValidator, error) {
	switch name {
	case UserAttributeSimilarity:
		return PasswordValidatorFunc(validateSimilarity), nil
	case MinimumLength:
		return PasswordValidatorFunc(validateMinLength), nil
	case CommonPassword:
		return PasswordValidatorFunc(validateCommon), nil
	case NumericPassword:
		return PasswordValidatorFunc(validateNumeric), nil
	}
	return nil, fmt.Errorf("validate.PasswordValidatorByName: unknown validator %q", name)
}

// Password runs every named validator and joins their failures.
func Password(password string, names []string, attrs ...string) error {
	var errs []error
	for _, name := range names {
		v, err := PasswordValidatorByName(name)
		if err != nil {
			return err
		}
		if err := v.Validate(password, attrs...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validateMinLength(password string, _ ...string) error {
	if len([]rune(password)) < defaultMinLength {
		return fmt.Errorf("%w: password must contain at least %d characters", ErrWeakPassword, defaultMinLength)
	}
	return nil
}

func validateCommon(password string, _ ...string) error {
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		return fmt.Errorf("%w: password is too common", ErrWeakPassword)
	}
	return nil
}

func validateNumeric(password string, _ ...string) error {
	if password == "" {
		return nil
	}
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return nil
		}
	}
	return fmt.Errorf("%w: password is entirely numeric", ErrWeakPassword)
}

func validateSimilarity(password string, attrs ...string) error {
	pw := strings.ToLower(password)
	for _, attr := range attrs {
		attr = strings.ToLower(attr)
		if attr == "" {
			continue
		}
		parts := append([]string{attr}, strings.FieldsFunc(attr, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})...)
		for _, part := range parts {
			if len(part) < minSimilarityPartLen {
				continue
			}
			if similarity(pw, part) >= maxSimilarity {
				return fmt.Errorf("%w: password is too similar to %q", ErrWeakPassword, attr)
			}
		}
	}
	return nil
}

// similarity is 2*LCS/(len(a)+len(b)) over runes, in [0, 1].
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 1
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return 2 * float64(prev[len(rb)]) / float64(len(ra)+len(rb))
}
