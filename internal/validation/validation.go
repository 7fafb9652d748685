// Package validation holds the syntactic checks applied to user input before
// anything is persisted.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()

	phoneRegex = regexp.MustCompile(`^\+?\d{10,15}$`)
)

// IsValidEmail reports whether s is shaped like an email address.
// No DNS or MX lookup is performed.
func IsValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// IsValidPhone reports whether s holds 10 to 15 digits with an optional
// leading plus, ignoring whitespace, hyphens and parentheses.
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(stripPhone(s))
}

func stripPhone(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, s)
}
