// Package validation holds the pure input rules: vanity slug format and
// reservation, registration form checks, and user text normalization.
//
// Nothing here reads the store. Rules that need current state (slug
// uniqueness, username collisions) live in the engine.
package validation

import (
	"errors"
	"regexp"
	"strings"
)

var slugRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]*$`)

// reservedSlugs are the application's route names. A vanity slug may not
// shadow any of them.
var reservedSlugs = map[string]struct{}{
	"login":     {},
	"terms":     {},
	"bulletins": {},
	"forums":    {},
	"gallery":   {},
	"admirers":  {},
	"groups":    {},
	"inbox":     {},
	"dating":    {},
	"profile":   {},
}

var (
	// ErrSlugFormat means the slug contains characters outside [A-Za-z0-9_-].
	ErrSlugFormat = errors.New("URL can only contain letters, numbers, underscores, and dashes")

	// ErrSlugReserved means the slug collides with a route name.
	ErrSlugReserved = errors.New("this custom URL is reserved")
)

// ValidateSlug checks format and reservation. The empty slug is valid and
// means "no vanity slug".
//
// Reservation is case-insensitive ("LOGIN" is rejected). Uniqueness against
// other users is not checked here.
func ValidateSlug(slug string) error {
	if !slugRegex.MatchString(slug) {
		return ErrSlugFormat
	}
	if slug != "" && IsReservedSlug(slug) {
		return ErrSlugReserved
	}
	return nil
}

// IsReservedSlug reports whether slug, case-folded, is a route name.
func IsReservedSlug(slug string) bool {
	_, ok := reservedSlugs[strings.ToLower(slug)]
	return ok
}

// ReservedSlugs returns the reserved words in no particular order.
func ReservedSlugs() []string {
	out := make([]string, 0, len(reservedSlugs))
	for s := range reservedSlugs {
		out = append(out, s)
	}
	return out
}
