package recipe

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrForbidden         = errors.New("only the author can modify this recipe")
	ErrUnauthorized      = errors.New("authentication required")
	ErrShortCodeConflict = errors.New("could not allocate a unique short code")
)

// ValidationError maps request fields to human-readable reasons.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
