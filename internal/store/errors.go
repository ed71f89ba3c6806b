package store

import "fmt"

// ValidationError is returned when a query parameter cannot be parsed.
// The offending field and value are always named; a bad bound is never
// silently ignored.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: expected an ISO-8601 timestamp", e.Field, e.Value)
}

// NotFoundError is returned when a directed lookup by identifier matches
// nothing. Distinct from an empty result set on a filtered listing.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}
