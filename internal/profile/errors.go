package profile

import (
	"fmt"
	"strings"
)

// FieldError is a single rule violation at a field path such as experience[0].start_date.
type FieldError struct {
	Field   string
	Message string
}

// SchemaError reports a record that does not conform to the profile schema.
type SchemaError struct {
	Fields []FieldError
	Cause  error
}

func (e *SchemaError) Error() string {
	if len(e.Fields) == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("invalid profile: %v", e.Cause)
		}
		return "invalid profile"
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return "invalid profile: " + strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// FieldNames returns the distinct field paths named by the error, in report order.
func (e *SchemaError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	seen := make(map[string]struct{}, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := seen[f.Field]; ok {
			continue
		}
		seen[f.Field] = struct{}{}
		names = append(names, f.Field)
	}
	return names
}
