package errs

import (
	"sort"
	"strings"
)

// ValidateError collects validation failures keyed by field path,
// e.g. "vault.address".
type ValidateError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func NewValidateError(message string) *ValidateError {
	return &ValidateError{
		Message: message,
		Fields:  make(map[string]string),
	}
}

func (e *ValidateError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return e.Message + ": " + strings.Join(parts, ", ")
}
