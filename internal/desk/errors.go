package desk

import (
	"fmt"
	"strings"
)

// APIError is a non-2xx answer from the tariff service.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// FormError is raised before any request when a form cannot be turned into a
// payload. The form itself is left untouched so it can be corrected.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func formErrorf(field, format string, args ...any) *FormError {
	return &FormError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
