package pipeline

import "fmt"

// ValidationError rejects malformed or missing job input before anything is
// fetched or extracted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}
