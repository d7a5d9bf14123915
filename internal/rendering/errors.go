// Package rendering serializes CVs back to plain text using the section
// headings the parser recognizes, so rendered output can be parsed again.
package rendering

import "fmt"

// TemplateError represents an error loading, parsing or executing a template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
