package tailoring

import "fmt"

// TemplateError reports a dictionary template that does not compile.
type TemplateError struct {
	Name  string
	Cause error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("invalid template %s: %v", e.Name, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
