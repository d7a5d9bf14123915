// Package schemas provides JSON Schema validation for the dictionary file and
// for structured output returned by AI providers.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Schema names understood by Validate.
const (
	Dictionary  = "dictionary.schema.json"
	TailoredCV  = "tailored_cv.schema.json"
	ScoreResult = "score_result.schema.json"
	JobSignal   = "job_signal.schema.json"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s validation failed:\n", ve.Schema))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Schema  string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Schema, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Schema, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateJSON validates raw JSON bytes against the named embedded schema.
func ValidateJSON(schema string, document []byte) error {
	return validate(schema, gojsonschema.NewBytesLoader(document))
}

// ValidateValue validates an already-decoded Go value (maps, slices, scalars)
// against the named embedded schema.
func ValidateValue(schema string, document any) error {
	return validate(schema, gojsonschema.NewGoLoader(document))
}

func validate(schema string, documentLoader gojsonschema.JSONLoader) error {
	content, err := schemaFiles.ReadFile(schema)
	if err != nil {
		return &SchemaLoadError{Schema: schema, Message: "schema not found", Cause: err}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(content), documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Schema:  schema,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: schema,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
