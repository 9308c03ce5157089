package dto

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Decode errors.
var (
	ErrInvalidJSON  = errors.New("request body is not valid JSON")
	ErrBodyTooLarge = errors.New("request body too large")
)

// SchemaError lists the schema violations found in a request body.
type SchemaError struct {
	Details []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("request body failed schema validation (%d problems)", len(e.Details))
}

// Schema is a compiled JSON schema for one request body shape.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Request body schemas.
var (
	UserPatchSchema  = mustLoadSchema("user_patch.json")
	JobPatchSchema   = mustLoadSchema("job_patch.json")
	FieldValueSchema = mustLoadSchema("field_value.json")
	JobStatusSchema  = mustLoadSchema("job_status.json")
)

func mustLoadSchema(name string) *Schema {
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(fmt.Sprintf("read schema %s: %v", name, err))
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return &Schema{name: name, schema: compiled}
}

// Validate checks a raw JSON document against the schema.
func (s *Schema) Validate(body []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return ErrInvalidJSON
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, e.String())
	}
	return &SchemaError{Details: details}
}

// Decode reads the whole body, validates it against schema and unmarshals it into dst.
func Decode(body io.Reader, schema *Schema, dst any) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("read body: %w", err)
	}

	if !json.Valid(raw) {
		return ErrInvalidJSON
	}
	if err := schema.Validate(raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return ErrInvalidJSON
	}
	return nil
}
