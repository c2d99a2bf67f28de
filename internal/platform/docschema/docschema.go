// Package docschema validates resume and cover-letter bodies against the
// JSON schemas embedded in this package.
package docschema

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/yungbote/applytrack-backend/internal/domain/documents"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Violation is one schema failure at a JSON path.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error reports that a body is not valid JSON or does not fit its schema.
type Error struct {
	Kind       documents.Kind
	Message    string
	Violations []Violation
}

func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%d violations)", e.Message, len(e.Violations))
}

type Validator struct {
	once    sync.Once
	schemas map[documents.Kind]*gojsonschema.Schema
	err     error
}

func New() *Validator { return &Validator{} }

func (v *Validator) load() {
	v.schemas = make(map[documents.Kind]*gojsonschema.Schema, len(documents.Kinds))
	for _, kind := range documents.Kinds {
		raw, err := schemaFS.ReadFile("schemas/" + string(kind) + ".schema.json")
		if err != nil {
			v.err = fmt.Errorf("read %s schema: %w", kind, err)
			return
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			v.err = fmt.Errorf("compile %s schema: %w", kind, err)
			return
		}
		v.schemas[kind] = s
	}
}

// Validate checks that body is a JSON document matching kind's schema.
// A nil return means the body can be stored as is.
func (v *Validator) Validate(kind documents.Kind, body string) error {
	v.once.Do(v.load)
	if v.err != nil {
		return v.err
	}
	field := kind.BodyField()
	if !json.Valid([]byte(body)) {
		return &Error{Kind: kind, Message: field + " must be valid JSON"}
	}
	schema, ok := v.schemas[kind]
	if !ok {
		return fmt.Errorf("no schema for document kind %q", kind)
	}
	res, err := schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return &Error{Kind: kind, Message: field + " could not be validated: " + err.Error()}
	}
	if res.Valid() {
		return nil
	}
	out := &Error{Kind: kind, Message: field + " does not match the " + string(kind) + " schema"}
	for _, re := range res.Errors() {
		out.Violations = append(out.Violations, Violation{Field: re.Field(), Message: re.Description()})
	}
	return out
}
