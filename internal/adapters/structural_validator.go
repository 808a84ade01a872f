package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"bods-validate/internal/ports"
	"bods-validate/internal/types"
)

// StructuralValidatorAdapter validates documents with the schemas compiled
// by a SchemaRegistryAdapter and flattens the error tree into leaf errors.
//
// A failed oneOf is not reported as such.  The branch whose discriminator
// accepts the statement's value stands in for it; when no branch does, one
// enum error is reported at the discriminator, and when the statement has
// no discriminator, one required error.
type StructuralValidatorAdapter struct {
	registry *SchemaRegistryAdapter
}

func NewStructuralValidatorAdapter(registry *SchemaRegistryAdapter) StructuralValidatorAdapter {
	return StructuralValidatorAdapter{registry: registry}
}

func (a StructuralValidatorAdapter) Validate(ctx context.Context, dialect types.Dialect, raw []byte) ([]types.ValidationError, error) {
	compiled, err := a.registry.load(ctx, dialect.Version)
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dataset is not valid JSON").
			WithCause(err)
	}

	err = compiled.schema.Validate(doc)
	if err == nil {
		return []types.ValidationError{}, nil
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("schema validation aborted").
			WithCause(err)
	}

	f := flattener{
		compiled:      compiled,
		doc:           doc,
		discriminator: dialect.DiscriminatorField(),
		errors:        []types.ValidationError{},
	}
	f.flatten(validationErr)

	log.Ctx(ctx).Debug().
		Str("version", dialect.Version).
		Int("errors", len(f.errors)).
		Msg("structural validation finished")
	return f.errors, nil
}

type flattener struct {
	compiled      *compiledDialect
	doc           any
	discriminator string
	errors        []types.ValidationError
}

func (f *flattener) flatten(ve *jsonschema.ValidationError) {
	if keywordOf(ve) == "oneOf" && len(ve.Causes) > 0 {
		f.discriminate(ve)
		return
	}
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			f.flatten(cause)
		}
		return
	}
	f.emit(ve)
}

func (f *flattener) emit(ve *jsonschema.ValidationError) {
	out := types.ValidationError{
		Message:    ve.Message,
		Path:       f.path(ve.InstanceLocation),
		SchemaPath: ve.KeywordLocation,
		Validator:  keywordOf(ve),
		Instance:   plainValue(f.instanceAt(ve.InstanceLocation)),
	}
	if value, ok := f.compiled.resolve(ve.AbsoluteKeywordLocation); ok && value.Exists() {
		out.ValidatorValue = value.Value()
	}
	f.errors = append(f.errors, out)
}

func (f *flattener) discriminate(ve *jsonschema.ValidationError) {
	statement, ok := f.instanceAt(ve.InstanceLocation).(map[string]any)
	if !ok {
		f.emit(ve)
		return
	}
	value, present := statement[f.discriminator]
	if !present {
		f.errors = append(f.errors, types.ValidationError{
			Message:        "missing properties: '" + f.discriminator + "'",
			Path:           f.path(ve.InstanceLocation),
			SchemaPath:     ve.KeywordLocation,
			Validator:      "required",
			ValidatorValue: []any{f.discriminator},
			Instance:       plainValue(statement),
		})
		return
	}

	location := ve.InstanceLocation + "/" + escapePointer(f.discriminator)
	for _, branch := range ve.Causes {
		if !failsAt(branch, location) {
			f.flatten(branch)
			return
		}
	}

	var allowed []any
	for _, branch := range ve.Causes {
		allowed = append(allowed, f.allowedValues(branch, location)...)
	}
	f.errors = append(f.errors, types.ValidationError{
		Message:        "value must be one of " + renderValues(allowed),
		Path:           f.path(location),
		SchemaPath:     ve.KeywordLocation,
		Validator:      "enum",
		ValidatorValue: allowed,
		Instance:       plainValue(value),
	})
}

// allowedValues collects the enum and const values a branch demands at the
// given instance location.
func (f *flattener) allowedValues(ve *jsonschema.ValidationError, location string) []any {
	if len(ve.Causes) > 0 {
		var values []any
		for _, cause := range ve.Causes {
			values = append(values, f.allowedValues(cause, location)...)
		}
		return values
	}
	if ve.InstanceLocation != location {
		return nil
	}
	value, ok := f.compiled.resolve(ve.AbsoluteKeywordLocation)
	if !ok {
		return nil
	}
	switch keywordOf(ve) {
	case "enum":
		var values []any
		for _, item := range value.Array() {
			values = append(values, item.Value())
		}
		return values
	case "const":
		return []any{value.Value()}
	}
	return nil
}

// failsAt reports whether any leaf error of ve sits at the given instance
// location.
func failsAt(ve *jsonschema.ValidationError, location string) bool {
	if len(ve.Causes) == 0 {
		return ve.InstanceLocation == location
	}
	for _, cause := range ve.Causes {
		if failsAt(cause, location) {
			return true
		}
	}
	return false
}

func keywordOf(ve *jsonschema.ValidationError) string {
	location := ve.KeywordLocation
	if i := strings.LastIndexByte(location, '/'); i >= 0 {
		return location[i+1:]
	}
	return location
}

// path turns an instance location into segments, with array indices as ints.
func (f *flattener) path(location string) []any {
	segments := []any{}
	node := f.doc
	for _, segment := range pointerSegments(location) {
		if items, ok := node.([]any); ok {
			if index, err := strconv.Atoi(segment); err == nil && index >= 0 && index < len(items) {
				segments = append(segments, index)
				node = items[index]
				continue
			}
		}
		segments = append(segments, segment)
		if object, ok := node.(map[string]any); ok {
			node = object[segment]
		} else {
			node = nil
		}
	}
	return segments
}

func (f *flattener) instanceAt(location string) any {
	node := f.doc
	for _, segment := range pointerSegments(location) {
		switch container := node.(type) {
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(container) {
				return nil
			}
			node = container[index]
		case map[string]any:
			node = container[segment]
		default:
			return nil
		}
	}
	return node
}

func pointerSegments(pointer string) []string {
	if pointer == "" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, part := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
	}
	return parts
}

func escapePointer(segment string) string {
	return strings.ReplaceAll(strings.ReplaceAll(segment, "~", "~0"), "/", "~1")
}

// plainValue replaces json.Number with int64 or float64 so reports render
// numbers as numbers in every output format.
func plainValue(value any) any {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if n, err := v.Float64(); err == nil {
			return n
		}
		return v.String()
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = plainValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plainValue(item)
		}
		return out
	default:
		return value
	}
}

func renderValues(values []any) string {
	rendered := make([]string, 0, len(values))
	for _, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			continue
		}
		rendered = append(rendered, string(data))
	}
	return strings.Join(rendered, ", ")
}

var _ ports.StructuralValidatorPort = StructuralValidatorAdapter{}
