package core

import (
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/tidwall/gjson"
)

// Statement is one element of a dataset together with its position.
// The JSON is never mutated.
type Statement struct {
	Index int
	JSON  gjson.Result
}

// Get reads a dotted gjson path relative to the statement.
func (s Statement) Get(path string) gjson.Result {
	return s.JSON.Get(path)
}

// Dataset is the ordered sequence of statements a run checks.  Root keeps
// the document as loaded so version resolution can tell a single object
// apart from an array.
type Dataset struct {
	Root       gjson.Result
	Statements []Statement
}

// NewDataset parses raw JSON.  An array yields one statement per element,
// a single object yields one statement, anything else yields none.
func NewDataset(raw []byte) (*Dataset, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dataset is not valid JSON")
	}
	return DatasetFromResult(gjson.ParseBytes(raw)), nil
}

// DatasetFromResult wraps an already parsed document.
func DatasetFromResult(root gjson.Result) *Dataset {
	dataset := &Dataset{Root: root}
	switch {
	case root.IsArray():
		for i, item := range root.Array() {
			dataset.Statements = append(dataset.Statements, Statement{Index: i, JSON: item})
		}
	case root.IsObject():
		dataset.Statements = []Statement{{Index: 0, JSON: root}}
	}
	return dataset
}

// Len returns the number of statements.
func (d *Dataset) Len() int {
	return len(d.Statements)
}

// ---------------------------------------------------------------------------
// optional access
//
// Each helper returns the zero value when any segment of the path is
// missing or has an unexpected JSON type.  gjson itself is lenient: Array()
// on a scalar wraps it in a one element slice, so callers go through these.
// ---------------------------------------------------------------------------

// ArrayOf returns the elements at path, or nil when path is not an array.
func ArrayOf(r gjson.Result, path string) []gjson.Result {
	value := at(r, path)
	if !value.IsArray() {
		return nil
	}
	return value.Array()
}

// ObjectOf returns the object at path.
func ObjectOf(r gjson.Result, path string) (gjson.Result, bool) {
	value := at(r, path)
	if !value.IsObject() {
		return gjson.Result{}, false
	}
	return value, true
}

// StringOf returns the string at path.  Numbers and booleans do not count.
func StringOf(r gjson.Result, path string) (string, bool) {
	value := at(r, path)
	if value.Type != gjson.String {
		return "", false
	}
	return value.Str, true
}

// BoolOf returns the JSON boolean at path.
func BoolOf(r gjson.Result, path string) (bool, bool) {
	value := at(r, path)
	switch value.Type {
	case gjson.True:
		return true, true
	case gjson.False:
		return false, true
	}
	return false, false
}

// NumberOf returns the JSON number at path.
func NumberOf(r gjson.Result, path string) (float64, bool) {
	value := at(r, path)
	if value.Type != gjson.Number {
		return 0, false
	}
	return value.Num, true
}

// IsTrue reports whether path holds the JSON literal true.
func IsTrue(r gjson.Result, path string) bool {
	value, ok := BoolOf(r, path)
	return ok && value
}

// Strings returns the string elements of the array at path, skipping
// elements of any other type.
func Strings(r gjson.Result, path string) []string {
	var out []string
	for _, item := range ArrayOf(r, path) {
		if item.Type == gjson.String {
			out = append(out, item.Str)
		}
	}
	return out
}

// NonEmpty reports whether path holds a non-empty array or object.
func NonEmpty(r gjson.Result, path string) bool {
	value := at(r, path)
	switch {
	case value.IsArray():
		return len(value.Array()) > 0
	case value.IsObject():
		return len(value.Map()) > 0
	}
	return false
}

// at walks path only through objects so that an intermediate array or
// scalar never matches.  An empty path returns r.
func at(r gjson.Result, path string) gjson.Result {
	if path == "" {
		return r
	}
	if !r.IsObject() {
		return gjson.Result{}
	}
	return r.Get(path)
}
