package core

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"

	"bods-validate/internal/types"
)

const maxFieldExamples = 3

var languageTagPattern = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]{1,8})*$`)

type fieldUsage struct {
	path     string
	count    int
	examples []any
}

// fieldWalker records every path in first appearance order.
type fieldWalker struct {
	order []string
	usage map[string]*fieldUsage
}

// DetectAdditionalFields reports paths present in doc but absent from
// known.  Paths are JSON pointers without array indices; when doc is an
// array of statements every statement is walked from "/".  With
// suppressLanguageMaps a language tag key directly under a known path
// counts as known, together with everything below it.
func DetectAdditionalFields(doc gjson.Result, known map[string]struct{}, suppressLanguageMaps bool) types.AdditionalFieldsReport {
	walker := &fieldWalker{usage: map[string]*fieldUsage{}}
	walker.walk(doc, "")

	report := types.AdditionalFieldsReport{AdditionalFields: []*types.AdditionalField{}}
	additional := map[string]*types.AdditionalField{}
	suppressed := map[string]struct{}{}
	for _, path := range walker.order {
		if _, ok := known[path]; ok {
			continue
		}
		if hasAncestorIn(path, suppressed) {
			continue
		}
		if suppressLanguageMaps && isLanguageMapKey(path, known) {
			suppressed[path] = struct{}{}
			continue
		}
		usage := walker.usage[path]
		field := &types.AdditionalField{
			Path:      parentPath(path),
			FieldName: lastSegment(path),
			Count:     usage.count,
			Examples:  usage.examples,
		}
		additional[path] = field
		if parent := nearestAdditional(path, additional); parent != nil {
			parent.Descendants = append(parent.Descendants, field)
			continue
		}
		field.RootAdditionalField = true
		report.AdditionalFields = append(report.AdditionalFields, field)
	}
	report.AdditionalFieldsCount = len(report.AdditionalFields)
	return report
}

// IsLanguageTag reports whether value is a well formed BCP 47 tag.
func IsLanguageTag(value string) bool {
	if !languageTagPattern.MatchString(value) {
		return false
	}
	_, err := language.Parse(value)
	return err == nil
}

func (w *fieldWalker) walk(value gjson.Result, path string) {
	switch {
	case value.IsArray():
		for _, item := range value.Array() {
			if item.IsObject() || item.IsArray() {
				w.walk(item, path)
			}
		}
	case value.IsObject():
		value.ForEach(func(key, child gjson.Result) bool {
			childPath := path + "/" + escapePointer(key.String())
			w.record(childPath, child)
			w.walk(child, childPath)
			return true
		})
	}
}

func (w *fieldWalker) record(path string, value gjson.Result) {
	usage, ok := w.usage[path]
	if !ok {
		usage = &fieldUsage{path: path, examples: []any{}}
		w.usage[path] = usage
		w.order = append(w.order, path)
	}
	usage.count++
	if len(usage.examples) < maxFieldExamples && !value.IsObject() && !value.IsArray() {
		usage.examples = append(usage.examples, value.Value())
	}
}

// isLanguageMapKey reports whether the last segment of path is a language
// tag keyed into an object the schema declares.
func isLanguageMapKey(path string, known map[string]struct{}) bool {
	parent := parentPath(path)
	if _, ok := known[parent]; !ok {
		return false
	}
	return IsLanguageTag(lastSegment(path))
}

func hasAncestorIn(path string, set map[string]struct{}) bool {
	for parent := parentPath(path); parent != ""; parent = parentPath(parent) {
		if _, ok := set[parent]; ok {
			return true
		}
	}
	return false
}

func nearestAdditional(path string, additional map[string]*types.AdditionalField) *types.AdditionalField {
	for parent := parentPath(path); parent != ""; parent = parentPath(parent) {
		if field, ok := additional[parent]; ok {
			return field
		}
	}
	return nil
}

func parentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}

func lastSegment(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

// escapePointer applies RFC 6901 escaping to one segment.
func escapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}
