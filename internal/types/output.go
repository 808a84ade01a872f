package types

// CheckResult is one finding of an additional check.  The "type" key holds
// the result tag; every other key is context for that tag.
type CheckResult map[string]any

// NewCheckResult starts a result with the given tag.
func NewCheckResult(tag string) CheckResult {
	return CheckResult{"type": tag}
}

// With sets a context field and returns the result for chaining.
func (r CheckResult) With(key string, value any) CheckResult {
	r[key] = value
	return r
}

// Type returns the result tag.
func (r CheckResult) Type() string {
	tag, _ := r["type"].(string)
	return tag
}

// Statistics maps a statistic name to an int or a map[string]int.
type Statistics map[string]any

// Merge copies every key of other into s.
func (s Statistics) Merge(other Statistics) {
	for key, value := range other {
		s[key] = value
	}
}

// CheckReport is the output of one additional-check run.
type CheckReport struct {
	SchemaVersion         string        `json:"schema_version" yaml:"schema_version"`
	AdditionalChecks      []CheckResult `json:"additional_checks" yaml:"additional_checks"`
	AdditionalChecksCount int           `json:"additional_checks_count" yaml:"additional_checks_count"`
	Statistics            Statistics    `json:"statistics" yaml:"statistics"`
	FailedChecks          []string      `json:"failed_checks,omitempty" yaml:"failed_checks,omitempty"`
}

// ValidationError is one structural JSON-Schema violation.
type ValidationError struct {
	Message        string `json:"message" yaml:"message"`
	Path           []any  `json:"path" yaml:"path"`
	SchemaPath     string `json:"schema_path" yaml:"schema_path"`
	Validator      string `json:"validator" yaml:"validator"`
	ValidatorValue any    `json:"validator_value,omitempty" yaml:"validator_value,omitempty"`
	Instance       any    `json:"instance,omitempty" yaml:"instance,omitempty"`
}

// AdditionalField is a path present in the data but not in the schema.
type AdditionalField struct {
	Path                string             `json:"path" yaml:"path"`
	FieldName           string             `json:"field_name" yaml:"field_name"`
	Count               int                `json:"count" yaml:"count"`
	Examples            []any              `json:"examples" yaml:"examples"`
	RootAdditionalField bool               `json:"root_additional_field" yaml:"root_additional_field"`
	Descendants         []*AdditionalField `json:"additional_field_descendance,omitempty" yaml:"additional_field_descendance,omitempty"`
}

type AdditionalFieldsReport struct {
	AdditionalFields      []*AdditionalField `json:"additional_fields" yaml:"additional_fields"`
	AdditionalFieldsCount int                `json:"additional_fields_count" yaml:"additional_fields_count"`
}

// Report is the combined document written by the validate command.
type Report struct {
	CheckReport `json:",inline" yaml:",inline"`

	ValidationErrors      []ValidationError  `json:"validation_errors" yaml:"validation_errors"`
	ValidationErrorsCount int                `json:"validation_errors_count" yaml:"validation_errors_count"`
	AdditionalFields      []*AdditionalField `json:"additional_fields" yaml:"additional_fields"`
	AdditionalFieldsCount int                `json:"additional_fields_count" yaml:"additional_fields_count"`
}
