package app

import "bods-validate/internal/types"

const DefaultSampleSize = 10

// Request names the dataset to check and how to check it.
type Request struct {
	Path string

	// Sample keeps at most SampleSize statements of each type.
	Sample     bool
	SampleSize int

	Checks               types.CheckConfig
	SuppressLanguageMaps bool
}

type StatisticsResult struct {
	SchemaVersion string           `json:"schema_version" yaml:"schema_version"`
	Statistics    types.Statistics `json:"statistics" yaml:"statistics"`
	FailedChecks  []string         `json:"failed_checks,omitempty" yaml:"failed_checks,omitempty"`
}

type SchemaResult struct {
	SchemaVersion         string                  `json:"schema_version" yaml:"schema_version"`
	ValidationErrors      []types.ValidationError `json:"validation_errors" yaml:"validation_errors"`
	ValidationErrorsCount int                     `json:"validation_errors_count" yaml:"validation_errors_count"`
}
