package types

// CheckConfig tunes the additional checks.  Zero values fall back to the
// defaults documented on each field.
type CheckConfig struct {
	// MinBirthYear is the earliest plausible birth or death year. Default 1800.
	MinBirthYear int `mapstructure:"min_birth_year" yaml:"min_birth_year"`

	// MaxBirthYear is the latest plausible birth or death year.
	// Zero means the current calendar year.
	MaxBirthYear int `mapstructure:"max_birth_year" yaml:"max_birth_year"`

	// PersonIdentifierCountryExceptions are three-letter codes accepted in
	// person identifier schemes although they are not ISO 3166-1 countries.
	PersonIdentifierCountryExceptions []string `mapstructure:"person_identifier_country_exceptions" yaml:"person_identifier_country_exceptions"`

	// SampleMode is set when the dataset was truncated by the sampling
	// loader.  Checks named in SampleModeExcludedChecks are then skipped.
	SampleMode               bool     `mapstructure:"sample_mode" yaml:"sample_mode"`
	SampleModeExcludedChecks []string `mapstructure:"sample_mode_excluded_checks" yaml:"sample_mode_excluded_checks"`
}

const DefaultMinBirthYear = 1800

// DefaultPersonIdentifierCountryExceptions are the ICAO Doc 9303 codes
// used on travel documents for Kosovo, stateless persons and refugees.
var DefaultPersonIdentifierCountryExceptions = []string{"XKX", "XXA", "XXB", "XXC", "XXX"}

// DefaultSampleModeExcludedChecks are the checks that need the whole
// dataset to produce meaningful results.
var DefaultSampleModeExcludedChecks = []string{
	"statement_references",
	"record_references",
	"unused_statements",
	"replaced_statements",
	"component_statements",
	"component_records",
	"declaration_subject",
	"record_series",
}

// WithDefaults returns a copy with zero values replaced by defaults.
func (c CheckConfig) WithDefaults() CheckConfig {
	if c.MinBirthYear == 0 {
		c.MinBirthYear = DefaultMinBirthYear
	}
	if c.PersonIdentifierCountryExceptions == nil {
		c.PersonIdentifierCountryExceptions = DefaultPersonIdentifierCountryExceptions
	}
	if c.SampleModeExcludedChecks == nil {
		c.SampleModeExcludedChecks = DefaultSampleModeExcludedChecks
	}
	return c
}
