package types

// Dialect describes one released version of the BODS schema and where its
// documents live on disk.
//
// Flat dialects (0.1 - 0.3) carry one statement shape per statement type.
// Record-based dialects (0.4 onward) wrap every statement in a record
// envelope and move type-specific fields under recordDetails.
type Dialect struct {
	// Version is the dot-separated schema version, e.g. "0.2".
	Version string `yaml:"version"`

	// RecordBased marks the recordId/recordType/recordDetails envelope.
	RecordBased bool `yaml:"record_based"`

	// Dir holds every schema document of this dialect.  Relative paths are
	// resolved against the registry file location.
	Dir string `yaml:"dir"`

	// Entry is the document validated against a whole dataset,
	// e.g. "bods-package.json".
	Entry string `yaml:"entry"`

	// Documents lists the additional documents referenced through $ref.
	// Each is registered under its own $id.
	Documents []string `yaml:"documents,omitempty"`

	// Discriminator names the statement field whose value selects the
	// intended oneOf branch when reporting structural errors.
	// Defaults to "statementType".
	Discriminator string `yaml:"discriminator,omitempty"`

	// Draft is the JSON-Schema draft assumed for documents that do not
	// declare $schema: "4", "6", "7", "2019-09" or "2020-12".
	Draft string `yaml:"draft,omitempty"`
}

// DiscriminatorField returns the configured discriminator or the default.
func (d Dialect) DiscriminatorField() string {
	if d.Discriminator == "" {
		return "statementType"
	}
	return d.Discriminator
}

// RegistryFile is the top-level structure of a dialect registry file.
type RegistryFile struct {
	// RegistryVersion identifies the file format version.
	RegistryVersion string `yaml:"registry_version"`

	// DefaultVersion is used for data that declares no version at all.
	DefaultVersion string `yaml:"default_version"`

	Dialects []Dialect `yaml:"dialects"`
}
