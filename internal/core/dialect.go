package core

import (
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/tidwall/gjson"

	"bods-validate/internal/types"
)

const (
	versionPath = "publicationDetails.bodsVersion"

	ResultUnknownSchemaVersion = "unknown_schema_version_used"
)

// Resolution is the outcome of picking a dialect for a dataset.
type Resolution struct {
	Dialect types.Dialect

	// AttemptedVersion is what the data asked for, before any fallback.
	// Non-string declarations keep their raw JSON text.
	AttemptedVersion string

	// Err is the unknown_schema_version_used finding, nil when the data
	// declared nothing or a known version.
	Err types.CheckResult
}

// VersionResolver chooses the dialect that governs a dataset.
type VersionResolver struct {
	known      map[string]types.Dialect
	def        types.Dialect
	latest     types.Dialect
	latestFlat types.Dialect
}

// NewVersionResolver indexes dialects.  latest is the highest version,
// latest non-record the highest version without the record envelope.
func NewVersionResolver(dialects []types.Dialect, defaultVersion string) (*VersionResolver, error) {
	if len(dialects) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no schema dialects configured")
	}
	sorted := append([]types.Dialect(nil), dialects...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareVersions(sorted[i].Version, sorted[j].Version) < 0
	})

	r := &VersionResolver{known: make(map[string]types.Dialect, len(sorted))}
	for _, dialect := range sorted {
		if _, dup := r.known[dialect.Version]; dup {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("schema dialect listed twice: " + dialect.Version)
		}
		r.known[dialect.Version] = dialect
		if !dialect.RecordBased {
			r.latestFlat = dialect
		}
	}
	r.latest = sorted[len(sorted)-1]
	if r.latestFlat.Version == "" {
		r.latestFlat = r.latest
	}

	if defaultVersion == "" {
		r.def = sorted[0]
	} else {
		def, ok := r.known[defaultVersion]
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("default schema version is not a configured dialect: " + defaultVersion)
		}
		r.def = def
	}
	return r, nil
}

func (r *VersionResolver) Default() types.Dialect    { return r.def }
func (r *VersionResolver) Latest() types.Dialect     { return r.latest }
func (r *VersionResolver) LatestFlat() types.Dialect { return r.latestFlat }

// Lookup returns the dialect for an exact version.
func (r *VersionResolver) Lookup(version string) (types.Dialect, bool) {
	dialect, ok := r.known[version]
	return dialect, ok
}

// Resolve applies, in order: empty data uses the default; a single record
// shaped object uses the latest; otherwise the first statement's declared
// version decides, falling back with an error when it is unusable.
func (r *VersionResolver) Resolve(data gjson.Result) Resolution {
	if !data.Exists() || data.Type == gjson.Null || (data.IsArray() && len(data.Array()) == 0) {
		return Resolution{Dialect: r.def, AttemptedVersion: r.def.Version}
	}
	if data.IsObject() && looksRecordBased(data) {
		return Resolution{Dialect: r.latest, AttemptedVersion: r.latest.Version}
	}

	first := data
	if data.IsArray() {
		first = data.Array()[0]
	}
	recordBased := first.IsObject() && looksRecordBased(first)
	fallback := r.latestFlat
	if recordBased {
		fallback = r.latest
	}

	declared := at(first, versionPath)
	switch {
	case !declared.Exists():
		dialect := r.def
		if recordBased {
			dialect = r.latest
		}
		return Resolution{Dialect: dialect, AttemptedVersion: dialect.Version}
	case declared.Type != gjson.String:
		return Resolution{
			Dialect:          fallback,
			AttemptedVersion: declared.Raw,
			Err:              unknownVersion(declared.Raw),
		}
	}
	if dialect, ok := r.known[declared.Str]; ok {
		return Resolution{Dialect: dialect, AttemptedVersion: declared.Str}
	}
	return Resolution{
		Dialect:          fallback,
		AttemptedVersion: declared.Str,
		Err:              unknownVersion(declared.Str),
	}
}

// AttemptedVersionOf returns the version a single statement asks for: its
// declared version, or the default (latest for record shaped statements)
// when it declares none.
func (r *VersionResolver) AttemptedVersionOf(statement gjson.Result) string {
	declared := at(statement, versionPath)
	switch {
	case !declared.Exists():
		if statement.IsObject() && looksRecordBased(statement) {
			return r.latest.Version
		}
		return r.def.Version
	case declared.Type == gjson.String:
		return declared.Str
	}
	return declared.Raw
}

func looksRecordBased(r gjson.Result) bool {
	return r.Get("recordDetails").Exists() || r.Get("recordId").Exists() || r.Get("recordType").Exists()
}

func unknownVersion(attempted string) types.CheckResult {
	return types.NewCheckResult(ResultUnknownSchemaVersion).With("schema_version", attempted)
}
