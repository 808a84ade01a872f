package app

import (
	"context"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bods-validate/internal/checks"
	"bods-validate/internal/types"
)

type fakeRegistry struct {
	known map[string]map[string]struct{}
}

func (f fakeRegistry) Dialects() []types.Dialect {
	return []types.Dialect{
		{Version: "0.1"},
		{Version: "0.2"},
		{Version: "0.3"},
		{Version: "0.4", RecordBased: true, Discriminator: "recordType"},
	}
}

func (f fakeRegistry) DefaultVersion() string { return "0.1" }

func (f fakeRegistry) Dialect(version string) (types.Dialect, bool) {
	for _, dialect := range f.Dialects() {
		if dialect.Version == version {
			return dialect, true
		}
	}
	return types.Dialect{}, false
}

func (f fakeRegistry) KnownFieldPaths(_ context.Context, version string) (map[string]struct{}, error) {
	return f.known[version], nil
}

type fakeValidator struct {
	errs    []types.ValidationError
	dialect *types.Dialect
}

func (f fakeValidator) Validate(_ context.Context, dialect types.Dialect, _ []byte) ([]types.ValidationError, error) {
	if f.dialect != nil {
		*f.dialect = dialect
	}
	return f.errs, nil
}

type fakePrefixes struct {
	calls *int
	err   error
}

func (f fakePrefixes) Prefixes(context.Context) (map[string]struct{}, error) {
	if f.calls != nil {
		*f.calls++
	}
	if f.err != nil {
		return nil, f.err
	}
	return map[string]struct{}{"GB-COH": {}}, nil
}

type fakeDatasets struct {
	files     map[string]string
	truncated bool
}

func (f fakeDatasets) Load(_ context.Context, path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("no dataset " + path)
	}
	return []byte(content), nil
}

func (f fakeDatasets) LoadSample(ctx context.Context, path string, _ int) ([]byte, bool, error) {
	data, err := f.Load(ctx, path)
	return data, f.truncated, err
}

type fakeReports struct {
	written *any
}

func (f fakeReports) WriteReport(report any, _ types.OutputFormat) error {
	*f.written = report
	return nil
}

const flatDataset = `[
	{"statementID":"e1","statementType":"entityStatement","entityType":"registeredEntity","name":"A",
	 "identifiers":[{"id":"1","scheme":"GB-COH"}],
	 "publicationDetails":{"bodsVersion":"0.2","publicationDate":"2020-01-01"}},
	{"statementID":"p1","statementType":"personStatement","personType":"knownPerson",
	 "publicationDetails":{"bodsVersion":"0.2","publicationDate":"2020-01-01"}},
	{"statementID":"o1","statementType":"ownershipOrControlStatement",
	 "subject":{"describedByEntityStatement":"e1"},"interestedParty":{"describedByPersonStatement":"p1"},
	 "internalNote":"x",
	 "publicationDetails":{"bodsVersion":"0.2","publicationDate":"2020-01-01"}}
]`

const danglingDataset = `[
	{"statementID":"o1","statementType":"ownershipOrControlStatement",
	 "subject":{"describedByEntityStatement":"ghost"},"interestedParty":{"unspecified":{"reason":"unknown"}},
	 "publicationDetails":{"bodsVersion":"0.2","publicationDate":"2020-01-01"}}
]`

func knownFlatPaths() map[string]struct{} {
	known := map[string]struct{}{}
	for _, path := range []string{
		"/statementID", "/statementType", "/entityType", "/name", "/personType",
		"/identifiers", "/identifiers/id", "/identifiers/scheme",
		"/subject", "/subject/describedByEntityStatement",
		"/interestedParty", "/interestedParty/describedByPersonStatement",
		"/publicationDetails", "/publicationDetails/bodsVersion", "/publicationDetails/publicationDate",
	} {
		known[path] = struct{}{}
	}
	return known
}

type testService struct {
	Service
	prefixCalls *int
	dialect     *types.Dialect
	written     *any
}

func newTestService(datasets fakeDatasets) testService {
	calls := 0
	var dialect types.Dialect
	var written any
	return testService{
		Service: Service{
			Registry: fakeRegistry{known: map[string]map[string]struct{}{"0.2": knownFlatPaths()}},
			Validator: fakeValidator{
				errs:    []types.ValidationError{{Message: "boom", Path: []any{0}, Validator: "type"}},
				dialect: &dialect,
			},
			PrefixList:   fakePrefixes{calls: &calls},
			Datasets:     datasets,
			Reports:      fakeReports{written: &written},
			Orchestrator: checks.NewOrchestrator(checks.DefaultRoster()),
			Clock:        func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
		},
		prefixCalls: &calls,
		dialect:     &dialect,
		written:     &written,
	}
}

func TestValidateMergesReports(t *testing.T) {
	svc := newTestService(fakeDatasets{files: map[string]string{"bods.json": flatDataset}})

	report, err := svc.Validate(context.Background(), Request{Path: "bods.json"})
	require.NoError(t, err)

	assert.Equal(t, "0.2", report.SchemaVersion)
	assert.Equal(t, "0.2", svc.dialect.Version)
	assert.Empty(t, report.AdditionalChecks)
	assert.Equal(t, 0, report.AdditionalChecksCount)
	assert.Equal(t, 1, report.ValidationErrorsCount)
	assert.Equal(t, 1, report.AdditionalFieldsCount)
	assert.Equal(t, "internalNote", report.AdditionalFields[0].FieldName)
	assert.Equal(t, 1, report.Statistics["count_entity_statements"])
	assert.Equal(t, 1, report.Statistics["count_ownership_or_control_statement_interested_party_with_person"])
	assert.Equal(t, 1, *svc.prefixCalls)
}

func TestChecksReportsMissingReferences(t *testing.T) {
	svc := newTestService(fakeDatasets{files: map[string]string{"bods.json": danglingDataset}})

	report, err := svc.Checks(context.Background(), Request{Path: "bods.json"})
	require.NoError(t, err)

	var tags []string
	for _, result := range report.AdditionalChecks {
		tags = append(tags, result.Type())
	}
	if diff := cmp.Diff([]string{"entity_statement_missing"}, tags); diff != "" {
		t.Fatalf("unexpected checks (-want +got):\n%s", diff)
	}
}

func TestChecksInSampleModeSkipsWholeDatasetChecks(t *testing.T) {
	svc := newTestService(fakeDatasets{files: map[string]string{"bods.json": danglingDataset}, truncated: true})

	report, err := svc.Checks(context.Background(), Request{Path: "bods.json", Sample: true, SampleSize: 1})
	require.NoError(t, err)
	assert.Empty(t, report.AdditionalChecks)
}

func TestChecksInSampleModeUntruncatedRunsEverything(t *testing.T) {
	svc := newTestService(fakeDatasets{files: map[string]string{"bods.json": danglingDataset}})

	report, err := svc.Checks(context.Background(), Request{Path: "bods.json", Sample: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.AdditionalChecksCount)
}

func TestChecksPropagatesPrefixFailure(t *testing.T) {
	svc := newTestService(fakeDatasets{files: map[string]string{"bods.json": flatDataset}})
	svc.PrefixList = fakePrefixes{err: errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("offline")}

	_, err := svc.Checks(context.Background(), Request{Path: "bods.json"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}

func TestStatisticsOnly(t *testing.T) {
	svc := newTestService(fakeDatasets{files: map[string]string{"bods.json": flatDataset}})

	result, err := svc.Statistics(context.Background(), Request{Path: "bods.json"})
	require.NoError(t, err)
	assert.Equal(t, "0.2", result.SchemaVersion)
	assert.Equal(t, 1, result.Statistics["count_person_statements"])
	assert.Empty(t, result.FailedChecks)
}

func TestSchemaOnly(t *testing.T) {
	svc := newTestService(fakeDatasets{files: map[string]string{"bods.json": flatDataset}})

	result, err := svc.Schema(context.Background(), Request{Path: "bods.json"})
	require.NoError(t, err)
	assert.Equal(t, "0.2", result.SchemaVersion)
	assert.Equal(t, 1, result.ValidationErrorsCount)
	assert.Zero(t, *svc.prefixCalls)
}

func TestAdditionalFieldsOnly(t *testing.T) {
	svc := newTestService(fakeDatasets{files: map[string]string{"bods.json": flatDataset}})

	result, err := svc.AdditionalFields(context.Background(), Request{Path: "bods.json"})
	require.NoError(t, err)
	require.Len(t, result.AdditionalFields, 1)
	assert.True(t, result.AdditionalFields[0].RootAdditionalField)
	assert.Equal(t, 1, result.AdditionalFields[0].Count)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		files    map[string]string
		wantCode errbuilder.ErrCode
	}{
		{name: "empty path", path: "  ", wantCode: errbuilder.CodeInvalidArgument},
		{name: "missing file", path: "none.json", wantCode: errbuilder.CodeNotFound},
		{name: "broken json", path: "bad.json", files: map[string]string{"bad.json": `[{`}, wantCode: errbuilder.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(fakeDatasets{files: tt.files})
			_, err := svc.Validate(context.Background(), Request{Path: tt.path})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errbuilder.CodeOf(err))
		})
	}
}

func TestWriteDelegatesToReportWriter(t *testing.T) {
	svc := newTestService(fakeDatasets{})
	require.NoError(t, svc.Write(SchemaResult{SchemaVersion: "0.3"}, types.OutputFormatJSON))
	assert.Equal(t, SchemaResult{SchemaVersion: "0.3"}, *svc.written)
}
