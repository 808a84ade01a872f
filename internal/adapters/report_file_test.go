package adapters

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"bods-validate/internal/types"
)

func sampleReport() types.Report {
	return types.Report{
		CheckReport: types.CheckReport{
			SchemaVersion: "0.2",
			AdditionalChecks: []types.CheckResult{
				types.NewCheckResult("duplicate_statement_id").With("id", "a").With("count", 2),
			},
			AdditionalChecksCount: 1,
			Statistics:            types.Statistics{"count_entity_statements": 1},
		},
		ValidationErrors:      []types.ValidationError{},
		AdditionalFields:      []*types.AdditionalField{},
		AdditionalFieldsCount: 0,
	}
}

func TestReportFileWritesJSONToStdout(t *testing.T) {
	var out bytes.Buffer
	adapter := NewReportFileAdapter(afero.NewMemMapFs(), "-", &out)

	require.NoError(t, adapter.WriteReport(sampleReport(), types.OutputFormatJSON))
	assert.JSONEq(t, `{
		"schema_version": "0.2",
		"additional_checks": [{"type": "duplicate_statement_id", "id": "a", "count": 2}],
		"additional_checks_count": 1,
		"statistics": {"count_entity_statements": 1},
		"validation_errors": [],
		"validation_errors_count": 0,
		"additional_fields": [],
		"additional_fields_count": 0
	}`, out.String())
}

func TestReportFileWritesYAMLToFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	adapter := NewReportFileAdapter(fs, "/out/report.yaml", nil)

	require.NoError(t, adapter.WriteReport(sampleReport(), types.OutputFormatYAML))
	data, err := afero.ReadFile(fs, "/out/report.yaml")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "0.2", decoded["schema_version"])
	assert.Equal(t, 1, decoded["additional_checks_count"])
	assert.True(t, strings.HasPrefix(string(data), "schema_version: \"0.2\""), string(data))
}

func TestReportFileRejectsUnknownFormat(t *testing.T) {
	err := NewReportFileAdapter(afero.NewMemMapFs(), "", &bytes.Buffer{}).WriteReport(sampleReport(), "xml")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
