package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{"validate", "checks", "stats", "additional-fields", "schema"}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestRootCommandFlags(t *testing.T) {
	root := newRootCommand()
	flags := []string{"config", "log-level", "registry", "sample", "sample-size", "format", "output"}
	for _, name := range flags {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "missing flag: %s", name)
	}
}

func TestLanguageMapFlag(t *testing.T) {
	cfg := &RootConfig{}
	assert.NotNil(t, newValidateCommand(cfg).Flags().Lookup("suppress-language-maps"))
	assert.NotNil(t, newAdditionalFieldsCommand(cfg).Flags().Lookup("suppress-language-maps"))
	assert.Nil(t, newChecksCommand(cfg).Flags().Lookup("suppress-language-maps"))
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
		{
			name:     "unchanged flag keeps its default",
			cmd:      &cobra.Command{Use: "test"},
			value:    "json",
			expected: "json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveStringPrefersConfigOverDefault(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("format", "yaml")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("format", "json", "")
	assert.Equal(t, "yaml", resolveString(cmd, "json", "format", "format"))

	require.NoError(t, cmd.Flags().Set("format", "json"))
	assert.Equal(t, "json", resolveString(cmd, "json", "format", "format"))
}

func TestResolveBool(t *testing.T) {
	got := resolveBool(nil, true, "test_key", "test-flag")
	assert.True(t, got)

	got = resolveBool(nil, false, "test_key", "test-flag")
	assert.False(t, got)
}

func TestResolveInt(t *testing.T) {
	got := resolveInt(nil, 42, "test_key", "test-flag")
	assert.Equal(t, 42, got)
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
}

func TestFlagChangedAfterSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

func TestCheckConfigFromViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("min_birth_year", 1900)
	viper.Set("person_identifier_country_exceptions", []string{"XKX"})

	cfg := checkConfig()
	assert.Equal(t, 1900, cfg.MinBirthYear)
	assert.Equal(t, 0, cfg.MaxBirthYear)
	assert.Equal(t, []string{"XKX"}, cfg.PersonIdentifierCountryExceptions)
	assert.NotEmpty(t, cfg.SampleModeExcludedChecks)
}

func TestOrgIDCachePath(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("org_id_cache", "none")
	assert.Equal(t, "", orgIDCachePath())

	viper.Set("org_id_cache", "/tmp/org.json")
	assert.Equal(t, "/tmp/org.json", orgIDCachePath())
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("bad input"),
			expected: 2,
		},
		{
			name: "not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("file missing"),
			expected: 3,
		},
		{
			name: "internal error",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("boom"),
			expected: 4,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "errbuilder with msg",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("something broke"),
			expected: "something broke",
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: assert.AnError.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorMessage(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// ---------- Command runs ----------

const testRegistry = "../adapters/testdata/schemas/registry.yaml"

const cliDataset = `[
	{"statementID":"e1","statementType":"entityStatement","entityType":"registeredEntity",
	 "identifiers":[{"id":"01","scheme":"GB-COH"}],
	 "publicationDetails":{"publicationDate":"2020-01-01","bodsVersion":"0.2"}},
	{"statementID":"o1","statementType":"ownershipOrControlStatement",
	 "subject":{"describedByEntityStatement":"e1"},"interestedParty":{"describedByPersonStatement":"p1"},
	 "publicationDetails":{"publicationDate":"2020-01-01","bodsVersion":"0.2"}},
	{"statementID":"p1","statementType":"personStatement","personType":"knownPerson","nickname":"Bo",
	 "publicationDetails":{"publicationDate":"2020-01-01","bodsVersion":"0.2"}}
]`

// runCLI executes the root command in-process against a local org-id list.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"lists":[{"code":"GB-COH"}]}`))
	}))
	t.Cleanup(server.Close)
	t.Setenv("BODS_VALIDATE_ORG_ID_URL", server.URL)
	t.Setenv("BODS_VALIDATE_ORG_ID_CACHE", filepath.Join(t.TempDir(), "org-id.json"))

	dir := t.TempDir()
	dataset := filepath.Join(dir, "bods.json")
	require.NoError(t, os.WriteFile(dataset, []byte(cliDataset), 0644))

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(append(args, dataset))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidateCommandWritesReport(t *testing.T) {
	out, err := runCLI(t, "validate", "--registry", testRegistry, "--log-level", "error")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "0.2", report["schema_version"])
	assert.Equal(t, float64(0), report["validation_errors_count"])
	assert.Equal(t, float64(1), report["additional_fields_count"])
	assert.Equal(t, float64(1), report["additional_checks_count"])

	checks := report["additional_checks"].([]any)
	first := checks[0].(map[string]any)
	assert.Equal(t, "person_statement_out_of_order", first["type"])
	assert.Equal(t, "p1", first["person_statement_out_of_order"])
}

func TestStatsCommandYAML(t *testing.T) {
	out, err := runCLI(t, "stats", "--registry", testRegistry, "--format", "yaml", "--log-level", "error")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	stats := result["statistics"].(map[string]any)
	assert.Equal(t, 1, stats["count_entity_statements"])
	assert.Equal(t, 1, stats["count_person_statements"])
}

func TestSchemaCommandToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out", "schema.json")
	out, err := runCLI(t, "schema", "--registry", testRegistry, "--output", target, "--log-level", "error")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.JSONEq(t, `{"schema_version":"0.2","validation_errors":[],"validation_errors_count":0}`, string(data))
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{name: "missing registry", args: []string{"checks"}, expected: 2},
		{name: "unknown format", args: []string{"checks", "--registry", testRegistry, "--format", "xml"}, expected: 2},
		{name: "registry not found", args: []string{"checks", "--registry", "missing.yaml"}, expected: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, append(tt.args, "--log-level", "error")...)
			require.Error(t, err)
			assert.Equal(t, tt.expected, exitCodeForError(err))
		})
	}
}
