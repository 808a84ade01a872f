package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bods-validate/internal/app"
	"bods-validate/internal/types"
)

// rootOptions are the persistent flags after config and environment have
// been applied.
type rootOptions struct {
	Registry   string
	Sample     bool
	SampleSize int
	Format     types.OutputFormat
	Output     string
}

func resolveRootOptions(cmd *cobra.Command, cfg *RootConfig) (rootOptions, error) {
	opts := rootOptions{
		Registry:   resolveString(cmd, cfg.Registry, "registry", "registry"),
		Sample:     resolveBool(cmd, cfg.Sample, "sample", "sample"),
		SampleSize: resolveInt(cmd, cfg.SampleSize, "sample_size", "sample-size"),
		Format:     types.OutputFormat(strings.ToLower(resolveString(cmd, cfg.Format, "format", "format"))),
		Output:     resolveString(cmd, cfg.Output, "output", "output"),
	}
	if opts.Format == "" {
		opts.Format = types.OutputFormatJSON
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = app.DefaultSampleSize
	}
	if strings.TrimSpace(opts.Registry) == "" {
		return rootOptions{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema registry is required (--registry or " + envPrefix + "_REGISTRY)")
	}
	switch opts.Format {
	case types.OutputFormatJSON, types.OutputFormatYAML:
	default:
		return rootOptions{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported output format: " + string(opts.Format))
	}
	return opts, nil
}

func newAppService(cmd *cobra.Command, opts rootOptions) (app.Service, error) {
	return app.NewService(app.Config{
		RegistryPath:   opts.Registry,
		OrgIDURL:       viper.GetString("org_id_url"),
		OrgIDCachePath: orgIDCachePath(),
		OrgIDTimeout:   viper.GetInt("org_id_timeout"),
		OutputPath:     opts.Output,
		Stdout:         cmd.OutOrStdout(),
	})
}

// orgIDCachePath defaults to the user cache directory.  An explicit empty
// value is not possible through config, so "none" disables the cache.
func orgIDCachePath() string {
	path := strings.TrimSpace(viper.GetString("org_id_cache"))
	switch path {
	case "none":
		return ""
	case "":
		dir, err := os.UserCacheDir()
		if err != nil {
			return ""
		}
		return filepath.Join(dir, "bods-validate", "org-id.json")
	default:
		return path
	}
}

func checkConfig() types.CheckConfig {
	cfg := types.CheckConfig{
		MinBirthYear: viper.GetInt("min_birth_year"),
		MaxBirthYear: viper.GetInt("max_birth_year"),
	}
	if viper.IsSet("person_identifier_country_exceptions") {
		cfg.PersonIdentifierCountryExceptions = viper.GetStringSlice("person_identifier_country_exceptions")
	}
	if viper.IsSet("sample_mode_excluded_checks") {
		cfg.SampleModeExcludedChecks = viper.GetStringSlice("sample_mode_excluded_checks")
	}
	return cfg.WithDefaults()
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return value
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return value
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
