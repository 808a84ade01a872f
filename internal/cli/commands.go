package cli

import (
	"context"

	"github.com/spf13/cobra"

	"bods-validate/internal/app"
)

// produceFunc runs one service operation and returns the report to write.
type produceFunc func(ctx context.Context, service app.Service, req app.Request) (any, error)

type reportOptions struct {
	SuppressLanguageMaps bool
}

func newValidateCommand(cfg *RootConfig) *cobra.Command {
	opts := &reportOptions{}
	cmd := newReportCommand(cfg, opts, "validate", "Full report: schema, additional checks, statistics and additional fields",
		func(ctx context.Context, service app.Service, req app.Request) (any, error) {
			return service.Validate(ctx, req)
		})
	addLanguageMapFlag(cmd, opts)
	return cmd
}

func newChecksCommand(cfg *RootConfig) *cobra.Command {
	return newReportCommand(cfg, &reportOptions{}, "checks", "Run the additional checks only",
		func(ctx context.Context, service app.Service, req app.Request) (any, error) {
			return service.Checks(ctx, req)
		})
}

func newStatsCommand(cfg *RootConfig) *cobra.Command {
	return newReportCommand(cfg, &reportOptions{}, "stats", "Report dataset statistics only",
		func(ctx context.Context, service app.Service, req app.Request) (any, error) {
			return service.Statistics(ctx, req)
		})
}

func newAdditionalFieldsCommand(cfg *RootConfig) *cobra.Command {
	opts := &reportOptions{}
	cmd := newReportCommand(cfg, opts, "additional-fields", "Report fields the schema does not declare",
		func(ctx context.Context, service app.Service, req app.Request) (any, error) {
			return service.AdditionalFields(ctx, req)
		})
	addLanguageMapFlag(cmd, opts)
	return cmd
}

func newSchemaCommand(cfg *RootConfig) *cobra.Command {
	return newReportCommand(cfg, &reportOptions{}, "schema", "Validate against the JSON schema only",
		func(ctx context.Context, service app.Service, req app.Request) (any, error) {
			return service.Schema(ctx, req)
		})
}

func newReportCommand(cfg *RootConfig, opts *reportOptions, name, short string, produce produceFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, cfg, opts, args[0], produce)
		},
	}
}

func addLanguageMapFlag(cmd *cobra.Command, opts *reportOptions) {
	cmd.Flags().BoolVar(&opts.SuppressLanguageMaps, "suppress-language-maps", false,
		"Do not report fields whose name is a language tag")
}

func runReport(cmd *cobra.Command, cfg *RootConfig, opts *reportOptions, path string, produce produceFunc) error {
	root, err := resolveRootOptions(cmd, cfg)
	if err != nil {
		return err
	}
	service, err := newAppService(cmd, root)
	if err != nil {
		return err
	}
	report, err := produce(cmd.Context(), service, app.Request{
		Path:                 path,
		Sample:               root.Sample,
		SampleSize:           root.SampleSize,
		Checks:               checkConfig(),
		SuppressLanguageMaps: resolveBool(cmd, opts.SuppressLanguageMaps, "suppress_language_maps", "suppress-language-maps"),
	})
	if err != nil {
		return err
	}
	return service.Write(report, root.Format)
}
