package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"bods-validate/internal/checks"
	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

// loadedDataset is a dataset with the dialect that governs it.
type loadedDataset struct {
	raw        []byte
	truncated  bool
	dataset    *core.Dataset
	resolver   *core.VersionResolver
	resolution core.Resolution
}

// Validate runs structural validation, the additional checks and the
// additional fields detector, and merges their output into one report.
func (s Service) Validate(ctx context.Context, req Request) (types.Report, error) {
	loaded, err := s.load(ctx, req)
	if err != nil {
		return types.Report{}, err
	}
	validationErrors, err := s.Validator.Validate(ctx, loaded.resolution.Dialect, loaded.raw)
	if err != nil {
		return types.Report{}, err
	}
	checkReport, err := s.runChecks(ctx, req, loaded)
	if err != nil {
		return types.Report{}, err
	}
	fields, err := s.additionalFields(ctx, req, loaded)
	if err != nil {
		return types.Report{}, err
	}
	return types.Report{
		CheckReport:           checkReport,
		ValidationErrors:      validationErrors,
		ValidationErrorsCount: len(validationErrors),
		AdditionalFields:      fields.AdditionalFields,
		AdditionalFieldsCount: fields.AdditionalFieldsCount,
	}, nil
}

// Checks runs the additional checks only.
func (s Service) Checks(ctx context.Context, req Request) (types.CheckReport, error) {
	loaded, err := s.load(ctx, req)
	if err != nil {
		return types.CheckReport{}, err
	}
	return s.runChecks(ctx, req, loaded)
}

func (s Service) Statistics(ctx context.Context, req Request) (StatisticsResult, error) {
	report, err := s.Checks(ctx, req)
	if err != nil {
		return StatisticsResult{}, err
	}
	return StatisticsResult{
		SchemaVersion: report.SchemaVersion,
		Statistics:    report.Statistics,
		FailedChecks:  report.FailedChecks,
	}, nil
}

func (s Service) AdditionalFields(ctx context.Context, req Request) (types.AdditionalFieldsReport, error) {
	loaded, err := s.load(ctx, req)
	if err != nil {
		return types.AdditionalFieldsReport{}, err
	}
	return s.additionalFields(ctx, req, loaded)
}

// Schema runs structural validation only.
func (s Service) Schema(ctx context.Context, req Request) (SchemaResult, error) {
	loaded, err := s.load(ctx, req)
	if err != nil {
		return SchemaResult{}, err
	}
	validationErrors, err := s.Validator.Validate(ctx, loaded.resolution.Dialect, loaded.raw)
	if err != nil {
		return SchemaResult{}, err
	}
	return SchemaResult{
		SchemaVersion:         loaded.resolution.Dialect.Version,
		ValidationErrors:      validationErrors,
		ValidationErrorsCount: len(validationErrors),
	}, nil
}

// Write renders any of the results above through the report writer.
func (s Service) Write(report any, format types.OutputFormat) error {
	return s.Reports.WriteReport(report, format)
}

func (s Service) load(ctx context.Context, req Request) (loadedDataset, error) {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return loadedDataset{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dataset path is required")
	}

	var loaded loadedDataset
	var err error
	if req.Sample {
		size := req.SampleSize
		if size <= 0 {
			size = DefaultSampleSize
		}
		loaded.raw, loaded.truncated, err = s.Datasets.LoadSample(ctx, path, size)
	} else {
		loaded.raw, err = s.Datasets.Load(ctx, path)
	}
	if err != nil {
		return loadedDataset{}, err
	}

	loaded.dataset, err = core.NewDataset(loaded.raw)
	if err != nil {
		return loadedDataset{}, err
	}
	loaded.resolver, err = core.NewVersionResolver(s.Registry.Dialects(), s.Registry.DefaultVersion())
	if err != nil {
		return loadedDataset{}, err
	}
	log.Ctx(ctx).Debug().
		Str("default", loaded.resolver.Default().Version).
		Str("latest", loaded.resolver.Latest().Version).
		Str("latest_flat", loaded.resolver.LatestFlat().Version).
		Msg("schema dialects available")
	loaded.resolution = loaded.resolver.Resolve(loaded.dataset.Root)

	event := log.Ctx(ctx).Info().
		Str("path", path).
		Int("statements", loaded.dataset.Len()).
		Str("schema_version", loaded.resolution.Dialect.Version).
		Bool("sampled", loaded.truncated)
	if loaded.resolution.Err != nil {
		event = event.Str("declared_version", loaded.resolution.AttemptedVersion)
	}
	event.Msg("dataset loaded")
	return loaded, nil
}

func (s Service) runChecks(ctx context.Context, req Request, loaded loadedDataset) (types.CheckReport, error) {
	cfg := req.Checks.WithDefaults()
	cfg.SampleMode = loaded.truncated

	var prefixes map[string]struct{}
	if s.usesPrefixes(loaded.resolution.Dialect, cfg) {
		var err error
		prefixes, err = s.PrefixList.Prefixes(ctx)
		if err != nil {
			return types.CheckReport{}, err
		}
	}

	return s.Orchestrator.Run(ctx, checks.RunInput{
		Dataset:    loaded.dataset,
		Resolution: loaded.resolution,
		Resolver:   loaded.resolver,
		Config:     cfg,
		Prefixes:   prefixes,
		Now:        s.Clock,
	})
}

func (s Service) usesPrefixes(dialect types.Dialect, cfg types.CheckConfig) bool {
	for _, descriptor := range s.Orchestrator.Applicable(dialect, cfg) {
		if descriptor.UsesPrefixes {
			return true
		}
	}
	return false
}

func (s Service) additionalFields(ctx context.Context, req Request, loaded loadedDataset) (types.AdditionalFieldsReport, error) {
	known, err := s.Registry.KnownFieldPaths(ctx, loaded.resolution.Dialect.Version)
	if err != nil {
		return types.AdditionalFieldsReport{}, err
	}
	return core.DetectAdditionalFields(loaded.dataset.Root, known, req.SuppressLanguageMaps), nil
}
