package app

import (
	"io"
	"time"

	"github.com/spf13/afero"

	"bods-validate/internal/adapters"
	"bods-validate/internal/checks"
	"bods-validate/internal/ports"
)

type Service struct {
	Registry     ports.SchemaRegistryPort
	Validator    ports.StructuralValidatorPort
	PrefixList   ports.PrefixListPort
	Datasets     ports.DatasetLoaderPort
	Reports      ports.ReportWriterPort
	Orchestrator *checks.Orchestrator
	Clock        func() time.Time
}

// Config selects the files and endpoints the default adapters use.
type Config struct {
	RegistryPath   string
	OrgIDURL       string
	OrgIDCachePath string
	OrgIDTimeout   int
	OutputPath     string
	Stdout         io.Writer
}

func NewService(cfg Config) (Service, error) {
	fs := afero.NewOsFs()
	registry, err := adapters.NewSchemaRegistryAdapter(fs, cfg.RegistryPath)
	if err != nil {
		return Service{}, err
	}
	return Service{
		Registry:     registry,
		Validator:    adapters.NewStructuralValidatorAdapter(registry),
		PrefixList:   adapters.NewPrefixListAdapter(fs, cfg.OrgIDCachePath, cfg.OrgIDURL, cfg.OrgIDTimeout, time.Now),
		Datasets:     adapters.NewDatasetFileAdapter(fs),
		Reports:      adapters.NewReportFileAdapter(fs, cfg.OutputPath, cfg.Stdout),
		Orchestrator: checks.NewOrchestrator(checks.DefaultRoster()),
		Clock:        time.Now,
	}, nil
}
