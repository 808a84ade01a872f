package adapters

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"bods-validate/internal/ports"
	"bods-validate/internal/types"
)

// ReportFileAdapter writes reports to a file, or to Stdout when Path is
// empty or "-".
type ReportFileAdapter struct {
	Fs     afero.Fs
	Path   string
	Stdout io.Writer
}

func NewReportFileAdapter(fs afero.Fs, path string, stdout io.Writer) ReportFileAdapter {
	if stdout == nil {
		stdout = os.Stdout
	}
	return ReportFileAdapter{Fs: fs, Path: path, Stdout: stdout}
}

func (a ReportFileAdapter) WriteReport(report any, format types.OutputFormat) error {
	data, err := encodeReport(report, format)
	if err != nil {
		return err
	}

	path := strings.TrimSpace(a.Path)
	if path == "" || path == "-" {
		if _, err := a.Stdout.Write(data); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to write report").
				WithCause(err)
		}
		return nil
	}

	if err := a.Fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create report directory").
			WithCause(err)
	}
	if err := afero.WriteFile(a.Fs, path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write report: " + path).
			WithCause(err)
	}
	return nil
}

func encodeReport(report any, format types.OutputFormat) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case types.OutputFormatJSON, "":
		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode report as json").
				WithCause(err)
		}
	case types.OutputFormatYAML:
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode report as yaml").
				WithCause(err)
		}
		if err := encoder.Close(); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode report as yaml").
				WithCause(err)
		}
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported output format: " + string(format))
	}
	return buf.Bytes(), nil
}

var _ ports.ReportWriterPort = ReportFileAdapter{}
