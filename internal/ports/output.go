package ports

import "bods-validate/internal/types"

// ReportWriterPort renders a report in the configured output format.
type ReportWriterPort interface {
	WriteReport(report any, format types.OutputFormat) error
}
