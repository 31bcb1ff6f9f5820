package ports

import "pipdeps/internal/types"

// ReportWriterPort persists a run report for non-console consumers.
type ReportWriterPort interface {
	WriteReport(path string, report types.Report) error
}
