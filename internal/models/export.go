package models

import "time"

// ExportFormat enumerates supported transcript formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// TranscriptExport describes a rendered transcript waiting to be downloaded.
type TranscriptExport struct {
	ID        string       `json:"id"`
	Format    ExportFormat `json:"format"`
	Filename  string       `json:"filename"`
	URL       string       `json:"url"`
	ExpiresAt time.Time    `json:"expires_at"`
}
