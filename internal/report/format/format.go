// Package format renders assembled reports into their output encodings.
// Every encoding is lossless with respect to section order and names:
// DecodeSectionNames recovers the exact ordered name set from the bytes.
package format

import (
	"fmt"

	"MarketPulse/internal/domain/models"
)

// Content types by format.
const (
	ContentTypeMarkdown = "text/markdown; charset=utf-8"
	ContentTypeJSON     = "application/json"
	ContentTypeHTML     = "text/html; charset=utf-8"
	ContentTypeDocument = "text/plain; charset=utf-8"
)

// Encode renders a report in its configured format and returns the
// bytes with their content type.
func Encode(r *models.Report) ([]byte, string, error) {
	switch r.Format {
	case models.FormatMarkdown, "":
		return encodeMarkdown(r), ContentTypeMarkdown, nil
	case models.FormatJSON:
		data, err := encodeJSON(r)
		return data, ContentTypeJSON, err
	case models.FormatHTML:
		return encodeHTML(r), ContentTypeHTML, nil
	case models.FormatDocument:
		return encodeDocument(r), ContentTypeDocument, nil
	}
	return nil, "", fmt.Errorf("unknown format %q", r.Format)
}

// DecodeSectionNames recovers the ordered section names from encoded
// report bytes.
func DecodeSectionNames(data []byte, f models.ReportFormat) ([]string, error) {
	switch f {
	case models.FormatMarkdown, "":
		return decodeMarkdownSections(data), nil
	case models.FormatJSON:
		return decodeJSONSections(data)
	case models.FormatHTML:
		return decodeHTMLSections(data), nil
	case models.FormatDocument:
		return decodeDocumentSections(data), nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// ContentType returns the MIME type for a format.
func ContentType(f models.ReportFormat) string {
	switch f {
	case models.FormatJSON:
		return ContentTypeJSON
	case models.FormatHTML:
		return ContentTypeHTML
	case models.FormatDocument:
		return ContentTypeDocument
	default:
		return ContentTypeMarkdown
	}
}

// Extension returns the file extension for a format.
func Extension(f models.ReportFormat) string {
	switch f {
	case models.FormatJSON:
		return "json"
	case models.FormatHTML:
		return "html"
	case models.FormatDocument:
		return "txt"
	default:
		return "md"
	}
}
