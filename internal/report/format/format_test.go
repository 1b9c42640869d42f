package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"MarketPulse/internal/domain/models"
)

func sampleReport(f models.ReportFormat) *models.Report {
	return &models.Report{
		ID:        "RPT-20250601120000-abc123",
		Title:     "Market Pulse 2025-06-01",
		Level:     models.LevelStandard,
		Format:    f,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Sections: []models.Section{
			{Name: "pulse", Title: "Market Pulse", Body: "Regime reads goldilocks.", Narrative: true},
			{Name: "macro", Title: "Macro Environment", Rows: [][]string{
				{"Indicator", "Value"},
				{"CPI YoY", "2.90%"},
			}},
			{Name: "assets", Title: "Asset Classes", Rows: [][]string{
				{"Asset", "Price", "Change %"},
				{"S&P 500", "5512.30", "+0.62"},
			}},
			{Name: "forward", Title: "Forward Watch", Body: "Watch earnings breadth.", Narrative: true},
		},
	}
}

func TestEncodeSectionNamesRoundTrip(t *testing.T) {
	want := []string{"pulse", "macro", "assets", "forward"}
	for _, f := range []models.ReportFormat{
		models.FormatMarkdown, models.FormatJSON, models.FormatHTML, models.FormatDocument,
	} {
		t.Run(string(f), func(t *testing.T) {
			data, contentType, err := Encode(sampleReport(f))
			require.NoError(t, err)
			require.NotEmpty(t, contentType)

			got, err := DecodeSectionNames(data, f)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}

func TestEncodeMarkdownTable(t *testing.T) {
	data, _, err := Encode(sampleReport(models.FormatMarkdown))
	require.NoError(t, err)

	out := string(data)
	require.Contains(t, out, "# Market Pulse 2025-06-01")
	require.Contains(t, out, "| CPI YoY | 2.90% |")
	require.Contains(t, out, "## Forward Watch")
}

func TestEncodeHTMLEscapes(t *testing.T) {
	r := sampleReport(models.FormatHTML)
	r.Sections[0].Body = `<script>alert("x")</script>`

	data, _, err := Encode(r)
	require.NoError(t, err)
	require.NotContains(t, string(data), "<script>alert")
}

func TestEncodeDocumentPagination(t *testing.T) {
	data, _, err := Encode(sampleReport(models.FormatDocument))
	require.NoError(t, err)

	// cover page plus one page per section
	pages := strings.Split(string(data), "\f")
	require.Len(t, pages, 5)
	require.Contains(t, pages[0], "Market Pulse 2025-06-01")
	require.Contains(t, pages[1], "=== pulse | Market Pulse ===")
}

func TestEncodeDegradedBanner(t *testing.T) {
	r := sampleReport(models.FormatMarkdown)
	r.Degraded = true
	data, _, err := Encode(r)
	require.NoError(t, err)
	require.Contains(t, string(data), "fallback data")
}

func TestEncodeUnknownFormat(t *testing.T) {
	r := sampleReport("pdf")
	_, _, err := Encode(r)
	require.Error(t, err)
}
