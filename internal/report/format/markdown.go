package format

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"MarketPulse/internal/domain/models"
)

const sectionMarker = "<!-- section:"

func encodeMarkdown(r *models.Report) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "Report %s | %s | generated %s UTC\n\n",
		r.ID, r.Level, r.CreatedAt.Format("2006-01-02 15:04:05"))
	if r.Degraded {
		b.WriteString("> Parts of this report were built from fallback data.\n\n")
	}

	for _, sec := range r.Sections {
		fmt.Fprintf(&b, "%s%s -->\n## %s\n\n", sectionMarker, sec.Name, sec.Title)
		if sec.Body != "" {
			b.WriteString(sec.Body)
			b.WriteString("\n\n")
		}
		if len(sec.Rows) > 0 {
			writeMarkdownTable(&b, sec.Rows)
			b.WriteString("\n")
		}
	}
	return []byte(b.String())
}

func writeMarkdownTable(b *strings.Builder, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(c, "|", "\\|"))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	writeRow(rows[0])
	b.WriteString("|")
	for range rows[0] {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
}

func decodeMarkdownSections(data []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, sectionMarker) {
			name := strings.TrimSuffix(strings.TrimPrefix(line, sectionMarker), " -->")
			names = append(names, strings.TrimSpace(name))
		}
	}
	return names
}
