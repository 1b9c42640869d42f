package format

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"MarketPulse/internal/domain/models"
)

// Document encoding is form-feed paginated plain text: a cover page
// followed by one page per section.
const (
	pageBreak      = "\f"
	documentHeader = "=== "
	documentWidth  = 78
)

func encodeDocument(r *models.Report) []byte {
	var b strings.Builder

	// cover page
	b.WriteString(strings.Repeat("=", documentWidth) + "\n")
	b.WriteString(center(r.Title) + "\n")
	b.WriteString(center(fmt.Sprintf("Report %s | %s", r.ID, r.Level)) + "\n")
	b.WriteString(center("Generated "+r.CreatedAt.Format("2006-01-02 15:04:05")+" UTC") + "\n")
	if r.Degraded {
		b.WriteString(center("NOTE: built partly from fallback data") + "\n")
	}
	b.WriteString(strings.Repeat("=", documentWidth) + "\n")

	for _, sec := range r.Sections {
		b.WriteString(pageBreak)
		fmt.Fprintf(&b, "%s%s | %s ===\n\n", documentHeader, sec.Name, sec.Title)
		if sec.Body != "" {
			b.WriteString(wrap(sec.Body, documentWidth))
			b.WriteString("\n\n")
		}
		writePlainTable(&b, sec.Rows)
	}
	return []byte(b.String())
}

func center(s string) string {
	if len(s) >= documentWidth {
		return s
	}
	pad := (documentWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func wrap(s string, width int) string {
	words := strings.Fields(s)
	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if lineLen > 0 && lineLen+1+len(w) > width {
			b.WriteString("\n")
			lineLen = 0
		} else if i > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}

func writePlainTable(b *strings.Builder, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, 0)
	for _, row := range rows {
		for i, c := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}
	for ri, row := range rows {
		for i, c := range row {
			fmt.Fprintf(b, "%-*s", widths[i]+2, c)
		}
		b.WriteString("\n")
		if ri == 0 {
			total := 0
			for _, w := range widths {
				total += w + 2
			}
			b.WriteString(strings.Repeat("-", total) + "\n")
		}
	}
}

func decodeDocumentSections(data []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimPrefix(scanner.Text(), pageBreak)
		if strings.HasPrefix(line, documentHeader) && strings.HasSuffix(line, " ===") {
			inner := strings.TrimSuffix(strings.TrimPrefix(line, documentHeader), " ===")
			if name, _, ok := strings.Cut(inner, " | "); ok {
				names = append(names, name)
			}
		}
	}
	return names
}
