package format

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"MarketPulse/internal/domain/models"
)

var htmlSectionPattern = regexp.MustCompile(`<section data-name="([^"]+)">`)

func encodeHTML(r *models.Report) []byte {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(r.Title))
	b.WriteString("<style>body{font-family:sans-serif;max-width:960px;margin:2em auto;padding:0 1em}" +
		"table{border-collapse:collapse;margin:1em 0}" +
		"td,th{border:1px solid #ccc;padding:4px 10px;text-align:left}" +
		".degraded{background:#fff3cd;padding:8px 12px;border-radius:4px}" +
		".meta{color:#666;font-size:0.9em}</style>\n")
	b.WriteString("</head>\n<body>\n")

	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(r.Title))
	fmt.Fprintf(&b, "<p class=\"meta\">Report %s | %s | generated %s UTC</p>\n",
		html.EscapeString(r.ID), r.Level, r.CreatedAt.Format("2006-01-02 15:04:05"))
	if r.Degraded {
		b.WriteString("<p class=\"degraded\">Parts of this report were built from fallback data.</p>\n")
	}

	for _, sec := range r.Sections {
		fmt.Fprintf(&b, "<section data-name=\"%s\">\n", html.EscapeString(sec.Name))
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(sec.Title))
		if sec.Body != "" {
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(sec.Body))
		}
		if len(sec.Rows) > 0 {
			b.WriteString("<table>\n<tr>")
			for _, c := range sec.Rows[0] {
				fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(c))
			}
			b.WriteString("</tr>\n")
			for _, row := range sec.Rows[1:] {
				b.WriteString("<tr>")
				for _, c := range row {
					fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(c))
				}
				b.WriteString("</tr>\n")
			}
			b.WriteString("</table>\n")
		}
		b.WriteString("</section>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}

func decodeHTMLSections(data []byte) []string {
	var names []string
	for _, m := range htmlSectionPattern.FindAllStringSubmatch(string(data), -1) {
		names = append(names, m[1])
	}
	return names
}
