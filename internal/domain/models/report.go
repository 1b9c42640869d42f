package models

import (
	"fmt"
	"time"
)

// ReportLevel is the requested report depth.
type ReportLevel int

const (
	LevelExecutive ReportLevel = 1
	LevelStandard  ReportLevel = 2
	LevelDeepDive  ReportLevel = 3
)

func (l ReportLevel) String() string {
	switch l {
	case LevelExecutive:
		return "executive"
	case LevelStandard:
		return "standard"
	case LevelDeepDive:
		return "deep_dive"
	}
	return fmt.Sprintf("level_%d", int(l))
}

// ReportFormat is an output encoding.
type ReportFormat string

const (
	FormatMarkdown ReportFormat = "markdown"
	FormatJSON     ReportFormat = "json"
	FormatHTML     ReportFormat = "html"
	FormatDocument ReportFormat = "document"
)

// ParseFormat validates a format string; empty defaults to markdown.
func ParseFormat(s string) (ReportFormat, error) {
	switch ReportFormat(s) {
	case "":
		return FormatMarkdown, nil
	case FormatMarkdown, FormatJSON, FormatHTML, FormatDocument:
		return ReportFormat(s), nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Section is one ordered, named block of a report. Narrative text lives
// in Body, tabular content in Rows; only narrative sections may be
// rewritten by an enhancement provider.
type Section struct {
	Name      string   `json:"name"`
	Title     string   `json:"title"`
	Domains   []Domain `json:"domains,omitempty"`
	Body      string   `json:"body,omitempty"`
	Rows      [][]string `json:"rows,omitempty"`
	Narrative bool     `json:"narrative,omitempty"`
}

// Report is an assembled analytical report. Identity is immutable once
// created; reports are never mutated after assembly, only deleted.
type Report struct {
	ID        string            `json:"report_id"`
	Title     string            `json:"title"`
	Level     ReportLevel       `json:"level"`
	Format    ReportFormat      `json:"format"`
	CreatedAt time.Time         `json:"created_at"`
	Degraded  bool              `json:"degraded"`
	Sections  []Section         `json:"sections"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// SectionNames returns the ordered section name set, the unit of the
// formatter losslessness invariant.
func (r *Report) SectionNames() []string {
	names := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		names[i] = s.Name
	}
	return names
}

// Section returns the named section, or nil.
func (r *Report) Section(name string) *Section {
	for i := range r.Sections {
		if r.Sections[i].Name == name {
			return &r.Sections[i]
		}
	}
	return nil
}
