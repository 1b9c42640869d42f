package models

// CreateReportRequest is the caller-facing report generation request.
// Optional inclusion flags are tri-state so an explicit false can be told
// apart from an omitted field.
type CreateReportRequest struct {
	Level               int      `json:"level" default:"2" validate:"gte=1,lte=3"`
	Format              string   `json:"format" default:"markdown" validate:"oneof=markdown json html document"`
	IncludeTechnicals   *bool    `json:"include_technicals,omitempty"`
	IncludeSentiment    *bool    `json:"include_sentiment,omitempty"`
	IncludeCorrelations *bool    `json:"include_correlations,omitempty"`
	IncludeResearch     *bool    `json:"include_research,omitempty"`
	DocumentIDs         []string `json:"document_ids,omitempty"`
	Title               string   `json:"title,omitempty"`
	Source              string   `json:"source" default:"live" validate:"oneof=live mock"`
	EnhanceProvider     string   `json:"enhance_provider,omitempty" validate:"omitempty,oneof=openai gemini anthropic ollama"`
	EnhanceModel        string   `json:"enhance_model,omitempty"`
	Async               bool     `json:"async,omitempty"`
}

// ReportConfig is the resolved build configuration. Flags are honored
// only at level >= 2; level 3 forces every optional section on.
type ReportConfig struct {
	Level               ReportLevel
	Format              ReportFormat
	IncludeTechnicals   bool
	IncludeSentiment    bool
	IncludeCorrelations bool
	IncludeResearch     bool
	DocumentIDs         []string
	Title               string
	Source              Source
	EnhanceProvider     string
	EnhanceModel        string
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Resolve normalizes the request into a build config, applying the
// level-gating rules for optional sections.
func (r *CreateReportRequest) Resolve() ReportConfig {
	cfg := ReportConfig{
		Level:           ReportLevel(r.Level),
		Format:          ReportFormat(r.Format),
		DocumentIDs:     r.DocumentIDs,
		Title:           r.Title,
		Source:          Source(r.Source),
		EnhanceProvider: r.EnhanceProvider,
		EnhanceModel:    r.EnhanceModel,
	}
	switch cfg.Level {
	case LevelExecutive:
		// level 1 ignores all optional flags
	case LevelDeepDive:
		cfg.IncludeTechnicals = true
		cfg.IncludeSentiment = true
		cfg.IncludeCorrelations = true
		cfg.IncludeResearch = boolOr(r.IncludeResearch, false)
	default:
		cfg.IncludeTechnicals = boolOr(r.IncludeTechnicals, true)
		cfg.IncludeSentiment = boolOr(r.IncludeSentiment, true)
		cfg.IncludeCorrelations = boolOr(r.IncludeCorrelations, false)
		cfg.IncludeResearch = boolOr(r.IncludeResearch, false)
	}
	return cfg
}

// ListReportsQuery is the paging filter for report listings.
type ListReportsQuery struct {
	Limit  int `query:"limit" default:"20" validate:"gte=1,lte=200"`
	Offset int `query:"offset" validate:"gte=0"`
}
