package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Run holds the fixed identifiers for one batch run.
type Run struct {
	View          string
	SkillFilter   string
	BotFilter     string
	Department    string
	ExportBaseURL string
	MasterPath    string
	OutDir        string
}

// preset carries the per-view constants that used to live in one script per
// department.
type preset struct {
	skillFilter string
	department  string
}

var viewPresets = map[string]preset{
	"Sales MV":   {skillFilter: "gpt_mv_prospect", department: "Sales MV"},
	"Sales CC":   {skillFilter: "gpt_cc_prospect", department: "CC Sales"},
	"Applicants": {skillFilter: "filipina_outside", department: "AT Filipina_Outside"},
	"Doctors":    {skillFilter: "gpt_doctors", department: "Doctors"},
	"Delighters": {skillFilter: "gpt_delighters", department: "Delighters"},
}

// FromEnv builds a run config from environment variables, applying per-view
// defaults for skill filter and department labels.
func FromEnv() (Run, error) {
	view := envOr("VIEW_NAME", "Sales MV")
	p := viewPresets[view]

	cfg := Run{
		View:          view,
		SkillFilter:   envOr("SKILL_FILTER", p.skillFilter),
		BotFilter:     envOr("BOT_FILTER", "bot"),
		Department:    envOr("DEPARTMENT", p.department),
		ExportBaseURL: os.Getenv("EXPORT_BASE_URL"),
		MasterPath:    envOr("MASTER_PATH", "Master Sheet.xlsx"),
		OutDir:        envOr("OUT_DIR", "."),
	}
	if cfg.SkillFilter == "" {
		return Run{}, fmt.Errorf("no skill filter: unknown view %q and SKILL_FILTER not set", view)
	}
	if cfg.Department == "" {
		cfg.Department = view
	}
	return cfg, nil
}

// ExportPath is the local destination of the fetched view export.
func (r Run) ExportPath() string {
	return filepath.Join(r.OutDir, r.View+".csv")
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
