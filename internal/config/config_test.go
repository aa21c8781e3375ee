package config

import "testing"

func TestFromEnv_ViewPresets(t *testing.T) {
	t.Setenv("VIEW_NAME", "Applicants")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.SkillFilter != "filipina_outside" {
		t.Errorf("SkillFilter = %q, want filipina_outside", cfg.SkillFilter)
	}
	if cfg.Department != "AT Filipina_Outside" {
		t.Errorf("Department = %q, want AT Filipina_Outside", cfg.Department)
	}
	if cfg.BotFilter != "bot" {
		t.Errorf("BotFilter = %q, want bot", cfg.BotFilter)
	}
	if cfg.ExportPath() != "Applicants.csv" {
		t.Errorf("ExportPath = %q, want Applicants.csv", cfg.ExportPath())
	}
}

func TestFromEnv_OverridesBeatPresets(t *testing.T) {
	t.Setenv("VIEW_NAME", "Sales MV")
	t.Setenv("SKILL_FILTER", "custom_skill")
	t.Setenv("DEPARTMENT", "Custom Dept")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.SkillFilter != "custom_skill" || cfg.Department != "Custom Dept" {
		t.Errorf("cfg = %+v, want env overrides applied", cfg)
	}
}

func TestFromEnv_UnknownViewNeedsSkillFilter(t *testing.T) {
	t.Setenv("VIEW_NAME", "Mystery View")

	if _, err := FromEnv(); err == nil {
		t.Fatal("unknown view without SKILL_FILTER should fail")
	}
}
