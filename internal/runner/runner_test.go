package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"chat-insights-go/internal/config"
	"chat-insights-go/internal/master"
)

const sampleExport = `Conversation ID,Message Sent Time,Message Type,Sent By,Skill,Agent Name ,MESSAGE_ID,TEXT
C1,2024-07-01 10:00:00,normal message,consumer,gpt_mv_prospect,,m1,hello
C1,2024-07-01 10:03:00,normal message,bot,gpt_mv_prospect,,m2,hi there
C1,2024-07-01 10:03:00,normal message,bot,gpt_mv_prospect,,m2,duplicate row
`

func TestRun_LocalExportEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Run{
		View:        "Sales MV",
		SkillFilter: "gpt_mv_prospect",
		BotFilter:   "bot",
		Department:  "Sales MV",
		MasterPath:  filepath.Join(dir, "Master Sheet.xlsx"),
		OutDir:      dir,
	}
	if err := os.WriteFile(cfg.ExportPath(), []byte(sampleExport), 0o644); err != nil {
		t.Fatalf("seed export: %v", err)
	}

	store := master.NewStore(cfg.MasterPath, cfg.OutDir)
	if err := New(cfg, nil, store).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := os.Stat(cfg.MasterPath); err != nil {
		t.Fatalf("master sheet not written: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	wantPrefixes := []string{"FRT_Raw_Sales MV_", "non_initial_response_times_Sales MV_", "repetitions_df_sales mv_", "Sales MV_"}
	for _, prefix := range wantPrefixes {
		found := false
		for _, e := range entries {
			if len(e.Name()) >= len(prefix) && e.Name()[:len(prefix)] == prefix {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no output with prefix %q, dir has %v", prefix, entries)
		}
	}
}

func TestRun_MissingExportFails(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Run{
		View:        "Sales MV",
		SkillFilter: "gpt_mv_prospect",
		BotFilter:   "bot",
		Department:  "Sales MV",
		MasterPath:  filepath.Join(dir, "Master Sheet.xlsx"),
		OutDir:      dir,
	}

	store := master.NewStore(cfg.MasterPath, cfg.OutDir)
	if err := New(cfg, nil, store).Run(context.Background()); err == nil {
		t.Fatal("run should fail when the export cannot be loaded")
	}
}
