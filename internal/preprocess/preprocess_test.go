package preprocess

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"chat-insights-go/internal/dataset"
	"chat-insights-go/internal/types"
)

var header = []string{"Conversation ID", "Message Sent Time", "TEXT"}

func row(conv, sent, text string) types.Message {
	ts, _ := time.Parse("2006-01-02 15:04:05", sent)
	return types.Message{
		ConversationID: conv,
		SentTime:       ts,
		Text:           text,
		Extra: map[string]string{
			"Conversation ID":   conv,
			"Message Sent Time": sent,
			"TEXT":              text,
		},
	}
}

func TestClean_SortsAndDeduplicates(t *testing.T) {
	in := &dataset.Table{
		Header: header,
		Messages: []types.Message{
			row("C2", "2024-07-01 10:05:00", "late"),
			row("C1", "2024-07-01 10:01:00", "second"),
			row("C1", "2024-07-01 10:00:00", "first"),
			row("C1", "2024-07-01 10:00:00", "duplicate of first"),
			row("C2", "2024-07-01 10:04:00", "early"),
		},
	}

	auditPath := filepath.Join(t.TempDir(), "audit.csv")
	got, err := Clean(in, auditPath)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	wantTexts := []string{"first", "second", "early", "late"}
	if len(got.Messages) != len(wantTexts) {
		t.Fatalf("rows = %d, want %d", len(got.Messages), len(wantTexts))
	}
	for i, want := range wantTexts {
		if got.Messages[i].Text != want {
			t.Errorf("row %d = %q, want %q", i, got.Messages[i].Text, want)
		}
	}
}

func TestClean_KeepsFirstOccurrenceOfDuplicatePair(t *testing.T) {
	in := &dataset.Table{
		Header: header,
		Messages: []types.Message{
			row("C1", "2024-07-01 10:00:00", "kept"),
			row("C1", "2024-07-01 10:00:00", "dropped"),
		},
	}

	got, err := Clean(in, filepath.Join(t.TempDir(), "audit.csv"))
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Text != "kept" {
		t.Fatalf("got %+v, want the first occurrence kept", got.Messages)
	}
}

func TestClean_WritesAuditCopy(t *testing.T) {
	in := &dataset.Table{
		Header: header,
		Messages: []types.Message{
			row("C1", "2024-07-01 10:00:00", "hello"),
		},
	}

	auditPath := filepath.Join(t.TempDir(), "audit.csv")
	if _, err := Clean(in, auditPath); err != nil {
		t.Fatalf("clean: %v", err)
	}

	fh, err := os.Open(auditPath)
	if err != nil {
		t.Fatalf("open audit copy: %v", err)
	}
	defer fh.Close()
	records, err := csv.NewReader(fh).ReadAll()
	if err != nil {
		t.Fatalf("read audit copy: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("audit rows = %d, want header plus one row", len(records))
	}
	if records[1][2] != "hello" {
		t.Errorf("audit TEXT = %q, want hello", records[1][2])
	}
}
