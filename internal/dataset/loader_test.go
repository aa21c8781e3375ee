package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleExport = `Conversation ID,Message Sent Time,Message Type,Sent By,Skill,Agent Name ,MESSAGE_ID,TEXT,Routing Skill
C1,2024-07-01 10:00:00,NORMAL MESSAGE,consumer,gpt_mv_prospect,,m1,hello,gpt_mv_prospect
C1,2024-07-01 10:03:00,Normal Message,bot,gpt_mv_prospect,,m2,hi there,gpt_mv_prospect
C2,2024-07-01 11:00:00,normal message,agent,gpt_mv_prospect,Alice,m3,hello,other
C3,not a timestamp,normal message,consumer,gpt_mv_prospect,,m4,broken,
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Sales MV.csv")
	if err := os.WriteFile(path, []byte(sampleExport), 0o644); err != nil {
		t.Fatalf("write sample export: %v", err)
	}
	return path
}

func TestLoad_DetectsColumns(t *testing.T) {
	tbl, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// the unparseable-timestamp row is dropped
	if len(tbl.Messages) != 3 {
		t.Fatalf("rows = %d, want 3", len(tbl.Messages))
	}

	m := tbl.Messages[0]
	if m.ConversationID != "C1" || m.MessageID != "m1" || m.SentBy != "consumer" {
		t.Errorf("first row = %+v, want C1/m1/consumer", m)
	}
	want := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	if !m.SentTime.Equal(want) {
		t.Errorf("SentTime = %v, want %v", m.SentTime, want)
	}
	if m.AgentName != nil {
		t.Errorf("AgentName = %v, want nil for blank cell", *m.AgentName)
	}
	if m.Extra["Routing Skill"] != "gpt_mv_prospect" {
		t.Errorf("Extra[Routing Skill] = %q, want gpt_mv_prospect", m.Extra["Routing Skill"])
	}

	agent := tbl.Messages[2]
	if agent.AgentName == nil || *agent.AgentName != "Alice" {
		t.Errorf("AgentName = %v, want Alice", agent.AgentName)
	}
}

func TestLoad_TrailingSpaceHeaders(t *testing.T) {
	tbl, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// the source export names the column "Agent Name " with a trailing space
	for _, h := range tbl.Header {
		if h == "Agent Name" {
			return
		}
	}
	t.Errorf("header = %v, want trimmed Agent Name column", tbl.Header)
}

func TestLoad_MissingRequiredColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("Foo,Bar\n1,2\n"), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("load should fail without conversation id and sent time columns")
	}
}

func TestConversations_GroupsInOrder(t *testing.T) {
	tbl, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	convs := Conversations(tbl.Messages)
	if len(convs) != 2 {
		t.Fatalf("conversations = %d, want 2", len(convs))
	}
	if convs[0].ID != "C1" || len(convs[0].Messages) != 2 {
		t.Errorf("first group = %s with %d messages, want C1 with 2", convs[0].ID, len(convs[0].Messages))
	}
	if convs[1].ID != "C2" {
		t.Errorf("second group = %s, want C2", convs[1].ID)
	}
}
