package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"chat-insights-go/internal/logger"
	"chat-insights-go/internal/types"
)

// Table is a loaded conversation export: the original header order plus one
// parsed Message per data row.
type Table struct {
	Header   []string
	Messages []types.Message
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"2006-01-02 15:04",
}

// Load reads a conversation export, auto-detecting required columns by header
// heuristics. Exports can be .xlsx workbooks or delimited text with a header row.
func Load(path string) (*Table, error) {
	log := logger.New().WithField("component", "dataset.loader").WithField("path", path)

	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	convIdx := findColumn(header, "conversation id", "conversation")
	timeIdx := findColumn(header, "message sent time", "sent time")
	typeIdx := findColumn(header, "message type", "type")
	senderIdx := findColumn(header, "sent by", "sent by")
	skillIdx := findColumn(header, "skill", "") // exact only; other skill columns stay in Extra
	agentIdx := findColumn(header, "agent name", "agent")
	msgIDIdx := findColumn(header, "message_id", "message id")
	textIdx := findColumn(header, "text", "")

	log.WithFields(map[string]interface{}{
		"convIdx":   convIdx,
		"timeIdx":   timeIdx,
		"typeIdx":   typeIdx,
		"senderIdx": senderIdx,
		"skillIdx":  skillIdx,
		"agentIdx":  agentIdx,
	}).Debug("detected export column indices")

	if convIdx == -1 || timeIdx == -1 {
		return nil, fmt.Errorf("required columns not found (conversation id, message sent time)")
	}

	dropped := 0
	out := &Table{Header: header}
	for i, r := range rows {
		if i == 0 {
			continue
		}
		msg := types.Message{
			ConversationID: cell(r, convIdx),
			MessageID:      cell(r, msgIDIdx),
			SentBy:         cell(r, senderIdx),
			MessageType:    cell(r, typeIdx),
			Skill:          cell(r, skillIdx),
			Text:           cell(r, textIdx),
			Extra:          make(map[string]string, len(header)),
		}
		for j, h := range header {
			msg.Extra[h] = cell(r, j)
		}
		if name := strings.TrimSpace(cell(r, agentIdx)); name != "" && !strings.EqualFold(name, "nan") {
			msg.AgentName = &name
		}
		ts, err := parseTime(cell(r, timeIdx))
		if err != nil {
			dropped++
			continue
		}
		msg.SentTime = ts
		out.Messages = append(out.Messages, msg)
	}
	if dropped > 0 {
		log.WithField("dropped_rows", dropped).Warn("dropped rows with unparseable sent time")
	}
	log.WithField("rows", len(out.Messages)).Info("export loaded")
	return out, nil
}

func readRows(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("no sheets")
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
		return rows, nil
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer fh.Close()
	rd := csv.NewReader(fh)
	rd.FieldsPerRecord = -1
	rows, err := rd.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

// findColumn returns the index of the first header matching name exactly
// (case-insensitive), falling back to substring match when contains != "".
func findColumn(header []string, name, contains string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	if contains == "" {
		return -1
	}
	for i, h := range header {
		if strings.Contains(strings.ToLower(h), contains) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}

// Conversations groups messages by conversation id, preserving row order
// within each group and first-seen order across groups.
func Conversations(msgs []types.Message) []types.Conversation {
	index := map[string]int{}
	var out []types.Conversation
	for _, m := range msgs {
		i, ok := index[m.ConversationID]
		if !ok {
			i = len(out)
			index[m.ConversationID] = i
			out = append(out, types.Conversation{ID: m.ConversationID})
		}
		out[i].Messages = append(out[i].Messages, m)
	}
	return out
}
