package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"chat-insights-go/internal/types"
)

// WriteMessages persists a table back to a delimited file, keeping the
// original column order. Used for the cleaned-export audit copy.
func WriteMessages(path string, t *Table) error {
	records := make([][]string, 0, len(t.Messages))
	for _, m := range t.Messages {
		row := make([]string, len(t.Header))
		for i, h := range t.Header {
			row[i] = m.Extra[h]
		}
		records = append(records, row)
	}
	return WriteRows(path, t.Header, records)
}

// WriteResponseEvents persists a latency table.
func WriteResponseEvents(path string, events []types.ResponseEvent) error {
	header := []string{"Conversation Id", "Sender", "Response Time (mins)", "Message Id"}
	records := make([][]string, 0, len(events))
	for _, e := range events {
		records = append(records, []string{
			e.ConversationID,
			e.Sender,
			strconv.FormatFloat(e.ResponseMins, 'f', -1, 64),
			e.MessageID,
		})
	}
	return WriteRows(path, header, records)
}

// WriteRepetitions persists repeated bot message records.
func WriteRepetitions(path string, recs []types.RepetitionRecord) error {
	header := []string{"Conversation ID", "Message Id", "Message", "Repetition Count"}
	records := make([][]string, 0, len(recs))
	for _, r := range recs {
		records = append(records, []string{
			r.ConversationID,
			r.MessageID,
			r.Text,
			strconv.Itoa(r.Count),
		})
	}
	return WriteRows(path, header, records)
}

// WriteRows writes a header plus records to a delimited file.
func WriteRows(path string, header []string, records [][]string) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer fh.Close()

	w := csv.NewWriter(fh)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return fh.Close()
}
