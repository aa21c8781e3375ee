package preprocess

import (
	"fmt"
	"sort"

	"chat-insights-go/internal/dataset"
	"chat-insights-go/internal/logger"
	"chat-insights-go/internal/types"
)

// Clean stable-sorts messages by (conversation id, sent time), drops rows that
// duplicate an earlier (conversation id, sent time) pair, and persists the
// cleaned table to auditPath.
func Clean(t *dataset.Table, auditPath string) (*dataset.Table, error) {
	log := logger.New().WithField("component", "preprocess")

	msgs := make([]types.Message, len(t.Messages))
	copy(msgs, t.Messages)
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].ConversationID != msgs[j].ConversationID {
			return msgs[i].ConversationID < msgs[j].ConversationID
		}
		return msgs[i].SentTime.Before(msgs[j].SentTime)
	})

	type key struct {
		conv string
		at   int64
	}
	seen := map[key]bool{}
	deduped := msgs[:0]
	for _, m := range msgs {
		k := key{m.ConversationID, m.SentTime.UnixNano()}
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, m)
	}

	cleaned := &dataset.Table{Header: t.Header, Messages: deduped}
	if err := dataset.WriteMessages(auditPath, cleaned); err != nil {
		return nil, fmt.Errorf("write audit copy: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"rows_in":  len(t.Messages),
		"rows_out": len(deduped),
		"audit":    auditPath,
	}).Info("export cleaned")
	return cleaned, nil
}
