package metrics

import (
	"strings"

	"chat-insights-go/internal/logger"
	"chat-insights-go/internal/types"
)

// Repetition is the repeated-bot-message aggregate for one run.
type Repetition struct {
	Records             []types.RepetitionRecord
	ChatsWithRepetition int
	TotalBotChats       int
	Percent             float64
}

// DetectRepetitions counts identical bot message texts per conversation,
// restricted to normal messages whose skill matches the filter. The
// denominator is every conversation with at least one skill-matching row.
func DetectRepetitions(convs []types.Conversation, skillFilter string) Repetition {
	log := logger.New().WithField("component", "metrics.repetition")

	var out Repetition
	for _, conv := range convs {
		counts := map[string]int{}
		firstID := map[string]string{}
		var order []string
		matchesFilter := false

		for _, m := range conv.Messages {
			if containsFold(m.Skill, skillFilter) {
				matchesFilter = true
			}
			if !strings.EqualFold(strings.TrimSpace(m.SentBy), "bot") {
				continue
			}
			if !strings.EqualFold(strings.TrimSpace(m.MessageType), "normal message") {
				continue
			}
			if !containsFold(m.Skill, skillFilter) {
				continue
			}
			if counts[m.Text] == 0 {
				firstID[m.Text] = m.MessageID
				order = append(order, m.Text)
			}
			counts[m.Text]++
		}
		if matchesFilter {
			out.TotalBotChats++
		}

		repeated := false
		for _, text := range order {
			if counts[text] <= 1 {
				continue
			}
			repeated = true
			out.Records = append(out.Records, types.RepetitionRecord{
				ConversationID: conv.ID,
				MessageID:      firstID[text],
				Text:           text,
				Count:          counts[text],
			})
		}
		if repeated {
			out.ChatsWithRepetition++
		}
	}

	if out.TotalBotChats > 0 {
		out.Percent = round2(float64(out.ChatsWithRepetition) / float64(out.TotalBotChats) * 100)
	}
	log.WithFields(map[string]interface{}{
		"chats_with_repetition": out.ChatsWithRepetition,
		"total_bot_chats":       out.TotalBotChats,
		"percent":               out.Percent,
	}).Info("repetition detection complete")
	return out
}

// Row renders the aggregate as master-sheet columns.
func (r Repetition) Row() map[string]float64 {
	return map[string]float64{
		"% of Repetition":                   r.Percent,
		"Chats with repetitions":            float64(r.ChatsWithRepetition),
		"Total chats with bot interactions": float64(r.TotalBotChats),
	}
}
