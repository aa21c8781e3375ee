package metrics

import (
	"strings"

	"chat-insights-go/internal/logger"
	"chat-insights-go/internal/types"
)

// BotHandle is the fully-bot-handled aggregate for one run. TotalChats counts
// every distinct conversation in the export, not only skill-matching ones;
// that asymmetry matches the reporting sheet analysts already use.
type BotHandle struct {
	TotalChats int
	FullyBot   int
	Ratio      float64
}

// DetectBotHandle counts conversations matched by the skill filter in any
// "...skill..." column where no message carries an agent name.
func DetectBotHandle(convs []types.Conversation, skillFilter string) BotHandle {
	log := logger.New().WithField("component", "metrics.bothandle")

	out := BotHandle{TotalChats: len(convs)}

	hasSkillColumns := false
	if len(convs) > 0 && len(convs[0].Messages) > 0 {
		for col := range convs[0].Messages[0].Extra {
			if strings.Contains(strings.ToLower(col), "skill") {
				hasSkillColumns = true
				break
			}
		}
	}
	if len(convs) > 0 && !hasSkillColumns {
		log.Warn("no skill columns found in the dataset")
		return BotHandle{}
	}

	for _, conv := range convs {
		if !conversationMatchesSkill(conv, skillFilter) {
			continue
		}
		agentInvolved := false
		for _, m := range conv.Messages {
			if m.AgentName != nil {
				agentInvolved = true
				break
			}
		}
		if agentInvolved {
			continue
		}
		out.FullyBot++
	}

	if out.TotalChats > 0 {
		out.Ratio = round2(float64(out.FullyBot) / float64(out.TotalChats) * 100)
	}
	log.WithFields(map[string]interface{}{
		"total_chats": out.TotalChats,
		"fully_bot":   out.FullyBot,
		"ratio":       out.Ratio,
	}).Info("bot handle detection complete")
	return out
}

func conversationMatchesSkill(conv types.Conversation, skillFilter string) bool {
	for _, m := range conv.Messages {
		for col, val := range m.Extra {
			if strings.Contains(strings.ToLower(col), "skill") && containsFold(val, skillFilter) {
				return true
			}
		}
	}
	return false
}

// Row renders the aggregate as master-sheet columns. The "Handeled" spelling
// is kept; the master sheet already has history under that header.
func (b BotHandle) Row() map[string]float64 {
	return map[string]float64{
		"Total chats":                         float64(b.TotalChats),
		"Conversations Fully Handeled by Bot": float64(b.FullyBot),
		"Bot Handle Ratio":                    b.Ratio,
	}
}
