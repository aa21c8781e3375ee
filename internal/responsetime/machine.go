package responsetime

import (
	"math"
	"strings"
	"time"

	"chat-insights-go/internal/types"
)

// Variant selects which qualifying replies produce events.
type Variant int

const (
	// FirstResponse emits only the first qualifying reply per conversation.
	FirstResponse Variant = iota
	// SubsequentResponses consumes the first reply silently and emits every
	// reply after it.
	SubsequentResponses
)

type state int

const (
	awaitingCustomer state = iota
	awaitingResponse
)

// machine walks one conversation's eligible messages in timestamp order and
// classifies support-side replies against the pending customer message.
type machine struct {
	variant       Variant
	st            state
	pending       time.Time
	firstRecorded bool
	done          bool
}

// eligible keeps normal messages, transfers, and system private messages.
func eligible(m types.Message) bool {
	mt := strings.ToLower(strings.TrimSpace(m.MessageType))
	if mt == "normal message" || mt == "transfer" {
		return true
	}
	return mt == "private message" && strings.ToLower(strings.TrimSpace(m.SentBy)) == "system"
}

// step applies one message to the machine and returns an event when the
// message is a qualifying reply the variant wants reported.
func (sm *machine) step(m types.Message) *types.ResponseEvent {
	sender := strings.ToLower(strings.TrimSpace(m.SentBy))
	msgType := strings.ToLower(strings.TrimSpace(m.MessageType))

	switch {
	case sender == "consumer" && sm.st == awaitingCustomer:
		// only the first unanswered consumer message starts the clock
		sm.pending = m.SentTime
		sm.st = awaitingResponse

	case msgType == "transfer" && sm.st == awaitingResponse:
		sm.pending = m.SentTime

	case sender == "system" && msgType == "private message" && sm.st == awaitingResponse:
		sm.pending = m.SentTime

	case (sender == "bot" || sender == "agent" || sender == "system") && sm.st == awaitingResponse:
		if sm.variant == SubsequentResponses && !sm.firstRecorded {
			// the first reply resets the clock but is not reported
			sm.firstRecorded = true
			sm.st = awaitingCustomer
			return nil
		}
		ev := &types.ResponseEvent{
			ConversationID: m.ConversationID,
			Sender:         sm.senderLabel(sender, m),
			ResponseMins:   round2(m.SentTime.Sub(sm.pending).Minutes()),
			MessageID:      m.MessageID,
		}
		if sm.variant == FirstResponse {
			sm.firstRecorded = true
			sm.done = true
		} else {
			sm.st = awaitingCustomer
		}
		return ev
	}
	return nil
}

// senderLabel encodes the responder kind. The first-response variant suffixes
// agent names with the skill; the subsequent variant reports the bare name.
func (sm *machine) senderLabel(sender string, m types.Message) string {
	skill := strings.ToLower(strings.TrimSpace(m.Skill))
	switch sender {
	case "bot":
		return "BOT_" + skill
	case "agent":
		name := ""
		if m.AgentName != nil {
			name = *m.AgentName
		}
		if sm.variant == FirstResponse {
			return name + "_" + skill
		}
		return name
	default:
		return "System"
	}
}

// Scan runs the automaton over every conversation and collects the emitted
// latency events. Conversations with no qualifying reply contribute nothing.
func Scan(convs []types.Conversation, v Variant) []types.ResponseEvent {
	var events []types.ResponseEvent
	for _, conv := range convs {
		sm := &machine{variant: v, st: awaitingCustomer}
		for _, m := range conv.Messages {
			if !eligible(m) {
				continue
			}
			if ev := sm.step(m); ev != nil {
				events = append(events, *ev)
			}
			if sm.done {
				break
			}
		}
	}
	return events
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
