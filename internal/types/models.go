package types

import "time"

// Message is one row of a conversation export. Extra keeps every original
// column by trimmed header name, so cleaned exports can be written back
// verbatim and ad-hoc "...skill..." columns stay reachable.
type Message struct {
	ConversationID string            `json:"conversation_id"`
	MessageID      string            `json:"message_id"`
	SentBy         string            `json:"sent_by"`
	MessageType    string            `json:"message_type"`
	Skill          string            `json:"skill"`
	SentTime       time.Time         `json:"sent_time"`
	AgentName      *string           `json:"agent_name,omitempty"`
	Text           string            `json:"text"`
	Extra          map[string]string `json:"-"`
}

// Conversation is the ordered message sequence sharing one conversation id.
type Conversation struct {
	ID       string    `json:"conversation_id"`
	Messages []Message `json:"messages"`
}

// ResponseEvent is one qualifying support-side reply with its latency.
type ResponseEvent struct {
	ConversationID string  `json:"conversation_id"`
	Sender         string  `json:"sender"`
	ResponseMins   float64 `json:"response_mins"`
	MessageID      string  `json:"message_id"`
}

// RepetitionRecord marks a bot message text repeated within one conversation.
type RepetitionRecord struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	Text           string `json:"text"`
	Count          int    `json:"count"`
}
