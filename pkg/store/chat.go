package store

import "time"

// MessageType classifies one entry of a session's conversation log.
type MessageType string

const (
	MessageTypeUser       MessageType = "user"
	MessageTypeAssistant  MessageType = "assistant"
	MessageTypeSystem     MessageType = "system"
	MessageTypeToolCall   MessageType = "tool_call"
	MessageTypeToolResult MessageType = "tool_result"
)

// ChatMessage is one turn/event in a session. Immutable once created;
// it is only ever removed in bulk by the memory eviction policy.
type ChatMessage struct {
	Type      MessageType            `json:"type"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// ConversationSummary is the reduced view of a session's retained log.
type ConversationSummary struct {
	TotalMessages   int    `json:"total_messages"`
	ToolCalls       int    `json:"tool_calls"`
	LastMessageTime string `json:"last_message_time,omitempty"` // RFC3339, empty when log is empty
}

// Source constants for SearchResult.
const (
	SourceVectorDB  = "vector_db"
	SourceWebSearch = "web_search"
)

// SearchResult is one retrieval hit from a search provider.
// Vector scores are derived as 1 - cosine distance; the web provider
// has no ranking signal so its score is a fixed constant.
type SearchResult struct {
	Content  string                 `json:"content"`
	Source   string                 `json:"source"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
