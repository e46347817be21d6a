package memory

import (
	"time"

	"ai-examcoach-be/pkg/store"
)

const DefaultMaxContextMessages = 20

// Manager owns the append-only, capacity-bounded conversation log of one
// session. It is not safe for concurrent use; the owning agent serializes
// access behind its per-session lock.
type Manager struct {
	maxContextMessages int
	history            []store.ChatMessage
}

func NewManager(maxContextMessages int) *Manager {
	if maxContextMessages <= 0 {
		maxContextMessages = DefaultMaxContextMessages
	}
	return &Manager{maxContextMessages: maxContextMessages}
}

// Add appends a message with the current timestamp and runs the eviction check.
func (m *Manager) Add(msgType store.MessageType, content string, metadata map[string]interface{}) {
	m.history = append(m.history, store.ChatMessage{
		Type:      msgType,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  metadata,
	})
	m.evict()
}

// evict keeps all SYSTEM messages and only the most recent non-SYSTEM
// messages once the log exceeds its maximum. A session with more SYSTEM
// messages than the maximum simply retains all of them.
func (m *Manager) evict() {
	if len(m.history) <= m.maxContextMessages {
		return
	}

	var systemMessages, otherMessages []store.ChatMessage
	for _, msg := range m.history {
		if msg.Type == store.MessageTypeSystem {
			systemMessages = append(systemMessages, msg)
		} else {
			otherMessages = append(otherMessages, msg)
		}
	}

	keep := m.maxContextMessages - len(systemMessages)
	if keep < 0 {
		keep = 0
	}
	if keep < len(otherMessages) {
		otherMessages = otherMessages[len(otherMessages)-keep:]
	}

	m.history = append(systemMessages, otherMessages...)
}

// RecentChatMessages returns a copy of the most recent count USER/ASSISTANT
// messages in chronological order. Tool and system events are excluded.
func (m *Manager) RecentChatMessages(count int) []store.ChatMessage {
	var chat []store.ChatMessage
	for _, msg := range m.history {
		if msg.Type == store.MessageTypeUser || msg.Type == store.MessageTypeAssistant {
			chat = append(chat, msg)
		}
	}
	if count > 0 && len(chat) > count {
		chat = chat[len(chat)-count:]
	}

	snapshot := make([]store.ChatMessage, len(chat))
	copy(snapshot, chat)
	return snapshot
}

// ToolCallCount counts the TOOL_CALL messages eviction has not yet discarded.
func (m *Manager) ToolCallCount() int {
	count := 0
	for _, msg := range m.history {
		if msg.Type == store.MessageTypeToolCall {
			count++
		}
	}
	return count
}

// Len returns the total retained message count.
func (m *Manager) Len() int {
	return len(m.history)
}

// Summary reports the retained log: total messages, tool calls, and the
// timestamp of the last message (empty when the log is empty).
func (m *Manager) Summary() store.ConversationSummary {
	summary := store.ConversationSummary{
		TotalMessages: len(m.history),
		ToolCalls:     m.ToolCallCount(),
	}
	if len(m.history) > 0 {
		summary.LastMessageTime = m.history[len(m.history)-1].Timestamp.Format(time.RFC3339)
	}
	return summary
}
