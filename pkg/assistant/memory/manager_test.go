package memory

import (
	"fmt"
	"testing"

	"ai-examcoach-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBoundsHistory(t *testing.T) {
	tests := []struct {
		name       string
		max        int
		appends    int
		wantLen    int
		wantOldest string
	}{
		{name: "under capacity", max: 10, appends: 4, wantLen: 4, wantOldest: "msg-0"},
		{name: "at capacity", max: 5, appends: 5, wantLen: 5, wantOldest: "msg-0"},
		{name: "over capacity keeps most recent", max: 5, appends: 12, wantLen: 5, wantOldest: "msg-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.max)
			for i := 0; i < tt.appends; i++ {
				m.Add(store.MessageTypeUser, fmt.Sprintf("msg-%d", i), nil)
			}

			require.Equal(t, tt.wantLen, m.Len())
			recent := m.RecentChatMessages(0)
			require.NotEmpty(t, recent)
			assert.Equal(t, tt.wantOldest, recent[0].Content)
			assert.Equal(t, fmt.Sprintf("msg-%d", tt.appends-1), recent[len(recent)-1].Content)
		})
	}
}

func TestEvictionPreservesSystemMessages(t *testing.T) {
	m := NewManager(5)

	// Seed more system messages than the nominal maximum.
	for i := 0; i < 10; i++ {
		m.Add(store.MessageTypeSystem, fmt.Sprintf("sys-%d", i), nil)
	}
	require.Equal(t, 10, m.Len())

	for i := 0; i < 20; i++ {
		m.Add(store.MessageTypeUser, fmt.Sprintf("user-%d", i), nil)
	}

	// All 10 system messages survive; no room remains for non-system ones.
	assert.Equal(t, 10, m.Len())
	assert.Empty(t, m.RecentChatMessages(0))
}

func TestEvictionKeepsRoomForSystem(t *testing.T) {
	m := NewManager(6)
	m.Add(store.MessageTypeSystem, "prompt", nil)

	for i := 0; i < 10; i++ {
		m.Add(store.MessageTypeUser, fmt.Sprintf("user-%d", i), nil)
	}

	assert.Equal(t, 6, m.Len())
	recent := m.RecentChatMessages(0)
	require.Len(t, recent, 5)
	assert.Equal(t, "user-5", recent[0].Content)
	assert.Equal(t, "user-9", recent[4].Content)
}

func TestRecentChatMessagesFiltersToolEvents(t *testing.T) {
	m := NewManager(20)
	m.Add(store.MessageTypeUser, "question", nil)
	m.Add(store.MessageTypeToolCall, "searching", map[string]interface{}{"tool": "vector_search"})
	m.Add(store.MessageTypeToolResult, "3 hits", nil)
	m.Add(store.MessageTypeAssistant, "answer", nil)

	recent := m.RecentChatMessages(6)
	require.Len(t, recent, 2)
	assert.Equal(t, store.MessageTypeUser, recent[0].Type)
	assert.Equal(t, store.MessageTypeAssistant, recent[1].Type)
}

func TestRecentChatMessagesReturnsSnapshot(t *testing.T) {
	m := NewManager(20)
	m.Add(store.MessageTypeUser, "original", nil)

	snapshot := m.RecentChatMessages(6)
	snapshot[0].Content = "mutated"

	assert.Equal(t, "original", m.RecentChatMessages(6)[0].Content)
}

func TestToolCallCountReflectsRetainedOnly(t *testing.T) {
	m := NewManager(4)
	for i := 0; i < 4; i++ {
		m.Add(store.MessageTypeToolCall, "call", nil)
	}
	assert.Equal(t, 4, m.ToolCallCount())

	// Push tool calls out of the window.
	for i := 0; i < 4; i++ {
		m.Add(store.MessageTypeUser, "chat", nil)
	}
	assert.Equal(t, 0, m.ToolCallCount())
}

func TestSummary(t *testing.T) {
	m := NewManager(20)
	assert.Equal(t, store.ConversationSummary{}, m.Summary())

	m.Add(store.MessageTypeUser, "hello", nil)
	m.Add(store.MessageTypeToolCall, "searching", nil)

	summary := m.Summary()
	assert.Equal(t, 2, summary.TotalMessages)
	assert.Equal(t, 1, summary.ToolCalls)
	assert.NotEmpty(t, summary.LastMessageTime)
}
