package assistant

import (
	"sync"

	"ai-examcoach-be/pkg/store"
)

// AgentStore is the synchronized id -> agent mapping backing the registry.
// The in-memory implementation lives in internal/repository/memory.
type AgentStore interface {
	Save(sessionId string, agent *Agent)
	Get(sessionId string) (*Agent, bool)
	Delete(sessionId string)
	Count() int
}

// SessionInfo is the session-level view returned to callers.
type SessionInfo struct {
	SessionId       string                       `json:"session_id"`
	TotalMessages   int                          `json:"total_messages"`
	ToolCalls       int                          `json:"tool_calls"`
	LastMessageTime string                       `json:"last_message_time,omitempty"`
	QuestionContext store.QuestionContextSummary `json:"question_context"`
}

// Registry owns the process-wide mapping from session id to agent. It is the
// only shared mutable state in the assistant core; the store handles
// concurrent lookup and the registry serializes creation so GetOrCreate stays
// idempotent under concurrency. Sessions live until Cleanup - no TTL is
// applied (deliberate: expiry is a pending product decision).
type Registry struct {
	mu    sync.Mutex
	store AgentStore
	deps  AgentDeps
}

func NewRegistry(store AgentStore, deps AgentDeps) *Registry {
	return &Registry{
		store: store,
		deps:  deps,
	}
}

// GetOrCreate returns the agent for sessionId, constructing and registering a
// fresh one on first reference. Never fails.
func (r *Registry) GetOrCreate(sessionId string) *Agent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if agent, found := r.store.Get(sessionId); found {
		return agent
	}

	agent := NewAgent(r.deps)
	r.store.Save(sessionId, agent)
	return agent
}

// Lookup returns the agent for sessionId without creating one. The boolean
// distinguishes an unknown session from an empty one.
func (r *Registry) Lookup(sessionId string) (*Agent, bool) {
	return r.store.Get(sessionId)
}

// Info returns the session-level view, or ok=false for unknown sessions.
func (r *Registry) Info(sessionId string) (SessionInfo, bool) {
	agent, found := r.store.Get(sessionId)
	if !found {
		return SessionInfo{}, false
	}

	summary := agent.Summary()
	return SessionInfo{
		SessionId:       sessionId,
		TotalMessages:   summary.TotalMessages,
		ToolCalls:       summary.ToolCalls,
		LastMessageTime: summary.LastMessageTime,
		QuestionContext: agent.QuestionSummary(),
	}, true
}

// Cleanup removes and discards the session's agent. No-op for unknown ids.
func (r *Registry) Cleanup(sessionId string) {
	r.store.Delete(sessionId)
}

// ActiveSessionCount returns the number of registered sessions.
func (r *Registry) ActiveSessionCount() int {
	return r.store.Count()
}
