package assistant

import (
	"context"
	"log"
	"sync"

	"ai-examcoach-be/pkg/assistant/memory"
	"ai-examcoach-be/pkg/assistant/question"
	"ai-examcoach-be/pkg/assistant/rag"
	"ai-examcoach-be/pkg/assistant/search"
	"ai-examcoach-be/pkg/llm"
	"ai-examcoach-be/pkg/store"
)

// AgentDeps carries everything an agent needs to build and rebuild its
// retrieval router. VectorFactory binds a vector provider to one document;
// it may be nil in setups without a knowledge base.
type AgentDeps struct {
	LLM                 llm.LLMProvider
	Web                 search.Provider
	VectorFactory       func(documentName string) search.Provider
	SimilarityThreshold float64
	MaxContextMessages  int
	Logger              *log.Logger
}

// ChatResult is what one processed turn returns to the caller.
type ChatResult struct {
	Response string                    `json:"response"`
	Workflow rag.WorkflowInfo          `json:"workflow"`
	Summary  store.ConversationSummary `json:"session_info"`
}

// Agent is one learner's conversational unit: a memory manager, a question
// context manager and a retrieval router bound to the current document.
// All operations are serialized behind the per-session lock so the message
// log matches arrival order and the router is never swapped mid-turn.
type Agent struct {
	mu           sync.Mutex
	deps         AgentDeps
	memory       *memory.Manager
	question     *question.Manager
	router       *rag.Processor
	lastWorkflow rag.WorkflowInfo
}

func NewAgent(deps AgentDeps) *Agent {
	a := &Agent{
		deps:     deps,
		memory:   memory.NewManager(deps.MaxContextMessages),
		question: question.NewManager(),
	}
	// No context yet: vector search unavailable, router starts on the
	// web-fallback-only binding.
	a.router = rag.NewProcessor(nil, deps.Web, deps.LLM, deps.SimilarityThreshold, deps.Logger)
	return a
}

// ProcessMessage runs one full turn: append the user message, route through
// retrieval, append the reply, return reply plus workflow and summary.
func (a *Agent) ProcessMessage(ctx context.Context, message string) ChatResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.memory.Add(store.MessageTypeUser, message, nil)

	reply, wf := a.router.Respond(ctx, message, a.question.SystemPrompt(), a.memory)
	a.lastWorkflow = wf

	a.memory.Add(store.MessageTypeAssistant, reply, nil)

	return ChatResult{
		Response: reply,
		Workflow: wf,
		Summary:  a.memory.Summary(),
	}
}

// SetQuestionContext replaces the live question context and rebuilds the
// retrieval router bound to the new document. On validation failure both the
// context and the router are left untouched.
func (a *Agent) SetQuestionContext(data store.QuestionContextData) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.question.Set(data); err != nil {
		return err
	}

	var vector search.Provider
	if doc := a.question.DocumentName(); doc != "" && a.deps.VectorFactory != nil {
		vector = a.deps.VectorFactory(doc)
	}
	a.router = rag.NewProcessor(vector, a.deps.Web, a.deps.LLM, a.deps.SimilarityThreshold, a.deps.Logger)
	return nil
}

// Summary reports the retained conversation log.
func (a *Agent) Summary() store.ConversationSummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memory.Summary()
}

// QuestionSummary reports the reduced view of the live question context.
func (a *Agent) QuestionSummary() store.QuestionContextSummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.question.Summary()
}

// RecentMessages returns the latest USER/ASSISTANT turns.
func (a *Agent) RecentMessages(count int) []store.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memory.RecentChatMessages(count)
}

// LastWorkflow returns the routing record of the most recent completed turn.
func (a *Agent) LastWorkflow() rag.WorkflowInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastWorkflow
}
