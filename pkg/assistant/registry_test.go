package assistant_test

import (
	"context"
	"sync"
	"testing"

	"ai-examcoach-be/internal/repository/memory"
	"ai-examcoach-be/pkg/assistant"
	"ai-examcoach-be/pkg/assistant/search"
	"ai-examcoach-be/pkg/llm"
	"ai-examcoach-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearch struct {
	mu      sync.Mutex
	results []store.SearchResult
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string, _ int) ([]store.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.results, nil
}

type fakeLLM struct {
	reply string
}

func (f *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return f.reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, nil, options...)
}

func testDeps(vector *fakeSearch, web *fakeSearch) assistant.AgentDeps {
	deps := assistant.AgentDeps{
		LLM:                 &fakeLLM{reply: "assistant reply"},
		Web:                 web,
		SimilarityThreshold: 0.7,
		MaxContextMessages:  20,
	}
	if vector != nil {
		deps.VectorFactory = func(documentName string) search.Provider {
			return vector
		}
	}
	return deps
}

func questionData() store.QuestionContextData {
	return store.QuestionContextData{
		TestId:          "test-001",
		QuestionId:      "q-001",
		QuestionType:    "objective",
		DifficultyLevel: "hard",
		QuestionText:    "Which statement about goroutines is true?",
		CorrectAnswer:   "They are multiplexed onto OS threads.",
		DocumentName:    "concurrency.pdf",
		Tags:            []string{"concurrency"},
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	registry := assistant.NewRegistry(memory.NewSessionRepository(), testDeps(nil, &fakeSearch{}))

	first := registry.GetOrCreate("session-1")
	first.ProcessMessage(context.Background(), "hello")

	second := registry.GetOrCreate("session-1")
	assert.Same(t, first, second)

	// The accumulated memory survives the second resolution.
	info, ok := registry.Info("session-1")
	require.True(t, ok)
	assert.Equal(t, 2, info.TotalMessages) // user turn + assistant reply
}

func TestCleanupThenGetOrCreateYieldsFreshSession(t *testing.T) {
	registry := assistant.NewRegistry(memory.NewSessionRepository(), testDeps(nil, &fakeSearch{}))

	agent := registry.GetOrCreate("session-1")
	require.NoError(t, agent.SetQuestionContext(questionData()))
	agent.ProcessMessage(context.Background(), "hello")

	registry.Cleanup("session-1")
	assert.Equal(t, 0, registry.ActiveSessionCount())

	fresh := registry.GetOrCreate("session-1")
	assert.NotSame(t, agent, fresh)
	assert.Equal(t, store.ConversationSummary{}, fresh.Summary())
	assert.Equal(t, store.QuestionContextSummary{}, fresh.QuestionSummary())
}

func TestCleanupUnknownSessionIsNoOp(t *testing.T) {
	registry := assistant.NewRegistry(memory.NewSessionRepository(), testDeps(nil, &fakeSearch{}))
	registry.Cleanup("never-created")
	assert.Equal(t, 0, registry.ActiveSessionCount())
}

func TestInfoDistinguishesUnknownSession(t *testing.T) {
	registry := assistant.NewRegistry(memory.NewSessionRepository(), testDeps(nil, &fakeSearch{}))

	_, ok := registry.Info("missing")
	assert.False(t, ok)

	registry.GetOrCreate("present")
	info, ok := registry.Info("present")
	require.True(t, ok)
	assert.Equal(t, "present", info.SessionId)
	assert.Zero(t, info.TotalMessages)
}

func TestActiveSessionCount(t *testing.T) {
	registry := assistant.NewRegistry(memory.NewSessionRepository(), testDeps(nil, &fakeSearch{}))

	registry.GetOrCreate("a")
	registry.GetOrCreate("b")
	registry.GetOrCreate("a")
	assert.Equal(t, 2, registry.ActiveSessionCount())

	registry.Cleanup("a")
	assert.Equal(t, 1, registry.ActiveSessionCount())
}

func TestGetOrCreateConcurrent(t *testing.T) {
	registry := assistant.NewRegistry(memory.NewSessionRepository(), testDeps(nil, &fakeSearch{}))

	agents := make([]*assistant.Agent, 16)
	var wg sync.WaitGroup
	for i := range agents {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			agents[i] = registry.GetOrCreate("shared")
		}(i)
	}
	wg.Wait()

	for _, a := range agents[1:] {
		assert.Same(t, agents[0], a)
	}
	assert.Equal(t, 1, registry.ActiveSessionCount())
}
