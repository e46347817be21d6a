package rag

import (
	"context"
	"errors"
	"testing"

	"ai-examcoach-be/pkg/assistant/memory"
	"ai-examcoach-be/pkg/llm"
	"ai-examcoach-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	results []store.SearchResult
	err     error
	calls   int
}

func (s *stubProvider) Search(_ context.Context, _ string, _ int) ([]store.SearchResult, error) {
	s.calls++
	return s.results, s.err
}

type stubLLM struct {
	reply      string
	err        error
	calls      int
	lastSystem string
	lastUser   string
	lastTemp   float64
}

func (s *stubLLM) Chat(_ context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.calls++
	opts := &llm.Options{}
	for _, o := range options {
		o(opts)
	}
	s.lastTemp = opts.Temperature
	for _, msg := range history {
		switch msg.Role {
		case "system":
			s.lastSystem = msg.Content
		case "user":
			s.lastUser = msg.Content
		}
	}
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func vectorResults(scores ...float64) []store.SearchResult {
	results := make([]store.SearchResult, len(scores))
	for i, score := range scores {
		results[i] = store.SearchResult{
			Content: "chunk with score " + formatScore(score),
			Source:  store.SourceVectorDB,
			Score:   score,
		}
	}
	return results
}

func formatScore(score float64) string {
	return string(rune('0' + int(score*10)))
}

func TestRespondVectorPath(t *testing.T) {
	vector := &stubProvider{results: vectorResults(0.9, 0.5, 0.8)}
	web := &stubProvider{}
	model := &stubLLM{reply: "grounded answer"}
	mem := memory.NewManager(20)

	p := NewProcessor(vector, web, model, 0.7, nil)
	reply, wf := p.Respond(context.Background(), "what is a slice?", "system prompt", mem)

	assert.Equal(t, "grounded answer", reply)
	assert.Equal(t, StageVectorResponse, wf.Stage)
	assert.True(t, wf.ThresholdMet)
	assert.Equal(t, 3, wf.VectorResultCount)
	assert.Equal(t, 2, wf.MatchedCount)
	assert.InDelta(t, 0.85, wf.AvgSimilarity, 1e-9)
	assert.Equal(t, ActionVectorResponseGenerated, wf.FinalAction)

	// Web provider is never consulted when the threshold is met.
	assert.Equal(t, 0, web.calls)
	assert.Equal(t, 1, model.calls)

	// Provider order preserved: 0.9 before 0.8, 0.5 filtered out.
	assert.Contains(t, model.lastSystem, "chunk with score 9")
	assert.Contains(t, model.lastSystem, "chunk with score 8")
	assert.NotContains(t, model.lastSystem, "chunk with score 5")
	assert.Equal(t, "what is a slice?", model.lastUser)
	assert.InDelta(t, responseTemperature, model.lastTemp, 1e-9)
}

func TestRespondVectorPathTopThree(t *testing.T) {
	vector := &stubProvider{results: []store.SearchResult{
		{Content: "first", Score: 0.95},
		{Content: "second", Score: 0.92},
		{Content: "third", Score: 0.88},
		{Content: "fourth", Score: 0.85},
	}}
	model := &stubLLM{reply: "ok"}
	mem := memory.NewManager(20)

	p := NewProcessor(vector, &stubProvider{}, model, 0.7, nil)
	_, wf := p.Respond(context.Background(), "q", "sys", mem)

	assert.Equal(t, 4, wf.MatchedCount)
	assert.Contains(t, model.lastSystem, "third")
	assert.NotContains(t, model.lastSystem, "fourth")
}

func TestRespondWebFallback(t *testing.T) {
	vector := &stubProvider{results: vectorResults(0.2, 0.1)}
	web := &stubProvider{results: []store.SearchResult{
		{Content: "Go blog: slices are views", Source: store.SourceWebSearch, Score: 0.8},
		{Content: "Spec: slice types", Source: store.SourceWebSearch, Score: 0.8},
	}}
	model := &stubLLM{reply: "web answer"}
	mem := memory.NewManager(20)

	p := NewProcessor(vector, web, model, 0.7, nil)
	reply, wf := p.Respond(context.Background(), "q", "sys", mem)

	assert.Equal(t, "web answer", reply)
	assert.Equal(t, StageWebFallback, wf.Stage)
	assert.False(t, wf.ThresholdMet)
	assert.Equal(t, 2, wf.WebResultCount)
	assert.Equal(t, ActionWebResponseGenerated, wf.FinalAction)
	assert.Equal(t, 1, web.calls)

	// All web results are used, no top-N truncation on this path.
	assert.Contains(t, model.lastSystem, "Go blog: slices are views")
	assert.Contains(t, model.lastSystem, "Spec: slice types")
}

func TestRespondShortCircuitsWithoutResults(t *testing.T) {
	vector := &stubProvider{}
	web := &stubProvider{}
	model := &stubLLM{reply: "should never be used"}
	mem := memory.NewManager(20)

	p := NewProcessor(vector, web, model, 0.7, nil)
	reply, wf := p.Respond(context.Background(), "q", "sys", mem)

	assert.Equal(t, NoResultsReply, reply)
	assert.Equal(t, ActionNoResultsFound, wf.FinalAction)
	assert.Equal(t, 0, model.calls, "LLM must not be called when both providers are empty")
}

func TestRespondProviderFailuresDegradeToZeroResults(t *testing.T) {
	vector := &stubProvider{err: errors.New("vector store down")}
	web := &stubProvider{err: errors.New("quota exceeded")}
	model := &stubLLM{}
	mem := memory.NewManager(20)

	p := NewProcessor(vector, web, model, 0.7, nil)
	reply, wf := p.Respond(context.Background(), "q", "sys", mem)

	assert.Equal(t, NoResultsReply, reply)
	assert.Equal(t, 0, model.calls)

	// Failure is distinguishable from a legitimately empty result set.
	assert.True(t, wf.VectorFailed)
	assert.True(t, wf.WebFailed)
	assert.Equal(t, 0, wf.VectorResultCount)
	assert.Equal(t, 0, wf.WebResultCount)
}

func TestRespondWithoutVectorProvider(t *testing.T) {
	web := &stubProvider{results: []store.SearchResult{{Content: "hit", Score: 0.8}}}
	model := &stubLLM{reply: "fallback answer"}
	mem := memory.NewManager(20)

	p := NewProcessor(nil, web, model, 0.7, nil)
	reply, wf := p.Respond(context.Background(), "q", "sys", mem)

	assert.Equal(t, "fallback answer", reply)
	assert.True(t, wf.VectorUnavailable)
	assert.False(t, wf.VectorFailed)
	assert.Equal(t, StageWebFallback, wf.Stage)
}

func TestRespondGenerationFailureBecomesApology(t *testing.T) {
	tests := []struct {
		name   string
		vector *stubProvider
		web    *stubProvider
	}{
		{"vector path", &stubProvider{results: vectorResults(0.9)}, &stubProvider{}},
		{"web path", &stubProvider{}, &stubProvider{results: []store.SearchResult{{Content: "hit", Score: 0.8}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &stubLLM{err: errors.New("model overloaded")}
			mem := memory.NewManager(20)

			p := NewProcessor(tt.vector, tt.web, model, 0.7, nil)
			reply, wf := p.Respond(context.Background(), "q", "sys", mem)

			assert.Equal(t, GenerationFailureReply, reply)
			assert.Equal(t, ActionGenerationFailed, wf.FinalAction)
		})
	}
}

func TestRespondBracketsToolActivityInMemory(t *testing.T) {
	vector := &stubProvider{results: vectorResults(0.2)}
	web := &stubProvider{results: []store.SearchResult{{Content: "hit", Score: 0.8}}}
	mem := memory.NewManager(20)

	p := NewProcessor(vector, web, &stubLLM{reply: "ok"}, 0.7, nil)
	p.Respond(context.Background(), "q", "sys", mem)

	// Both searches ran: two TOOL_CALL plus two TOOL_RESULT events.
	require.Equal(t, 4, mem.Len())
	assert.Equal(t, 2, mem.ToolCallCount())
}
