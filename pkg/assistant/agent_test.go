package assistant_test

import (
	"context"
	"testing"

	"ai-examcoach-be/pkg/assistant"
	"ai-examcoach-be/pkg/assistant/rag"
	"ai-examcoach-be/pkg/assistant/search"
	"ai-examcoach-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessMessageAppendsTurnAndReturnsWorkflow(t *testing.T) {
	web := &fakeSearch{results: []store.SearchResult{{Content: "hit", Score: 0.8, Source: store.SourceWebSearch}}}
	agent := assistant.NewAgent(testDeps(nil, web))

	result := agent.ProcessMessage(context.Background(), "explain interfaces")

	assert.Equal(t, "assistant reply", result.Response)
	assert.Equal(t, rag.StageWebFallback, result.Workflow.Stage)
	assert.True(t, result.Workflow.VectorUnavailable)

	recent := agent.RecentMessages(6)
	require.Len(t, recent, 2)
	assert.Equal(t, "explain interfaces", recent[0].Content)
	assert.Equal(t, "assistant reply", recent[1].Content)

	assert.Equal(t, result.Workflow, agent.LastWorkflow())
}

func TestSetQuestionContextBindsVectorSearch(t *testing.T) {
	vector := &fakeSearch{results: []store.SearchResult{{Content: "chunk", Score: 0.9, Source: store.SourceVectorDB}}}
	web := &fakeSearch{}

	var boundDocument string
	deps := testDeps(vector, web)
	factory := deps.VectorFactory
	deps.VectorFactory = func(documentName string) search.Provider {
		boundDocument = documentName
		return factory(documentName)
	}

	agent := assistant.NewAgent(deps)
	require.NoError(t, agent.SetQuestionContext(questionData()))
	assert.Equal(t, "concurrency.pdf", boundDocument)

	result := agent.ProcessMessage(context.Background(), "why goroutines?")
	assert.Equal(t, rag.StageVectorResponse, result.Workflow.Stage)
	assert.Equal(t, []string{"why goroutines?"}, vector.queries)
	assert.Empty(t, web.queries)
}

func TestSetQuestionContextValidationLeavesStateUntouched(t *testing.T) {
	agent := assistant.NewAgent(testDeps(nil, &fakeSearch{}))
	require.NoError(t, agent.SetQuestionContext(questionData()))

	bad := questionData()
	bad.TestId = "test-002"
	bad.DifficultyLevel = "impossible"

	err := agent.SetQuestionContext(bad)
	require.Error(t, err)

	var vErr *store.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "test-001", agent.QuestionSummary().TestId)
}

func TestSummaryCountsToolActivity(t *testing.T) {
	web := &fakeSearch{results: []store.SearchResult{{Content: "hit", Score: 0.8}}}
	agent := assistant.NewAgent(testDeps(nil, web))

	agent.ProcessMessage(context.Background(), "first question")

	summary := agent.Summary()
	// user + tool_call + tool_result + assistant
	assert.Equal(t, 4, summary.TotalMessages)
	assert.Equal(t, 1, summary.ToolCalls)
	assert.NotEmpty(t, summary.LastMessageTime)
}
