package question

import (
	"testing"

	"ai-examcoach-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validData() store.QuestionContextData {
	return store.QuestionContextData{
		TestId:          "test-001",
		QuestionId:      "q-001",
		QuestionType:    "objective",
		DifficultyLevel: "normal",
		QuestionText:    "What is the main difference between a slice and an array?",
		CorrectAnswer:   "A slice is a dynamically-sized view over an array.",
		Explanation:     "Arrays have a fixed length that is part of their type.",
		DocumentId:      "doc-001",
		DocumentName:    "go-basics.pdf",
		Tags:            []string{"fundamentals", "types"},
		Options:         []string{"A) no difference", "B) slices are dynamically sized"},
	}
}

func TestSetAndSummaryRoundTrip(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Set(validData()))

	summary := m.Summary()
	assert.Equal(t, "test-001", summary.TestId)
	assert.Equal(t, "objective", summary.QuestionType)
	assert.Equal(t, "normal", summary.DifficultyLevel)
	assert.Equal(t, []string{"fundamentals", "types"}, summary.Tags)
}

func TestSetRejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*store.QuestionContextData)
	}{
		{"unknown question type", func(d *store.QuestionContextData) { d.QuestionType = "multiple_choice" }},
		{"unknown difficulty", func(d *store.QuestionContextData) { d.DifficultyLevel = "medium" }},
		{"empty question type", func(d *store.QuestionContextData) { d.QuestionType = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			require.NoError(t, m.Set(validData()))

			bad := validData()
			bad.TestId = "test-002"
			tt.mutate(&bad)

			err := m.Set(bad)
			require.Error(t, err)

			var vErr *store.ValidationError
			require.ErrorAs(t, err, &vErr)

			// Prior context untouched.
			assert.Equal(t, "test-001", m.Summary().TestId)
		})
	}
}

func TestSystemPromptWithoutContext(t *testing.T) {
	m := NewManager()
	prompt := m.SystemPrompt()
	assert.Contains(t, prompt, "reviewing their exam results")
	assert.NotContains(t, prompt, "Current question")
	assert.Equal(t, store.QuestionContextSummary{}, m.Summary())
}

func TestSystemPromptEmbedsContext(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Set(validData()))

	prompt := m.SystemPrompt()
	assert.Contains(t, prompt, "What is the main difference between a slice and an array?")
	assert.Contains(t, prompt, "A slice is a dynamically-sized view over an array.")
	assert.Contains(t, prompt, "go-basics.pdf")
	assert.Contains(t, prompt, "B) slices are dynamically sized")
	assert.NotContains(t, prompt, "grading criteria")
}

func TestSystemPromptSubjectiveCriteria(t *testing.T) {
	m := NewManager()
	data := validData()
	data.QuestionType = "subjective"
	data.Options = nil
	data.GradingCriteria = "Award full marks when mutability is mentioned."
	require.NoError(t, m.Set(data))

	prompt := m.SystemPrompt()
	assert.Contains(t, prompt, "Award full marks when mutability is mentioned.")
	assert.NotContains(t, prompt, "- Options:")
}

func TestDocumentName(t *testing.T) {
	m := NewManager()
	assert.Empty(t, m.DocumentName())

	require.NoError(t, m.Set(validData()))
	assert.Equal(t, "go-basics.pdf", m.DocumentName())
}
