package service

import (
	"strings"
	"testing"

	"ai-examcoach-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratedQuestionsPlainJSON(t *testing.T) {
	raw := `[{"question_text":"What is a goroutine?","options":["a","b","c","d"],"correct_answer":"a","explanation":"because"}]`

	questions, err := parseGeneratedQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "What is a goroutine?", questions[0].QuestionText)
	assert.Len(t, questions[0].Options, 4)
}

func TestParseGeneratedQuestionsStripsCodeFences(t *testing.T) {
	raw := "```json\n[{\"question_text\":\"Q1\",\"correct_answer\":\"A\",\"explanation\":\"E\"}]\n```"

	questions, err := parseGeneratedQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Q1", questions[0].QuestionText)
}

func TestParseGeneratedQuestionsRejectsGarbage(t *testing.T) {
	for _, raw := range []string{
		"Sorry, I cannot help with that.",
		"[]",
		`[{"question_text":"   ","correct_answer":"A"}]`,
	} {
		_, err := parseGeneratedQuestions(raw)
		assert.Error(t, err, "input: %s", raw)
	}
}

func TestBuildGenerationPromptObjectiveMentionsOptions(t *testing.T) {
	prompt := buildGenerationPrompt("material body", &dto.GenerateTestRequest{
		QuestionCount:   5,
		QuestionType:    "objective",
		DifficultyLevel: "hard",
	})

	assert.Contains(t, prompt, "5 objective questions at hard difficulty")
	assert.Contains(t, prompt, "4 options")
	assert.True(t, strings.HasSuffix(prompt, "material body"))
}

func TestBuildGenerationPromptSubjectiveMentionsCriteria(t *testing.T) {
	prompt := buildGenerationPrompt("material", &dto.GenerateTestRequest{
		QuestionCount:   3,
		QuestionType:    "subjective",
		DifficultyLevel: "easy",
	})

	assert.Contains(t, prompt, "grading_criteria")
}
