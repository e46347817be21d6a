package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAnswer(t *testing.T) {
	assert.Equal(t, normalizeAnswer("  They ARE  multiplexed "), normalizeAnswer("they are multiplexed"))
	assert.NotEqual(t, normalizeAnswer("channel"), normalizeAnswer("channels"))
}

func TestParseSubjectiveGrade(t *testing.T) {
	grade, err := parseSubjectiveGrade(`{"score": 0.75, "feedback": "Good coverage of scheduling."}`)
	require.NoError(t, err)
	assert.Equal(t, 0.75, grade.Score)
	assert.Equal(t, "Good coverage of scheduling.", grade.Feedback)
}

func TestParseSubjectiveGradeStripsCodeFences(t *testing.T) {
	grade, err := parseSubjectiveGrade("```json\n{\"score\": 1.0, \"feedback\": \"Complete.\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, 1.0, grade.Score)
}

func TestParseSubjectiveGradeClampsScore(t *testing.T) {
	grade, err := parseSubjectiveGrade(`{"score": 1.4, "feedback": "x"}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, grade.Score)

	grade, err = parseSubjectiveGrade(`{"score": -0.2, "feedback": "x"}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, grade.Score)
}

func TestParseSubjectiveGradeRejectsProse(t *testing.T) {
	_, err := parseSubjectiveGrade("I would give this answer a 7/10.")
	assert.Error(t, err)
}
