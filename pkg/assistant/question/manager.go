package question

import (
	"fmt"
	"strings"

	"ai-examcoach-be/pkg/store"
)

const genericSystemPrompt = `You are an AI assistant for trainees reviewing their exam results.
Help the learner with anything they are unsure about while going through their graded answers, and point them toward further study where it helps.`

// Manager owns the current exam-question context of one session and derives
// the system prompt from it. Not safe for concurrent use; the owning agent
// serializes access.
type Manager struct {
	current *store.QuestionContext
}

func NewManager() *Manager {
	return &Manager{}
}

// Set validates and atomically replaces the current context. On validation
// failure the prior context (or the no-context state) is left untouched.
func (m *Manager) Set(data store.QuestionContextData) error {
	ctx, err := store.NewQuestionContext(data)
	if err != nil {
		return err
	}
	m.current = ctx
	return nil
}

// Current returns the live context, or nil when none has been set.
func (m *Manager) Current() *store.QuestionContext {
	return m.current
}

// DocumentName returns the document the current context is bound to.
func (m *Manager) DocumentName() string {
	if m.current == nil {
		return ""
	}
	return m.current.DocumentName
}

// SystemPrompt returns the generic assistant prompt when no context is set,
// otherwise a structured prompt embedding the question under discussion.
func (m *Manager) SystemPrompt() string {
	if m.current == nil {
		return genericSystemPrompt
	}

	ctx := m.current
	var b strings.Builder

	b.WriteString("You are an AI assistant for trainees reviewing their exam results.\n\n")
	b.WriteString("Current question under discussion:\n")
	b.WriteString(fmt.Sprintf("- Question type: %s\n", ctx.QuestionType))
	b.WriteString(fmt.Sprintf("- Difficulty: %s\n", ctx.DifficultyLevel))
	b.WriteString(fmt.Sprintf("- Question: %s\n", ctx.QuestionText))

	if len(ctx.Options) > 0 {
		b.WriteString(fmt.Sprintf("- Options: %s\n", strings.Join(ctx.Options, ", ")))
	}

	b.WriteString(fmt.Sprintf("- Correct answer: %s\n", ctx.CorrectAnswer))
	if ctx.Explanation != "" {
		b.WriteString(fmt.Sprintf("- Explanation: %s\n", ctx.Explanation))
	}
	if ctx.DocumentName != "" {
		b.WriteString(fmt.Sprintf("- Source document: %s\n", ctx.DocumentName))
	}
	if len(ctx.Tags) > 0 {
		b.WriteString(fmt.Sprintf("- Assessment tags: %s\n", strings.Join(ctx.Tags, ", ")))
	}
	if ctx.GradingCriteria != "" {
		b.WriteString(fmt.Sprintf("- Subjective grading criteria: %s\n", ctx.GradingCriteria))
	}

	b.WriteString(`
Your role:
1. Answer the questions the learner has while reviewing their graded result.
2. Explain incorrect or difficult questions in more depth.
3. Make the difference between the correct answer and wrong answers clear.
4. Point out the underlying concepts and what to study next.
5. Suggest how to approach similar questions.

Respond in a friendly, encouraging tone the learner can easily follow.`)

	return b.String()
}

// Summary returns the reduced view used in session-info responses.
// All fields are zero-valued when no context is set.
func (m *Manager) Summary() store.QuestionContextSummary {
	if m.current == nil {
		return store.QuestionContextSummary{}
	}
	return store.QuestionContextSummary{
		TestId:          m.current.TestId,
		QuestionType:    string(m.current.QuestionType),
		DifficultyLevel: string(m.current.DifficultyLevel),
		Tags:            m.current.Tags,
	}
}
