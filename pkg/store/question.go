package store

import "fmt"

// QuestionType classifies how an exam question is answered and graded.
type QuestionType string

const (
	QuestionTypeObjective  QuestionType = "objective"
	QuestionTypeSubjective QuestionType = "subjective"
)

// DifficultyLevel of an exam question.
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyNormal DifficultyLevel = "normal"
	DifficultyHard   DifficultyLevel = "hard"
)

// ValidationError reports a field that failed to map onto a known enum value.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s", e.Value, e.Field)
}

// ParseQuestionType maps raw input onto a QuestionType.
func ParseQuestionType(raw string) (QuestionType, error) {
	switch QuestionType(raw) {
	case QuestionTypeObjective, QuestionTypeSubjective:
		return QuestionType(raw), nil
	}
	return "", &ValidationError{Field: "question_type", Value: raw}
}

// ParseDifficultyLevel maps raw input onto a DifficultyLevel.
func ParseDifficultyLevel(raw string) (DifficultyLevel, error) {
	switch DifficultyLevel(raw) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyLevel(raw), nil
	}
	return "", &ValidationError{Field: "difficulty_level", Value: raw}
}

// QuestionContext is the snapshot of the exam question a learner is asking
// about. At most one context is live per session; absence is a valid state.
type QuestionContext struct {
	TestId          string
	QuestionId      string
	QuestionType    QuestionType
	DifficultyLevel DifficultyLevel
	QuestionText    string
	CorrectAnswer   string
	Explanation     string
	DocumentId      string
	DocumentName    string
	Tags            []string
	Options         []string // objective questions only
	GradingCriteria string   // subjective questions only
}

// QuestionContextSummary is the reduced context view used in session-info
// responses. Zero-valued when no context is set.
type QuestionContextSummary struct {
	TestId          string   `json:"test_id,omitempty"`
	QuestionType    string   `json:"question_type,omitempty"`
	DifficultyLevel string   `json:"difficulty_level,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// QuestionContextData is the loosely-typed shape the caller supplies.
// Missing fields degrade to empty values; only the enum fields are validated.
type QuestionContextData struct {
	TestId          string   `json:"test_id"`
	QuestionId      string   `json:"question_id"`
	QuestionType    string   `json:"question_type"`
	DifficultyLevel string   `json:"difficulty_level"`
	QuestionText    string   `json:"question_text"`
	CorrectAnswer   string   `json:"correct_answer"`
	Explanation     string   `json:"explanation"`
	DocumentId      string   `json:"document_id"`
	DocumentName    string   `json:"document_name"`
	Tags            []string `json:"tags"`
	Options         []string `json:"options,omitempty"`
	GradingCriteria string   `json:"grading_criteria,omitempty"`
}

// NewQuestionContext validates the enum fields of data and builds a context.
// Everything else is carried through as-is, empty values included.
func NewQuestionContext(data QuestionContextData) (*QuestionContext, error) {
	qType, err := ParseQuestionType(data.QuestionType)
	if err != nil {
		return nil, err
	}
	level, err := ParseDifficultyLevel(data.DifficultyLevel)
	if err != nil {
		return nil, err
	}

	return &QuestionContext{
		TestId:          data.TestId,
		QuestionId:      data.QuestionId,
		QuestionType:    qType,
		DifficultyLevel: level,
		QuestionText:    data.QuestionText,
		CorrectAnswer:   data.CorrectAnswer,
		Explanation:     data.Explanation,
		DocumentId:      data.DocumentId,
		DocumentName:    data.DocumentName,
		Tags:            data.Tags,
		Options:         data.Options,
		GradingCriteria: data.GradingCriteria,
	}, nil
}
