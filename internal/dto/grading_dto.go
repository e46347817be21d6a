package dto

import (
	"github.com/google/uuid"
)

type SubmitAnswersRequest struct {
	TestId  uuid.UUID   `json:"test_id" validate:"required"`
	Answers []AnswerDTO `json:"answers" validate:"required,min=1,dive"`
}

type AnswerDTO struct {
	QuestionId uuid.UUID `json:"question_id" validate:"required"`
	Answer     string    `json:"answer" validate:"required"`
}

type GradingResultDTO struct {
	QuestionId uuid.UUID `json:"question_id"`
	Correct    bool      `json:"correct"`
	Score      float64   `json:"score"`
	Feedback   string    `json:"feedback,omitempty"`
}

type SubmitAnswersResponse struct {
	TestId  uuid.UUID          `json:"test_id"`
	Score   float64            `json:"score"` // 0..1 across all graded answers
	Results []GradingResultDTO `json:"results"`
}

type FeedbackReportResponse struct {
	TestId  uuid.UUID `json:"test_id"`
	Score   float64   `json:"score"`
	Report  string    `json:"report"`
	Emailed bool      `json:"emailed"`
}
