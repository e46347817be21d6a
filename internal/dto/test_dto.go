package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateTestRequest struct {
	DocumentId      uuid.UUID `json:"document_id" validate:"required"`
	Title           string    `json:"title" validate:"required,max=255"`
	QuestionCount   int       `json:"question_count" validate:"required,min=1,max=50"`
	QuestionType    string    `json:"question_type" validate:"required,oneof=objective subjective"`
	DifficultyLevel string    `json:"difficulty_level" validate:"required,oneof=easy normal hard"`
}

type GenerateTestResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"` // generation runs async; watch the websocket
}

type QuestionDTO struct {
	Id              uuid.UUID `json:"id"`
	QuestionType    string    `json:"question_type"`
	DifficultyLevel string    `json:"difficulty_level"`
	QuestionText    string    `json:"question_text"`
	Options         []string  `json:"options,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	Position        int       `json:"position"`
}

type ShowTestResponse struct {
	Id        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	Status    string        `json:"status"`
	Questions []QuestionDTO `json:"questions"`
	CreatedAt time.Time     `json:"created_at"`
}
