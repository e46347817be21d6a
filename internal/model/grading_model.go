package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GradingResult struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TestId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	QuestionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserAnswer string         `gorm:"type:text"`
	Correct    bool           `gorm:"default:false"`
	Score      float64        `gorm:"default:0"` // 0..1, partial credit for subjective answers
	Feedback   string         `gorm:"type:text"` // model-written justification, empty for objective
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (GradingResult) TableName() string {
	return "grading_results"
}
