package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Test struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title      string         `gorm:"type:varchar(255);not null"`
	DocumentId uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status     string         `gorm:"type:varchar(50);not null;default:'generating'"` // generating | ready | failed
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Test) TableName() string {
	return "tests"
}

type Question struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TestId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	QuestionType    string         `gorm:"type:varchar(50);not null"` // objective | subjective
	DifficultyLevel string         `gorm:"type:varchar(50);not null"` // easy | normal | hard
	QuestionText    string         `gorm:"type:text;not null"`
	Options         datatypes.JSON `gorm:"type:jsonb"` // objective questions only
	CorrectAnswer   string         `gorm:"type:text"`
	Explanation     string         `gorm:"type:text"`
	GradingCriteria string         `gorm:"type:text"` // subjective questions only
	Tags            datatypes.JSON `gorm:"type:jsonb"`
	Position        int            `gorm:"default:0"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}
