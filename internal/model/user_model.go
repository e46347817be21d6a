package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is intentionally slim: identity lives in an external auth service and
// reaches us as JWT claims. We persist just enough to own documents and to
// address feedback emails.
type User struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName  string         `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
