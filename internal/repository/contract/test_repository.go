package contract

import (
	"context"

	"ai-examcoach-be/internal/model"

	"github.com/google/uuid"
)

type TestRepository interface {
	Create(ctx context.Context, test *model.Test) error
	Update(ctx context.Context, test *model.Test) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*model.Test, error)
	FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*model.Test, error)
}

type QuestionRepository interface {
	CreateBulk(ctx context.Context, questions []*model.Question) error
	FindById(ctx context.Context, id uuid.UUID) (*model.Question, error)
	FindAllByTestId(ctx context.Context, testId uuid.UUID) ([]*model.Question, error)
	DeleteByTestId(ctx context.Context, testId uuid.UUID) error
}
