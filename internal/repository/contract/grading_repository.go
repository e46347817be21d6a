package contract

import (
	"context"

	"ai-examcoach-be/internal/model"

	"github.com/google/uuid"
)

type GradingResultRepository interface {
	Create(ctx context.Context, result *model.GradingResult) error
	CreateBulk(ctx context.Context, results []*model.GradingResult) error
	FindAllByTestAndUser(ctx context.Context, testId, userId uuid.UUID) ([]*model.GradingResult, error)
}
