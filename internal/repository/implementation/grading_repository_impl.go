package implementation

import (
	"context"

	"ai-examcoach-be/internal/model"
	"ai-examcoach-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GradingResultRepositoryImpl struct {
	db *gorm.DB
}

func NewGradingResultRepository(db *gorm.DB) contract.GradingResultRepository {
	return &GradingResultRepositoryImpl{db: db}
}

func (r *GradingResultRepositoryImpl) Create(ctx context.Context, result *model.GradingResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *GradingResultRepositoryImpl) CreateBulk(ctx context.Context, results []*model.GradingResult) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(results).Error
}

func (r *GradingResultRepositoryImpl) FindAllByTestAndUser(ctx context.Context, testId, userId uuid.UUID) ([]*model.GradingResult, error) {
	var models []*model.GradingResult
	err := r.db.WithContext(ctx).
		Where("test_id = ? AND user_id = ?", testId, userId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return models, nil
}
