package implementation

import (
	"context"
	"errors"

	"ai-examcoach-be/internal/model"
	"ai-examcoach-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TestRepositoryImpl struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) contract.TestRepository {
	return &TestRepositoryImpl{db: db}
}

func (r *TestRepositoryImpl) Create(ctx context.Context, test *model.Test) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *TestRepositoryImpl) Update(ctx context.Context, test *model.Test) error {
	return r.db.WithContext(ctx).Save(test).Error
}

func (r *TestRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Test{}, id).Error
}

func (r *TestRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	var m model.Test
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *TestRepositoryImpl) FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*model.Test, error) {
	var models []*model.Test
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return models, nil
}

type QuestionRepositoryImpl struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) contract.QuestionRepository {
	return &QuestionRepositoryImpl{db: db}
}

func (r *QuestionRepositoryImpl) CreateBulk(ctx context.Context, questions []*model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(questions).Error
}

func (r *QuestionRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	var m model.Question
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *QuestionRepositoryImpl) FindAllByTestId(ctx context.Context, testId uuid.UUID) ([]*model.Question, error) {
	var models []*model.Question
	err := r.db.WithContext(ctx).
		Where("test_id = ?", testId).
		Order("position ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return models, nil
}

func (r *QuestionRepositoryImpl) DeleteByTestId(ctx context.Context, testId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("test_id = ?", testId).Delete(&model.Question{}).Error
}
