package contract

import (
	"context"

	"ai-examcoach-be/internal/model"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *model.Document) error
	Update(ctx context.Context, document *model.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*model.Document, error)
	FindByName(ctx context.Context, name string) (*model.Document, error)
	FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*model.Document, error)
}
