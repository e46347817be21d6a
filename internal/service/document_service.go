package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-examcoach-be/internal/dto"
	"ai-examcoach-be/internal/model"
	"ai-examcoach-be/internal/repository/contract"
	"ai-examcoach-be/pkg/events"
	pktNats "ai-examcoach-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PublishEmbedDocumentMessage is the embed-queue payload.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type IDocumentService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowDocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type documentService struct {
	documentRepo     contract.DocumentRepository
	chunkRepo        contract.DocumentChunkRepository
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewDocumentService(
	documentRepo contract.DocumentRepository,
	chunkRepo contract.DocumentChunkRepository,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IDocumentService {
	return &documentService{
		documentRepo:     documentRepo,
		chunkRepo:        chunkRepo,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

// Create stores the study material and queues it for chunking + embedding.
// The document is not searchable until the embed worker marks it ready.
func (s *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	existing, err := s.documentRepo.FindByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fiber.NewError(fiber.StatusConflict, "A document with this name already exists")
	}

	document := model.Document{
		Id:      uuid.New(),
		Name:    req.Name,
		Content: req.Content,
		UserId:  userId,
		Status:  "pending",
	}

	if err := s.documentRepo.Create(ctx, &document); err != nil {
		return nil, err
	}

	msgPayload := PublishEmbedDocumentMessage{DocumentId: document.Id}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.CreateDocumentResponse{
		Id:     document.Id,
		Status: document.Status,
	}, nil
}

func (s *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	document, err := s.documentRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if document == nil || document.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, "Document not found")
	}

	return toShowDocumentResponse(document), nil
}

func (s *documentService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowDocumentResponse, error) {
	documents, err := s.documentRepo.FindAllByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowDocumentResponse, len(documents))
	for i, d := range documents {
		res[i] = toShowDocumentResponse(d)
	}
	return res, nil
}

func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	document, err := s.documentRepo.FindById(ctx, id)
	if err != nil {
		return err
	}
	if document == nil || document.UserId != userId {
		return fiber.NewError(fiber.StatusNotFound, "Document not found")
	}

	if err := s.chunkRepo.DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "DOCUMENT_DELETED",
			Data: map[string]interface{}{
				"document_id": id,
				"user_id":     userId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish DOCUMENT_DELETED event: %v\n", err)
		}
	}

	return nil
}

func toShowDocumentResponse(d *model.Document) *dto.ShowDocumentResponse {
	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}
	return &dto.ShowDocumentResponse{
		Id:         d.Id,
		Name:       d.Name,
		Status:     d.Status,
		ChunkCount: d.ChunkCount,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}
