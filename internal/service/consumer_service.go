package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-examcoach-be/internal/model"
	"ai-examcoach-be/internal/repository/contract"
	"ai-examcoach-be/internal/websocket"
	"ai-examcoach-be/pkg/embedding"
	"ai-examcoach-be/pkg/events"
	pktNats "ai-examcoach-be/pkg/nats"
	"ai-examcoach-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService is the embed worker: it drains the embed queue, splits each
// document into chunks, embeds them and swaps the document's chunk set.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	documentRepo      contract.DocumentRepository
	chunkRepo         contract.DocumentChunkRepository
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
	hub               *websocket.Hub
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	documentRepo contract.DocumentRepository,
	chunkRepo contract.DocumentChunkRepository,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
	hub *websocket.Hub,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		documentRepo:      documentRepo,
		chunkRepo:         chunkRepo,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		hub:               hub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing embedding for DocumentId: %s", payload.DocumentId)

	document, err := cs.documentRepo.FindById(ctx, payload.DocumentId)
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if document == nil {
		log.Printf("[ERROR] Document not found: %s", payload.DocumentId)
		msg.Ack() // Document deleted? Ack.
		return
	}

	document.Status = "embedding"
	if err := cs.documentRepo.Update(ctx, document); err != nil {
		log.Printf("[ERROR] Failed to mark document embedding: %v", err)
		msg.Nack()
		return
	}

	// ChunkSize: 1500 chars (approx 375 tokens), Overlap: 200 chars
	chunks := utils.SplitText(document.Content, 1500, 200)
	log.Printf("[INFO] Content split into %d chunks", len(chunks))

	embeddings := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of document %s: %v", i, payload.DocumentId, err)
			cs.markFailed(ctx, document)
			msg.Nack()
			return
		}
		embeddings = append(embeddings, res.Embedding.Values)
	}

	log.Printf("[INFO] Replacing embeddings for document %s", payload.DocumentId)
	if err := cs.chunkRepo.DeleteByDocumentId(ctx, document.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks: %v", err)
		msg.Nack()
		return
	}

	if err := cs.chunkRepo.CreateBulk(ctx, document.Id, chunks, embeddings); err != nil {
		log.Printf("[ERROR] Failed to create chunks: %v", err)
		cs.markFailed(ctx, document)
		msg.Nack()
		return
	}

	document.Status = "ready"
	document.ChunkCount = len(chunks)
	if err := cs.documentRepo.Update(ctx, document); err != nil {
		log.Printf("[ERROR] Failed to mark document ready: %v", err)
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.NewDocumentEmbeddedEvent(document.Id.String(), document.Name, len(chunks))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_EMBEDDED event: %v", err)
		}
	}

	if cs.hub != nil {
		cs.hub.Send(document.UserId, websocket.Notification{
			Event:   events.TypeDocumentEmbedded,
			Title:   "Document ready",
			Message: "Your study material is indexed and searchable.",
			Data: map[string]interface{}{
				"document_id": document.Id,
				"chunk_count": len(chunks),
			},
		})
	}

	log.Printf("[SUCCESS] Document processed: %d chunks for DocumentId: %s", len(chunks), payload.DocumentId)
	msg.Ack()
}

func (cs *consumerService) markFailed(ctx context.Context, document *model.Document) {
	document.Status = "failed"
	if err := cs.documentRepo.Update(ctx, document); err != nil {
		log.Printf("[ERROR] Failed to mark document failed: %v", err)
	}
}
