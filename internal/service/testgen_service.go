package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"ai-examcoach-be/internal/dto"
	"ai-examcoach-be/internal/model"
	"ai-examcoach-be/internal/repository/contract"
	"ai-examcoach-be/internal/websocket"
	"ai-examcoach-be/pkg/events"
	"ai-examcoach-be/pkg/llm"
	pktNats "ai-examcoach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PublishGenerateTestMessage is the test-generation queue payload.
type PublishGenerateTestMessage struct {
	TestId uuid.UUID `json:"test_id"`
}

type ITestGenService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateTestRequest) (*dto.GenerateTestResponse, error)
	Show(ctx context.Context, userId uuid.UUID, testId uuid.UUID) (*dto.ShowTestResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowTestResponse, error)
	Consume(ctx context.Context) error
}

type testGenService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	testRepo       contract.TestRepository
	questionRepo   contract.QuestionRepository
	documentRepo   contract.DocumentRepository
	llmProvider    llm.LLMProvider
	eventPublisher *pktNats.Publisher
	hub            *websocket.Hub
	// request params are held alongside the pending test so the worker can
	// rebuild the prompt without a second table
	mu      sync.Mutex
	pending map[uuid.UUID]*dto.GenerateTestRequest
}

func NewTestGenService(
	pubSub *gochannel.GoChannel,
	topicName string,
	testRepo contract.TestRepository,
	questionRepo contract.QuestionRepository,
	documentRepo contract.DocumentRepository,
	llmProvider llm.LLMProvider,
	eventPublisher *pktNats.Publisher,
	hub *websocket.Hub,
) ITestGenService {
	return &testGenService{
		pubSub:         pubSub,
		topicName:      topicName,
		testRepo:       testRepo,
		questionRepo:   questionRepo,
		documentRepo:   documentRepo,
		llmProvider:    llmProvider,
		eventPublisher: eventPublisher,
		hub:            hub,
		pending:        make(map[uuid.UUID]*dto.GenerateTestRequest),
	}
}

// Generate records the test in 'generating' state and queues the actual LLM
// work. Clients watch the websocket for the TEST_GENERATED notification.
func (s *testGenService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateTestRequest) (*dto.GenerateTestResponse, error) {
	document, err := s.documentRepo.FindById(ctx, req.DocumentId)
	if err != nil {
		return nil, err
	}
	if document == nil || document.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, "Document not found")
	}
	if document.Status != "ready" {
		return nil, fiber.NewError(fiber.StatusConflict, "Document is still being indexed")
	}

	test := model.Test{
		Id:         uuid.New(),
		Title:      req.Title,
		DocumentId: req.DocumentId,
		UserId:     userId,
		Status:     "generating",
	}
	if err := s.testRepo.Create(ctx, &test); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pending[test.Id] = req
	s.mu.Unlock()

	msgJson, err := json.Marshal(PublishGenerateTestMessage{TestId: test.Id})
	if err != nil {
		return nil, err
	}
	msg := message.NewMessage(test.Id.String(), msgJson)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		return nil, err
	}

	return &dto.GenerateTestResponse{
		Id:     test.Id,
		Status: test.Status,
	}, nil
}

func (s *testGenService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *testGenService) processMessage(ctx context.Context, msg *message.Message) {
	var payload PublishGenerateTestMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal test generation message: %v", err)
		msg.Ack()
		return
	}

	test, err := s.testRepo.FindById(ctx, payload.TestId)
	if err != nil {
		log.Printf("[ERROR] Failed to get test %s: %v", payload.TestId, err)
		msg.Nack()
		return
	}
	if test == nil {
		msg.Ack()
		return
	}

	s.mu.Lock()
	req, ok := s.pending[test.Id]
	delete(s.pending, test.Id)
	s.mu.Unlock()
	if !ok {
		log.Printf("[ERROR] No pending request for test %s", test.Id)
		s.markTestFailed(ctx, test)
		msg.Ack()
		return
	}

	document, err := s.documentRepo.FindById(ctx, test.DocumentId)
	if err != nil || document == nil {
		log.Printf("[ERROR] Failed to get document for test %s: %v", test.Id, err)
		s.markTestFailed(ctx, test)
		msg.Ack()
		return
	}

	prompt := buildGenerationPrompt(document.Content, req)

	raw, err := s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.7))
	if err != nil {
		log.Printf("[ERROR] Question generation failed for test %s: %v", test.Id, err)
		s.markTestFailed(ctx, test)
		msg.Ack()
		return
	}

	generated, err := parseGeneratedQuestions(raw)
	if err != nil {
		log.Printf("[ERROR] Could not parse generated questions for test %s: %v", test.Id, err)
		s.markTestFailed(ctx, test)
		msg.Ack()
		return
	}

	questions := make([]*model.Question, 0, len(generated))
	for i, g := range generated {
		options, _ := json.Marshal(g.Options)
		tags, _ := json.Marshal(g.Tags)
		questions = append(questions, &model.Question{
			Id:              uuid.New(),
			TestId:          test.Id,
			QuestionType:    req.QuestionType,
			DifficultyLevel: req.DifficultyLevel,
			QuestionText:    g.QuestionText,
			Options:         datatypes.JSON(options),
			CorrectAnswer:   g.CorrectAnswer,
			Explanation:     g.Explanation,
			GradingCriteria: g.GradingCriteria,
			Tags:            datatypes.JSON(tags),
			Position:        i,
		})
	}

	if err := s.questionRepo.CreateBulk(ctx, questions); err != nil {
		log.Printf("[ERROR] Failed to store questions for test %s: %v", test.Id, err)
		s.markTestFailed(ctx, test)
		msg.Nack()
		return
	}

	test.Status = "ready"
	if err := s.testRepo.Update(ctx, test); err != nil {
		log.Printf("[ERROR] Failed to mark test ready: %v", err)
		msg.Nack()
		return
	}

	if s.eventPublisher != nil {
		evt := events.NewTestGeneratedEvent(test.Id.String(), test.DocumentId.String(), len(questions))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish TEST_GENERATED event: %v", err)
		}
	}

	if s.hub != nil {
		s.hub.Send(test.UserId, websocket.Notification{
			Event:   events.TypeTestGenerated,
			Title:   "Test ready",
			Message: fmt.Sprintf("%q now has %d questions.", test.Title, len(questions)),
			Data: map[string]interface{}{
				"test_id":        test.Id,
				"question_count": len(questions),
			},
		})
	}

	log.Printf("[SUCCESS] Generated %d questions for test %s", len(questions), test.Id)
	msg.Ack()
}

func (s *testGenService) markTestFailed(ctx context.Context, test *model.Test) {
	test.Status = "failed"
	if err := s.testRepo.Update(ctx, test); err != nil {
		log.Printf("[ERROR] Failed to mark test failed: %v", err)
	}
}

func (s *testGenService) Show(ctx context.Context, userId uuid.UUID, testId uuid.UUID) (*dto.ShowTestResponse, error) {
	test, err := s.testRepo.FindById(ctx, testId)
	if err != nil {
		return nil, err
	}
	if test == nil || test.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, "Test not found")
	}

	questions, err := s.questionRepo.FindAllByTestId(ctx, testId)
	if err != nil {
		return nil, err
	}

	return toShowTestResponse(test, questions), nil
}

func (s *testGenService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowTestResponse, error) {
	tests, err := s.testRepo.FindAllByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowTestResponse, len(tests))
	for i, t := range tests {
		res[i] = toShowTestResponse(t, nil)
	}
	return res, nil
}

func toShowTestResponse(t *model.Test, questions []*model.Question) *dto.ShowTestResponse {
	qs := make([]dto.QuestionDTO, len(questions))
	for i, q := range questions {
		var options, tags []string
		_ = json.Unmarshal(q.Options, &options)
		_ = json.Unmarshal(q.Tags, &tags)
		qs[i] = dto.QuestionDTO{
			Id:              q.Id,
			QuestionType:    q.QuestionType,
			DifficultyLevel: q.DifficultyLevel,
			QuestionText:    q.QuestionText,
			Options:         options,
			Tags:            tags,
			Position:        q.Position,
		}
	}
	return &dto.ShowTestResponse{
		Id:        t.Id,
		Title:     t.Title,
		Status:    t.Status,
		Questions: qs,
		CreatedAt: t.CreatedAt,
	}
}

// generatedQuestion is the shape the model is instructed to emit.
type generatedQuestion struct {
	QuestionText    string   `json:"question_text"`
	Options         []string `json:"options,omitempty"`
	CorrectAnswer   string   `json:"correct_answer"`
	Explanation     string   `json:"explanation"`
	GradingCriteria string   `json:"grading_criteria,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

func buildGenerationPrompt(content string, req *dto.GenerateTestRequest) string {
	var sb strings.Builder
	sb.WriteString("You are an exam author. Based on the study material below, write ")
	sb.WriteString(fmt.Sprintf("%d %s questions at %s difficulty.\n\n", req.QuestionCount, req.QuestionType, req.DifficultyLevel))
	if req.QuestionType == "objective" {
		sb.WriteString("Each question must have exactly 4 options and one correct answer that matches an option verbatim.\n")
	} else {
		sb.WriteString("Each question must include grading_criteria describing what a full-credit answer covers.\n")
	}
	sb.WriteString("Respond ONLY with a JSON array. Each element: {\"question_text\", \"options\", \"correct_answer\", \"explanation\", \"grading_criteria\", \"tags\"}.\n\n")
	sb.WriteString("Study material:\n")
	sb.WriteString(content)
	return sb.String()
}

// parseGeneratedQuestions tolerates models that wrap their JSON in markdown
// code fences.
func parseGeneratedQuestions(raw string) ([]generatedQuestion, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var questions []generatedQuestion
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("model output is not a question array: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}
	for i, q := range questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			return nil, fmt.Errorf("question %d has empty text", i)
		}
	}
	return questions, nil
}
