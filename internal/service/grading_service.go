package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-examcoach-be/internal/dto"
	"ai-examcoach-be/internal/model"
	"ai-examcoach-be/internal/pkg/mailer"
	"ai-examcoach-be/internal/repository/contract"
	"ai-examcoach-be/pkg/events"
	"ai-examcoach-be/pkg/llm"
	pktNats "ai-examcoach-be/pkg/nats"
	"ai-examcoach-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGradingService interface {
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitAnswersRequest) (*dto.SubmitAnswersResponse, error)
	FeedbackReport(ctx context.Context, userId uuid.UUID, testId uuid.UUID) (*dto.FeedbackReportResponse, error)
}

type gradingService struct {
	testRepo       contract.TestRepository
	questionRepo   contract.QuestionRepository
	gradingRepo    contract.GradingResultRepository
	userRepo       contract.UserRepository
	llmProvider    llm.LLMProvider
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
}

func NewGradingService(
	testRepo contract.TestRepository,
	questionRepo contract.QuestionRepository,
	gradingRepo contract.GradingResultRepository,
	userRepo contract.UserRepository,
	llmProvider llm.LLMProvider,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
) IGradingService {
	return &gradingService{
		testRepo:       testRepo,
		questionRepo:   questionRepo,
		gradingRepo:    gradingRepo,
		userRepo:       userRepo,
		llmProvider:    llmProvider,
		emailService:   emailService,
		eventPublisher: eventPublisher,
	}
}

// Submit grades a full answer sheet. Objective answers are compared after
// normalization; subjective answers go to the model with the question's
// grading criteria. A model failure on one answer scores it zero rather than
// failing the whole sheet.
func (s *gradingService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitAnswersRequest) (*dto.SubmitAnswersResponse, error) {
	test, err := s.testRepo.FindById(ctx, req.TestId)
	if err != nil {
		return nil, err
	}
	if test == nil || test.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, "Test not found")
	}
	if test.Status != "ready" {
		return nil, fiber.NewError(fiber.StatusConflict, "Test is not ready for submission")
	}

	questions, err := s.questionRepo.FindAllByTestId(ctx, req.TestId)
	if err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]*model.Question, len(questions))
	for _, q := range questions {
		byId[q.Id] = q
	}

	results := make([]*model.GradingResult, 0, len(req.Answers))
	resultDTOs := make([]dto.GradingResultDTO, 0, len(req.Answers))
	var total float64

	for _, answer := range req.Answers {
		question, ok := byId[answer.QuestionId]
		if !ok {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Answer references a question outside this test")
		}

		var score float64
		var feedback string

		switch question.QuestionType {
		case string(store.QuestionTypeObjective):
			if normalizeAnswer(answer.Answer) == normalizeAnswer(question.CorrectAnswer) {
				score = 1
			}
		default:
			score, feedback = s.gradeSubjective(ctx, question, answer.Answer)
		}

		total += score
		result := &model.GradingResult{
			Id:         uuid.New(),
			TestId:     req.TestId,
			QuestionId: question.Id,
			UserId:     userId,
			UserAnswer: answer.Answer,
			Correct:    score >= 1,
			Score:      score,
			Feedback:   feedback,
		}
		results = append(results, result)
		resultDTOs = append(resultDTOs, dto.GradingResultDTO{
			QuestionId: question.Id,
			Correct:    result.Correct,
			Score:      score,
			Feedback:   feedback,
		})
	}

	if err := s.gradingRepo.CreateBulk(ctx, results); err != nil {
		return nil, err
	}

	overall := total / float64(len(req.Answers))

	if s.eventPublisher != nil {
		evt := events.NewTestGradedEvent(req.TestId.String(), userId.String(), overall)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish TEST_GRADED event: %v", err)
		}
	}

	return &dto.SubmitAnswersResponse{
		TestId:  req.TestId,
		Score:   overall,
		Results: resultDTOs,
	}, nil
}

// subjectiveGrade is the shape the grading prompt asks for.
type subjectiveGrade struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

func (s *gradingService) gradeSubjective(ctx context.Context, question *model.Question, answer string) (float64, string) {
	prompt := fmt.Sprintf(`You are grading one exam answer.

Question: %s
Grading criteria: %s
Reference answer: %s

Learner's answer: %s

Respond ONLY with JSON: {"score": <0.0-1.0>, "feedback": "<one short paragraph>"}`,
		question.QuestionText, question.GradingCriteria, question.CorrectAnswer, answer)

	raw, err := s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		log.Printf("[ERROR] Subjective grading failed for question %s: %v", question.Id, err)
		return 0, "Automatic grading was unavailable for this answer."
	}

	grade, err := parseSubjectiveGrade(raw)
	if err != nil {
		log.Printf("[ERROR] Could not parse grade for question %s: %v", question.Id, err)
		return 0, "Automatic grading was unavailable for this answer."
	}
	return grade.Score, grade.Feedback
}

func parseSubjectiveGrade(raw string) (*subjectiveGrade, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var grade subjectiveGrade
	if err := json.Unmarshal([]byte(cleaned), &grade); err != nil {
		return nil, err
	}
	if grade.Score < 0 {
		grade.Score = 0
	}
	if grade.Score > 1 {
		grade.Score = 1
	}
	return &grade, nil
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// FeedbackReport summarizes the learner's most recent submission for a test
// and emails it to them when SMTP is configured.
func (s *gradingService) FeedbackReport(ctx context.Context, userId uuid.UUID, testId uuid.UUID) (*dto.FeedbackReportResponse, error) {
	test, err := s.testRepo.FindById(ctx, testId)
	if err != nil {
		return nil, err
	}
	if test == nil || test.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, "Test not found")
	}

	results, err := s.gradingRepo.FindAllByTestAndUser(ctx, testId, userId)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "No graded submission for this test")
	}

	questions, err := s.questionRepo.FindAllByTestId(ctx, testId)
	if err != nil {
		return nil, err
	}
	questionText := make(map[uuid.UUID]string, len(questions))
	for _, q := range questions {
		questionText[q.Id] = q.QuestionText
	}

	var total float64
	var sb strings.Builder
	for _, r := range results {
		total += r.Score
		sb.WriteString(fmt.Sprintf("- Question: %s\n  Answer: %s\n  Score: %.2f\n", questionText[r.QuestionId], r.UserAnswer, r.Score))
		if r.Feedback != "" {
			sb.WriteString(fmt.Sprintf("  Feedback: %s\n", r.Feedback))
		}
	}
	score := total / float64(len(results))

	prompt := fmt.Sprintf(`You are an exam coach. Write a short, encouraging feedback report for a learner.
Overall score: %.0f%%.

Graded answers:
%s

Cover strengths, the weakest topics and 2-3 concrete things to study next. Plain text, under 250 words.`,
		score*100, sb.String())

	report, err := s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.4), llm.WithMaxTokens(600))
	if err != nil {
		log.Printf("[ERROR] Feedback generation failed for test %s: %v", testId, err)
		report = fmt.Sprintf("You scored %.0f%% on %q. Review the per-question feedback and try again.", score*100, test.Title)
	}

	emailed := false
	if s.emailService != nil {
		if user, err := s.userRepo.FindById(ctx, userId); err == nil && user != nil {
			if err := s.emailService.SendFeedbackReport(user.Email, test.Title, report, score); err == nil {
				emailed = true
			}
		}
	}

	return &dto.FeedbackReportResponse{
		TestId:  testId,
		Score:   score,
		Report:  report,
		Emailed: emailed,
	}, nil
}
