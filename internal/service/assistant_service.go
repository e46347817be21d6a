package service

import (
	"context"
	"time"

	"ai-examcoach-be/internal/dto"
	"ai-examcoach-be/pkg/assistant"
	"ai-examcoach-be/pkg/usage"
)

type IAssistantService interface {
	SendChat(ctx context.Context, userId string, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	SetQuestionContext(ctx context.Context, req *dto.SetQuestionContextRequest) error
	SessionInfo(ctx context.Context, sessionId string) (*dto.SessionInfoResponse, bool)
	History(ctx context.Context, sessionId string, count int) []dto.ChatHistoryEntry
	EndSession(ctx context.Context, sessionId string)
	SessionCount(ctx context.Context) int
}

type assistantService struct {
	registry *assistant.Registry
	limiter  *usage.Limiter
}

func NewAssistantService(registry *assistant.Registry, limiter *usage.Limiter) IAssistantService {
	return &assistantService{
		registry: registry,
		limiter:  limiter,
	}
}

// SendChat resolves the session, optionally switches its question context,
// then runs the retrieval workflow for one message. The question context
// switch and the message share the request so a learner opening a new
// question never races their own first message.
func (s *assistantService) SendChat(ctx context.Context, userId string, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	if err := s.limiter.Consume(ctx, userId); err != nil {
		return nil, err
	}

	agent := s.registry.GetOrCreate(req.SessionId)

	if req.QuestionContext != nil {
		if err := agent.SetQuestionContext(*req.QuestionContext); err != nil {
			return nil, err
		}
	}

	result := agent.ProcessMessage(ctx, req.Message)

	return &dto.SendChatResponse{
		SessionId: req.SessionId,
		Reply:     result.Response,
		Workflow:  result.Workflow,
		Summary: dto.ConversationSummary{
			TotalMessages:   result.Summary.TotalMessages,
			ToolCalls:       result.Summary.ToolCalls,
			LastMessageTime: result.Summary.LastMessageTime,
		},
	}, nil
}

func (s *assistantService) SetQuestionContext(_ context.Context, req *dto.SetQuestionContextRequest) error {
	agent := s.registry.GetOrCreate(req.SessionId)
	return agent.SetQuestionContext(req.QuestionContext)
}

func (s *assistantService) SessionInfo(_ context.Context, sessionId string) (*dto.SessionInfoResponse, bool) {
	info, ok := s.registry.Info(sessionId)
	if !ok {
		return nil, false
	}
	return &dto.SessionInfoResponse{
		SessionId:       info.SessionId,
		TotalMessages:   info.TotalMessages,
		ToolCalls:       info.ToolCalls,
		LastMessageTime: info.LastMessageTime,
		QuestionContext: info.QuestionContext,
	}, true
}

func (s *assistantService) History(_ context.Context, sessionId string, count int) []dto.ChatHistoryEntry {
	agent, ok := s.registry.Lookup(sessionId)
	if !ok {
		return []dto.ChatHistoryEntry{}
	}

	messages := agent.RecentMessages(count)
	entries := make([]dto.ChatHistoryEntry, len(messages))
	for i, m := range messages {
		entries[i] = dto.ChatHistoryEntry{
			Type:      string(m.Type),
			Content:   m.Content,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		}
	}
	return entries
}

func (s *assistantService) EndSession(_ context.Context, sessionId string) {
	s.registry.Cleanup(sessionId)
}

func (s *assistantService) SessionCount(_ context.Context) int {
	return s.registry.ActiveSessionCount()
}
