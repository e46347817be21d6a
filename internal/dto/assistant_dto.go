package dto

import (
	"ai-examcoach-be/pkg/assistant/rag"
	"ai-examcoach-be/pkg/store"
)

type SendChatRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
	// Optional: atomically switch the session's question context before the
	// message is processed.
	QuestionContext *store.QuestionContextData `json:"question_context,omitempty"`
}

type SendChatResponse struct {
	SessionId string              `json:"session_id"`
	Reply     string              `json:"reply"`
	Workflow  rag.WorkflowInfo    `json:"workflow"`
	Summary   ConversationSummary `json:"summary"`
}

type ConversationSummary struct {
	TotalMessages   int    `json:"total_messages"`
	ToolCalls       int    `json:"tool_calls"`
	LastMessageTime string `json:"last_message_time,omitempty"`
}

type SetQuestionContextRequest struct {
	SessionId       string                    `json:"session_id" validate:"required"`
	QuestionContext store.QuestionContextData `json:"question_context" validate:"required"`
}

type SessionInfoResponse struct {
	SessionId       string                       `json:"session_id"`
	TotalMessages   int                          `json:"total_messages"`
	ToolCalls       int                          `json:"tool_calls"`
	LastMessageTime string                       `json:"last_message_time,omitempty"`
	QuestionContext store.QuestionContextSummary `json:"question_context"`
}

type ChatHistoryEntry struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}
