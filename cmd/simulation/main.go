package main

import (
	"context"
	"fmt"
	"time"

	"ai-examcoach-be/internal/repository/memory"
	"ai-examcoach-be/pkg/assistant"
	"ai-examcoach-be/pkg/assistant/search"
	"ai-examcoach-be/pkg/llm"
	"ai-examcoach-be/pkg/store"

	"github.com/fatih/color"
)

// Offline walkthrough of the retrieval workflow with scripted providers.
// Useful for demoing the vector -> threshold -> web fallback routing without a
// database or any API keys.

type scriptedSearch struct {
	name    string
	results []store.SearchResult
}

func (s *scriptedSearch) Search(_ context.Context, query string, _ int) ([]store.SearchResult, error) {
	color.New(color.FgYellow).Printf("  [%s] query: %q -> %d results\n", s.name, query, len(s.results))
	return s.results, nil
}

type scriptedLLM struct{}

func (s *scriptedLLM) Chat(_ context.Context, messages []llm.Message, _ ...llm.Option) (string, error) {
	return fmt.Sprintf("(scripted answer based on %d prompt messages)", len(messages)), nil
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func main() {
	header := color.New(color.FgCyan, color.Bold)
	user := color.New(color.FgGreen)
	ai := color.New(color.FgMagenta)

	header.Println("=== Exam Coach Assistant Simulation ===")

	vector := &scriptedSearch{name: "vector", results: []store.SearchResult{
		{Content: "Goroutines are multiplexed onto OS threads by the runtime scheduler.", Source: store.SourceVectorDB, Score: 0.91},
		{Content: "Channels synchronize goroutines and carry typed values.", Source: store.SourceVectorDB, Score: 0.84},
		{Content: "The select statement waits on multiple channel operations.", Source: store.SourceVectorDB, Score: 0.42},
	}}
	web := &scriptedSearch{name: "web", results: []store.SearchResult{
		{Content: "Go by Example: Worker Pools", Source: store.SourceWebSearch, Score: 0.8, Metadata: map[string]interface{}{"url": "https://gobyexample.com/worker-pools"}},
	}}

	registry := assistant.NewRegistry(memory.NewSessionRepository(), assistant.AgentDeps{
		LLM: &scriptedLLM{},
		Web: web,
		VectorFactory: func(documentName string) search.Provider {
			color.New(color.FgYellow).Printf("  [factory] binding vector search to %q\n", documentName)
			return vector
		},
		SimilarityThreshold: 0.7,
		MaxContextMessages:  20,
	})

	agent := registry.GetOrCreate("simulation-session")

	header.Println("\n--- Turn 1: no question context, web fallback expected ---")
	user.Println("USER: What does a worker pool look like in Go?")
	runTurn(agent, ai, "What does a worker pool look like in Go?")

	header.Println("\n--- Binding question context ---")
	if err := agent.SetQuestionContext(store.QuestionContextData{
		TestId:          "demo-test",
		QuestionId:      "demo-q1",
		QuestionType:    "objective",
		DifficultyLevel: "normal",
		QuestionText:    "Which statement about goroutines is true?",
		CorrectAnswer:   "They are multiplexed onto OS threads.",
		DocumentName:    "go-concurrency.pdf",
	}); err != nil {
		color.Red("Failed to set question context: %v", err)
		return
	}

	header.Println("\n--- Turn 2: vector path expected ---")
	user.Println("USER: Why is my answer about goroutines wrong?")
	runTurn(agent, ai, "Why is my answer about goroutines wrong?")

	info, _ := registry.Info("simulation-session")
	header.Println("\n--- Session summary ---")
	fmt.Printf("messages=%d tool_calls=%d last=%s\n", info.TotalMessages, info.ToolCalls, info.LastMessageTime)
}

func runTurn(agent *assistant.Agent, ai *color.Color, message string) {
	start := time.Now()
	result := agent.ProcessMessage(context.Background(), message)
	elapsed := time.Since(start)

	ai.Printf("AI (%v): %s\n", elapsed.Round(time.Millisecond), result.Response)
	fmt.Printf("  stage=%s action=%s matched=%d avg_similarity=%.2f\n",
		result.Workflow.Stage, result.Workflow.FinalAction, result.Workflow.MatchedCount, result.Workflow.AvgSimilarity)
}
