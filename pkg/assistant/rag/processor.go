package rag

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"ai-examcoach-be/pkg/assistant/memory"
	"ai-examcoach-be/pkg/assistant/search"
	"ai-examcoach-be/pkg/llm"
	"ai-examcoach-be/pkg/store"
)

const (
	DefaultSimilarityThreshold = 0.7

	// Low temperature biases toward grounded, consistent answers.
	responseTemperature = 0.3

	vectorSearchLimit  = 5
	webSearchLimit     = 3
	vectorContextLimit = 3
)

// User-facing fallback replies. Internal failures never leave the router as
// errors; they terminate in one of these fixed strings.
const (
	NoResultsReply = "Sorry, I could not find any study material related to your question. " +
		"I can still help based on the question and answer themselves - let me know which part you would like explained in more detail."

	GenerationFailureReply = "Sorry, something went wrong while preparing a response. Please try again."
)

// Stage identifies which branch of the routing decision produced the reply.
type Stage string

const (
	StageVectorResponse Stage = "vector_response"
	StageWebFallback    Stage = "web_fallback"
)

// Final outcomes recorded in WorkflowInfo.
const (
	ActionVectorResponseGenerated = "vector_response_generated"
	ActionWebResponseGenerated    = "web_response_generated"
	ActionNoResultsFound          = "no_results_found"
	ActionGenerationFailed        = "generation_failed"
)

// WorkflowInfo is the diagnostic record of one routing decision. It keeps
// "provider failed" and "provider returned empty" distinguishable even though
// both degrade to the same user-visible behavior.
type WorkflowInfo struct {
	Stage             Stage   `json:"stage"`
	Query             string  `json:"query"`
	VectorUnavailable bool    `json:"vector_unavailable,omitempty"` // no question context bound
	VectorFailed      bool    `json:"vector_failed,omitempty"`
	VectorResultCount int     `json:"vector_result_count"`
	MatchedCount      int     `json:"matched_count"`
	ThresholdMet      bool    `json:"threshold_met"`
	AvgSimilarity     float64 `json:"avg_similarity,omitempty"`
	WebFailed         bool    `json:"web_failed,omitempty"`
	WebResultCount    int     `json:"web_result_count,omitempty"`
	FinalAction       string  `json:"final_action"`
}

// Processor is the retrieval router: vector search, threshold check, web
// fallback, then response generation against the retrieved context. It is
// stateless across turns; each call returns its own WorkflowInfo.
type Processor struct {
	vector              search.Provider // nil when the session has no document bound
	web                 search.Provider
	llmProvider         llm.LLMProvider
	similarityThreshold float64
	logger              *log.Logger
}

func NewProcessor(
	vector search.Provider,
	web search.Provider,
	llmProvider llm.LLMProvider,
	similarityThreshold float64,
	logger *log.Logger,
) *Processor {
	if similarityThreshold <= 0 {
		similarityThreshold = DefaultSimilarityThreshold
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Processor{
		vector:              vector,
		web:                 web,
		llmProvider:         llmProvider,
		similarityThreshold: similarityThreshold,
		logger:              logger,
	}
}

// Respond runs the full decision procedure for one user query and returns the
// assistant reply plus the routing record. Tool activity is bracketed into mem.
func (p *Processor) Respond(ctx context.Context, query, systemPrompt string, mem *memory.Manager) (string, WorkflowInfo) {
	wf := WorkflowInfo{Query: query}

	matched := p.infoStage(ctx, query, mem, &wf)

	if len(matched) > 0 {
		wf.Stage = StageVectorResponse
		reply, err := p.vectorResponse(ctx, query, systemPrompt, matched)
		if err != nil {
			p.logger.Printf("[ERROR] LLM generation failed on vector path: %v", err)
			wf.FinalAction = ActionGenerationFailed
			return GenerationFailureReply, wf
		}
		wf.FinalAction = ActionVectorResponseGenerated
		return reply, wf
	}

	wf.Stage = StageWebFallback
	return p.webFallback(ctx, query, systemPrompt, mem, &wf)
}

// infoStage issues the vector query and applies the similarity threshold.
// Provider failure and a missing document binding both degrade to zero
// results, recorded distinctly in wf.
func (p *Processor) infoStage(ctx context.Context, query string, mem *memory.Manager, wf *WorkflowInfo) []store.SearchResult {
	if p.vector == nil {
		p.logger.Printf("[INFO] No document bound to session, skipping vector search")
		wf.VectorUnavailable = true
		return nil
	}

	mem.Add(store.MessageTypeToolCall,
		fmt.Sprintf("Searching study material: %s", query),
		map[string]interface{}{"tool": "vector_search", "query": query})

	results, err := p.vector.Search(ctx, query, vectorSearchLimit)
	if err != nil {
		p.logger.Printf("[WARN] Vector search failed, degrading to zero results: %v", err)
		wf.VectorFailed = true
		results = nil
	}

	mem.Add(store.MessageTypeToolResult,
		fmt.Sprintf("Study material search returned %d result(s)", len(results)),
		map[string]interface{}{"tool": "vector_search", "results_count": len(results)})

	wf.VectorResultCount = len(results)

	// Keep the provider's own ordering; no re-sort.
	var matched []store.SearchResult
	var scoreSum float64
	for _, r := range results {
		if r.Score >= p.similarityThreshold {
			matched = append(matched, r)
			scoreSum += r.Score
		}
	}

	wf.MatchedCount = len(matched)
	if len(matched) > 0 {
		wf.ThresholdMet = true
		wf.AvgSimilarity = scoreSum / float64(len(matched))
	}
	return matched
}

// vectorResponse grounds the reply in the top filtered hits. Anything beyond
// the first three is dropped, no summarization attempted.
func (p *Processor) vectorResponse(ctx context.Context, query, systemPrompt string, matched []store.SearchResult) (string, error) {
	if len(matched) > vectorContextLimit {
		matched = matched[:vectorContextLimit]
	}

	blocks := make([]string, 0, len(matched))
	for i, r := range matched {
		blocks = append(blocks, fmt.Sprintf("[Study material %d] (relevance: %.2f)\n%s", i+1, r.Score, r.Content))
	}

	prompt := fmt.Sprintf(`%s

Relevant study material:
%s

Answer the learner's question based on the study material above. Keep the explanation accurate and easy to follow.`,
		systemPrompt, strings.Join(blocks, "\n\n"))

	return p.generate(ctx, prompt, query)
}

// webFallback consults the web provider. Zero results short-circuit to the
// fixed apology without an LLM call.
func (p *Processor) webFallback(ctx context.Context, query, systemPrompt string, mem *memory.Manager, wf *WorkflowInfo) (string, WorkflowInfo) {
	mem.Add(store.MessageTypeToolCall,
		fmt.Sprintf("Searching online material: %s", query),
		map[string]interface{}{"tool": "web_search", "query": query})

	results, err := p.web.Search(ctx, query, webSearchLimit)
	if err != nil {
		p.logger.Printf("[WARN] Web search failed, degrading to zero results: %v", err)
		wf.WebFailed = true
		results = nil
	}

	mem.Add(store.MessageTypeToolResult,
		fmt.Sprintf("Online search returned %d result(s)", len(results)),
		map[string]interface{}{"tool": "web_search", "results_count": len(results)})

	wf.WebResultCount = len(results)

	if len(results) == 0 {
		wf.FinalAction = ActionNoResultsFound
		return NoResultsReply, *wf
	}

	blocks := make([]string, 0, len(results))
	for i, r := range results {
		blocks = append(blocks, fmt.Sprintf("[Online source %d]\n%s", i+1, r.Content))
	}

	prompt := fmt.Sprintf(`%s

Online material:
%s

Answer the learner's question based on the online material above. Name the sources you used and stick to what they actually say.`,
		systemPrompt, strings.Join(blocks, "\n\n"))

	reply, err := p.generate(ctx, prompt, query)
	if err != nil {
		p.logger.Printf("[ERROR] LLM generation failed on web path: %v", err)
		wf.FinalAction = ActionGenerationFailed
		return GenerationFailureReply, *wf
	}

	wf.FinalAction = ActionWebResponseGenerated
	return reply, *wf
}

func (p *Processor) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, llm.WithTemperature(responseTemperature))
}
