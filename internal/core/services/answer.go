package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/olivestory-corp/docchat/internal/core/domain"
	"github.com/olivestory-corp/docchat/internal/core/ports/driven"
	"github.com/olivestory-corp/docchat/internal/core/ports/driving"
	"github.com/olivestory-corp/docchat/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.Answerer = (*AnswerService)(nil)

// systemPrompt instructs the model to answer strictly from the
// supplied document excerpts.
const systemPrompt = `당신은 반드시 주어진 문서 내용에 기반하여 사용자의 질문에 답변하는 전문가입니다. 문서에 명시된 정보 외의 추가 설명이나 추측을 하지 말고, 오직 문서 내에 기재된 사실만을 활용하십시오. 만약 문서에 해당 정보가 명확히 나타나지 않는다면, "문서에 해당 정보가 명시되어 있지 않습니다."라고 답변하세요.

다음은 관련된 문서 내용입니다:

`

// DefaultTemperature is the sampling temperature used for answers.
const DefaultTemperature = 0.7

// AnswerService answers questions about a user's document by
// retrieving the most relevant chunks and streaming a grounded
// completion from the language model.
type AnswerService struct {
	retriever   driving.Retriever
	llm         driven.LLMService
	topK        int
	temperature float64
}

// AnswerOption configures an AnswerService.
type AnswerOption func(*AnswerService)

// WithTopK sets how many chunks are retrieved as context.
func WithTopK(k int) AnswerOption {
	return func(s *AnswerService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) AnswerOption {
	return func(s *AnswerService) {
		if t >= 0 {
			s.temperature = t
		}
	}
}

// NewAnswerService creates a new answering service.
func NewAnswerService(retriever driving.Retriever, llm driven.LLMService, opts ...AnswerOption) *AnswerService {
	s := &AnswerService{
		retriever:   retriever,
		llm:         llm,
		topK:        DefaultTopK,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask retrieves context for the question and starts a streaming
// completion. The source references are returned up front so callers
// can present them before the first token arrives. When no chunks are
// stored for the user, Ask fails with domain.ErrNoRelevantDocuments
// instead of letting the model answer from nothing.
func (s *AnswerService) Ask(ctx context.Context, userID, question string) ([]domain.SourceDocumentRef, <-chan string, <-chan error, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, nil, nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	scored, err := s.retriever.Retrieve(ctx, userID, question, s.topK)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("retrieve context: %w", err)
	}
	if len(scored) == 0 {
		return nil, nil, nil, fmt.Errorf("user %s: %w", userID, domain.ErrNoRelevantDocuments)
	}

	logger.Section("Answer")
	logger.Debug("Question answered from %d chunks", len(scored))

	refs := make([]domain.SourceDocumentRef, len(scored))
	for i, chunk := range scored {
		refs[i] = chunk.Ref(i + 1)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPrompt + formatContext(scored)},
		{Role: "user", Content: question},
	}

	tokens, errs := s.llm.ChatStream(ctx, messages, driven.ChatOptions{
		Temperature: s.temperature,
	})
	return refs, tokens, errs, nil
}

// formatContext renders the retrieved chunks as numbered document
// blocks for the system prompt.
func formatContext(scored []domain.ScoredChunk) string {
	blocks := make([]string, len(scored))
	for i, chunk := range scored {
		blocks[i] = fmt.Sprintf("\n[문서 %d]\n페이지: %d\n출처: %s\n\n내용:\n%s\n",
			i+1, chunk.Metadata.Page, chunk.Metadata.Source, chunk.Content)
	}
	return strings.Join(blocks, "\n\n")
}
