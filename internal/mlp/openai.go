package mlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/interview-studio/backend/pkg/logger"
)

const questionSystemPrompt = `You are an interview question writer. Given job description fragments, produce interview questions as a JSON object:
{"questions":[{"question":"...","ground_truths":["...","..."],"topic":1}]}
Each question gets 2-4 reference answers in ground_truths and an integer topic classifier starting at 1. Return only JSON.`

// OpenAIGenerator produces interview questions through the OpenAI API. It
// stands in for the pipeline's question-generation stage in deployments that
// only run the rendering and analysis services.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenAIGenerator(apiKey, model string, temperature float32, maxTokens int) *OpenAIGenerator {
	logger.Info("OpenAI question generator initialized", zap.String("model", model))
	return &OpenAIGenerator{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (g *OpenAIGenerator) GenerateQuestions(ctx context.Context, req QuestionGenerationRequest) (*QuestionGenerationResponse, error) {
	userPrompt := "Job description fragments:\n- " + strings.Join(req.JDTexts, "\n- ")

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: questionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai completion: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai returned no choices", ErrUpstream)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var parsed struct {
		Questions []GeneratedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed question payload: %v", ErrUpstream, err)
	}
	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions generated", ErrUpstream)
	}

	return &QuestionGenerationResponse{
		TaskID:    req.TaskID,
		Questions: parsed.Questions,
	}, nil
}
