package mlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/metrics"
	"github.com/interview-studio/backend/pkg/circuitbreaker"
	"github.com/interview-studio/backend/pkg/logger"
	"github.com/interview-studio/backend/pkg/retry"
)

// ErrUpstream marks failures of the ML pipeline itself: unreachable service,
// non-2xx status, or a payload that does not decode.
var ErrUpstream = errors.New("ml pipeline failure")

type Endpoints struct {
	QuestionGeneration string
	Render             string
	RenderWithText     string
	Selection          string
	Analysis           string
}

type Client struct {
	endpoints   Endpoints
	httpClient  *http.Client
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
	generator   QuestionGenerator
}

// QuestionGenerator produces interview questions from résumé and
// job-description material. The HTTP pipeline implements it; an OpenAI-backed
// generator can be plugged in where no pipeline endpoint is deployed.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req QuestionGenerationRequest) (*QuestionGenerationResponse, error)
}

type Option func(*Client)

// WithQuestionGenerator overrides the question-generation backend while the
// rendering, selection, and analysis calls keep going to the pipeline.
func WithQuestionGenerator(g QuestionGenerator) Option {
	return func(c *Client) {
		c.generator = g
	}
}

func NewClient(endpoints Endpoints, timeout time.Duration, opts ...Option) *Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	cb := circuitbreaker.New("mlp", circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
		MaxProbes:        2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	c := &Client{
		endpoints:   endpoints,
		httpClient:  &http.Client{Timeout: timeout},
		cb:          cb,
		retryConfig: retryConfig,
	}
	for _, opt := range opts {
		opt(c)
	}

	logger.Info("MLP client initialized",
		zap.String("question_generation_url", endpoints.QuestionGeneration),
		zap.String("render_url", endpoints.Render),
	)

	return c
}

func (c *Client) GenerateQuestions(ctx context.Context, req QuestionGenerationRequest) (*QuestionGenerationResponse, error) {
	if c.generator != nil {
		return c.generator.GenerateQuestions(ctx, req)
	}

	var resp QuestionGenerationResponse
	if err := c.post(ctx, "question_generation", c.endpoints.QuestionGeneration, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitRender forwards a rendering task. The returned ack only confirms the
// pipeline accepted the task; the artifact arrives via the callback.
func (c *Client) SubmitRender(ctx context.Context, req RenderRequest) (*RenderAck, error) {
	url := c.endpoints.Render
	if req.Text != "" {
		url = c.endpoints.RenderWithText
	}

	var ack RenderAck
	if err := c.post(ctx, "render", url, req, &ack); err != nil {
		return nil, err
	}
	if ack.Status != "SUCCESS" {
		return nil, fmt.Errorf("%w: render submission rejected: %s", ErrUpstream, ack.Detail)
	}
	return &ack, nil
}

func (c *Client) SelectQuestion(ctx context.Context, req SelectionRequest) (*SelectionResponse, error) {
	if req.QuestionBank == nil {
		req.QuestionBank = []CandidateQuestion{}
	}

	var resp SelectionResponse
	if err := c.post(ctx, "selection", c.endpoints.Selection, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AnalyzeAnswer(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error) {
	var resp AnalysisResponse
	if err := c.post(ctx, "analysis", c.endpoints.Analysis, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, call, url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", call, err)
	}

	started := time.Now()
	err = c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			return c.doPost(ctx, url, body, out)
		})
	})
	metrics.ObserveGatewayCall(call, time.Since(started), err)
	if err != nil {
		logger.Error("MLP call failed",
			zap.String("call", call),
			zap.String("url", url),
			zap.Error(err),
		)
	}
	return err
}

func (c *Client) doPost(ctx context.Context, url string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(data))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrUpstream, err)
	}
	return nil
}
