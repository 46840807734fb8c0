package selection

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/metrics"
	"github.com/interview-studio/backend/internal/mlp"
	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/internal/storage/sqlite"
	"github.com/interview-studio/backend/pkg/logger"
)

// ErrEmptyCandidateSet is returned when no eligible question remains for the
// session/interviewer pair. The pipeline still receives the empty bank for
// audit, but its reply for that case is undefined and never trusted.
var ErrEmptyCandidateSet = errors.New("no eligible questions for selection")

type Gateway interface {
	SelectQuestion(ctx context.Context, req mlp.SelectionRequest) (*mlp.SelectionResponse, error)
}

// Engine scopes the candidate set for a live session and delegates the actual
// pick to the ML pipeline. Eligibility is transitive: a question belongs to
// the interviewer whose generation rendered its avatar.
type Engine struct {
	db      *sqlite.Client
	gateway Gateway
}

func NewEngine(db *sqlite.Client, gateway Gateway) *Engine {
	return &Engine{db: db, gateway: gateway}
}

type SelectRequest struct {
	SessionID     string
	InterviewerID string
	// AskedQuestionID is the question just asked; empty on the first turn.
	AskedQuestionID string
	IsAnswered      bool
}

// SelectNext marks the just-asked question used, builds the eligible
// candidate set, and asks the pipeline to choose the next question.
func (e *Engine) SelectNext(ctx context.Context, req SelectRequest) (*models.Question, error) {
	var asked mlp.AskedQuestion
	taskID := req.SessionID

	if req.AskedQuestionID != "" {
		used := true
		answered := req.IsAnswered
		updated, err := e.db.PatchQuestion(req.AskedQuestionID, models.QuestionPatch{
			IsUsed:     &used,
			IsAnswered: &answered,
		})
		if err != nil {
			return nil, err
		}
		asked = mlp.AskedQuestion{
			QuestionID: updated.ID,
			Topic:      updated.Topic,
			IsUsed:     updated.IsUsed,
			IsAnswered: updated.IsAnswered,
		}
		taskID = updated.ID
	}

	candidates, err := e.db.ListEligibleQuestions(req.SessionID, req.InterviewerID)
	if err != nil {
		return nil, err
	}

	bank := make([]mlp.CandidateQuestion, 0, len(candidates))
	eligible := make(map[string]*models.Question, len(candidates))
	for _, q := range candidates {
		if q.IsUsed {
			continue
		}
		bank = append(bank, mlp.CandidateQuestion{
			QuestionID: q.ID,
			Topic:      q.Topic,
			IsUsed:     q.IsUsed,
		})
		eligible[q.ID] = q
	}

	resp, gatewayErr := e.gateway.SelectQuestion(ctx, mlp.SelectionRequest{
		TaskID:        taskID,
		QuestionBank:  bank,
		AskedQuestion: asked,
	})

	if len(bank) == 0 {
		// The empty bank was still reported above; the caller gets a
		// defined error rather than whatever the pipeline replied.
		metrics.SelectionTotal.WithLabelValues("empty").Inc()
		return nil, fmt.Errorf("%w: session %s interviewer %s",
			ErrEmptyCandidateSet, req.SessionID, req.InterviewerID)
	}
	if gatewayErr != nil {
		metrics.SelectionTotal.WithLabelValues("error").Inc()
		return nil, gatewayErr
	}

	chosen, ok := eligible[resp.QuestionID]
	if !ok {
		metrics.SelectionTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: selected question %s is outside the candidate set",
			mlp.ErrUpstream, resp.QuestionID)
	}

	metrics.SelectionTotal.WithLabelValues("ok").Inc()
	logger.Info("Question selected",
		zap.String("session_id", req.SessionID),
		zap.String("question_id", chosen.ID),
		zap.Int("candidates", len(bank)),
	)
	return chosen, nil
}
