package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/cache/redis"
	"github.com/interview-studio/backend/internal/events"
	"github.com/interview-studio/backend/internal/metrics"
	"github.com/interview-studio/backend/internal/mlp"
	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/internal/storage/sqlite"
	"github.com/interview-studio/backend/pkg/logger"
)

// Gateway is the slice of the ML pipeline the orchestrator drives.
type Gateway interface {
	GenerateQuestions(ctx context.Context, req mlp.QuestionGenerationRequest) (*mlp.QuestionGenerationResponse, error)
	SubmitRender(ctx context.Context, req mlp.RenderRequest) (*mlp.RenderAck, error)
}

// Orchestrator drives the question-generation workflow: resolve the résumé
// and job description, call the pipeline for questions, then fan out one
// rendered avatar variant plus one question record per generated question.
type Orchestrator struct {
	db      *sqlite.Client
	gateway Gateway
	pending *redis.Client
	hub     *events.Hub
}

func New(db *sqlite.Client, gateway Gateway, pending *redis.Client, hub *events.Hub) *Orchestrator {
	return &Orchestrator{
		db:      db,
		gateway: gateway,
		pending: pending,
		hub:     hub,
	}
}

type GenerateRequest struct {
	ResumeID         string
	JobDescriptionID string
	Bucket           string
	PathPrefix       string
}

// QuestionFailure records one question skipped mid-fan-out. Earlier questions
// in the batch stay committed.
type QuestionFailure struct {
	Question string `json:"question"`
	Reason   string `json:"reason"`
}

type GenerateResult struct {
	SessionID string            `json:"interview_session_id"`
	Created   []string          `json:"created_question_ids"`
	Failed    []QuestionFailure `json:"failed_questions,omitempty"`
}

// GenerateQuestions runs the full workflow and returns the new session id
// with an aggregate report of the fan-out. Both documents are validated
// before the session row is written, so an invalid job description no longer
// leaves an orphaned session behind.
func (o *Orchestrator) GenerateQuestions(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	started := time.Now()
	defer func() {
		metrics.GenerationWorkflowDuration.Observe(time.Since(started).Seconds())
	}()

	resume, err := o.db.GetResume(req.ResumeID)
	if err != nil {
		return nil, err
	}
	if _, err := o.db.GetJobDescription(req.JobDescriptionID); err != nil {
		return nil, err
	}

	session := &models.InterviewSession{
		ID:               uuid.NewString(),
		ResumeID:         req.ResumeID,
		JobDescriptionID: req.JobDescriptionID,
	}
	if err := o.db.InsertSession(session); err != nil {
		return nil, err
	}

	jdTexts, err := o.db.ListTextsByParent(models.ParentJobDescription, req.JobDescriptionID)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(jdTexts))
	for _, t := range jdTexts {
		texts = append(texts, t.Body)
	}

	genResp, err := o.gateway.GenerateQuestions(ctx, mlp.QuestionGenerationRequest{
		TaskID: session.ID,
		ResumeURL: mlp.Locator{
			Bucket: req.Bucket,
			Key:    fmt.Sprintf("%s/application/%s/%s.pdf", req.PathPrefix, resume.UserID, resume.ID),
		},
		JDTexts: texts,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Question generation response received",
		zap.String("session_id", session.ID),
		zap.Int("questions", len(genResp.Questions)),
		zap.Int("resume_chunks", len(genResp.ResumeChunks)),
	)

	baseGenerations, err := o.db.ListBaseGenerations()
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{SessionID: session.ID, Created: make([]string, 0)}

	for _, base := range baseGenerations {
		for _, question := range genResp.Questions {
			questionID, err := o.fanOutQuestion(ctx, session, base, question, req)
			if err != nil {
				// Earlier questions stay committed; report and move on.
				logger.Warn("Question fan-out failed",
					zap.String("session_id", session.ID),
					zap.String("question", question.Question),
					zap.Error(err),
				)
				result.Failed = append(result.Failed, QuestionFailure{
					Question: question.Question,
					Reason:   err.Error(),
				})
				continue
			}
			result.Created = append(result.Created, questionID)
			metrics.QuestionsCreated.Inc()
		}
	}

	for _, chunk := range genResp.ResumeChunks {
		text := &models.Text{
			ID:         uuid.NewString(),
			ParentKind: models.ParentResume,
			ParentID:   resume.ID,
			Body:       chunk,
		}
		if err := o.db.InsertText(text); err != nil {
			return nil, err
		}
	}

	if o.hub != nil {
		o.hub.Publish(resume.UserID, events.Event{
			Type:      events.TypeSessionReady,
			SessionID: session.ID,
		})
	}

	return result, nil
}

// fanOutQuestion clones the base template into a generated variant, submits
// it for rendering, and commits the question with its ground-truth texts.
func (o *Orchestrator) fanOutQuestion(
	ctx context.Context,
	session *models.InterviewSession,
	base *models.Generation,
	question mlp.GeneratedQuestion,
	req GenerateRequest,
) (string, error) {
	clone := &models.Generation{
		ID:          uuid.NewString(),
		UserID:      base.UserID,
		VideoID:     base.VideoID,
		AudioID:     base.AudioID,
		ImageID:     base.ImageID,
		Bucket:      base.Bucket,
		Type:        models.GenerationGenerated,
		RenderState: models.RenderNone,
	}
	if err := o.db.InsertGeneration(clone); err != nil {
		return "", err
	}

	renderReq := o.buildRenderRequest(clone, req.Bucket, req.PathPrefix)
	renderReq.Text = question.Question

	if _, err := o.submitRenderTask(ctx, clone.ID, renderReq); err != nil {
		return "", err
	}

	q := &models.Question{
		ID:                 uuid.NewString(),
		AvatarGenerationID: clone.ID,
		ResumeID:           session.ResumeID,
		JobDescriptionID:   session.JobDescriptionID,
		SessionID:          session.ID,
		QuestionContext:    question.Question,
		Topic:              question.Topic,
	}
	if err := o.db.InsertQuestion(q); err != nil {
		return "", err
	}

	for _, gt := range question.GroundTruths {
		text := &models.Text{
			ID:         uuid.NewString(),
			ParentKind: models.ParentQuestion,
			ParentID:   q.ID,
			Body:       gt,
		}
		if err := o.db.InsertText(text); err != nil {
			return "", err
		}
	}

	return q.ID, nil
}

// buildRenderRequest includes a locator only for the asset kinds the template
// actually carries; absent kinds get no placeholder.
func (o *Orchestrator) buildRenderRequest(gen *models.Generation, bucket, pathPrefix string) mlp.RenderRequest {
	req := mlp.RenderRequest{TaskID: gen.ID}
	if gen.VideoID != "" {
		req.VideoURL = &mlp.Locator{
			Bucket: bucket,
			Key:    fmt.Sprintf("%s/video/%s/%s.mp4", pathPrefix, gen.UserID, gen.VideoID),
		}
	}
	if gen.AudioID != "" {
		req.AudioURL = &mlp.Locator{
			Bucket: bucket,
			Key:    fmt.Sprintf("%s/audio/%s/%s.wav", pathPrefix, gen.UserID, gen.AudioID),
		}
	}
	if gen.ImageID != "" {
		req.ImageURL = &mlp.Locator{
			Bucket: bucket,
			Key:    fmt.Sprintf("%s/image/%s/%s.jpg", pathPrefix, gen.UserID, gen.ImageID),
		}
	}
	return req
}
