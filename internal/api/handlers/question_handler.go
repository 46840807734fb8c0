package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/orchestrator"
	"github.com/interview-studio/backend/internal/selection"
	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/internal/storage/sqlite"
	"github.com/interview-studio/backend/pkg/logger"
)

type QuestionHandler struct {
	db     *sqlite.Client
	orch   *orchestrator.Orchestrator
	engine *selection.Engine
	bucket string
	prefix string
}

func NewQuestionHandler(db *sqlite.Client, orch *orchestrator.Orchestrator, engine *selection.Engine, bucket, prefix string) *QuestionHandler {
	return &QuestionHandler{db: db, orch: orch, engine: engine, bucket: bucket, prefix: prefix}
}

func (h *QuestionHandler) Create(c *fiber.Ctx) error {
	var req struct {
		AvatarGenerationID string `json:"avatar_generation_id"`
		ResumeID           string `json:"cv_id"`
		JobDescriptionID   string `json:"jd_id"`
		SessionID          string `json:"interview_session_id"`
		QuestionContext    string `json:"question_context"`
		Topic              int    `json:"topic"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.AvatarGenerationID == "" || req.SessionID == "" {
		return badRequest(c, "avatar_generation_id and interview_session_id are required")
	}

	q := &models.Question{
		ID:                 uuid.NewString(),
		AvatarGenerationID: req.AvatarGenerationID,
		ResumeID:           req.ResumeID,
		JobDescriptionID:   req.JobDescriptionID,
		SessionID:          req.SessionID,
		QuestionContext:    req.QuestionContext,
		Topic:              req.Topic,
	}
	if err := h.db.InsertQuestion(q); err != nil {
		return fail(c, err)
	}

	logger.Info("Question created", zap.String("question_id", q.ID))
	return c.Status(fiber.StatusCreated).JSON(q)
}

func (h *QuestionHandler) Update(c *fiber.Ctx) error {
	var req struct {
		ID              string  `json:"id"`
		QuestionContext *string `json:"question_context"`
		Topic           *int    `json:"topic"`
		IsUsed          *bool   `json:"is_used"`
		IsAnswered      *bool   `json:"is_answered"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ID == "" {
		return badRequest(c, "id is required")
	}

	q, err := h.db.PatchQuestion(req.ID, models.QuestionPatch{
		QuestionContext: req.QuestionContext,
		Topic:           req.Topic,
		IsUsed:          req.IsUsed,
		IsAnswered:      req.IsAnswered,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(q)
}

func (h *QuestionHandler) Get(c *fiber.Ctx) error {
	q, err := h.db.GetQuestion(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(q)
}

func (h *QuestionHandler) Delete(c *fiber.Ctx) error {
	if err := h.db.DeleteQuestion(c.Params("id")); err != nil {
		return fail(c, err)
	}
	questions, err := h.db.ListQuestions()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(questions)
}

func (h *QuestionHandler) List(c *fiber.Ctx) error {
	questions, err := h.db.ListQuestions()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(questions)
}

func (h *QuestionHandler) ListBySession(c *fiber.Ctx) error {
	sessionID := c.Query("interview_session_id")
	if sessionID == "" {
		return badRequest(c, "interview_session_id is required")
	}
	questions, err := h.db.ListQuestionsBySession(sessionID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(questions)
}

// Generate runs the question-generation workflow and returns the new session
// id plus a report of which questions committed.
func (h *QuestionHandler) Generate(c *fiber.Ctx) error {
	var req struct {
		ResumeID         string `json:"cv_id"`
		JobDescriptionID string `json:"jd_id"`
		Bucket           string `json:"bucket_name"`
		Path             string `json:"path"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ResumeID == "" || req.JobDescriptionID == "" {
		return badRequest(c, "cv_id and jd_id are required")
	}
	if req.Bucket == "" {
		req.Bucket = h.bucket
	}
	if req.Path == "" {
		req.Path = h.prefix
	}

	result, err := h.orch.GenerateQuestions(c.Context(), orchestrator.GenerateRequest{
		ResumeID:         req.ResumeID,
		JobDescriptionID: req.JobDescriptionID,
		Bucket:           req.Bucket,
		PathPrefix:       req.Path,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

// Select marks the just-asked question used and returns the next question
// chosen by the ML pipeline from the interviewer's eligible set.
func (h *QuestionHandler) Select(c *fiber.Ctx) error {
	var req struct {
		SessionID     string `json:"interview_session_id"`
		InterviewerID string `json:"interviewer_id"`
		QuestionID    string `json:"question_id"`
		IsAnswered    bool   `json:"is_answered"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.SessionID == "" || req.InterviewerID == "" {
		return badRequest(c, "interview_session_id and interviewer_id are required")
	}

	question, err := h.engine.SelectNext(c.Context(), selection.SelectRequest{
		SessionID:       req.SessionID,
		InterviewerID:   req.InterviewerID,
		AskedQuestionID: req.QuestionID,
		IsAnswered:      req.IsAnswered,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"question_id": question.ID, "question": question})
}
