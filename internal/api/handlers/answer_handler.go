package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/interview-studio/backend/internal/analysis"
	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/internal/storage/sqlite"
)

type AnswerHandler struct {
	db       *sqlite.Client
	analyzer *analysis.Analyzer
}

func NewAnswerHandler(db *sqlite.Client, analyzer *analysis.Analyzer) *AnswerHandler {
	return &AnswerHandler{db: db, analyzer: analyzer}
}

func (h *AnswerHandler) Create(c *fiber.Ctx) error {
	var req struct {
		QuestionID string `json:"question_id"`
		Bucket     string `json:"bucket_s3"`
		VideoPath  string `json:"video_url"`
		AudioPath  string `json:"audio_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.QuestionID == "" {
		return badRequest(c, "question_id is required")
	}

	if _, err := h.db.GetQuestion(req.QuestionID); err != nil {
		return fail(c, err)
	}

	answer := &models.Answer{
		ID:         uuid.NewString(),
		QuestionID: req.QuestionID,
		Bucket:     req.Bucket,
		VideoPath:  req.VideoPath,
		AudioPath:  req.AudioPath,
	}
	if err := h.db.InsertAnswer(answer); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(answer)
}

func (h *AnswerHandler) Get(c *fiber.Ctx) error {
	answer, err := h.db.GetAnswer(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(answer)
}

func (h *AnswerHandler) GetByQuestion(c *fiber.Ctx) error {
	answer, err := h.db.GetAnswerByQuestion(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(answer)
}

func (h *AnswerHandler) Delete(c *fiber.Ctx) error {
	if err := h.db.DeleteAnswer(c.Params("id")); err != nil {
		return fail(c, err)
	}
	answers, err := h.db.ListAnswers()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(answers)
}

func (h *AnswerHandler) List(c *fiber.Ctx) error {
	answers, err := h.db.ListAnswers()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(answers)
}

// Analyze submits the answer for ML scoring and returns it with the reported
// fields merged in.
func (h *AnswerHandler) Analyze(c *fiber.Ctx) error {
	var req struct {
		AnswerID string `json:"answer_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.AnswerID == "" {
		return badRequest(c, "answer_id is required")
	}

	answer, err := h.analyzer.Analyze(c.Context(), req.AnswerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(answer)
}
