package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/mlp"
	"github.com/interview-studio/backend/internal/orchestrator"
	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/internal/storage/sqlite"
	"github.com/interview-studio/backend/pkg/logger"
)

type GenerationHandler struct {
	db   *sqlite.Client
	orch *orchestrator.Orchestrator
}

func NewGenerationHandler(db *sqlite.Client, orch *orchestrator.Orchestrator) *GenerationHandler {
	return &GenerationHandler{db: db, orch: orch}
}

type generationRequest struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	VideoID string `json:"video_id"`
	AudioID string `json:"audio_id"`
	ImageID string `json:"image_id"`
	Bucket  string `json:"bucket_s3"`
	Path    string `json:"path_s3"`
	Type    string `json:"type"`
}

// Create inserts a new generation, or patches the existing record when the
// id is already on file.
func (h *GenerationHandler) Create(c *fiber.Ctx) error {
	var req generationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserID == "" {
		return badRequest(c, "user_id is required")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Type == "" {
		req.Type = string(models.GenerationGenerated)
	}

	gen := &models.Generation{
		ID:         req.ID,
		UserID:     req.UserID,
		VideoID:    req.VideoID,
		AudioID:    req.AudioID,
		ImageID:    req.ImageID,
		Bucket:     req.Bucket,
		ObjectPath: req.Path,
		Type:       models.GenerationType(req.Type),
	}
	saved, err := h.db.UpsertGeneration(gen, patchFromRequest(req))
	if err != nil {
		return fail(c, err)
	}

	logger.Info("Generation created", zap.String("generation_id", saved.ID))
	return c.Status(fiber.StatusCreated).JSON(saved)
}

func patchFromRequest(req generationRequest) models.GenerationPatch {
	var patch models.GenerationPatch
	if req.VideoID != "" {
		patch.VideoID = &req.VideoID
	}
	if req.AudioID != "" {
		patch.AudioID = &req.AudioID
	}
	if req.ImageID != "" {
		patch.ImageID = &req.ImageID
	}
	if req.Bucket != "" {
		patch.Bucket = &req.Bucket
	}
	if req.Path != "" {
		patch.ObjectPath = &req.Path
	}
	if req.Type != "" {
		t := models.GenerationType(req.Type)
		patch.Type = &t
	}
	return patch
}

type generationUpdateRequest struct {
	ID      string  `json:"id"`
	VideoID *string `json:"video_id"`
	AudioID *string `json:"audio_id"`
	ImageID *string `json:"image_id"`
	Bucket  *string `json:"bucket_s3"`
	Path    *string `json:"path_s3"`
}

func (h *GenerationHandler) Update(c *fiber.Ctx) error {
	var req generationUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ID == "" {
		return badRequest(c, "id is required")
	}

	gen, err := h.db.PatchGeneration(req.ID, models.GenerationPatch{
		VideoID:    req.VideoID,
		AudioID:    req.AudioID,
		ImageID:    req.ImageID,
		Bucket:     req.Bucket,
		ObjectPath: req.Path,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(gen)
}

// UpdateType changes a generation's type. Promotion to base atomically
// demotes the owner's previous base template.
func (h *GenerationHandler) UpdateType(c *fiber.Ctx) error {
	var req struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ID == "" {
		return badRequest(c, "id is required")
	}

	gen, err := h.db.SetGenerationType(req.ID, models.GenerationType(req.Type))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(gen)
}

func (h *GenerationHandler) Get(c *fiber.Ctx) error {
	gen, err := h.db.GetGeneration(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(gen)
}

func (h *GenerationHandler) Delete(c *fiber.Ctx) error {
	if err := h.db.DeleteGeneration(c.Params("id")); err != nil {
		return fail(c, err)
	}
	generations, err := h.db.ListGenerations()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(generations)
}

func (h *GenerationHandler) List(c *fiber.Ctx) error {
	generations, err := h.db.ListGenerations()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(generations)
}

func (h *GenerationHandler) ListBase(c *fiber.Ctx) error {
	generations, err := h.db.ListBaseGenerations()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(generations)
}

func (h *GenerationHandler) ListByUser(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return badRequest(c, "user_id is required")
	}
	typeFilter := models.GenerationType(c.Query("type"))
	if typeFilter != "" && !typeFilter.Valid() {
		return badRequest(c, "type must be base, generated, or intro")
	}

	generations, err := h.db.ListGenerationsByOwner(userID, typeFilter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(generations)
}

func (h *GenerationHandler) TypeExists(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
		Type   string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	genType := models.GenerationType(req.Type)
	if !genType.Valid() {
		return badRequest(c, "type must be base, generated, or intro")
	}

	exists, err := h.db.GenerationTypeExists(req.UserID, genType)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"exists": exists})
}

// SubmitRender forwards an avatar rendering task to the ML pipeline.
func (h *GenerationHandler) SubmitRender(c *fiber.Ctx) error {
	var req orchestrator.SubmitRenderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.TaskID == "" {
		return badRequest(c, "task_id is required")
	}

	ack, err := h.orch.SubmitRender(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ack)
}

// ReceiveRender is the pipeline's out-of-band callback with the finished
// artifact location.
func (h *GenerationHandler) ReceiveRender(c *fiber.Ctx) error {
	var result mlp.RenderResult
	if err := c.BodyParser(&result); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if result.TaskID == "" {
		return badRequest(c, "task_id is required")
	}

	gen, err := h.orch.ReceiveRender(c.Context(), result)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(gen)
}
