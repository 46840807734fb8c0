package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/internal/storage/sqlite"
)

// DocumentHandler covers the résumé and job-description records the
// orchestrator resolves. Binary upload/download lives with the object store,
// not here.
type DocumentHandler struct {
	db *sqlite.Client
}

func NewDocumentHandler(db *sqlite.Client) *DocumentHandler {
	return &DocumentHandler{db: db}
}

func (h *DocumentHandler) CreateResume(c *fiber.Ctx) error {
	var req struct {
		UserID      string `json:"user_id"`
		FullName    string `json:"full_name"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserID == "" || req.FullName == "" {
		return badRequest(c, "user_id and full_name are required")
	}

	resume := &models.Resume{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
	}
	if err := h.db.InsertResume(resume); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resume)
}

func (h *DocumentHandler) GetResume(c *fiber.Ctx) error {
	resume, err := h.db.GetResume(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resume)
}

func (h *DocumentHandler) CreateJobDescription(c *fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	jd := &models.JobDescription{
		ID:    uuid.NewString(),
		Title: req.Title,
	}
	if err := h.db.InsertJobDescription(jd); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(jd)
}

func (h *DocumentHandler) GetJobDescription(c *fiber.Ctx) error {
	jd, err := h.db.GetJobDescription(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(jd)
}

func (h *DocumentHandler) CreateAsset(c *fiber.Ctx) error {
	var req struct {
		UserID    string `json:"user_id"`
		Kind      string `json:"kind"`
		FileName  string `json:"file_name"`
		Extension string `json:"extension"`
		Language  string `json:"language"`
		Size      int64  `json:"size"`
		Duration  int64  `json:"duration"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	kind := models.AssetKind(req.Kind)
	if kind != models.AssetVideo && kind != models.AssetAudio && kind != models.AssetImage {
		return badRequest(c, "kind must be video, audio, or image")
	}
	if req.UserID == "" || req.FileName == "" {
		return badRequest(c, "user_id and file_name are required")
	}

	asset := &models.Asset{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Kind:      kind,
		FileName:  req.FileName,
		Extension: req.Extension,
		Language:  req.Language,
		Size:      req.Size,
		Duration:  req.Duration,
	}
	if err := h.db.InsertAsset(asset); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(asset)
}

func (h *DocumentHandler) GetAsset(c *fiber.Ctx) error {
	asset, err := h.db.GetAsset(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(asset)
}

func (h *DocumentHandler) ListAssetsByUser(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	kind := models.AssetKind(c.Query("kind"))
	if userID == "" || kind == "" {
		return badRequest(c, "user_id and kind are required")
	}

	assets, err := h.db.ListAssetsByOwner(userID, kind)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(assets)
}
