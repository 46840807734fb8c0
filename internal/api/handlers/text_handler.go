package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/interview-studio/backend/internal/ingestion"
	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/internal/storage/sqlite"
)

type TextHandler struct {
	db        *sqlite.Client
	processor *ingestion.Processor
}

func NewTextHandler(db *sqlite.Client, processor *ingestion.Processor) *TextHandler {
	return &TextHandler{db: db, processor: processor}
}

func (h *TextHandler) Create(c *fiber.Ctx) error {
	var req struct {
		ParentKind string `json:"parent_kind"`
		ParentID   string `json:"parent_id"`
		Body       string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ParentID == "" {
		return badRequest(c, "parent_id is required")
	}

	text := &models.Text{
		ID:         uuid.NewString(),
		ParentKind: models.ParentKind(req.ParentKind),
		ParentID:   req.ParentID,
		Body:       req.Body,
	}
	if err := h.db.InsertText(text); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(text)
}

// Ingest splits an uploaded document into text fragments parented to the
// given entity. HTML content is parsed for paragraphs; anything else is
// sentence-segmented.
func (h *TextHandler) Ingest(c *fiber.Ctx) error {
	var req struct {
		ParentKind string `json:"parent_kind"`
		ParentID   string `json:"parent_id"`
		Content    string `json:"content"`
		Format     string `json:"format"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ParentID == "" || req.Content == "" {
		return badRequest(c, "parent_id and content are required")
	}
	kind := models.ParentKind(req.ParentKind)
	if !kind.Valid() {
		return badRequest(c, "parent_kind must be resume, job_description, or question")
	}

	var texts []*models.Text
	var err error
	if req.Format == "html" {
		texts, err = h.processor.IngestHTML(kind, req.ParentID, req.Content)
	} else {
		texts, err = h.processor.IngestPlainText(kind, req.ParentID, req.Content)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(texts)
}

func (h *TextHandler) Get(c *fiber.Ctx) error {
	text, err := h.db.GetText(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(text)
}

func (h *TextHandler) Update(c *fiber.Ctx) error {
	var req struct {
		ID   string `json:"id"`
		Body string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ID == "" {
		return badRequest(c, "id is required")
	}

	text, err := h.db.UpdateTextBody(req.ID, req.Body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(text)
}

func (h *TextHandler) Delete(c *fiber.Ctx) error {
	if err := h.db.DeleteText(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": c.Params("id")})
}

func (h *TextHandler) ListByParent(c *fiber.Ctx) error {
	kind := models.ParentKind(c.Query("parent_kind"))
	parentID := c.Query("parent_id")
	if parentID == "" || !kind.Valid() {
		return badRequest(c, "parent_kind and parent_id are required")
	}

	texts, err := h.db.ListTextsByParent(kind, parentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(texts)
}
