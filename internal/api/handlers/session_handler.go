package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/internal/storage/sqlite"
)

type SessionHandler struct {
	db *sqlite.Client
}

func NewSessionHandler(db *sqlite.Client) *SessionHandler {
	return &SessionHandler{db: db}
}

func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req struct {
		ResumeID         string `json:"cv_id"`
		JobDescriptionID string `json:"jd_id"`
		InterviewerID    string `json:"interviewer_id"`
		IntervieweeID    string `json:"interviewee_id"`
		Status           string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ResumeID == "" || req.JobDescriptionID == "" {
		return badRequest(c, "cv_id and jd_id are required")
	}

	session := &models.InterviewSession{
		ID:               uuid.NewString(),
		ResumeID:         req.ResumeID,
		JobDescriptionID: req.JobDescriptionID,
		InterviewerID:    req.InterviewerID,
		IntervieweeID:    req.IntervieweeID,
		Status:           req.Status,
	}
	if err := h.db.InsertSession(session); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *SessionHandler) Update(c *fiber.Ctx) error {
	var req struct {
		ID            string  `json:"id"`
		InterviewerID *string `json:"interviewer_id"`
		IntervieweeID *string `json:"interviewee_id"`
		Status        *string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ID == "" {
		return badRequest(c, "id is required")
	}

	session, err := h.db.PatchSession(req.ID, models.SessionPatch{
		InterviewerID: req.InterviewerID,
		IntervieweeID: req.IntervieweeID,
		Status:        req.Status,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(session)
}

func (h *SessionHandler) Get(c *fiber.Ctx) error {
	session, err := h.db.GetSession(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(session)
}

func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	if err := h.db.DeleteSession(c.Params("id")); err != nil {
		return fail(c, err)
	}
	sessions, err := h.db.ListSessions()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sessions)
}

func (h *SessionHandler) List(c *fiber.Ctx) error {
	sessions, err := h.db.ListSessions()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sessions)
}

func (h *SessionHandler) ListByResumeAndJD(c *fiber.Ctx) error {
	resumeID := c.Query("cv_id")
	jdID := c.Query("jd_id")
	if resumeID == "" || jdID == "" {
		return badRequest(c, "cv_id and jd_id are required")
	}

	sessions, err := h.db.ListSessionsByResumeAndJD(resumeID, jdID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sessions)
}
