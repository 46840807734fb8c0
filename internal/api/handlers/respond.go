package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/mlp"
	"github.com/interview-studio/backend/internal/selection"
	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/pkg/logger"
)

// fail maps the domain error kinds onto HTTP statuses and logs the failure.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, selection.ErrEmptyCandidateSet):
		status = fiber.StatusConflict
	case errors.Is(err, mlp.ErrUpstream):
		status = fiber.StatusBadGateway
	}

	if status == fiber.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	} else {
		logger.Info("Request rejected",
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
