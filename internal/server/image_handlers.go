// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"io"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/images (multipart form, field "image").
func (s *Server) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file is required (field 'image')"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	result, err := s.imageService.Upload(c.Context(), data, fileHeader.Filename)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
