package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/middleware"
	"github.com/vitacross/vitacross-api/internal/services"
	"github.com/vitacross/vitacross-api/internal/session"
)

type MedicalFileHandler struct {
	files         *services.MedicalFileService
	consultations *services.ConsultationService
}

func NewMedicalFileHandler(files *services.MedicalFileService, consultations *services.ConsultationService) *MedicalFileHandler {
	return &MedicalFileHandler{files: files, consultations: consultations}
}

// Upload takes a multipart "file" field and an optional "fileType".
func (h *MedicalFileHandler) Upload(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "file is required")
	}

	file, err := h.files.Upload(c.UserContext(), id, fh, c.FormValue("fileType"))
	if err != nil {
		return fileError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}

// CreateMetadata records a file uploaded directly to storage.
func (h *MedicalFileHandler) CreateMetadata(c *fiber.Ctx) error {
	var req dto.CreateMedicalFileRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	file, err := h.files.CreateMetadata(&req)
	if err != nil {
		return fileError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}

func (h *MedicalFileHandler) ListByConsultation(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	if _, err := h.consultations.GetForViewer(id, userID, middleware.IsAdmin(c)); err != nil {
		return fileError(c, err)
	}

	files, err := h.files.ListByConsultation(id)
	if err != nil {
		return fileError(c, err)
	}
	return c.JSON(files)
}

func (h *MedicalFileHandler) Download(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	resp, err := h.files.DownloadURL(c.UserContext(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		return fileError(c, err)
	}
	if c.Query("redirect") == "true" {
		return c.Redirect(resp.URL, fiber.StatusFound)
	}
	return c.JSON(resp)
}

func (h *MedicalFileHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := h.files.Delete(c.UserContext(), id); err != nil {
		return fileError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "File deleted"})
}

func fileError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrFileNotFound), errors.Is(err, services.ErrConsultationNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConsultationClosed):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrUnsupportedFileType),
		errors.Is(err, services.ErrInvalidFileCategory),
		errors.Is(err, services.ErrInvalidFileKey):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		return errorJSON(c, fiber.StatusServiceUnavailable, err.Error())
	}
	return internalError(c, err)
}
