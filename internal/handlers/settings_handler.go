package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/services"
)

type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings returns all site settings as a typed map (public).
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	result, err := h.settings.All()
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(result)
}

// SetKey sets or updates a setting (admin only)
func (h *SettingsHandler) SetKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Key parameter is required",
		})
	}

	var payload dto.UpsertSettingRequest
	if ok, err := parseBody(c, &payload); !ok {
		return err
	}

	setting, err := h.settings.Upsert(key, payload.Value, payload.Type)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSettingValue) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error:   true,
				Message: err.Error(),
			})
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Setting updated successfully",
		"setting": setting,
	})
}

// DeleteKey deletes a setting (admin only)
func (h *SettingsHandler) DeleteKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if err := h.settings.Delete(key); err != nil {
		if errors.Is(err, services.ErrSettingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Setting not found",
			})
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Setting deleted successfully",
	})
}
