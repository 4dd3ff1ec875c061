package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/services"
)

type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	resp, err := h.admin.Dashboard()
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(resp)
}

// ListUsers supports ?q= search on email and name.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	resp, err := h.admin.ListUsers(c.Query("q"), limit, offset)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(resp)
}

func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	var req dto.SetRoleRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	user, err := h.admin.SetRole(id, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrInvalidRole):
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(dto.UserResponse{User: user})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := h.admin.DeleteUser(id); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrCannotDeleteAdmin):
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "User deleted"})
}
