package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/middleware"
	"github.com/vitacross/vitacross-api/internal/services"
	"github.com/vitacross/vitacross-api/internal/session"
)

type ConsultationHandler struct {
	consultations *services.ConsultationService
}

func NewConsultationHandler(consultations *services.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{consultations: consultations}
}

// Create accepts the public consultation form. A signed-in patient is linked
// to the request.
func (h *ConsultationHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateConsultationRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	consultation, err := h.consultations.Create(c.UserContext(), &req, session.OptionalUserID(c), middleware.Lang(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(consultation)
}

func (h *ConsultationHandler) ListMine(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	list, err := h.consultations.ListForUser(userID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(list)
}

func (h *ConsultationHandler) Get(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	consultation, err := h.consultations.GetForViewer(id, userID, middleware.IsAdmin(c))
	if err != nil {
		return consultationError(c, err)
	}
	return c.JSON(consultation)
}

// List is the staff view of all consultations (?status=&limit=&offset=).
func (h *ConsultationHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	resp, err := h.consultations.List(c.Query("status"), limit, offset)
	if err != nil {
		return consultationError(c, err)
	}
	return c.JSON(resp)
}

func (h *ConsultationHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	var req dto.UpdateConsultationRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	consultation, err := h.consultations.Update(id, &req)
	if err != nil {
		return consultationError(c, err)
	}
	return c.JSON(consultation)
}

func consultationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrConsultationNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidStatus):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, err.Error())
	}
	return internalError(c, err)
}
