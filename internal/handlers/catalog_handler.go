package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/services"
)

type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) List(c *fiber.Ctx) error {
	list, err := h.catalog.ListActive()
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(list)
}

func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var req dto.ServiceRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	svc, err := h.catalog.Create(&req)
	if err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(svc)
}

func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	var req dto.ServiceRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	svc, err := h.catalog.Update(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrServiceNotFound) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(svc)
}

func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := h.catalog.Delete(id); err != nil {
		if errors.Is(err, services.ErrServiceNotFound) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "Service deleted"})
}
