package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/services"
	"github.com/vitacross/vitacross-api/internal/session"
)

type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateOrderRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	order, err := h.orders.Create(userID, &req)
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	orders, err := h.orders.ListForUser(userID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	resp, err := h.orders.List(c.Query("status"), limit, offset)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(resp)
}

func (h *OrderHandler) SetStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	var req dto.UpdateOrderStatusRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	order, err := h.orders.SetStatus(id, req.Status)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) Payments(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	payments, err := h.orders.Payments(limit, offset)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(payments)
}

func orderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrServiceUnavailable), errors.Is(err, services.ErrInvalidOrderStatus):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return internalError(c, err)
}
