package handler

import (
	"go-shop-ms/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DeliveryHandler struct {
	service service.DeliveryService
}

func NewDeliveryHandler(s service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: s}
}

func (h *DeliveryHandler) Register(r fiber.Router) {
	r.Get("/livraisons", h.GetDeliveries)
	r.Post("/livraison/ajouter", h.CreateDelivery)
	r.Get("/livraison/:id", h.GetDelivery)
	r.Put("/livraison/:id", h.UpdateStatus)
}

func (h *DeliveryHandler) GetDeliveries(c *fiber.Ctx) error {
	deliveries, err := h.service.ListDeliveries()
	if err != nil {
		return err
	}
	return c.JSON(deliveries)
}

func (h *DeliveryHandler) GetDelivery(c *fiber.Ctx) error {
	delivery, err := h.service.GetDelivery(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(delivery)
}

func (h *DeliveryHandler) CreateDelivery(c *fiber.Ctx) error {
	var req service.CreateDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	delivery, err := h.service.CreateDelivery(&req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Delivery created", "delivery": delivery})
}

func (h *DeliveryHandler) UpdateStatus(c *fiber.Ctx) error {
	var req service.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	status, err := h.service.UpdateStatus(c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Delivery status updated", "status": status})
}
