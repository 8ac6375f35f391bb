package handler

import (
	"strconv"

	"go-shop-ms/internal/apperr"
	"go-shop-ms/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

func (h *CatalogHandler) Register(r fiber.Router) {
	p := r.Group("/produit")
	p.Get("/acheter", h.GetProducts)
	p.Get("/stats", h.GetStats)
	p.Post("/ajouter", h.CreateProduct)
	p.Get("/:id", h.GetProduct)
	p.Patch("/:id/stock", h.UpdateStock)
}

// A non-numeric id can never match a product, so it reads as not found.
func productID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperr.NotFound("product not found")
	}
	return id, nil
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts()
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.AddProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	product, err := h.service.AddProduct(&req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "product": product})
}

func (h *CatalogHandler) UpdateStock(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	var req struct {
		Stock any `json:"stock"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	if err := h.service.SetStock(id, req.Stock); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Stock updated"})
}

func (h *CatalogHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
