package handler_test

import (
	"testing"

	"go-shop-ms/internal/handler"
	"go-shop-ms/internal/model"
	"go-shop-ms/internal/repository/memory"
	"go-shop-ms/internal/service"
	"go-shop-ms/internal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogApp(seed ...model.Product) (*fiber.App, *memory.ProductRepository) {
	products := memory.NewProductRepository(seed...)
	app := newApp()
	handler.NewCatalogHandler(service.NewCatalogService(products, ws.Discard{}, zap.NewNop(), 5)).Register(app)
	return app, products
}

func TestCatalogListAndGet(t *testing.T) {
	t.Parallel()
	app, _ := newCatalogApp(
		model.Product{ID: 1, Name: "Mug", Price: 10, Stock: 3},
		model.Product{ID: 2, Name: "Pen", Price: 5, Stock: 10},
	)

	status, list := callList(t, app, "/produit/acheter")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, list, 2)

	status, body := call(t, app, "GET", "/produit/2", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Pen", body["name"])

	status, _ = call(t, app, "GET", "/produit/99", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, "GET", "/produit/abc", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCatalogCreateProduct(t *testing.T) {
	t.Parallel()
	app, products := newCatalogApp(model.Product{ID: 4, Name: "Mug", Price: 10, Stock: 3})

	status, body := call(t, app, "POST", "/produit/ajouter", map[string]any{
		"name": "Lamp", "description": "Desk lamp", "price": 25.5, "stock": 0,
	})
	require.Equal(t, fiber.StatusCreated, status)
	product := body["product"].(map[string]any)
	assert.EqualValues(t, 5, product["id"])
	assert.EqualValues(t, 0, product["stock"])

	stored, err := products.FindByID(5)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", stored.Name)

	status, _ = call(t, app, "POST", "/produit/ajouter", map[string]any{
		"id": 4, "name": "Dup", "description": "d", "price": 1, "stock": 1,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "POST", "/produit/ajouter", map[string]any{"name": "NoPrice", "description": "d", "stock": 1})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCatalogSetStock(t *testing.T) {
	t.Parallel()
	app, products := newCatalogApp(model.Product{ID: 1, Name: "Mug", Price: 10, Stock: 3})

	status, body := call(t, app, "PATCH", "/produit/1/stock", map[string]any{"stock": 12})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Stock updated", body["message"])

	for _, bad := range []any{-1, "7", 2.5, nil, 1e20} {
		status, _ = call(t, app, "PATCH", "/produit/1/stock", map[string]any{"stock": bad})
		assert.Equal(t, fiber.StatusBadRequest, status, "stock %v", bad)
	}

	p, err := products.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, 12, p.Stock)

	status, _ = call(t, app, "PATCH", "/produit/42/stock", map[string]any{"stock": 1})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCatalogStats(t *testing.T) {
	t.Parallel()
	app, _ := newCatalogApp(
		model.Product{ID: 1, Name: "Mug", Price: 10, Stock: 3},
		model.Product{ID: 2, Name: "Pen", Price: 5, Stock: 10},
	)

	status, body := call(t, app, "GET", "/produit/stats", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 2, body["total_products"])
	assert.EqualValues(t, 1, body["low_stock_count"])
	assert.EqualValues(t, 80, body["total_valuation"])
}
