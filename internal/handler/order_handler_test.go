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

func newOrdersApp() (*fiber.App, *memory.OrderRepository, *memory.ProductRepository) {
	orders := memory.NewOrderRepository()
	products := memory.NewProductRepository(
		model.Product{ID: 1, Name: "Mug", Price: 10, Stock: 5},
		model.Product{ID: 2, Name: "Pen", Price: 5, Stock: 10},
	)
	app := newApp()
	handler.NewOrderHandler(service.NewOrderService(orders, products, ws.Discard{}, zap.NewNop())).Register(app)
	return app, orders, products
}

func TestCreateOrderEndpoint(t *testing.T) {
	t.Parallel()
	app, _, products := newOrdersApp()

	status, body := call(t, app, "POST", "/commande/ajouter", map[string]any{
		"line_items": []map[string]any{
			{"product_id": 1, "quantity": 2},
			{"product_id": 2, "quantity": 3},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "CMD001", body["id"])
	assert.EqualValues(t, 35, body["total_amount"])

	mug, _ := products.FindByID(1)
	pen, _ := products.FindByID(2)
	assert.Equal(t, 3, mug.Stock)
	assert.Equal(t, 7, pen.Stock)

	status, order := call(t, app, "GET", "/commande/CMD001", nil)
	require.Equal(t, fiber.StatusOK, status)
	items := order["line_items"].([]any)
	require.Len(t, items, 2)
	assert.EqualValues(t, 20, items[0].(map[string]any)["subtotal"])
	assert.EqualValues(t, 15, items[1].(map[string]any)["subtotal"])
	assert.Equal(t, "pending", order["status"])

	status, list := callList(t, app, "/commandes")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, list, 1)
}

func TestCreateOrderEndpointErrors(t *testing.T) {
	t.Parallel()
	app, orders, products := newOrdersApp()

	status, body := call(t, app, "POST", "/commande/ajouter", map[string]any{
		"line_items": []map[string]any{{"product_id": 1, "quantity": 6}},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "insufficient stock")

	status, _ = call(t, app, "POST", "/commande/ajouter", map[string]any{
		"line_items": []map[string]any{{"product_id": 9, "quantity": 1}},
	})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, "POST", "/commande/ajouter", map[string]any{"line_items": []any{}})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "GET", "/commande/CMD404", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	mug, _ := products.FindByID(1)
	assert.Equal(t, 5, mug.Stock)
	assert.Zero(t, orders.Count())
}
