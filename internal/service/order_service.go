package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-shop-ms/internal/apperr"
	"go-shop-ms/internal/model"
	"go-shop-ms/internal/repository"
	"go-shop-ms/internal/ws"
	"go-shop-ms/pkg/validator"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const orderIDPrefix = "CMD"

type OrderService interface {
	ListOrders() ([]model.Order, error)
	GetOrder(id string) (*model.Order, error)
	CreateOrder(req *CreateOrderRequest) (*CreateOrderResult, error)
}

type LineItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"gt=0"`
}

type CreateOrderRequest struct {
	ID        string            `json:"id"`
	LineItems []LineItemRequest `json:"line_items" validate:"required,min=1,dive"`
	OrderDate *time.Time        `json:"order_date"`
	Status    string            `json:"status"`
	Payment   *model.Payment    `json:"payment"`
	Notes     string            `json:"notes"`
}

type CreateOrderResult struct {
	ID          string  `json:"id"`
	TotalAmount float64 `json:"total_amount"`
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	events      ws.Publisher
	log         *zap.Logger

	// mu serialises id generation, stock checks and the insert within this
	// process. DecrementStock is conditional for the cross-process case.
	mu   sync.Mutex
	now  func() time.Time
	intn func(n int) int
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, events ws.Publisher, log *zap.Logger) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
		log:         log,
		now:         time.Now,
		intn:        rand.IntN,
	}
}

func (s *orderService) ListOrders() ([]model.Order, error) {
	orders, err := s.orderRepo.FindAll()
	if err != nil {
		return nil, apperr.Server("list orders", err)
	}
	return orders, nil
}

func (s *orderService) GetOrder(id string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Server("find order", err)
	}
	return order, nil
}

// NextOrderID returns the id following last: "CMD007" gives "CMD008".
// An empty or unparsable last id restarts the sequence at CMD001.
func NextOrderID(last string) string {
	next := 1
	if n, err := strconv.Atoi(strings.TrimPrefix(last, orderIDPrefix)); err == nil && n >= 0 {
		next = n + 1
	}
	return fmt.Sprintf("%s%03d", orderIDPrefix, next)
}

func (s *orderService) CreateOrder(req *CreateOrderRequest) (*CreateOrderResult, error) {
	if msg := validator.Message(req); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := &model.Order{
		ID:        req.ID,
		LineItems: make([]model.LineItem, 0, len(req.LineItems)),
		Status:    req.Status,
		Notes:     req.Notes,
	}

	if order.ID == "" {
		last, err := s.orderRepo.LastID()
		if err != nil {
			return nil, apperr.Server("read last order id", err)
		}
		order.ID = NextOrderID(last)
	}

	// Items are checked in input order; the first failure aborts before any write.
	total := decimal.Zero
	requested := make(map[int64]int, len(req.LineItems))
	for _, item := range req.LineItems {
		product, err := s.productRepo.FindByID(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("product with id %d not found", item.ProductID)
			}
			return nil, apperr.Server("find product", err)
		}

		// Compare before adding so a huge quantity cannot wrap the running sum.
		already := requested[item.ProductID]
		if item.Quantity > product.Stock-already {
			if already > 0 {
				return nil, apperr.Validation("insufficient stock for %s: available %d, requested %d more after %d",
					product.Name, product.Stock, item.Quantity, already)
			}
			return nil, apperr.Validation("insufficient stock for %s: available %d, requested %d",
				product.Name, product.Stock, item.Quantity)
		}
		requested[item.ProductID] = already + item.Quantity

		unitPrice := decimal.NewFromFloat(product.Price)
		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)

		order.LineItems = append(order.LineItems, model.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Name:      product.Name,
			UnitPrice: product.Price,
			Subtotal:  subtotal.InexactFloat64(),
		})
	}

	if req.OrderDate != nil && !req.OrderDate.IsZero() {
		order.OrderDate = *req.OrderDate
	} else {
		order.OrderDate = s.now()
	}
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}

	if req.Payment != nil {
		order.Payment = *req.Payment
	} else {
		order.Payment = model.Payment{
			Method:    model.PaymentMethodCard,
			Status:    model.PaymentStatusPending,
			Reference: fmt.Sprintf("PAY%06d", s.intn(1000000)),
		}
	}
	// The server total always wins over anything the caller sent.
	order.Payment.TotalAmount = total.InexactFloat64()

	if err := s.orderRepo.Create(order); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("order %s already exists", order.ID)
		}
		return nil, apperr.Server("insert order", err)
	}

	// The order is stored from here on. A failed decrement is not rolled
	// back: the order row stays as evidence and the caller gets a 500.
	for _, item := range order.LineItems {
		if err := s.productRepo.DecrementStock(item.ProductID, item.Quantity); err != nil {
			s.log.Error("order_stock_decrement_failed",
				zap.String("order_id", order.ID),
				zap.Int64("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err),
			)
			return nil, apperr.Server(fmt.Sprintf("decrement stock of product %d for order %s", item.ProductID, order.ID), err)
		}
	}

	s.log.Info("order_created",
		zap.String("order_id", order.ID),
		zap.Int("line_items", len(order.LineItems)),
		zap.Float64("total_amount", order.Payment.TotalAmount),
	)

	s.events.Publish(ws.Event{
		Type:   "order_update",
		Action: "order_created",
		Data: map[string]interface{}{
			"id":           order.ID,
			"total_amount": order.Payment.TotalAmount,
			"line_items":   order.LineItems,
		},
		Message: fmt.Sprintf("order %s created", order.ID),
	})

	return &CreateOrderResult{ID: order.ID, TotalAmount: order.Payment.TotalAmount}, nil
}
