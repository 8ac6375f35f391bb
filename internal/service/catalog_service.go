package service

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go-shop-ms/internal/apperr"
	"go-shop-ms/internal/model"
	"go-shop-ms/internal/repository"
	"go-shop-ms/internal/ws"
	"go-shop-ms/pkg/validator"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxStock bounds stock values so they fit the integer column.
const maxStock = math.MaxInt32

type CatalogService interface {
	ListProducts() ([]model.Product, error)
	GetProduct(id int64) (*model.Product, error)
	AddProduct(req *AddProductRequest) (*model.Product, error)
	SetStock(id int64, stock any) error
	Stats() (*model.CatalogStats, error)
}

// AddProductRequest accepts price and stock as numbers or numeric strings.
// Both are checked by hand: validator's required tag treats 0 as missing.
type AddProductRequest struct {
	ID          *int64 `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Price       any    `json:"price"`
	Stock       any    `json:"stock"`
}

type catalogService struct {
	productRepo       repository.ProductRepository
	events            ws.Publisher
	log               *zap.Logger
	lowStockThreshold int

	// idMu serialises id assignment for products created without an id.
	idMu sync.Mutex
	now  func() time.Time
}

func NewCatalogService(productRepo repository.ProductRepository, events ws.Publisher, log *zap.Logger, lowStockThreshold int) CatalogService {
	return &catalogService{
		productRepo:       productRepo,
		events:            events,
		log:               log,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

func (s *catalogService) ListProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, apperr.Server("list products", err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(id int64) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Server("find product", err)
	}
	return product, nil
}

// AddProduct accepts a zero stock: only a missing stock is rejected.
func (s *catalogService) AddProduct(req *AddProductRequest) (*model.Product, error) {
	if msg := validator.Message(req); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}
	if req.Price == nil || req.Stock == nil {
		return nil, apperr.Validation("name, description, price and stock are required")
	}

	price, err := toNumber(req.Price)
	if err != nil || price <= 0 {
		return nil, apperr.Validation("price must be a positive number")
	}
	stock, err := toNumber(req.Stock)
	if err != nil || stock < 0 || stock > maxStock {
		return nil, apperr.Validation("stock must be a non-negative number")
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       int(math.Trunc(stock)),
		CreatedAt:   s.now(),
	}

	s.idMu.Lock()
	defer s.idMu.Unlock()

	if req.ID != nil && *req.ID > 0 {
		product.ID = *req.ID
	} else {
		max, err := s.productRepo.MaxID()
		if err != nil {
			return nil, apperr.Server("read max product id", err)
		}
		product.ID = max + 1
	}

	if err := s.productRepo.Create(product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("product %d already exists", product.ID)
		}
		return nil, apperr.Server("create product", err)
	}

	s.events.Publish(ws.Event{
		Type:   "stock_update",
		Action: "product_created",
		Data: map[string]interface{}{
			"id":    product.ID,
			"name":  product.Name,
			"stock": product.Stock,
			"price": product.Price,
		},
		Message: fmt.Sprintf("product '%s' created", product.Name),
	})
	return product, nil
}

// SetStock only takes a JSON number: numeric strings are refused here.
func (s *catalogService) SetStock(id int64, stock any) error {
	n, ok := stock.(float64)
	if !ok || n < 0 || n > maxStock || n != math.Trunc(n) {
		return apperr.Validation("invalid stock")
	}

	if err := s.productRepo.SetStock(id, int(n)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product not found")
		}
		return apperr.Server("set stock", err)
	}

	s.events.Publish(ws.Event{
		Type:   "stock_update",
		Action: "stock_set",
		Data:   map[string]interface{}{"id": id, "new_stock": int(n)},
	})
	return nil
}

func (s *catalogService) Stats() (*model.CatalogStats, error) {
	stats, err := s.productRepo.Stats(s.lowStockThreshold)
	if err != nil {
		return nil, apperr.Server("catalog stats", err)
	}
	return stats, nil
}

func toNumber(v any) (float64, error) {
	if _, isBool := v.(bool); isBool {
		return 0, fmt.Errorf("not a number: %v", v)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %v", v)
	}
	return f, nil
}
