package memory

import (
	"sort"
	"sync"
	"time"

	"go-shop-ms/internal/model"
	"go-shop-ms/internal/repository"

	"gorm.io/gorm"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]model.Product
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(seed ...model.Product) *ProductRepository {
	r := &ProductRepository{products: make(map[int64]model.Product)}
	for _, p := range seed {
		r.products[p.ID] = p
	}
	return r
}

func (r *ProductRepository) Create(product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	r.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) FindAll() ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepository) FindByID(id int64) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *ProductRepository) MaxID() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var max int64
	for id := range r.products {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (r *ProductRepository) SetStock(id int64, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	r.products[id] = p
	return nil
}

func (r *ProductRepository) DecrementStock(id int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.Stock < quantity {
		return repository.ErrInsufficientStock
	}
	p.Stock -= quantity
	r.products[id] = p
	return nil
}

func (r *ProductRepository) Stats(lowStockThreshold int) (*model.CatalogStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var stats model.CatalogStats
	for _, p := range r.products {
		stats.TotalProducts++
		if p.Stock < lowStockThreshold {
			stats.LowStockCount++
		}
		stats.TotalValuation += p.Price * float64(p.Stock)
	}
	return &stats, nil
}
