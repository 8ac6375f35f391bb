package memory

import (
	"sort"
	"sync"

	"go-shop-ms/internal/model"
	"go-shop-ms/internal/repository"

	"gorm.io/gorm"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]model.Order

	// CreateErr, when set, is returned by Create without storing anything.
	CreateErr error
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(seed ...model.Order) *OrderRepository {
	r := &OrderRepository{orders: make(map[string]model.Order)}
	for _, o := range seed {
		r.orders[o.ID] = o
	}
	return r
}

func (r *OrderRepository) Create(order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	if _, ok := r.orders[order.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	stored := *order
	stored.LineItems = make([]model.LineItem, len(order.LineItems))
	for i, item := range order.LineItems {
		item.OrderID = order.ID
		item.Position = i
		stored.LineItems[i] = item
	}
	r.orders[order.ID] = stored
	return nil
}

func (r *OrderRepository) FindAll() ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i].ID, out[j].ID) })
	return out, nil
}

func (r *OrderRepository) FindByID(id string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r *OrderRepository) LastID() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	last := ""
	for id := range r.orders {
		if last == "" || idLess(last, id) {
			last = id
		}
	}
	return last, nil
}

func (r *OrderRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

// cloneOrder detaches the line items from the stored row.
func cloneOrder(o model.Order) model.Order {
	o.LineItems = append([]model.LineItem(nil), o.LineItems...)
	return o
}

// idLess mirrors ORDER BY LENGTH(id), id.
func idLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
