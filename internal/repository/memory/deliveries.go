package memory

import (
	"sort"
	"sync"
	"time"

	"go-shop-ms/internal/model"
	"go-shop-ms/internal/repository"

	"gorm.io/gorm"
)

type DeliveryRepository struct {
	mu         sync.RWMutex
	deliveries map[string]model.Delivery
}

var _ repository.DeliveryRepository = (*DeliveryRepository)(nil)

func NewDeliveryRepository(seed ...model.Delivery) *DeliveryRepository {
	r := &DeliveryRepository{deliveries: make(map[string]model.Delivery)}
	for _, d := range seed {
		r.deliveries[d.ID] = d
	}
	return r
}

func (r *DeliveryRepository) Create(delivery *model.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deliveries[delivery.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.deliveries[delivery.ID] = *delivery
	return nil
}

func (r *DeliveryRepository) FindAll() ([]model.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Delivery, 0, len(r.deliveries))
	for _, d := range r.deliveries {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShipDate.Before(out[j].ShipDate) })
	return out, nil
}

func (r *DeliveryRepository) FindByID(id string) (*model.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.deliveries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (r *DeliveryRepository) UpdateStatus(id string, status model.DeliveryStatus, deliveredAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deliveries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.Status = status
	if deliveredAt != nil {
		t := *deliveredAt
		d.DeliveryDate = &t
	}
	r.deliveries[id] = d
	return nil
}
