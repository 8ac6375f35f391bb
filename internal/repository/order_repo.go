package repository

import (
	"go-shop-ms/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindAll() ([]model.Order, error)
	FindByID(id string) (*model.Order, error)
	LastID() (string, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create inserts the order and its line items in one statement batch.
func (r *orderRepo) Create(order *model.Order) error {
	for i := range order.LineItems {
		order.LineItems[i].Position = i
	}
	return r.db.Create(order).Error
}

func (r *orderRepo) FindAll() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("LineItems", byPosition).Order("order_date ASC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("LineItems", byPosition).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// LastID returns the highest order id, "" when there are no orders.
// Ordering by length first keeps CMD1000 after CMD999.
func (r *orderRepo) LastID() (string, error) {
	var ids []string
	err := r.db.Model(&model.Order{}).
		Order("LENGTH(id) DESC").Order("id DESC").
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}
