package repository

import (
	"time"

	"go-shop-ms/internal/model"

	"gorm.io/gorm"
)

type DeliveryRepository interface {
	Create(delivery *model.Delivery) error
	FindAll() ([]model.Delivery, error)
	FindByID(id string) (*model.Delivery, error)
	UpdateStatus(id string, status model.DeliveryStatus, deliveredAt *time.Time) error
}

type deliveryRepo struct {
	db *gorm.DB
}

func NewDeliveryRepo(db *gorm.DB) DeliveryRepository {
	return &deliveryRepo{db}
}

func (r *deliveryRepo) Create(delivery *model.Delivery) error {
	return r.db.Create(delivery).Error
}

func (r *deliveryRepo) FindAll() ([]model.Delivery, error) {
	var deliveries []model.Delivery
	err := r.db.Order("ship_date ASC").Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepo) FindByID(id string) (*model.Delivery, error) {
	var delivery model.Delivery
	if err := r.db.First(&delivery, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &delivery, nil
}

// UpdateStatus sets the status and, when deliveredAt is non-nil, the
// delivery date. A nil deliveredAt leaves the stored date untouched.
func (r *deliveryRepo) UpdateStatus(id string, status model.DeliveryStatus, deliveredAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if deliveredAt != nil {
		updates["delivery_date"] = *deliveredAt
	}
	res := r.db.Model(&model.Delivery{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
