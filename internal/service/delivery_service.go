package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go-shop-ms/internal/apperr"
	"go-shop-ms/internal/model"
	"go-shop-ms/internal/repository"
	"go-shop-ms/internal/ws"
	"go-shop-ms/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DeliveryService interface {
	ListDeliveries() ([]model.Delivery, error)
	GetDelivery(id string) (*model.Delivery, error)
	CreateDelivery(req *CreateDeliveryRequest) (*model.Delivery, error)
	UpdateStatus(id string, req *UpdateStatusRequest) (model.DeliveryStatus, error)
}

type CreateDeliveryRequest struct {
	OrderID string `json:"order_id" validate:"required"`
	Carrier string `json:"carrier" validate:"required"`
}

type UpdateStatusRequest struct {
	Status model.DeliveryStatus `json:"status"`
}

type deliveryService struct {
	deliveryRepo repository.DeliveryRepository
	orderRepo    repository.OrderRepository
	events       ws.Publisher
	log          *zap.Logger
	now          func() time.Time
	intn         func(n int) int
}

func NewDeliveryService(deliveryRepo repository.DeliveryRepository, orderRepo repository.OrderRepository, events ws.Publisher, log *zap.Logger) DeliveryService {
	return &deliveryService{
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		events:       events,
		log:          log,
		now:          time.Now,
		intn:         rand.IntN,
	}
}

func (s *deliveryService) ListDeliveries() ([]model.Delivery, error) {
	deliveries, err := s.deliveryRepo.FindAll()
	if err != nil {
		return nil, apperr.Server("list deliveries", err)
	}
	return deliveries, nil
}

func (s *deliveryService) GetDelivery(id string) (*model.Delivery, error) {
	delivery, err := s.deliveryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("delivery not found")
		}
		return nil, apperr.Server("find delivery", err)
	}
	return delivery, nil
}

// CreateDelivery does not require the order to exist; an unknown order is
// only logged.
func (s *deliveryService) CreateDelivery(req *CreateDeliveryRequest) (*model.Delivery, error) {
	if msg := validator.Message(req); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}

	if _, err := s.orderRepo.FindByID(req.OrderID); err != nil {
		s.log.Warn("delivery_order_lookup_failed",
			zap.String("order_id", req.OrderID),
			zap.Bool("not_found", errors.Is(err, gorm.ErrRecordNotFound)),
			zap.Error(err),
		)
	}

	delivery := &model.Delivery{
		// Neither fixed-width nor unique; a collision surfaces as a conflict.
		ID:       fmt.Sprintf("LIV00%d", s.intn(1000)),
		OrderID:  req.OrderID,
		Carrier:  req.Carrier,
		Status:   model.DeliveryShipped,
		ShipDate: s.now(),
	}

	if err := s.deliveryRepo.Create(delivery); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("delivery id %s already taken, retry", delivery.ID)
		}
		return nil, apperr.Server("create delivery", err)
	}

	s.events.Publish(ws.Event{
		Type:   "delivery_update",
		Action: "delivery_created",
		Data:   delivery,
	})
	return delivery, nil
}

// UpdateStatus allows any transition. Only "delivered" stamps the delivery
// date, and nothing clears it afterwards.
func (s *deliveryService) UpdateStatus(id string, req *UpdateStatusRequest) (model.DeliveryStatus, error) {
	if req.Status == "" {
		return "", apperr.Validation("status is required")
	}
	if !req.Status.Valid() {
		return "", apperr.Validation("invalid status, expected one of: shipped, in-transit, delivered, cancelled")
	}

	var deliveredAt *time.Time
	if req.Status == model.DeliveryDelivered {
		now := s.now()
		deliveredAt = &now
	}

	if err := s.deliveryRepo.UpdateStatus(id, req.Status, deliveredAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.NotFound("delivery not found")
		}
		return "", apperr.Server("update delivery status", err)
	}

	s.events.Publish(ws.Event{
		Type:   "delivery_update",
		Action: "delivery_status_update",
		Data:   map[string]interface{}{"id": id, "status": req.Status},
	})
	return req.Status, nil
}
