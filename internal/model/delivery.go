package model

import "time"

type DeliveryStatus string

const (
	DeliveryShipped   DeliveryStatus = "shipped"
	DeliveryInTransit DeliveryStatus = "in-transit"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryCancelled DeliveryStatus = "cancelled"
)

// DeliveryStatuses lists the accepted values, in lifecycle order.
var DeliveryStatuses = []DeliveryStatus{DeliveryShipped, DeliveryInTransit, DeliveryDelivered, DeliveryCancelled}

func (s DeliveryStatus) Valid() bool {
	for _, v := range DeliveryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Delivery.OrderID is a soft reference: nothing checks that the order exists.
type Delivery struct {
	ID           string         `gorm:"type:varchar(16);primaryKey" json:"id"`
	OrderID      string         `gorm:"type:varchar(32);index;not null" json:"order_id"`
	Carrier      string         `gorm:"type:varchar(100);not null" json:"carrier"`
	Status       DeliveryStatus `gorm:"type:varchar(20);not null" json:"status"`
	ShipDate     time.Time      `json:"ship_date"`
	DeliveryDate *time.Time     `json:"delivery_date"`
}

func (Delivery) TableName() string {
	return "livraisons"
}
