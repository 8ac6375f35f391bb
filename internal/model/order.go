package model

import "time"

const (
	OrderStatusPending   = "pending"
	PaymentMethodCard    = "card"
	PaymentStatusPending = "pending"
)

// Payment is stored inline with its order.
type Payment struct {
	Method      string  `gorm:"type:varchar(32)" json:"method"`
	Status      string  `gorm:"type:varchar(32)" json:"status"`
	Reference   string  `gorm:"type:varchar(32)" json:"reference"`
	TotalAmount float64 `json:"total_amount"`
}

// LineItem is a product/quantity pair priced at order time.
type LineItem struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	OrderID   string  `gorm:"type:varchar(32);index;not null" json:"-"`
	Position  int     `gorm:"not null" json:"-"`
	ProductID int64   `gorm:"not null" json:"product_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Name      string  `gorm:"type:varchar(255)" json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

func (LineItem) TableName() string {
	return "commande_lignes"
}

type Order struct {
	ID        string     `gorm:"type:varchar(32);primaryKey" json:"id"`
	LineItems []LineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"line_items"`
	OrderDate time.Time  `json:"order_date"`
	Status    string     `gorm:"type:varchar(32);not null" json:"status"`
	Payment   Payment    `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Notes     string     `gorm:"type:text" json:"notes"`
}

func (Order) TableName() string {
	return "commandes"
}
