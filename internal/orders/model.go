package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status tracks the order lifecycle relative to payment.
type Status string

const (
	StatusInitiated Status = "INITIATED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Order is the persisted order header. Amount is the server-recomputed
// subtotal; TotalAmount includes the client-declared charges.
type Order struct {
	ID              int64           `gorm:"primaryKey"`
	TransactionUUID string          `gorm:"column:transaction_uuid;uniqueIndex;not null"`
	CustomerName    string          `gorm:"not null"`
	CustomerEmail   string          `gorm:"not null"`
	CustomerPhone   string          `gorm:"not null"`
	CustomerAddress string          `gorm:"not null"`
	Amount          decimal.Decimal `gorm:"type:numeric;not null"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric;not null"`
	ServiceCharge   decimal.Decimal `gorm:"type:numeric;not null"`
	DeliveryCharge  decimal.Decimal `gorm:"type:numeric;not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric;not null"`
	Status          Status          `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one purchased line, priced at order time.
type OrderItem struct {
	ID        int64           `gorm:"primaryKey"`
	OrderID   int64           `gorm:"not null;index"`
	ProductID int64           `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric;not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderDTO is the admin-facing wire shape of an order.
type OrderDTO struct {
	ID              int64          `json:"id"`
	TransactionUUID string         `json:"transaction_uuid"`
	CustomerName    string         `json:"customer_name"`
	CustomerEmail   string         `json:"customer_email"`
	CustomerPhone   string         `json:"customer_phone"`
	CustomerAddress string         `json:"customer_address"`
	Amount          float64        `json:"amount"`
	TaxAmount       float64        `json:"tax_amount"`
	ServiceCharge   float64        `json:"service_charge"`
	DeliveryCharge  float64        `json:"delivery_charge"`
	TotalAmount     float64        `json:"total_amount"`
	Status          Status         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	Items           []OrderItemDTO `json:"items,omitempty"`
}

// OrderItemDTO is one order line on the wire.
type OrderItemDTO struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// DTO maps the row and its loaded items to the wire shape.
func (o Order) DTO() OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.Round(2).InexactFloat64(),
		})
	}
	return OrderDTO{
		ID:              o.ID,
		TransactionUUID: o.TransactionUUID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		Amount:          o.Amount.Round(2).InexactFloat64(),
		TaxAmount:       o.TaxAmount.Round(2).InexactFloat64(),
		ServiceCharge:   o.ServiceCharge.Round(2).InexactFloat64(),
		DeliveryCharge:  o.DeliveryCharge.Round(2).InexactFloat64(),
		TotalAmount:     o.TotalAmount.Round(2).InexactFloat64(),
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
		Items:           items,
	}
}
