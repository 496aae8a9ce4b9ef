package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // waiting for payment
	OrderStatusPaid       OrderStatus = "paid"       // payment confirmed
	OrderStatusProcessing OrderStatus = "processing" // being prepared
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// HoldsStock reports whether an order in this status still holds its stock
// reservation, so cancelling it must give the stock back.
func (s OrderStatus) HoldsStock() bool {
	return s == OrderStatusPending || s == OrderStatusPaid
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// ShippingAddress is persisted as an immutable jsonb snapshot on the order.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// MissingFields lists required address fields that are empty.
func (a ShippingAddress) MissingFields() []string {
	var missing []string
	fields := []struct {
		name  string
		value string
	}{
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zipCode", a.ZipCode},
		{"country", a.Country},
	}
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func (a ShippingAddress) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *ShippingAddress) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("unsupported type for ShippingAddress")
	}
}

func (ShippingAddress) GormDataType() string {
	return "jsonb"
}

type Order struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber      string          `gorm:"not null;type:varchar(50);uniqueIndex" json:"orderNumber"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	Status           OrderStatus     `gorm:"not null;type:varchar(20);default:pending" json:"status"`
	PaymentStatus    PaymentStatus   `gorm:"not null;type:varchar(20);default:pending" json:"paymentStatus"`
	ShippingAddress  ShippingAddress `gorm:"type:jsonb" json:"shippingAddress"`
	Notes            string          `gorm:"type:text" json:"notes,omitempty"`
	Subtotal         decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"subtotal"`
	ShippingCost     decimal.Decimal `gorm:"not null;type:decimal(10,2);default:0" json:"shippingCost"`
	Tax              decimal.Decimal `gorm:"not null;type:decimal(10,2);default:0" json:"tax"`
	Total            decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total"`
	GatewaySessionID string          `gorm:"type:varchar(255);index" json:"-"`
	GatewayPaymentID string          `gorm:"type:varchar(255);index" json:"-"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	BaseModel
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Cancellable reports whether the user-facing cancel path may run from the
// current status. The strict policy only cancels unpaid orders; allowPaid
// restores the legacy behaviour.
func (o *Order) Cancellable(allowPaid bool) bool {
	if o.Status == OrderStatusPending {
		return true
	}
	return allowPaid && o.Status == OrderStatusPaid
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_order_product,unique" json:"orderId"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index:idx_order_product,unique" json:"productId"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"unitPrice"`
	Subtotal  decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"subtotal"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	BaseModel
}
