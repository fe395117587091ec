package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodPayPal PaymentMethod = "PayPal"
	PaymentMethodStripe PaymentMethod = "Stripe"
	PaymentMethodCash   PaymentMethod = "Cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodPayPal, PaymentMethodStripe, PaymentMethodCash:
		return true
	}
	return false
}

type ShippingAddress struct {
	Address    string `gorm:"not null" json:"address"`
	City       string `gorm:"not null" json:"city"`
	PostalCode string `gorm:"not null" json:"postal_code"`
	Country    string `gorm:"not null" json:"country"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"  json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"        json:"product_id"`
	Name      string          `gorm:"not null"                  json:"name"`
	Quantity  int             `gorm:"not null;check:quantity>0" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric;not null"     json:"unit_price"`
}

// PaymentResult holds whatever the gateway attested to. The populated
// fields depend on the order's payment method.
type PaymentResult struct {
	TransactionID string `json:"transaction_id,omitempty"`
	ChargeID      string `json:"charge_id,omitempty"`
	TokenID       string `json:"token_id,omitempty"`
	CardID        string `json:"card_id,omitempty"`
	Status        string `json:"status,omitempty"`
	PayerEmail    string `json:"payer_email,omitempty"`
	UpdateTime    string `json:"update_time,omitempty"`
}

func (r PaymentResult) IsEmpty() bool {
	return r == PaymentResult{}
}

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"              json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;index;not null"          json:"user_id"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"                json:"items"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	PaymentMethod   PaymentMethod   `gorm:"not null"                          json:"payment_method"`
	ItemsPrice      decimal.Decimal `gorm:"type:numeric;not null"             json:"items_price"`
	ShippingPrice   decimal.Decimal `gorm:"type:numeric;not null"             json:"shipping_price"`
	TaxPrice        decimal.Decimal `gorm:"type:numeric;not null"             json:"tax_price"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric;not null"             json:"total_price"`
	IsPaid          bool            `gorm:"not null;default:false"            json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsDelivered     bool            `gorm:"not null;default:false"            json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	PaymentResult   PaymentResult   `gorm:"embedded;embeddedPrefix:payment_"  json:"payment_result"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Name             string    `gorm:"not null"               json:"name"`
	Email            string    `gorm:"uniqueIndex;not null"   json:"email"`
	PasswordHash     string    `gorm:"not null"               json:"-"`
	IsAdmin          bool      `gorm:"not null;default:false" json:"is_admin"`
	StripeCustomerID string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"  json:"id"`
	Name         string          `gorm:"not null"              json:"name"`
	Image        string          `json:"image"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	CountInStock int             `gorm:"not null;default:0"    json:"count_in_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
