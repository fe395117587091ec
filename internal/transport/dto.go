package transport

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmarchuk/storefront/internal/models"
)

var (
	ErrUnsupportedMethod = errors.New("unsupported payment method")
	ErrInvalidPayload    = errors.New("invalid confirmation payload")
)

type CreateOrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreateOrderRequest struct {
	Items           []CreateOrderItem      `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	ItemsPrice      decimal.Decimal        `json:"items_price"`
	ShippingPrice   decimal.Decimal        `json:"shipping_price"`
	TaxPrice        decimal.Decimal        `json:"tax_price"`
	TotalPrice      decimal.Decimal        `json:"total_price"`
}

// PayPalConfirmation is what the redirect flow hands back to the client:
// the transaction is already captured on PayPal's side.
type PayPalConfirmation struct {
	TransactionID string `json:"id"`
	Status        string `json:"status"`
	UpdateTime    string `json:"update_time"`
	PayerEmail    string `json:"payer_email"`
}

type CardDetails struct {
	ID       string `json:"id"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
}

// StripeConfirmation carries the tokenized card; the charge itself is
// created server-side.
type StripeConfirmation struct {
	TokenID     string      `json:"id"`
	Email       string      `json:"email"`
	Description string      `json:"products"`
	Card        CardDetails `json:"card"`
}

// PaymentConfirmation is a tagged variant over the supported gateways.
// Exactly one of the payload pointers matching Method is non-nil.
type PaymentConfirmation struct {
	Method models.PaymentMethod
	PayPal *PayPalConfirmation
	Stripe *StripeConfirmation
}

// DecodePaymentConfirmation resolves the confirmation payload shape from
// the payment_method field, once, at the API boundary.
func DecodePaymentConfirmation(data []byte) (*PaymentConfirmation, error) {
	var head struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	switch models.PaymentMethod(head.PaymentMethod) {
	case models.PaymentMethodPayPal:
		var p PayPalConfirmation
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if p.TransactionID == "" || p.Status == "" {
			return nil, fmt.Errorf("%w: transaction id and status required", ErrInvalidPayload)
		}
		return &PaymentConfirmation{Method: models.PaymentMethodPayPal, PayPal: &p}, nil

	case models.PaymentMethodStripe:
		var s StripeConfirmation
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if s.TokenID == "" {
			return nil, fmt.Errorf("%w: card token required", ErrInvalidPayload)
		}
		return &PaymentConfirmation{Method: models.PaymentMethodStripe, Stripe: &s}, nil

	case models.PaymentMethodCash:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, head.PaymentMethod)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, head.PaymentMethod)
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type PatchProductRequest struct {
	Name         *string          `json:"name"`
	Image        *string          `json:"image"`
	Brand        *string          `json:"brand"`
	Category     *string          `json:"category"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	CountInStock *int             `json:"count_in_stock"`
}
