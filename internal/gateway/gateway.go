// Package gateway defines the capability set the order service needs from
// a card-charging payment provider, independent of any concrete SDK.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

// ErrCustomerNotFound reports that the provider has no customer record
// for the given reference.
var ErrCustomerNotFound = errors.New("gateway: customer not found")

// Error is a failed provider call. Code carries the provider's machine
// readable error code (e.g. "card_declined").
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %s (code=%s)", e.Message, e.Code)
}

type Customer struct {
	ID            string
	Name          string
	Email         string
	DefaultCardID string
}

type Card struct {
	ID       string
	Last4    string
	ExpMonth int
	ExpYear  int
}

type Charge struct {
	ID       string
	Status   string
	Amount   int64
	Currency string
}

// ChargeRequest describes a charge to create. Amount is in the currency's
// minor units. IdempotencyKey, when set, makes a retried call return the
// original charge instead of creating a second one.
type ChargeRequest struct {
	CustomerID     string
	Amount         int64
	Currency       string
	Description    string
	ReceiptEmail   string
	IdempotencyKey string
}

type Client interface {
	FindCustomer(ctx context.Context, customerID string) (*Customer, error)
	CreateCustomer(ctx context.Context, name, email, cardToken string) (*Customer, error)
	ListCards(ctx context.Context, customerID string) ([]Card, error)
	RegisterCard(ctx context.Context, customerID, cardToken string) (*Card, error)
	SetDefaultCard(ctx context.Context, customerID, cardID string) error
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
}
