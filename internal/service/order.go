package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dmarchuk/storefront/internal/events"
	"github.com/dmarchuk/storefront/internal/gateway"
	"github.com/dmarchuk/storefront/internal/logging"
	"github.com/dmarchuk/storefront/internal/models"
	"github.com/dmarchuk/storefront/internal/repo"
	"github.com/dmarchuk/storefront/internal/transport"
)

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrNotFound           = errors.New("not found")           // 404
	ErrConflict           = errors.New("conflict")            // 409
	ErrUnsupportedGateway = errors.New("unsupported gateway") // 404
	ErrPaymentProcessing  = errors.New("payment processing")  // 500/502
)

// Mailer delivers order confirmation messages. Failures are logged by the
// caller and never surfaced.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, user *models.User, order *models.Order) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type OrderService struct {
	Orders  *repo.OrderRepo
	Users   *repo.UserRepo
	Gateway gateway.Client
	Mailer  Mailer
	Events  EventPublisher

	AdminEmail string
	Currency   string
}

func (s *OrderService) Create(ctx context.Context, ownerID uuid.UUID, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create_order", "user_id", ownerID)

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order items required", ErrValidation)
	}

	method := models.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}

	addr := req.ShippingAddress
	if addr.Address == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		return nil, fmt.Errorf("%w: shipping address incomplete", ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for i := range req.Items {
		it := req.Items[i]
		if it.ProductID == uuid.Nil {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit price must be >= 0", ErrValidation)
		}
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	for _, p := range []decimal.Decimal{req.ItemsPrice, req.ShippingPrice, req.TaxPrice, req.TotalPrice} {
		if p.IsNegative() {
			return nil, fmt.Errorf("%w: prices must be >= 0", ErrValidation)
		}
	}
	if !req.TotalPrice.Equal(req.ItemsPrice.Add(req.ShippingPrice).Add(req.TaxPrice)) {
		return nil, fmt.Errorf("%w: total price does not match items+shipping+tax", ErrValidation)
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          ownerID,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   method,
		ItemsPrice:      req.ItemsPrice,
		ShippingPrice:   req.ShippingPrice,
		TaxPrice:        req.TaxPrice,
		TotalPrice:      req.TotalPrice,
	}

	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.notify(ctx, order)
	s.publish(ctx, events.TypeOrderCreated, order)

	l.Info("create_order_success", "order_id", order.ID)
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, orderID, requesterID uuid.UUID, requesterIsAdmin bool) (*models.Order, error) {
	order, err := s.Orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, err
	}

	// Existence is not leaked to non-owners.
	if !requesterIsAdmin && order.UserID != requesterID {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}

	return order, nil
}

func (s *OrderService) ConfirmPayment(ctx context.Context, orderID uuid.UUID, conf *transport.PaymentConfirmation) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.confirm_payment", "order_id", orderID)

	order, err := s.Orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, err
	}

	switch conf.Method {
	case models.PaymentMethodPayPal:
		if err := s.confirmPayPal(ctx, order, conf.PayPal); err != nil {
			return nil, err
		}
	case models.PaymentMethodStripe:
		if err := s.confirmStripe(ctx, order, conf.Stripe); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGateway, conf.Method)
	}

	s.publish(ctx, events.TypeOrderPaid, order)
	l.Info("confirm_payment_success", "gateway", string(conf.Method))
	return order, nil
}

// confirmPayPal records a payment already captured by the redirect flow.
// The payload is trusted as supplied; no verification call is made.
func (s *OrderService) confirmPayPal(ctx context.Context, order *models.Order, conf *transport.PayPalConfirmation) error {
	l := logging.FromContext(ctx).With("svc", "order.confirm_payment", "order_id", order.ID, "gateway", "paypal")

	markPaid(order, models.PaymentResult{
		TransactionID: conf.TransactionID,
		Status:        conf.Status,
		UpdateTime:    conf.UpdateTime,
		PayerEmail:    conf.PayerEmail,
	})

	if err := s.Orders.Update(ctx, order); err != nil {
		return processingError(l, "update_order", err)
	}
	return nil
}

// confirmStripe runs the server-initiated charge sequence: resolve or
// create the gateway customer, resolve the card, create the charge, then
// persist the paid state. Any failure leaves the stored order untouched.
func (s *OrderService) confirmStripe(ctx context.Context, order *models.Order, conf *transport.StripeConfirmation) error {
	l := logging.FromContext(ctx).With("svc", "order.confirm_payment", "order_id", order.ID, "gateway", "stripe")

	user, err := s.Users.FindByID(ctx, order.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, order.UserID)
		}
		return processingError(l, "find_user", err)
	}

	var customerID string
	if user.StripeCustomerID != "" {
		customer, err := s.Gateway.FindCustomer(ctx, user.StripeCustomerID)
		if err != nil {
			return processingError(l, "find_customer", err)
		}
		customerID = customer.ID

		cards, err := s.Gateway.ListCards(ctx, customerID)
		if err != nil {
			return processingError(l, "list_cards", err)
		}

		var cardID string
		for _, c := range cards {
			if c.Last4 == conf.Card.Last4 && c.ExpMonth == conf.Card.ExpMonth && c.ExpYear == conf.Card.ExpYear {
				cardID = c.ID
				break
			}
		}
		if cardID == "" {
			card, err := s.Gateway.RegisterCard(ctx, customerID, conf.TokenID)
			if err != nil {
				return processingError(l, "register_card", err)
			}
			cardID = card.ID
		}
		if err := s.Gateway.SetDefaultCard(ctx, customerID, cardID); err != nil {
			return processingError(l, "set_default_card", err)
		}
	} else {
		// First charge for this user: the initial card token becomes the
		// customer's default source.
		customer, err := s.Gateway.CreateCustomer(ctx, user.Name, conf.Email, conf.TokenID)
		if err != nil {
			return processingError(l, "create_customer", err)
		}
		customerID = customer.ID

		if err := s.Users.SetStripeCustomerID(ctx, user.ID, customerID); err != nil {
			return processingError(l, "save_customer_ref", err)
		}
	}

	charge, err := s.Gateway.CreateCharge(ctx, gateway.ChargeRequest{
		CustomerID:     customerID,
		Amount:         minorUnits(order.TotalPrice),
		Currency:       s.Currency,
		Description:    conf.Description,
		ReceiptEmail:   conf.Email,
		IdempotencyKey: chargeIdempotencyKey(order.ID),
	})
	if err != nil {
		return processingError(l, "create_charge", err)
	}

	markPaid(order, models.PaymentResult{
		ChargeID:   charge.ID,
		Status:     charge.Status,
		TokenID:    conf.TokenID,
		CardID:     conf.Card.ID,
		PayerEmail: conf.Email,
	})

	if err := s.Orders.Update(ctx, order); err != nil {
		return processingError(l, "update_order", err)
	}
	return nil
}

func (s *OrderService) ConfirmDelivery(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.confirm_delivery", "order_id", orderID)

	order, err := s.Orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, err
	}

	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now

	if err := s.Orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeOrderDelivered, order)
	l.Info("confirm_delivery_success")
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Orders.FindByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.Orders.FindAll(ctx)
}

// markPaid sets both halves of the payment state. They never change
// independently.
func markPaid(order *models.Order, result models.PaymentResult) {
	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = result
}

func minorUnits(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}

// chargeIdempotencyKey is stable per order, so a retried confirmation
// cannot double-charge.
func chargeIdempotencyKey(orderID uuid.UUID) string {
	return "order-" + orderID.String()
}

func processingError(l *slog.Logger, op string, err error) error {
	l.Error("confirm_payment_error", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrPaymentProcessing, op, err)
}

func (s *OrderService) notify(ctx context.Context, order *models.Order) {
	if s.Mailer == nil {
		return
	}
	l := logging.FromContext(ctx).With("svc", "order.create_order", "order_id", order.ID)

	user, err := s.Users.FindByID(ctx, order.UserID)
	if err != nil {
		l.Warn("notify_skipped", "reason", "owner lookup failed", "error", err)
		return
	}

	if s.AdminEmail != "" {
		if err := s.Mailer.SendOrderConfirmation(ctx, s.AdminEmail, user, order); err != nil {
			l.Warn("admin_mail_failed", "error", err)
		}
	}
	if err := s.Mailer.SendOrderConfirmation(ctx, user.Email, user, order); err != nil {
		l.Warn("customer_mail_failed", "error", err)
	}
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if s.Events == nil {
		return
	}
	event := map[string]any{
		"type":     eventType,
		"order_id": order.ID.String(),
		"user_id":  order.UserID.String(),
		"total":    order.TotalPrice,
	}
	if err := s.Events.PublishEvent(ctx, events.TopicOrderEvents, order.ID.String(), event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "type", eventType, "order_id", order.ID, "error", err)
	}
}
