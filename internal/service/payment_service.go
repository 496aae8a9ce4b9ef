package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/RoyceAzure/lab/shopcenter/internal/errs"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/payment"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/producer"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository/db"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentView is the payment-facing projection of an order.
type PaymentView struct {
	OrderID       uuid.UUID           `json:"orderId"`
	OrderNumber   string              `json:"orderNumber"`
	Status        model.OrderStatus   `json:"status"`
	PaymentStatus model.PaymentStatus `json:"paymentStatus"`
	Total         decimal.Decimal     `json:"total"`
	PaidAt        *time.Time          `json:"paidAt,omitempty"`
}

type IPaymentService interface {
	CreateCheckoutSession(ctx context.Context, userID, orderID uuid.UUID) (*payment.Session, error)
	HandleGatewayEvent(ctx context.Context, rawBody []byte, sigHeader string) error
	GetPaymentStatus(ctx context.Context, userID, orderID uuid.UUID) (*PaymentView, error)
}

type PaymentService struct {
	dbDao         db.IStore
	gateway       payment.Gateway
	orderProducer producer.IOrderProducer
	webhookSecret []byte
	successURL    string
	cancelURL     string
	autoCancel    bool
	logger        zerolog.Logger
}

type PaymentServiceParams struct {
	Gateway                  payment.Gateway
	OrderProducer            producer.IOrderProducer
	WebhookSecret            string
	SuccessURL               string
	CancelURL                string
	AutoCancelFailedPayments bool
}

func NewPaymentService(dbDao db.IStore, params PaymentServiceParams, logger zerolog.Logger) IPaymentService {
	return &PaymentService{
		dbDao:         dbDao,
		gateway:       params.Gateway,
		orderProducer: params.OrderProducer,
		webhookSecret: []byte(params.WebhookSecret),
		successURL:    params.SuccessURL,
		cancelURL:     params.CancelURL,
		autoCancel:    params.AutoCancelFailedPayments,
		logger:        logger,
	}
}

// CreateCheckoutSession returns a hosted checkout URL for a pending order.
// Calling it again for the same order reuses the stored session as long as
// the gateway still reports it open, so double-clicking "pay" cannot create
// two live sessions.
func (p *PaymentService) CreateCheckoutSession(ctx context.Context, userID, orderID uuid.UUID) (*payment.Session, error) {
	order, err := p.dbDao.GetOrderByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "order not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to load order", err)
	}
	if order.Status != model.OrderStatusPending {
		return nil, errs.Newf(errs.KindInvalidTransition,
			"order in status %s cannot be paid", order.Status)
	}

	if order.GatewaySessionID != "" {
		// a lookup failure only means we create a fresh session
		session, err := p.gateway.GetSession(ctx, order.GatewaySessionID)
		if err == nil && session.Status == payment.SessionStatusOpen {
			return session, nil
		}
		if err != nil {
			p.logger.Warn().Err(err).Str("order_number", order.OrderNumber).
				Msg("stored gateway session lookup failed, creating a new one")
		}
	}

	req := payment.CreateSessionRequest{
		Amount:     order.Total,
		Currency:   "usd",
		LineItems:  sessionLineItems(order),
		SuccessURL: p.successURL,
		CancelURL:  p.cancelURL,
		Metadata: map[string]string{
			"orderId":     order.ID.String(),
			"orderNumber": order.OrderNumber,
			"userId":      order.UserID.String(),
		},
	}
	session, err := p.gateway.CreateSession(ctx, req)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to create checkout session", err)
	}

	if err := p.dbDao.UpdateOrderFields(ctx, order.ID, map[string]any{
		"gateway_session_id": session.ID,
	}); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to store checkout session", err)
	}
	return session, nil
}

// HandleGatewayEvent is the webhook entrypoint. The signature is verified
// over the raw bytes before anything is parsed; after that every outcome
// except an internal failure acknowledges the event, replays included.
func (p *PaymentService) HandleGatewayEvent(ctx context.Context, rawBody []byte, sigHeader string) error {
	err := payment.VerifySignature(p.webhookSecret, rawBody, sigHeader, payment.DefaultTolerance, time.Now())
	if err != nil {
		return errs.Wrap(errs.KindInvalidSignature, "webhook signature verification failed", err)
	}

	var event payment.Event
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return errs.Wrap(errs.KindInvalidInput, "malformed webhook payload", err)
	}

	switch event.Type {
	case payment.EventCheckoutSessionCompleted:
		return p.handleSessionCompleted(ctx, &event)
	case payment.EventPaymentSucceeded:
		p.logger.Info().Str("event_id", event.ID).Str("payment_id", event.Data.PaymentID).
			Msg("payment succeeded")
		return nil
	case payment.EventPaymentFailed:
		return p.handlePaymentFailed(ctx, &event)
	default:
		p.logger.Info().Str("event_id", event.ID).Str("event_type", event.Type).
			Msg("ignoring unhandled gateway event")
		return nil
	}
}

func (p *PaymentService) handleSessionCompleted(ctx context.Context, event *payment.Event) error {
	var paid *model.Order
	err := p.dbDao.ExecTx(ctx, func(tx db.IStore) error {
		order, err := tx.GetOrderBySessionID(ctx, event.Data.SessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				p.logger.Warn().Str("session_id", event.Data.SessionID).
					Msg("completed session has no matching order")
				return nil
			}
			return err
		}

		// replayed event, nothing to do
		if order.Status == model.OrderStatusPaid {
			return nil
		}
		if order.Status != model.OrderStatusPending {
			p.logger.Warn().Str("order_number", order.OrderNumber).
				Str("status", string(order.Status)).
				Msg("completed session for an order that is no longer pending")
			return nil
		}

		now := time.Now().UTC()
		if err := tx.UpdateOrderFields(ctx, order.ID, map[string]any{
			"status":             model.OrderStatusPaid,
			"payment_status":     model.PaymentStatusCompleted,
			"gateway_payment_id": event.Data.PaymentID,
			"paid_at":            now,
		}); err != nil {
			return err
		}
		order.Status = model.OrderStatusPaid
		order.PaymentStatus = model.PaymentStatusCompleted
		order.GatewayPaymentID = event.Data.PaymentID
		order.PaidAt = &now
		paid = order
		return nil
	})
	if err != nil {
		return errs.Wrap(errs.KindInternal, "failed to reconcile completed session", err)
	}

	if paid != nil && p.orderProducer != nil {
		if err := p.orderProducer.Publish(ctx, producer.EventOrderPaid, paid); err != nil {
			p.logger.Error().Err(err).Str("order_number", paid.OrderNumber).
				Msg("failed to publish order paid event")
		}
	}
	return nil
}

func (p *PaymentService) handlePaymentFailed(ctx context.Context, event *payment.Event) error {
	err := p.dbDao.ExecTx(ctx, func(tx db.IStore) error {
		order, err := p.findOrderForEvent(ctx, tx, event)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				p.logger.Warn().Str("session_id", event.Data.SessionID).
					Str("payment_id", event.Data.PaymentID).
					Msg("failed payment has no matching order")
				return nil
			}
			return err
		}

		fields := map[string]any{"payment_status": model.PaymentStatusFailed}
		if p.autoCancel && order.Status == model.OrderStatusPending {
			for _, item := range order.Items {
				if err := tx.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			fields["status"] = model.OrderStatusCancelled
		}
		return tx.UpdateOrderFields(ctx, order.ID, fields)
	})
	if err != nil {
		return errs.Wrap(errs.KindInternal, "failed to reconcile failed payment", err)
	}
	return nil
}

func (p *PaymentService) findOrderForEvent(ctx context.Context, tx db.IStore, event *payment.Event) (*model.Order, error) {
	if event.Data.SessionID != "" {
		order, err := tx.GetOrderBySessionID(ctx, event.Data.SessionID)
		if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
			return order, err
		}
	}
	if event.Data.PaymentID != "" {
		return tx.GetOrderByPaymentID(ctx, event.Data.PaymentID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (p *PaymentService) GetPaymentStatus(ctx context.Context, userID, orderID uuid.UUID) (*PaymentView, error) {
	order, err := p.dbDao.GetOrderByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "order not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to load order", err)
	}
	return &PaymentView{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Total:         order.Total,
		PaidAt:        order.PaidAt,
	}, nil
}

func sessionLineItems(order *model.Order) []payment.LineItem {
	items := make([]payment.LineItem, 0, len(order.Items)+2)
	for _, it := range order.Items {
		name := "item"
		if it.Product != nil {
			name = it.Product.Name
		}
		items = append(items, payment.LineItem{
			Name:      name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	if order.ShippingCost.IsPositive() {
		items = append(items, payment.LineItem{Name: "Shipping", UnitPrice: order.ShippingCost, Quantity: 1})
	}
	if order.Tax.IsPositive() {
		items = append(items, payment.LineItem{Name: "Tax", UnitPrice: order.Tax, Quantity: 1})
	}
	return items
}
