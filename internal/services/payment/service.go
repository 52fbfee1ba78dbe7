// Package payment handles wallet top-ups through the external payment
// gateway. The gateway is an opaque funding source: the wallet only ever
// sees a confirmed amount, never the card or checkout details.
package payment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"evmarket/internal/models"
	"evmarket/internal/repositories"
	"evmarket/internal/services/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/checkout/session"
)

// Service errors
var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidAmount   = errors.New("invalid top-up amount")
	ErrPaymentExpired  = errors.New("payment session expired")
)

// DefaultSessionTTL bounds how long a pending top-up stays redeemable.
const DefaultSessionTTL = 30 * time.Minute

// CheckoutSession is what the caller needs to redirect the payer.
type CheckoutSession struct {
	PaymentReference string `json:"payment_reference"`
	CheckoutURL      string `json:"checkout_url"`
}

// Service defines wallet top-up operations.
type Service interface {
	// CreateTopUp opens a gateway checkout session and records a pending
	// payment with an expiry.
	CreateTopUp(ctx context.Context, userID uint, amount decimal.Decimal) (*CheckoutSession, error)
	// ConfirmTopUp marks a payment completed and credits the wallet.
	// Idempotent per payment reference.
	ConfirmTopUp(ctx context.Context, reference string) error
}

type service struct {
	repo    repositories.PaymentRepository
	wallets wallet.Service
	ttl     time.Duration
}

// NewService creates a new payment service. The Stripe API key is read from
// STRIPE_SECRET_KEY.
func NewService(repo repositories.PaymentRepository, wallets wallet.Service) Service {
	if repo == nil {
		panic("payment repository is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	return &service{repo: repo, wallets: wallets, ttl: DefaultSessionTTL}
}

func (s *service) CreateTopUp(ctx context.Context, userID uint, amount decimal.Decimal) (*CheckoutSession, error) {
	if amount.LessThanOrEqual(decimal.Zero) || amount.Exponent() < -2 {
		return nil, ErrInvalidAmount
	}

	reference := uuid.NewString()
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(amount.Mul(decimal.NewFromInt(100)).IntPart()),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Wallet top-up"),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(os.Getenv("PAYMENT_SUCCESS_URL")),
		CancelURL:  stripe.String(os.Getenv("PAYMENT_CANCEL_URL")),
	}
	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	payment := &models.Payment{
		UserID:    userID,
		Amount:    amount,
		Status:    models.PaymentStatusPending,
		SessionID: sess.ID,
		Reference: reference,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.repo.Create(payment); err != nil {
		return nil, err
	}

	return &CheckoutSession{PaymentReference: reference, CheckoutURL: sess.URL}, nil
}

func (s *service) ConfirmTopUp(ctx context.Context, reference string) error {
	payment, err := s.repo.GetByReference(reference)
	if err != nil {
		if err == repositories.ErrPaymentNotFound {
			return ErrPaymentNotFound
		}
		return err
	}

	switch payment.Status {
	case models.PaymentStatusCompleted:
		return nil
	case models.PaymentStatusPending:
	default:
		return ErrPaymentExpired
	}

	if time.Now().UTC().After(payment.ExpiresAt) {
		payment.Status = models.PaymentStatusCanceled
		if err := s.repo.Update(payment); err != nil {
			return err
		}
		return ErrPaymentExpired
	}

	// Mark completed before crediting so a concurrent confirmation of the
	// same reference short-circuits instead of double-crediting.
	now := time.Now().UTC()
	payment.Status = models.PaymentStatusCompleted
	payment.CompletedAt = &now
	if err := s.repo.Update(payment); err != nil {
		return err
	}

	if err := s.wallets.TopUp(ctx, payment.UserID, payment.Amount, payment.ID); err != nil {
		payment.Status = models.PaymentStatusPending
		payment.CompletedAt = nil
		if revertErr := s.repo.Update(payment); revertErr != nil {
			log.WithError(revertErr).WithField("reference", reference).Error("failed to revert payment status after credit failure")
		}
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	return nil
}
