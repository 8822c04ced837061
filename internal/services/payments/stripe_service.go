package payments

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/notify"
)

var ErrNotConfigured = errors.New("stripe not configured (missing STRIPE_SECRET_KEY)")

// Service is a thin pass-through to Stripe test-mode payment intents.
// Semua logic pembayaran real ada di Stripe; di sini cuma buat intent
// dan emit notifikasi payment_received.
type Service struct {
	Notify  *notify.Service
	enabled bool
}

func New(secretKey string, n *notify.Service) *Service {
	if secretKey == "" {
		log.Println("Stripe NOT initialized - STRIPE_SECRET_KEY not set")
		return &Service{Notify: n}
	}
	stripe.Key = secretKey
	log.Println("Stripe initialized")
	return &Service{Notify: n, enabled: true}
}

func (s *Service) Enabled() bool { return s.enabled }

// CreateIntent converts an amount in major units to cents and returns the
// client secret the frontend needs to confirm the payment.
func (s *Service) CreateIntent(amount float64, currency, description string) (string, error) {
	if !s.enabled {
		return "", ErrNotConfigured
	}
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(int64(math.Round(amount * 100))),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}

// RecordPayment notifies the freelancer that a payment for a project landed.
// Dipanggil setelah frontend konfirmasi intent sukses.
func (s *Service) RecordPayment(freelancerID, projectID uuid.UUID, projectTitle string, amount float64) {
	relID := projectID
	s.Notify.Emit(notify.Notice{
		UserID:    freelancerID,
		Title:     "Payment Received",
		Message:   fmt.Sprintf("A payment of $%.2f for %q has been received.", amount, projectTitle),
		Type:      models.NotifPaymentReceived,
		RelatedID: &relID,
		ActionURL: "/project/" + projectID.String(),
	})
}
