package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"cutesalon/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway talks to Stripe hosted checkout. The API key is set globally
// on the stripe package at startup.
type StripeGateway struct {
	webhookSecret string
	origin        string // frontend origin for redirect URLs
}

// NewStripeGateway creates a gateway for hosted checkout sessions.
func NewStripeGateway(webhookSecret, origin string) *StripeGateway {
	return &StripeGateway{webhookSecret: webhookSecret, origin: origin}
}

// CreateCheckoutSession opens a hosted checkout session for the booking's
// treatment snapshot and returns the session id and redirect URL.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, b *models.Booking) (string, string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(b.Treatments))
	for _, t := range b.Treatments {
		name := t.Name
		if t.Parent != "" {
			name = t.Parent + " - " + t.Name
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyGBP)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
				},
				// Stripe expects the amount in pence.
				UnitAmount: stripe.Int64(int64(math.Round(t.Price * 100))),
			},
			Quantity: stripe.Int64(1),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(g.origin + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(g.origin + "/?canceled=true"),
		CustomerEmail:      stripe.String(b.Email),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", b.ID)
	params.AddMetadata("email", b.Email)

	s, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return s.ID, s.URL, nil
}

// SessionPaid reports whether the gateway captured funds for the session.
func (g *StripeGateway) SessionPaid(ctx context.Context, sessionRef string) (bool, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(sessionRef, params)
	if err != nil {
		return false, fmt.Errorf("failed to retrieve checkout session %s: %w", sessionRef, err)
	}
	return s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}

// RefundSession refunds the full amount captured through the session.
func (g *StripeGateway) RefundSession(ctx context.Context, sessionRef string) error {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(sessionRef, params)
	if err != nil {
		return fmt.Errorf("failed to retrieve checkout session %s: %w", sessionRef, err)
	}
	if s.PaymentIntent == nil || s.PaymentIntent.ID == "" {
		return fmt.Errorf("checkout session %s has no payment intent", sessionRef)
	}

	refundParams := &stripe.RefundParams{
		PaymentIntent: stripe.String(s.PaymentIntent.ID),
	}
	refundParams.Context = ctx

	if _, err := refund.New(refundParams); err != nil {
		return fmt.Errorf("refund failed for session %s: %w", sessionRef, err)
	}
	return nil
}

// VerifyWebhook checks the push notification's signature and, when the event
// reports a completed checkout, returns the session reference. completed is
// false for validly signed events of any other type.
func (g *StripeGateway) VerifyWebhook(payload []byte, sigHeader string) (sessionRef string, completed bool, err error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
	if err != nil {
		return "", false, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		return "", false, nil
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return "", false, fmt.Errorf("failed to parse checkout session event: %w", err)
	}
	return s.ID, true, nil
}
