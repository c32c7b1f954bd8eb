// Package payments creates Stripe Checkout sessions for gazette orders.
package payments

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"

	"egazette/pkg/types"
)

type Checkout struct {
	returnURL string
	cancelURL string
}

// NewCheckout sets the package-level Stripe key and returns a session
// factory. Stripe's client is process-global, so construct this once.
func NewCheckout(config *types.Config) *Checkout {
	stripe.Key = config.StripeSecretKey

	return &Checkout{
		returnURL: config.PaymentReturnURL,
		cancelURL: config.PaymentCancelURL,
	}
}

// CreateSession opens a hosted checkout for one order. The order id rides
// along as the client reference so the return handler can find it again.
func (c *Checkout) CreateSession(ctx context.Context, order *types.Order) (*stripe.CheckoutSession, error) {
	currency := order.Currency
	if currency == "" {
		currency = "GHS"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(c.returnURL + "?order_id=" + order.ID),
		CancelURL:         stripe.String(c.cancelURL),
		ClientReferenceID: stripe.String(order.ID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(toMinorUnits(order.Amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(order.ServiceName),
					},
				},
			},
		},
	}
	params.Context = ctx

	checkoutSession, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session for order %s: %w", order.ID, err)
	}

	return checkoutSession, nil
}

// VerifySession retrieves a checkout session from Stripe so the return
// handler can confirm the payment actually completed before trusting it.
func (c *Checkout) VerifySession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	checkoutSession, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session %s: %w", sessionID, err)
	}

	return checkoutSession, nil
}

// toMinorUnits converts a GHS amount to pesewas.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
