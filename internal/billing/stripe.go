// Package billing wraps the Stripe API for checkout, the customer portal,
// and webhook verification. Plan state lives in the external store; this
// package only talks to Stripe and maps its price identifiers onto plan
// names.
package billing

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v79"
	portalsession "github.com/stripe/stripe-go/v79/billingportal/session"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/clearproof/api/internal/model"
	"github.com/clearproof/api/logging"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "billing"})

// PriceIDs holds the Stripe price identifiers for the paid plans.
type PriceIDs struct {
	Starter      string
	Professional string
	Enterprise   string
}

// Client performs the Stripe operations the service needs.
type Client struct {
	webhookSecret string
	frontendURL   string
	prices        PriceIDs
}

// NewClient configures the Stripe API key and returns a billing client.
func NewClient(secretKey, webhookSecret, frontendURL string, prices PriceIDs) *Client {
	stripe.Key = secretKey
	return &Client{
		webhookSecret: webhookSecret,
		frontendURL:   frontendURL,
		prices:        prices,
	}
}

// PriceForPlan resolves a plan name to its Stripe price identifier. The free
// plan has no price and resolves to false.
func (c *Client) PriceForPlan(plan string) (string, bool) {
	switch plan {
	case model.PlanStarter:
		return c.prices.Starter, c.prices.Starter != ""
	case model.PlanProfessional:
		return c.prices.Professional, c.prices.Professional != ""
	case model.PlanEnterprise:
		return c.prices.Enterprise, c.prices.Enterprise != ""
	default:
		return "", false
	}
}

// PlanForPrice resolves a Stripe price identifier to a plan name. Unknown
// prices resolve to the free plan.
func (c *Client) PlanForPrice(priceID string) string {
	switch priceID {
	case c.prices.Starter:
		return model.PlanStarter
	case c.prices.Professional:
		return model.PlanProfessional
	case c.prices.Enterprise:
		return model.PlanEnterprise
	default:
		return model.PlanFree
	}
}

// EnsureCustomer creates a Stripe customer for an account. The account ID is
// stored in the customer metadata so webhook events can be traced back.
func (c *Client) EnsureCustomer(email, accountID string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Metadata: map[string]string{
			"accountId": accountID,
		},
	}
	cust, err := customer.New(params)
	if err != nil {
		return "", errors.Wrap(err, "unable to create the billing customer")
	}

	log.WithFields(logrus.Fields{"account": accountID, "customer": cust.ID}).Info("created billing customer")

	return cust.ID, nil
}

// NewCheckoutSession starts a subscription checkout session and returns the
// hosted page URL.
func (c *Client) NewCheckoutSession(customerID, priceID, accountID, plan string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.frontendURL + "/dashboard?checkout=success"),
		CancelURL:  stripe.String(c.frontendURL + "/pricing?checkout=cancelled"),
	}
	params.AddMetadata("accountId", accountID)
	params.AddMetadata("plan", plan)

	sess, err := session.New(params)
	if err != nil {
		return "", errors.Wrap(err, "unable to create the checkout session")
	}
	return sess.URL, nil
}

// NewPortalSession starts a customer portal session for managing an existing
// subscription and returns the hosted page URL.
func (c *Client) NewPortalSession(customerID string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(c.frontendURL + "/dashboard"),
	}
	sess, err := portalsession.New(params)
	if err != nil {
		return "", errors.Wrap(err, "unable to create the portal session")
	}
	return sess.URL, nil
}

// ConstructEvent verifies a webhook payload signature and parses the event.
func (c *Client) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(
		payload,
		sigHeader,
		c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
}
