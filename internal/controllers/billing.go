package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v79"

	"github.com/clearproof/api/internal/auth"
	"github.com/clearproof/api/internal/httpmodel"
	"github.com/clearproof/api/internal/model"
	"github.com/clearproof/api/internal/store"
)

// UsageSummary reports the stored usage counters for a subscription.
//
// swagger:model
type UsageSummary struct {

	// The number of modules created during the current billing period
	Modules int `json:"modules"`

	// The number of verifications recorded during the current billing period
	Verifications int `json:"verifications"`
}

// SubscriptionDetails is the body returned by the subscription endpoint.
//
// swagger:model
type SubscriptionDetails struct {

	// The current plan name
	Plan string `json:"plan"`

	// The subscription lifecycle status
	Status string `json:"status"`

	// The Stripe customer identifier, when the account has checked out
	StripeCustomerID string `json:"stripe_customer_id,omitempty"`

	// The end of the current billing period
	CurrentPeriodEnd string `json:"current_period_end,omitempty"`

	// The plan's resource ceilings
	Limits model.PlanLimits `json:"limits"`

	// The recorded usage
	Usage UsageSummary `json:"usage"`
}

// GetSubscription returns the calling account's subscription details.
// Accounts with no subscription record are on the implicit free tier.
func (s Server) GetSubscription(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "getting subscription"})

	accountID := auth.AccountID(ctx)

	sub, err := s.Store.FindSubscription(ctx.Request().Context(), accountID)
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	if sub == nil {
		return model.Success(ctx, SubscriptionDetails{
			Plan:   model.PlanFree,
			Status: model.StatusActive,
			Limits: model.LimitsForPlan(model.PlanFree),
		}, http.StatusOK)
	}

	return model.Success(ctx, SubscriptionDetails{
		Plan:             sub.Plan,
		Status:           sub.Status,
		StripeCustomerID: sub.StripeCustomerID,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		Limits:           sub.Limits(),
		Usage: UsageSummary{
			Modules:       sub.ModulesUsed,
			Verifications: sub.VerificationsUsed,
		},
	}, http.StatusOK)
}

// CreateCheckoutSession starts a subscription checkout for the calling
// account and returns the hosted checkout URL.
func (s Server) CreateCheckoutSession(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "creating checkout session"})

	context := ctx.Request().Context()
	accountID := auth.AccountID(ctx)
	log = log.WithFields(logrus.Fields{"account": accountID})

	var body httpmodel.CheckoutRequest
	if err := ctx.Bind(&body); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err := body.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	priceID, ok := s.Billing.PriceForPlan(body.Plan)
	if !ok {
		return model.Error(ctx, "invalid plan", http.StatusBadRequest)
	}

	// Reuse the Stripe customer from a previous checkout when one exists.
	sub, err := s.Store.FindSubscription(context, accountID)
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	customerID := ""
	if sub != nil {
		customerID = sub.StripeCustomerID
	}
	if customerID == "" {
		customerID, err = s.Billing.EnsureCustomer(body.Email, accountID)
		if err != nil {
			log.Error(err)
			return model.Error(ctx, "failed to create checkout session", http.StatusInternalServerError)
		}
	}

	url, err := s.Billing.NewCheckoutSession(customerID, priceID, accountID, body.Plan)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, "failed to create checkout session", http.StatusInternalServerError)
	}

	return model.Success(ctx, map[string]string{"url": url}, http.StatusOK)
}

// CreatePortalSession starts a customer portal session for managing an
// existing subscription.
func (s Server) CreatePortalSession(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "creating portal session"})

	accountID := auth.AccountID(ctx)

	sub, err := s.Store.FindSubscription(ctx.Request().Context(), accountID)
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}
	if sub == nil || sub.StripeCustomerID == "" {
		return model.Error(ctx, "no subscription found", http.StatusBadRequest)
	}

	url, err := s.Billing.NewPortalSession(sub.StripeCustomerID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, "failed to create portal session", http.StatusInternalServerError)
	}

	return model.Success(ctx, map[string]string{"url": url}, http.StatusOK)
}

// maxWebhookBytes bounds the webhook payload size before signature
// verification.
const maxWebhookBytes = int64(65536)

// HandleBillingWebhook verifies and relays billing provider events into
// subscription record updates. The service holds no payment state of its
// own; it only mirrors what the provider reports.
func (s Server) HandleBillingWebhook(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "handling billing webhook"})

	payload, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxWebhookBytes))
	if err != nil {
		return model.Error(ctx, "invalid payload", http.StatusBadRequest)
	}

	event, err := s.Billing.ConstructEvent(payload, ctx.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		log.Errorf("webhook signature verification failed: %s", err.Error())
		return model.Error(ctx, "webhook signature verification failed", http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"event": event.Type})

	switch event.Type {
	case "checkout.session.completed":
		err = s.applyCheckoutCompleted(ctx, event)
	case "customer.subscription.updated":
		err = s.applySubscriptionUpdated(ctx, event)
	case "customer.subscription.deleted":
		err = s.applySubscriptionDeleted(ctx, event)
	default:
		log.Debug("ignoring webhook event")
	}
	if err != nil {
		log.Error(err)
		return model.Error(ctx, "webhook processing failed", http.StatusInternalServerError)
	}

	return model.Success(ctx, map[string]bool{"received": true}, http.StatusOK)
}

// applyCheckoutCompleted records a completed checkout as the account's
// subscription, resetting the usage counters for the new billing period.
func (s Server) applyCheckoutCompleted(ctx echo.Context, event stripe.Event) error {
	context := ctx.Request().Context()

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return err
	}

	accountID := sess.Metadata["accountId"]
	plan := sess.Metadata["plan"]
	if accountID == "" || plan == "" {
		return nil
	}

	sub := model.Subscription{
		AccountID: accountID,
		Plan:      plan,
		Status:    model.StatusActive,
	}
	if sess.Customer != nil {
		sub.StripeCustomerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		sub.StripeSubscriptionID = sess.Subscription.ID
	}

	existing, err := s.Store.FindSubscription(context, accountID)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.Store.UpdateSubscription(context, existing.ID, store.EncodeSubscription(sub))
	}
	_, err = s.Store.CreateSubscription(context, sub)
	return err
}

// applySubscriptionUpdated relays a plan or status change reported by the
// billing provider.
func (s Server) applySubscriptionUpdated(ctx echo.Context, event stripe.Event) error {
	context := ctx.Request().Context()

	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return err
	}
	if stripeSub.Customer == nil {
		return nil
	}

	existing, err := s.Store.FindSubscriptionByCustomer(context, stripeSub.Customer.ID)
	if err != nil || existing == nil {
		return err
	}

	priceID := ""
	if stripeSub.Items != nil && len(stripeSub.Items.Data) > 0 && stripeSub.Items.Data[0].Price != nil {
		priceID = stripeSub.Items.Data[0].Price.ID
	}
	plan := s.Billing.PlanForPrice(priceID)
	periodEnd := time.Unix(stripeSub.CurrentPeriodEnd, 0).UTC().Format(time.RFC3339)

	return s.Store.UpdateSubscription(context, existing.ID, store.SubscriptionPlanFields(plan, string(stripeSub.Status), periodEnd))
}

// applySubscriptionDeleted drops the account back to the free plan when the
// provider reports a cancellation.
func (s Server) applySubscriptionDeleted(ctx echo.Context, event stripe.Event) error {
	context := ctx.Request().Context()

	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return err
	}
	if stripeSub.Customer == nil {
		return nil
	}

	existing, err := s.Store.FindSubscriptionByCustomer(context, stripeSub.Customer.ID)
	if err != nil || existing == nil {
		return err
	}

	return s.Store.UpdateSubscription(context, existing.ID, store.SubscriptionPlanFields(model.PlanFree, model.StatusCancelled, ""))
}
