package server

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/config"
	"github.com/clearproof/api/internal/abuse"
	"github.com/clearproof/api/internal/audit"
	"github.com/clearproof/api/internal/auth"
	"github.com/clearproof/api/internal/billing"
	"github.com/clearproof/api/internal/controllers"
	"github.com/clearproof/api/internal/llm"
	"github.com/clearproof/api/internal/quota"
	"github.com/clearproof/api/internal/store"
	"github.com/clearproof/api/logging"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "server"})

func Init(spec *config.Specification, version string) {
	log := log.WithFields(logrus.Fields{"context": "server init"})

	e := InitRouter(spec)

	storeClient := store.NewClient(spec.SmartSuiteBaseURL, spec.SmartSuiteAPIKey, spec.SmartSuiteWorkspaceID)

	var verifier *auth.Verifier
	if spec.AuthDisabled {
		log.Warn("token verification is disabled; all requests act as the development account")
	} else {
		var err error
		verifier, err = auth.NewVerifier(spec.AuthIssuer, spec.AuthAudience, spec.AuthJWKSURL)
		if err != nil {
			log.Fatalf("service initialization failed: %s", err.Error())
		}
	}

	s := controllers.Server{
		Router: e,
		Store:  storeClient,
		Quota:  quota.NewPolicy(storeClient),
		Usage:  quota.NewAccountant(storeClient),
		Locks:  quota.NewAccountLocks(),
		Gate:   abuse.NewGate(),
		LLM:    llm.NewClient(spec.AnthropicBaseURL, spec.AnthropicAPIKey, spec.AnthropicModel),
		Billing: billing.NewClient(spec.StripeSecretKey, spec.StripeWebhookSecret, spec.FrontendURL, billing.PriceIDs{
			Starter:      spec.PriceStarter,
			Professional: spec.PriceProfessional,
			Enterprise:   spec.PriceEnterprise,
		}),
		Audit:       audit.NewLogger(storeClient),
		Service:     config.ServiceName,
		Version:     version,
		FrontendURL: spec.FrontendURL,
	}

	// Register the handlers.
	RegisterHandlers(s, verifier)

	log.Info("starting the service")
	log.Fatal(e.Start(fmt.Sprintf(":%d", spec.ListenPort)))
}
