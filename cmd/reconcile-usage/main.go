package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
	"github.com/pkg/errors"

	"github.com/clearproof/api/internal/model"
	"github.com/clearproof/api/internal/store"
)

type Config struct {
	SmartSuiteBaseURL     string
	SmartSuiteAPIKey      string
	SmartSuiteWorkspaceID string
}

// loadConfig loads configuration settings from the environment. We're using koanf directly here so that the
// configuration files don't have to be present to run the reconciliation utility.
func loadConfig() (*Config, error) {
	k := koanf.New(".")

	// Load the configuration settings from the environment.
	err := k.Load(
		env.Provider("CLEARPROOF_", ".",
			func(s string) string {
				return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "CLEARPROOF_")), "_", ".", -1)
			},
		),
		nil,
	)
	if err != nil {
		return nil, err
	}

	baseURL := k.String("smartsuite.base.url")
	if baseURL == "" {
		baseURL = "https://app.smartsuite.com/api/v1/applications"
	}
	workspaceID := k.String("smartsuite.workspace")
	if workspaceID == "" {
		workspaceID = "sba974gi"
	}

	// Verify that the API key is specified.
	apiKey := k.String("smartsuite.api.key")
	if apiKey == "" {
		return nil, fmt.Errorf("CLEARPROOF_SMARTSUITE_API_KEY must be defined")
	}

	return &Config{
		SmartSuiteBaseURL:     baseURL,
		SmartSuiteAPIKey:      apiKey,
		SmartSuiteWorkspaceID: workspaceID,
	}, nil
}

// reconcileSubscription recomputes the verification count for a single subscription from the verification records
// themselves and repairs the stored counter when the two disagree. Counter drift accumulates when service instances
// race on the read-then-write accounting update, so this is expected to find small discrepancies from time to time.
func reconcileSubscription(ctx context.Context, client *store.Client, sub model.Subscription, dryRun bool) error {
	actual, err := client.CountVerifications(ctx, sub.AccountID)
	if err != nil {
		return errors.Wrapf(err, "unable to count the verifications for %s", sub.AccountID)
	}

	if actual == sub.VerificationsUsed {
		return nil
	}

	fmt.Printf("%s: stored counter is %d, actual count is %d\n", sub.AccountID, sub.VerificationsUsed, actual)
	if dryRun {
		return nil
	}

	err = client.SetUsageCounter(ctx, sub.ID, model.ResourceVerifications, actual)
	if err != nil {
		return errors.Wrapf(err, "unable to repair the counter for %s", sub.AccountID)
	}

	fmt.Printf("%s: counter repaired\n", sub.AccountID)
	return nil
}

func main() {
	dryRun := flag.Bool("dry-run", false, "Report counter drift without repairing it")
	flag.Parse()

	// Load the configuration.
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("unable to load the configuration: %s", err)
	}

	client := store.NewClient(cfg.SmartSuiteBaseURL, cfg.SmartSuiteAPIKey, cfg.SmartSuiteWorkspaceID)
	ctx := context.Background()

	// Get the list of subscription records.
	records, err := client.ListRecords(ctx, store.CollectionSubscriptions)
	if err != nil {
		log.Fatalf("unable to list the subscriptions: %s", err)
	}

	for _, rec := range records {
		sub := store.DecodeSubscription(rec)
		err = reconcileSubscription(ctx, client, sub, *dryRun)
		if err != nil {
			log.Fatal(err)
		}
	}
}
