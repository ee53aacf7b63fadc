package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"
)

var ServiceName = "clearproof-api"

// Default paths used when the command-line flags are left unset.
const (
	DefaultConfigPath = "/etc/clearproof/config.yml"
	DefaultDotEnvPath = ".env"
)

// Specification defines the configuration settings for the ClearProof API.
type Specification struct {
	ListenPort     int
	FrontendURL    string
	AllowedOrigins []string

	SmartSuiteBaseURL     string
	SmartSuiteAPIKey      string
	SmartSuiteWorkspaceID string

	AnthropicBaseURL string
	AnthropicAPIKey  string
	AnthropicModel   string

	StripeSecretKey     string
	StripeWebhookSecret string
	PriceStarter        string
	PriceProfessional   string
	PriceEnterprise     string

	AuthIssuer   string
	AuthAudience string
	AuthJWKSURL  string
	AuthDisabled bool

	RateLimit float64
	RateBurst int

	OtelEndpoint string
}

// defaults holds the settings that have sensible values out of the box. The
// Stripe price identifiers are the live catalog prices; they only change when
// the products are re-created in the Stripe dashboard.
var defaults = map[string]interface{}{
	"listen.port":          3001,
	"frontend.url":         "https://clearproof.co.uk",
	"allowed.origins":      "http://localhost:5173,https://clearproof.co.uk,https://www.clearproof.co.uk",
	"smartsuite.base.url":  "https://app.smartsuite.com/api/v1/applications",
	"smartsuite.workspace": "sba974gi",
	"anthropic.base.url":   "https://api.anthropic.com",
	"anthropic.model":      "claude-sonnet-4-20250514",
	"stripe.price.starter":      "price_1ShTskAToqHpaZGxCCLQqbWJ",
	"stripe.price.professional": "price_1ShTt6AToqHpaZGx3nEnkI4P",
	"stripe.price.enterprise":   "price_1ShTtRAToqHpaZGxmdw4cpbv",
	"rate.limit": 10.0,
	"rate.burst": 30,
}

// LoadConfig loads the configuration for the ClearProof API. Settings are
// merged from the defaults, an optional YAML configuration file, an optional
// dotenv file, and prefixed environment variables, in that order of
// precedence.
func LoadConfig(envPrefix, configPath, dotEnvPath string) (*Specification, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, "unable to load the default configuration")
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "unable to load the configuration file")
		}
	}

	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrap(err, "unable to load the dotenv file")
		}
	}

	err := k.Load(
		env.Provider(envPrefix, ".", func(s string) string {
			return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", -1)
		}),
		nil,
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load the environment settings")
	}

	s := Specification{
		ListenPort:            k.Int("listen.port"),
		FrontendURL:           k.String("frontend.url"),
		AllowedOrigins:        splitList(k.String("allowed.origins")),
		SmartSuiteBaseURL:     k.String("smartsuite.base.url"),
		SmartSuiteAPIKey:      k.String("smartsuite.api.key"),
		SmartSuiteWorkspaceID: k.String("smartsuite.workspace"),
		AnthropicBaseURL:      k.String("anthropic.base.url"),
		AnthropicAPIKey:       k.String("anthropic.api.key"),
		AnthropicModel:        k.String("anthropic.model"),
		StripeSecretKey:       k.String("stripe.secret.key"),
		StripeWebhookSecret:   k.String("stripe.webhook.secret"),
		PriceStarter:          k.String("stripe.price.starter"),
		PriceProfessional:     k.String("stripe.price.professional"),
		PriceEnterprise:       k.String("stripe.price.enterprise"),
		AuthIssuer:            k.String("auth.issuer"),
		AuthAudience:          k.String("auth.audience"),
		AuthJWKSURL:           k.String("auth.jwks.url"),
		AuthDisabled:          k.Bool("auth.disabled"),
		RateLimit:             k.Float64("rate.limit"),
		RateBurst:             k.Int("rate.burst"),
		OtelEndpoint:          k.String("otel.endpoint"),
	}

	if s.SmartSuiteAPIKey == "" {
		return nil, errors.New("smartsuite.api.key or CLEARPROOF_SMARTSUITE_API_KEY must be set")
	}
	if s.AnthropicAPIKey == "" {
		return nil, errors.New("anthropic.api.key or CLEARPROOF_ANTHROPIC_API_KEY must be set")
	}
	if s.StripeSecretKey == "" {
		return nil, errors.New("stripe.secret.key or CLEARPROOF_STRIPE_SECRET_KEY must be set")
	}
	if !s.AuthDisabled && (s.AuthIssuer == "" || s.AuthAudience == "") {
		return nil, errors.New("auth.issuer and auth.audience must be set unless auth is disabled")
	}

	return &s, nil
}

func splitList(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
