package core

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentSandbox     Environment = "sandbox"
	EnvironmentProduction  Environment = "production"
)

func (e Environment) Valid() bool {
	switch e {
	case EnvironmentDevelopment, EnvironmentSandbox, EnvironmentProduction:
		return true
	}
	return false
}

type TellerConfig struct {
	// Client certificate pair for mTLS; Teller requires it outside sandbox.
	Certificate string `env:"CERTIFICATE" koanf:"certificate" mapstructure:"certificate"`
	PrivateKey  string `env:"CERTIFICATE_PRIVATE_KEY" koanf:"private_key" mapstructure:"private_key"`
}

type PlaidConfig struct {
	ClientID string `env:"CLIENT_ID" koanf:"client_id" mapstructure:"client_id"`
	Secret   string `env:"SECRET" koanf:"secret" mapstructure:"secret"`
}

type GoCardlessConfig struct {
	SecretID  string `env:"SECRET_ID" koanf:"secret_id" mapstructure:"secret_id"`
	SecretKey string `env:"SECRET_KEY" koanf:"secret_key" mapstructure:"secret_key"`
}

type StripeConfig struct {
	SecretKey  string `env:"SECRET_KEY" koanf:"secret_key" mapstructure:"secret_key"`
	APIVersion string `env:"API_VERSION" koanf:"api_version" mapstructure:"api_version"`
}

// Config selects the active provider variant and carries every variant's
// credential bundle. Credentials are read-only after construction.
type Config struct {
	Provider    string      `env:"PROVIDER" koanf:"provider" mapstructure:"provider"`
	Environment Environment `env:"ENVIRONMENT,default=sandbox" koanf:"environment" mapstructure:"environment"`

	Teller     TellerConfig     `env:",prefix=TELLER_" koanf:"teller" mapstructure:"teller"`
	Plaid      PlaidConfig      `env:",prefix=PLAID_" koanf:"plaid" mapstructure:"plaid"`
	GoCardless GoCardlessConfig `env:",prefix=GOCARDLESS_" koanf:"gocardless" mapstructure:"gocardless"`
	Stripe     StripeConfig     `env:",prefix=STRIPE_" koanf:"stripe" mapstructure:"stripe"`
}

// LoadConfig reads the credential bundle from the environment, prefixed
// ENGINE_ (e.g. ENGINE_PROVIDER, ENGINE_PLAID_CLIENT_ID).
func LoadConfig(ctx context.Context) (Config, error) {
	cfg := Config{}
	if err := envconfig.ProcessWith(ctx, &cfg, envconfig.PrefixLookuper("ENGINE_", envconfig.OsLookuper())); err != nil {
		return Config{}, fmt.Errorf("core: load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Variant resolves the configured discriminant. ok=false means no adapter
// will be active (degraded mode).
func (c Config) Variant() (ProviderVariant, bool) {
	return ParseProviderVariant(c.Provider)
}

// Validate fails fast when the selected variant's credentials are missing
// or malformed. An empty or unknown discriminant is not an error; it leaves
// the facade in degraded mode.
func (c Config) Validate() error {
	if c.Environment != "" && !c.Environment.Valid() {
		return NewValidationError(fmt.Sprintf("core: unknown environment %q", c.Environment))
	}
	variant, ok := c.Variant()
	if !ok {
		return nil
	}
	switch variant {
	case ProviderTeller:
		return c.validateTeller()
	case ProviderPlaid:
		return RequireFields(ProviderPlaid, map[string]string{
			"plaid.client_id": c.Plaid.ClientID,
			"plaid.secret":    c.Plaid.Secret,
		})
	case ProviderGoCardless:
		return RequireFields(ProviderGoCardless, map[string]string{
			"gocardless.secret_id":  c.GoCardless.SecretID,
			"gocardless.secret_key": c.GoCardless.SecretKey,
		})
	case ProviderStripe:
		return RequireFields(ProviderStripe, map[string]string{
			"stripe.secret_key": c.Stripe.SecretKey,
		})
	}
	return nil
}

func (c Config) validateTeller() error {
	// Sandbox enrollments authenticate with the access token alone; the
	// certificate pair is mandatory everywhere else.
	if c.Environment == EnvironmentSandbox || c.Environment == EnvironmentDevelopment {
		return nil
	}
	return RequireFields(ProviderTeller, map[string]string{
		"teller.certificate": c.Teller.Certificate,
		"teller.private_key": c.Teller.PrivateKey,
	})
}

// PlaidHost resolves the Plaid API origin for the configured environment.
func (c Config) PlaidHost() string {
	switch c.Environment {
	case EnvironmentProduction:
		return "https://production.plaid.com"
	case EnvironmentDevelopment:
		return "https://development.plaid.com"
	default:
		return "https://sandbox.plaid.com"
	}
}
