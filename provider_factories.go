package engine

import (
	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
	"github.com/PlaybookMediaEngineering/tesseract-engineering/providers/gocardless"
	"github.com/PlaybookMediaEngineering/tesseract-engineering/providers/plaid"
	"github.com/PlaybookMediaEngineering/tesseract-engineering/providers/stripe"
	"github.com/PlaybookMediaEngineering/tesseract-engineering/providers/teller"
	"github.com/PlaybookMediaEngineering/tesseract-engineering/transport"
)

func TellerProvider(cfg teller.Config) (core.ProviderAdapter, error) {
	return teller.New(cfg)
}

func PlaidProvider(cfg plaid.Config) (core.ProviderAdapter, error) {
	return plaid.New(cfg)
}

func GoCardlessProvider(cfg gocardless.Config) (core.ProviderAdapter, error) {
	return gocardless.New(cfg)
}

func StripeProvider(cfg stripe.Config) (core.ProviderAdapter, error) {
	return stripe.New(cfg)
}

// buildAdapter constructs the adapter for one variant from the gateway
// configuration. A nil transportAdapter gets a default HTTP transport;
// Teller upgrades that default to mTLS when a client certificate is
// configured.
func buildAdapter(variant core.ProviderVariant, cfg core.Config, transportAdapter core.TransportAdapter, logger core.Logger) (core.ProviderAdapter, error) {
	switch variant {
	case core.ProviderTeller:
		adapterTransport := transportAdapter
		if adapterTransport == nil {
			if cfg.Teller.Certificate != "" && cfg.Teller.PrivateKey != "" {
				client, err := transport.NewMTLSClient(cfg.Teller.Certificate, cfg.Teller.PrivateKey)
				if err != nil {
					return nil, err
				}
				adapterTransport = client
			} else {
				adapterTransport = transport.NewClient(nil)
			}
		}
		return TellerProvider(teller.Config{
			Transport: adapterTransport,
			Logger:    logger,
		})
	case core.ProviderPlaid:
		return PlaidProvider(plaid.Config{
			Transport: defaultTransport(transportAdapter),
			BaseURL:   cfg.PlaidHost(),
			ClientID:  cfg.Plaid.ClientID,
			Secret:    cfg.Plaid.Secret,
			Logger:    logger,
		})
	case core.ProviderGoCardless:
		return GoCardlessProvider(gocardless.Config{
			Transport: defaultTransport(transportAdapter),
			SecretID:  cfg.GoCardless.SecretID,
			SecretKey: cfg.GoCardless.SecretKey,
			Logger:    logger,
		})
	case core.ProviderStripe:
		return StripeProvider(stripe.Config{
			Transport:  defaultTransport(transportAdapter),
			SecretKey:  cfg.Stripe.SecretKey,
			APIVersion: cfg.Stripe.APIVersion,
			Logger:     logger,
		})
	default:
		return nil, core.NewInternalError("no adapter factory for provider variant " + string(variant))
	}
}

func defaultTransport(transportAdapter core.TransportAdapter) core.TransportAdapter {
	if transportAdapter != nil {
		return transportAdapter
	}
	return transport.NewClient(nil)
}
