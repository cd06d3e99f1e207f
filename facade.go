// Package engine is a gateway over multiple financial data providers:
// three bank data aggregators (Teller, Plaid, GoCardless) and one payment
// processor (Stripe) behind a single canonical contract. The gateway
// holds at most one active adapter, selected once at construction from
// the configuration discriminant; health checks probe all variants
// regardless of which one is active.
package engine

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/sourcegraph/conc"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

type Gateway struct {
	config          core.Config
	adapter         core.ProviderAdapter
	loggerProvider  core.LoggerProvider
	logger          core.Logger
	metricsRecorder core.MetricsRecorder
	retryPolicy     core.RetryPolicy
	transport       core.TransportAdapter
}

type Option func(*gatewayBuilder)

type gatewayBuilder struct {
	loggerProvider  core.LoggerProvider
	logger          core.Logger
	metricsRecorder core.MetricsRecorder
	retryPolicy     core.RetryPolicy
	transport       core.TransportAdapter
}

func WithLogger(logger core.Logger) Option {
	return func(b *gatewayBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *gatewayBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(b *gatewayBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithRetryPolicy(policy core.RetryPolicy) Option {
	return func(b *gatewayBuilder) {
		b.retryPolicy = policy
	}
}

func WithTransport(adapter core.TransportAdapter) Option {
	return func(b *gatewayBuilder) {
		b.transport = adapter
	}
}

func defaultGatewayBuilder() gatewayBuilder {
	loggerProvider, logger := glog.Resolve("engine", nil, nil)
	return gatewayBuilder{
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: core.NopMetricsRecorder{},
		retryPolicy:     core.DefaultRetryPolicy(),
	}
}

// New builds a gateway from its configuration. An empty or unknown
// provider discriminant is not an error: the gateway comes up degraded,
// read operations return empty results and deletion is a no-op.
func New(cfg core.Config, opts ...Option) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	builder := defaultGatewayBuilder()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	gateway := &Gateway{
		config:          cfg,
		loggerProvider:  builder.loggerProvider,
		logger:          builder.logger,
		metricsRecorder: builder.metricsRecorder,
		retryPolicy:     builder.retryPolicy,
		transport:       builder.transport,
	}

	if variant, ok := cfg.Variant(); ok {
		adapter, err := buildAdapter(variant, cfg, builder.transport, builder.logger)
		if err != nil {
			return nil, err
		}
		gateway.adapter = adapter
	} else if builder.logger != nil {
		builder.logger.Info("no active provider configured, gateway is degraded",
			"provider", cfg.Provider)
	}

	return gateway, nil
}

// ActiveVariant reports the active adapter variant, or false when the
// gateway is degraded.
func (g *Gateway) ActiveVariant() (core.ProviderVariant, bool) {
	if g == nil || g.adapter == nil {
		return "", false
	}
	return g.adapter.Variant(), true
}

func (g *Gateway) GetTransactions(ctx context.Context, req core.GetTransactionsRequest) ([]core.Transaction, error) {
	startedAt := time.Now()
	if g.adapter == nil {
		g.observeOperation(ctx, startedAt, "get_transactions", nil, map[string]any{"degraded": true})
		return []core.Transaction{}, nil
	}

	transactions, err := core.Retry(ctx, g.retryPolicy, func(ctx context.Context) ([]core.Transaction, error) {
		return g.adapter.GetTransactions(ctx, req)
	})
	g.observeOperation(ctx, startedAt, "get_transactions", err, map[string]any{
		"provider":   string(g.adapter.Variant()),
		"account_id": req.AccountID,
		"count":      len(transactions),
	})
	return transactions, err
}

func (g *Gateway) GetAccounts(ctx context.Context, req core.GetAccountsRequest) ([]core.Account, error) {
	startedAt := time.Now()
	if g.adapter == nil {
		g.observeOperation(ctx, startedAt, "get_accounts", nil, map[string]any{"degraded": true})
		return []core.Account{}, nil
	}

	accounts, err := core.Retry(ctx, g.retryPolicy, func(ctx context.Context) ([]core.Account, error) {
		return g.adapter.GetAccounts(ctx, req)
	})
	g.observeOperation(ctx, startedAt, "get_accounts", err, map[string]any{
		"provider": string(g.adapter.Variant()),
		"count":    len(accounts),
	})
	return accounts, err
}

// GetAccountBalance returns (nil, nil) when the gateway is degraded or
// the provider does not know the account.
func (g *Gateway) GetAccountBalance(ctx context.Context, req core.GetAccountBalanceRequest) (*core.Balance, error) {
	startedAt := time.Now()
	if g.adapter == nil {
		g.observeOperation(ctx, startedAt, "get_account_balance", nil, map[string]any{"degraded": true})
		return nil, nil
	}

	balance, err := core.Retry(ctx, g.retryPolicy, func(ctx context.Context) (*core.Balance, error) {
		return g.adapter.GetAccountBalance(ctx, req)
	})
	g.observeOperation(ctx, startedAt, "get_account_balance", err, map[string]any{
		"provider":   string(g.adapter.Variant()),
		"account_id": req.AccountID,
	})
	return balance, err
}

func (g *Gateway) GetInstitutions(ctx context.Context, req core.GetInstitutionsRequest) ([]core.Institution, error) {
	startedAt := time.Now()
	if g.adapter == nil {
		g.observeOperation(ctx, startedAt, "get_institutions", nil, map[string]any{"degraded": true})
		return []core.Institution{}, nil
	}

	institutions, err := core.Retry(ctx, g.retryPolicy, func(ctx context.Context) ([]core.Institution, error) {
		return g.adapter.GetInstitutions(ctx, req)
	})
	g.observeOperation(ctx, startedAt, "get_institutions", err, map[string]any{
		"provider": string(g.adapter.Variant()),
		"count":    len(institutions),
	})
	return institutions, err
}

func (g *Gateway) DeleteAccounts(ctx context.Context, req core.DeleteAccountsRequest) error {
	startedAt := time.Now()
	if g.adapter == nil {
		g.observeOperation(ctx, startedAt, "delete_accounts", nil, map[string]any{"degraded": true})
		return nil
	}

	_, err := core.Retry(ctx, g.retryPolicy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.adapter.DeleteAccounts(ctx, req)
	})
	g.observeOperation(ctx, startedAt, "delete_accounts", err, map[string]any{
		"provider": string(g.adapter.Variant()),
	})
	return err
}

// GetHealthCheck probes every provider variant concurrently, ignoring
// which one is active. Per-provider faults are absorbed to false inside
// each adapter; only an orchestration-level fault fails the call.
func (g *Gateway) GetHealthCheck(ctx context.Context) (core.HealthCheckResult, error) {
	startedAt := time.Now()

	probes := map[core.ProviderVariant]core.ProviderAdapter{}
	for _, variant := range core.KnownVariants() {
		adapter, err := buildAdapter(variant, g.config, g.transport, g.logger)
		if err != nil {
			// An unbuildable adapter is an unhealthy provider, not a
			// failed health check.
			probes[variant] = nil
			continue
		}
		probes[variant] = adapter
	}

	var result core.HealthCheckResult
	targets := map[core.ProviderVariant]*core.ProviderHealth{
		core.ProviderTeller:     &result.Teller,
		core.ProviderPlaid:      &result.Plaid,
		core.ProviderGoCardless: &result.GoCardless,
		core.ProviderStripe:     &result.Stripe,
	}

	var wg conc.WaitGroup
	for variant, target := range targets {
		adapter := probes[variant]
		wg.Go(func() {
			if adapter == nil {
				target.Healthy = false
				return
			}
			target.Healthy = adapter.GetHealthCheck(ctx)
		})
	}
	if recovered := wg.WaitAndRecover(); recovered != nil {
		err := core.NewInternalError("health check fan-out failed: " + recovered.String())
		g.observeOperation(ctx, startedAt, "get_health_check", err, nil)
		return core.HealthCheckResult{}, err
	}

	g.observeOperation(ctx, startedAt, "get_health_check", nil, map[string]any{
		"teller":     result.Teller.Healthy,
		"plaid":      result.Plaid.Healthy,
		"gocardless": result.GoCardless.Healthy,
		"stripe":     result.Stripe.Healthy,
	})
	return result, nil
}
