// Package providers groups the concrete adapter implementations behind the
// core.ProviderAdapter contract: the Teller, Plaid, and GoCardless
// bank-transaction aggregators and the Stripe payment processor.
package providers
