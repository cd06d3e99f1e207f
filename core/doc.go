// Package core contains the canonical financial domain model, the provider
// adapter contract, the error taxonomy, and the retry policy. Provider
// adapters and the gateway facade depend on this package; core must not
// depend on provider-specific or transport-specific code.
package core
