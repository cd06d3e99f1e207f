package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidProviderVariant  = errors.New("core: invalid provider variant")
	ErrInvalidAccountType      = errors.New("core: invalid account type")
	ErrInvalidTransactionState = errors.New("core: invalid transaction")
)

// ProviderVariant is the configuration discriminant selecting an adapter.
type ProviderVariant string

const (
	ProviderTeller     ProviderVariant = "teller"
	ProviderPlaid      ProviderVariant = "plaid"
	ProviderGoCardless ProviderVariant = "gocardless"
	ProviderStripe     ProviderVariant = "stripe"
)

// KnownVariants lists every provider variant the gateway can health-check,
// in stable order.
func KnownVariants() []ProviderVariant {
	return []ProviderVariant{ProviderTeller, ProviderPlaid, ProviderGoCardless, ProviderStripe}
}

func (v ProviderVariant) Valid() bool {
	switch v {
	case ProviderTeller, ProviderPlaid, ProviderGoCardless, ProviderStripe:
		return true
	}
	return false
}

// ParseProviderVariant resolves a raw discriminant. Unknown or empty values
// return ok=false; callers treat that as degraded mode, not an error.
func ParseProviderVariant(raw string) (ProviderVariant, bool) {
	variant := ProviderVariant(strings.TrimSpace(strings.ToLower(raw)))
	return variant, variant.Valid()
}

type AccountType string

const (
	AccountTypeDepository     AccountType = "depository"
	AccountTypeCredit         AccountType = "credit"
	AccountTypeOtherAsset     AccountType = "other_asset"
	AccountTypeLoan           AccountType = "loan"
	AccountTypeOtherLiability AccountType = "other_liability"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeDepository, AccountTypeCredit, AccountTypeOtherAsset,
		AccountTypeLoan, AccountTypeOtherLiability:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPosted  TransactionStatus = "posted"
	TransactionStatusPending TransactionStatus = "pending"
)

func (s TransactionStatus) Valid() bool {
	return s == TransactionStatusPosted || s == TransactionStatusPending
}

type TransactionMethod string

const (
	MethodPayment    TransactionMethod = "payment"
	MethodRefund     TransactionMethod = "refund"
	MethodTransfer   TransactionMethod = "transfer"
	MethodPayout     TransactionMethod = "payout"
	MethodAdjustment TransactionMethod = "adjustment"
	MethodFee        TransactionMethod = "fee"
	MethodOther      TransactionMethod = "other"
)

func (m TransactionMethod) Valid() bool {
	switch m {
	case MethodPayment, MethodRefund, MethodTransfer, MethodPayout,
		MethodAdjustment, MethodFee, MethodOther:
		return true
	}
	return false
}

// Institution is a weak reference from an Account; it is never persisted by
// this core.
type Institution struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Logo     *string         `json:"logo"`
	Provider ProviderVariant `json:"provider"`
}

type Account struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Currency     string          `json:"currency"`
	Provider     ProviderVariant `json:"provider"`
	Institution  *Institution    `json:"institution"`
	Type         AccountType     `json:"type"`
	EnrollmentID *string         `json:"enrollment_id"` // Teller
	RoutingNum   *string         `json:"routing_number"` // Stripe
}

func (a Account) Validate() error {
	if !a.Provider.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidProviderVariant, a.Provider)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, a.Type)
	}
	return nil
}

// Transaction is the canonical, provider-independent record. Amount is
// always expressed in major currency units and is never negative; the
// Status and Method fields carry directionality instead of sign.
type Transaction struct {
	ID             string            `json:"id"`
	Amount         float64           `json:"amount"`
	Currency       string            `json:"currency"`
	Date           string            `json:"date"`
	Status         TransactionStatus `json:"status"`
	Balance        *float64          `json:"balance"`
	Category       *string           `json:"category"`
	Method         TransactionMethod `json:"method"`
	Name           string            `json:"name"`
	Description    *string           `json:"description"`
	CurrencyRate   *float64          `json:"currency_rate"`
	CurrencySource *string           `json:"currency_source"`
}

func (t Transaction) Validate() error {
	if t.Amount < 0 {
		return fmt.Errorf("%w: negative amount %f", ErrInvalidTransactionState, t.Amount)
	}
	if len(t.Currency) != 3 {
		return fmt.Errorf("%w: currency %q", ErrInvalidTransactionState, t.Currency)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidTransactionState, t.Status)
	}
	if !t.Method.Valid() {
		return fmt.Errorf("%w: method %q", ErrInvalidTransactionState, t.Method)
	}
	return nil
}

// Balance is the current balance only; the gateway keeps no history.
type Balance struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type ProviderHealth struct {
	Healthy bool `json:"healthy"`
}

// HealthCheckResult always carries one entry per known provider variant;
// it is never partial on success.
type HealthCheckResult struct {
	Teller     ProviderHealth `json:"teller"`
	Plaid      ProviderHealth `json:"plaid"`
	GoCardless ProviderHealth `json:"gocardless"`
	Stripe     ProviderHealth `json:"stripe"`
}
