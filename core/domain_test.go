package core

import (
	"errors"
	"testing"
)

func TestParseProviderVariant(t *testing.T) {
	cases := []struct {
		raw  string
		want ProviderVariant
		ok   bool
	}{
		{"teller", ProviderTeller, true},
		{"Plaid", ProviderPlaid, true},
		{"  GOCARDLESS  ", ProviderGoCardless, true},
		{"stripe", ProviderStripe, true},
		{"", "", false},
		{"monzo", "monzo", false},
	}

	for _, tc := range cases {
		got, ok := ParseProviderVariant(tc.raw)
		if ok != tc.ok {
			t.Fatalf("%q: expected ok=%v, got %v", tc.raw, tc.ok, ok)
		}
		if ok && got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.raw, tc.want, got)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		ID:       "txn_1",
		Amount:   123.45,
		Currency: "USD",
		Date:     "2024-05-01",
		Status:   TransactionStatusPosted,
		Method:   MethodPayment,
		Name:     "Coffee",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid transaction, got %v", err)
	}

	negative := valid
	negative.Amount = -1
	if err := negative.Validate(); !errors.Is(err, ErrInvalidTransactionState) {
		t.Fatalf("expected invalid state for negative amount, got %v", err)
	}

	badCurrency := valid
	badCurrency.Currency = "US"
	if err := badCurrency.Validate(); !errors.Is(err, ErrInvalidTransactionState) {
		t.Fatalf("expected invalid state for short currency, got %v", err)
	}

	badStatus := valid
	badStatus.Status = "settled"
	if err := badStatus.Validate(); !errors.Is(err, ErrInvalidTransactionState) {
		t.Fatalf("expected invalid state for unknown status, got %v", err)
	}

	badMethod := valid
	badMethod.Method = "wire"
	if err := badMethod.Validate(); !errors.Is(err, ErrInvalidTransactionState) {
		t.Fatalf("expected invalid state for unknown method, got %v", err)
	}
}

func TestAccountValidate(t *testing.T) {
	valid := Account{
		ID:       "acc_1",
		Name:     "Checking",
		Currency: "USD",
		Provider: ProviderTeller,
		Type:     AccountTypeDepository,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid account, got %v", err)
	}

	badProvider := valid
	badProvider.Provider = "monzo"
	if err := badProvider.Validate(); !errors.Is(err, ErrInvalidProviderVariant) {
		t.Fatalf("expected invalid provider, got %v", err)
	}

	badType := valid
	badType.Type = "savings"
	if err := badType.Validate(); !errors.Is(err, ErrInvalidAccountType) {
		t.Fatalf("expected invalid account type, got %v", err)
	}
}

func TestKnownVariants_StableOrder(t *testing.T) {
	variants := KnownVariants()
	want := []ProviderVariant{ProviderTeller, ProviderPlaid, ProviderGoCardless, ProviderStripe}
	if len(variants) != len(want) {
		t.Fatalf("expected %d variants, got %d", len(want), len(variants))
	}
	for i := range want {
		if variants[i] != want[i] {
			t.Fatalf("variant %d: expected %q, got %q", i, want[i], variants[i])
		}
	}
}
