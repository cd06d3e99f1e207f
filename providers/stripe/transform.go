package stripe

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

var methodByType = map[string]core.TransactionMethod{
	"charge":          core.MethodPayment,
	"payment":         core.MethodPayment,
	"refund":          core.MethodRefund,
	"payment_refund":  core.MethodRefund,
	"transfer":        core.MethodTransfer,
	"payout":          core.MethodPayout,
	"adjustment":      core.MethodAdjustment,
	"stripe_fee":      core.MethodFee,
	"application_fee": core.MethodFee,
}

func mapTransactionMethod(txType string) core.TransactionMethod {
	if method, ok := methodByType[txType]; ok {
		return method
	}
	return core.MethodOther
}

// minorToMajor converts an integer minor-unit amount to its major-unit
// value, e.g. 12345 cents to 123.45.
func minorToMajor(amount int64) float64 {
	return decimal.New(amount, -2).InexactFloat64()
}

func transformTransaction(raw rawBalanceTransaction) core.Transaction {
	name := raw.Type
	if raw.Description != nil && *raw.Description != "" {
		name = *raw.Description
	}

	// A balance transaction that made it onto the ledger is settled.
	tx := core.Transaction{
		ID:       raw.ID,
		Amount:   decimal.New(raw.Amount, -2).Abs().InexactFloat64(),
		Currency: strings.ToUpper(raw.Currency),
		Date:     time.Unix(raw.Created, 0).UTC().Format(time.RFC3339),
		Status:   core.TransactionStatusPosted,
		Method:   mapTransactionMethod(raw.Type),
		Name:     name,
	}

	net := decimal.New(raw.Net, -2).Abs().InexactFloat64()
	tx.Balance = &net

	if raw.ReportingCategory != "" {
		category := strings.ToLower(raw.ReportingCategory)
		tx.Category = &category
	}
	if raw.Description != nil && *raw.Description != "" && *raw.Description != name {
		tx.Description = raw.Description
	}
	if raw.ExchangeRate != nil {
		rate := *raw.ExchangeRate
		tx.CurrencyRate = &rate
	}

	return tx
}

func transformBankAccount(raw rawBankAccount) core.Account {
	name := raw.BankName
	if name == "" {
		name = raw.Last4
	}

	institutionID := ""
	if raw.RoutingNumber != nil {
		institutionID = *raw.RoutingNumber
	}

	return core.Account{
		ID:       raw.ID,
		Name:     name,
		Currency: strings.ToUpper(raw.Currency),
		Provider: core.ProviderStripe,
		Institution: &core.Institution{
			ID:       institutionID,
			Name:     name,
			Provider: core.ProviderStripe,
		},
		// External accounts attached to a connected account only ever
		// collect and pay out funds.
		Type:       core.AccountTypeDepository,
		RoutingNum: raw.RoutingNumber,
	}
}

func transformBalance(raw rawBalance) *core.Balance {
	if len(raw.Available) == 0 {
		return nil
	}
	funds := raw.Available[0]
	return &core.Balance{
		Amount:   minorToMajor(funds.Amount),
		Currency: strings.ToUpper(funds.Currency),
	}
}
