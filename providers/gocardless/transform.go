package gocardless

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

var methodByCode = map[string]core.TransactionMethod{
	"transfer":   core.MethodTransfer,
	"sepa":       core.MethodTransfer,
	"payment":    core.MethodPayment,
	"card":       core.MethodPayment,
	"fee":        core.MethodFee,
	"charge":     core.MethodFee,
	"refund":     core.MethodRefund,
	"payout":     core.MethodPayout,
	"adjustment": core.MethodAdjustment,
}

func mapTransactionMethod(code string) core.TransactionMethod {
	if method, ok := methodByCode[strings.ToLower(code)]; ok {
		return method
	}
	return core.MethodOther
}

func transformAccount(meta rawAccountMeta, detail rawAccountDetail, institution *core.Institution) core.Account {
	name := detail.Name
	if name == "" {
		name = detail.Product
	}
	if name == "" {
		name = detail.OwnerName
	}
	if name == "" {
		name = meta.IBAN
	}
	currency := strings.ToUpper(detail.Currency)
	if currency == "" {
		currency = "EUR"
	}
	return core.Account{
		ID:          meta.ID,
		Name:        name,
		Currency:    currency,
		Provider:    core.ProviderGoCardless,
		Institution: institution,
		Type:        core.AccountTypeDepository,
	}
}

func transformTransaction(raw rawTransaction, status core.TransactionStatus) (core.Transaction, error) {
	amount, err := decimal.NewFromString(raw.TransactionAmount.Amount)
	if err != nil {
		return core.Transaction{}, core.NewUpstreamContractError(core.ProviderGoCardless, err, "transaction amount is not a decimal string")
	}

	id := raw.TransactionID
	if id == "" {
		id = raw.InternalTransactionID
	}

	date := raw.BookingDate
	if date == "" {
		date = raw.ValueDate
	}

	currency := strings.ToUpper(raw.TransactionAmount.Currency)
	if currency == "" {
		currency = "EUR"
	}

	name := raw.CreditorName
	if name == "" {
		name = raw.DebtorName
	}
	if name == "" {
		name = raw.RemittanceInformationUnstructured
	}
	if name == "" {
		name = "Unknown"
	}

	tx := core.Transaction{
		ID:       id,
		Amount:   amount.Abs().InexactFloat64(),
		Currency: currency,
		Date:     date,
		Status:   status,
		Method:   mapTransactionMethod(raw.ProprietaryBankTransactionCode),
		Name:     name,
	}

	if raw.RemittanceInformationUnstructured != "" && raw.RemittanceInformationUnstructured != name {
		description := raw.RemittanceInformationUnstructured
		tx.Description = &description
	}

	if raw.BalanceAfterTransaction != nil && raw.BalanceAfterTransaction.BalanceAmount.Amount != "" {
		if balance, err := decimal.NewFromString(raw.BalanceAfterTransaction.BalanceAmount.Amount); err == nil {
			value := balance.InexactFloat64()
			tx.Balance = &value
		}
	}

	if len(raw.CurrencyExchange) > 0 {
		exchange := raw.CurrencyExchange[0]
		if rate, err := decimal.NewFromString(exchange.ExchangeRate); err == nil {
			value := rate.InexactFloat64()
			tx.CurrencyRate = &value
			if exchange.SourceCurrency != "" {
				source := strings.ToUpper(exchange.SourceCurrency)
				tx.CurrencySource = &source
			}
		}
	}

	return tx, nil
}

// transformBalance prefers the interim available figure, then the expected
// one, then whatever the provider listed first.
func transformBalance(raws []rawBalance) (*core.Balance, error) {
	if len(raws) == 0 {
		return nil, nil
	}

	selected := raws[0]
	for _, preferred := range []string{"interimAvailable", "expected"} {
		found := false
		for _, raw := range raws {
			if raw.BalanceType == preferred {
				selected = raw
				found = true
				break
			}
		}
		if found {
			break
		}
	}

	amount, err := decimal.NewFromString(selected.BalanceAmount.Amount)
	if err != nil {
		return nil, core.NewUpstreamContractError(core.ProviderGoCardless, err, "balance amount is not a decimal string")
	}

	balanceCurrency := strings.ToUpper(selected.BalanceAmount.Currency)
	if balanceCurrency == "" {
		balanceCurrency = "EUR"
	}
	return &core.Balance{
		Amount:   amount.InexactFloat64(),
		Currency: balanceCurrency,
	}, nil
}

func transformInstitution(raw rawInstitution) core.Institution {
	institution := core.Institution{
		ID:       raw.ID,
		Name:     raw.Name,
		Provider: core.ProviderGoCardless,
	}
	if raw.Logo != "" {
		logo := raw.Logo
		institution.Logo = &logo
	}
	return institution
}
