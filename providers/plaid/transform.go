package plaid

import (
	"math"
	"strings"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

var methodByCode = map[string]core.TransactionMethod{
	"bill payment":   core.MethodPayment,
	"purchase":       core.MethodPayment,
	"direct debit":   core.MethodPayment,
	"transfer":       core.MethodTransfer,
	"standing order": core.MethodTransfer,
	"bank charge":    core.MethodFee,
	"interest":       core.MethodAdjustment,
	"adjustment":     core.MethodAdjustment,
	"cashback":       core.MethodRefund,
}

func mapTransactionMethod(code *string) core.TransactionMethod {
	if code == nil {
		return core.MethodOther
	}
	if method, ok := methodByCode[strings.ToLower(*code)]; ok {
		return method
	}
	return core.MethodOther
}

func mapAccountType(nativeType string) core.AccountType {
	switch nativeType {
	case "depository":
		return core.AccountTypeDepository
	case "credit":
		return core.AccountTypeCredit
	case "loan":
		return core.AccountTypeLoan
	case "investment":
		return core.AccountTypeOtherAsset
	default:
		return core.AccountTypeOtherAsset
	}
}

func transformTransaction(raw rawTransaction, fallbackCurrency string) core.Transaction {
	currency := fallbackCurrency
	if raw.ISOCurrencyCode != nil && *raw.ISOCurrencyCode != "" {
		currency = *raw.ISOCurrencyCode
	}
	if currency == "" {
		currency = "USD"
	}

	status := core.TransactionStatusPosted
	if raw.Pending {
		status = core.TransactionStatusPending
	}

	tx := core.Transaction{
		ID:       raw.TransactionID,
		Amount:   math.Abs(raw.Amount),
		Currency: currency,
		Date:     raw.Date,
		Status:   status,
		Method:   mapTransactionMethod(raw.TransactionCode),
		Name:     transactionName(raw),
	}
	if raw.PersonalFinanceCategory != nil && raw.PersonalFinanceCategory.Primary != "" {
		category := strings.ToLower(raw.PersonalFinanceCategory.Primary)
		tx.Category = &category
	}
	if raw.MerchantName != nil && *raw.MerchantName != "" && *raw.MerchantName != tx.Name {
		description := *raw.MerchantName
		tx.Description = &description
	}
	return tx
}

func transactionName(raw rawTransaction) string {
	if raw.Name != "" {
		return raw.Name
	}
	if raw.MerchantName != nil && *raw.MerchantName != "" {
		return *raw.MerchantName
	}
	return raw.TransactionID
}

func transformAccount(raw rawAccount, institution *core.Institution) core.Account {
	currency := "USD"
	if raw.Balances.ISOCurrencyCode != nil && *raw.Balances.ISOCurrencyCode != "" {
		currency = *raw.Balances.ISOCurrencyCode
	}
	name := raw.Name
	if raw.OfficialName != nil && *raw.OfficialName != "" {
		name = *raw.OfficialName
	}
	return core.Account{
		ID:          raw.AccountID,
		Name:        name,
		Currency:    currency,
		Provider:    core.ProviderPlaid,
		Institution: institution,
		Type:        mapAccountType(raw.Type),
	}
}

func transformBalance(raw rawAccount) *core.Balance {
	currency := "USD"
	if raw.Balances.ISOCurrencyCode != nil && *raw.Balances.ISOCurrencyCode != "" {
		currency = *raw.Balances.ISOCurrencyCode
	}
	source := raw.Balances.Available
	if source == nil {
		source = raw.Balances.Current
	}
	if source == nil {
		return nil
	}
	return &core.Balance{Amount: *source, Currency: currency}
}

func transformInstitution(raw rawInstitution) core.Institution {
	return core.Institution{
		ID:       raw.InstitutionID,
		Name:     raw.Name,
		Logo:     raw.Logo,
		Provider: core.ProviderPlaid,
	}
}
