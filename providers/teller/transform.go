package teller

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

const institutionLogoBase = "https://teller.io/images/banks"

var methodByType = map[string]core.TransactionMethod{
	"payment":         core.MethodPayment,
	"card_payment":    core.MethodPayment,
	"digital_payment": core.MethodPayment,
	"bill_payment":    core.MethodPayment,
	"refund":          core.MethodRefund,
	"transfer":        core.MethodTransfer,
	"ach":             core.MethodTransfer,
	"wire":            core.MethodTransfer,
	"fee":             core.MethodFee,
	"interest":        core.MethodAdjustment,
	"adjustment":      core.MethodAdjustment,
}

func mapTransactionMethod(nativeType string) core.TransactionMethod {
	if method, ok := methodByType[nativeType]; ok {
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
	default:
		return core.AccountTypeOtherAsset
	}
}

func transformAccount(raw rawAccount) core.Account {
	account := core.Account{
		ID:       raw.ID,
		Name:     raw.Name,
		Currency: raw.Currency,
		Provider: core.ProviderTeller,
		Type:     mapAccountType(raw.Type),
	}
	if raw.EnrollmentID != "" {
		id := raw.EnrollmentID
		account.EnrollmentID = &id
	}
	if raw.Institution.ID != "" {
		logo := institutionLogoURL(raw.Institution.ID)
		account.Institution = &core.Institution{
			ID:       raw.Institution.ID,
			Name:     raw.Institution.Name,
			Logo:     &logo,
			Provider: core.ProviderTeller,
		}
	}
	return account
}

func transformTransaction(raw rawTransaction, currency string) (core.Transaction, error) {
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return core.Transaction{}, core.NewUpstreamContractError(
			core.ProviderTeller, err,
			fmt.Sprintf("providers/teller: unparseable amount %q", raw.Amount),
		)
	}

	status := core.TransactionStatusPosted
	if raw.Status == "pending" {
		status = core.TransactionStatusPending
	}

	tx := core.Transaction{
		ID:       raw.ID,
		Amount:   amount.Abs().InexactFloat64(),
		Currency: currency,
		Date:     raw.Date,
		Status:   status,
		Category: raw.Details.Category,
		Method:   mapTransactionMethod(raw.Type),
		Name:     transactionName(raw),
	}
	if raw.Description != "" {
		description := raw.Description
		tx.Description = &description
	}
	if raw.RunningBalance != nil && *raw.RunningBalance != "" {
		balance, err := decimal.NewFromString(*raw.RunningBalance)
		if err != nil {
			return core.Transaction{}, core.NewUpstreamContractError(
				core.ProviderTeller, err,
				fmt.Sprintf("providers/teller: unparseable running balance %q", *raw.RunningBalance),
			)
		}
		value := balance.InexactFloat64()
		tx.Balance = &value
	}
	return tx, nil
}

func transactionName(raw rawTransaction) string {
	if raw.Details.Counterparty.Name != "" {
		return raw.Details.Counterparty.Name
	}
	if raw.Description != "" {
		return raw.Description
	}
	return raw.Type
}

func transformBalance(raw rawBalance) (*core.Balance, error) {
	source := raw.Available
	if source == nil || *source == "" {
		source = raw.Ledger
	}
	if source == nil || *source == "" {
		return nil, nil
	}
	amount, err := decimal.NewFromString(*source)
	if err != nil {
		return nil, core.NewUpstreamContractError(
			core.ProviderTeller, err,
			fmt.Sprintf("providers/teller: unparseable balance %q", *source),
		)
	}
	return &core.Balance{Amount: amount.InexactFloat64(), Currency: "USD"}, nil
}

func transformInstitution(raw rawInstitution) core.Institution {
	logo := institutionLogoURL(raw.ID)
	return core.Institution{
		ID:       raw.ID,
		Name:     raw.Name,
		Logo:     &logo,
		Provider: core.ProviderTeller,
	}
}

func institutionLogoURL(id string) string {
	return fmt.Sprintf("%s/%s.jpg", institutionLogoBase, id)
}
