package gocardless

import (
	goerrors "github.com/goliatone/go-errors"
)

// Raw response shapes from the GoCardless bank account data API. Amounts
// are signed decimal strings in major units.

type rawToken struct {
	Access        string `json:"access"`
	AccessExpires int    `json:"access_expires"`
}

type rawRequisition struct {
	ID       string   `json:"id"`
	Status   string   `json:"status"`
	Accounts []string `json:"accounts"`
}

func (r rawRequisition) validate() []goerrors.FieldError {
	var fields []goerrors.FieldError
	if r.ID == "" {
		fields = append(fields, goerrors.FieldError{Field: "id", Message: "is required"})
	}
	return fields
}

type rawAccountMeta struct {
	ID            string `json:"id"`
	IBAN          string `json:"iban"`
	InstitutionID string `json:"institution_id"`
	Status        string `json:"status"`
	OwnerName     string `json:"owner_name"`
}

type rawAccountDetail struct {
	ResourceID string `json:"resourceId"`
	Currency   string `json:"currency"`
	Name       string `json:"name"`
	OwnerName  string `json:"ownerName"`
	Product    string `json:"product"`
}

type rawAccountDetailsResponse struct {
	Account rawAccountDetail `json:"account"`
}

type rawAmount struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type rawCurrencyExchange struct {
	ExchangeRate   string `json:"exchangeRate"`
	SourceCurrency string `json:"sourceCurrency"`
}

type rawBalanceAfter struct {
	BalanceAmount rawAmount `json:"balanceAmount"`
}

type rawTransaction struct {
	TransactionID                     string                `json:"transactionId"`
	InternalTransactionID             string                `json:"internalTransactionId"`
	BookingDate                       string                `json:"bookingDate"`
	ValueDate                         string                `json:"valueDate"`
	TransactionAmount                 rawAmount             `json:"transactionAmount"`
	CreditorName                      string                `json:"creditorName"`
	DebtorName                        string                `json:"debtorName"`
	RemittanceInformationUnstructured string                `json:"remittanceInformationUnstructured"`
	ProprietaryBankTransactionCode    string                `json:"proprietaryBankTransactionCode"`
	BalanceAfterTransaction           *rawBalanceAfter      `json:"balanceAfterTransaction"`
	CurrencyExchange                  []rawCurrencyExchange `json:"currencyExchange"`
}

func (t rawTransaction) validate() []goerrors.FieldError {
	var fields []goerrors.FieldError
	if t.TransactionID == "" && t.InternalTransactionID == "" {
		fields = append(fields, goerrors.FieldError{Field: "transactionId", Message: "is required"})
	}
	if t.TransactionAmount.Amount == "" {
		fields = append(fields, goerrors.FieldError{Field: "transactionAmount.amount", Message: "is required"})
	}
	return fields
}

type rawTransactionBuckets struct {
	Booked  []rawTransaction `json:"booked"`
	Pending []rawTransaction `json:"pending"`
}

type rawTransactionsResponse struct {
	Transactions rawTransactionBuckets `json:"transactions"`
}

type rawBalance struct {
	BalanceAmount rawAmount `json:"balanceAmount"`
	BalanceType   string    `json:"balanceType"`
}

type rawBalancesResponse struct {
	Balances []rawBalance `json:"balances"`
}

type rawInstitution struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}
