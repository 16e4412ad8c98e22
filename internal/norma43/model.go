// Package norma43 parses Spanish bank statements in the AEB Norma 43 format.
package norma43

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is the debit/credit indicator carried by balances and entries.
type Type string

const (
	TypeDebit   Type = "debit"
	TypeCredit  Type = "credit"
	TypeUnknown Type = "unknown"
)

func parseType(s string) Type {
	switch s {
	case "1":
		return TypeDebit
	case "2":
		return TypeCredit
	default:
		return TypeUnknown
	}
}

// Account is one account block of a statement file, from its 11 header to its 33 trailer.
type Account struct {
	Bank    string
	Office  string
	Account string
	// Number is Bank+Office+Account.
	Number string
	IBAN   string

	DateStart time.Time
	DateEnd   time.Time

	Type Type
	// BalanceInitial is negative when Type is TypeDebit.
	BalanceInitial decimal.Decimal
	// BalanceEnd is nil until the 33 record of the account is parsed.
	BalanceEnd *decimal.Decimal

	Currency  string
	Mode      string
	OwnerName string

	Entries []Entry
}

// Closed reports whether the account trailer has been parsed.
func (a *Account) Closed() bool {
	return a.BalanceEnd != nil
}

// Entry is a single movement (22 record) with its 23/24 supplements.
type Entry struct {
	Office        string
	Date          time.Time
	DateRaw       string
	DateValue     time.Time
	ConceptCommon string
	ConceptOwn    string

	// Type is informational; Amount keeps the sign found in the file.
	Type   Type
	Amount decimal.Decimal

	Document   string
	Reference1 string
	Reference2 string
	Raw        string

	// Concepts holds the 23 records keyed by their two-character slot.
	Concepts map[string]string

	CurrencyEq string
	AmountEq   *decimal.Decimal
}
