package norma43

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/norma43/internal/iban"
)

// RecordCode is the two-digit prefix identifying a line's role.
type RecordCode int

const (
	RecordAccountHeader   RecordCode = 11
	RecordEntry           RecordCode = 22
	RecordConcept         RecordCode = 23
	RecordEquivalence     RecordCode = 24
	RecordAccountTrailer  RecordCode = 33
	RecordFileTrailer     RecordCode = 88
	recordCodeUnsupported RecordCode = -1
)

func parseRecordCode(s string) RecordCode {
	if len(s) != 2 || !isDigits(s) {
		return recordCodeUnsupported
	}

	switch c := RecordCode(int(s[0]-'0')*10 + int(s[1]-'0')); c {
	case RecordAccountHeader, RecordEntry, RecordConcept, RecordEquivalence, RecordAccountTrailer, RecordFileTrailer:
		return c
	default:
		return recordCodeUnsupported
	}
}

const ibanCountry = "ES"

// decodeAccount reads an 11 record.
func decodeAccount(line string) (Account, error) {
	bank, err := digitsField(line, "bank", 2, 4)
	if err != nil {
		return Account{}, err
	}

	office, err := digitsField(line, "office", 6, 4)
	if err != nil {
		return Account{}, err
	}

	number, err := digitsField(line, "account", 10, 10)
	if err != nil {
		return Account{}, err
	}

	dateStart, _, err := dateField(line, "date_start", 20)
	if err != nil {
		return Account{}, err
	}

	dateEnd, _, err := dateField(line, "date_end", 26)
	if err != nil {
		return Account{}, err
	}

	balance, err := amountField(line, "balance_initial", 33, 12)
	if err != nil {
		return Account{}, err
	}

	cur, err := currencyField(line, "currency", 47)
	if err != nil {
		return Account{}, err
	}

	ccc, err := iban.CCC(bank, office, number)
	if err != nil {
		return Account{}, fmt.Errorf("build ccc: %w", err)
	}

	ibanCode, err := iban.FromCCC(ibanCountry, ccc)
	if err != nil {
		return Account{}, fmt.Errorf("derive iban: %w", err)
	}

	acc := Account{
		Bank:           bank,
		Office:         office,
		Account:        number,
		Number:         bank + office + number,
		IBAN:           ibanCode,
		DateStart:      dateStart,
		DateEnd:        dateEnd,
		Type:           parseType(field(line, 32, 1)),
		BalanceInitial: balance,
		Currency:       cur,
		Mode:           field(line, 50, 1),
		OwnerName:      strings.TrimSpace(field(line, 51, 26)),
	}

	if acc.Type == TypeDebit {
		acc.BalanceInitial = acc.BalanceInitial.Neg()
	}

	return acc, nil
}

// decodeEntry reads a 22 record. The amount is never negated.
func decodeEntry(line string) (Entry, error) {
	date, dateRaw, err := dateField(line, "date", 10)
	if err != nil {
		return Entry{}, err
	}

	dateValue, _, err := dateField(line, "date_value", 16)
	if err != nil {
		return Entry{}, err
	}

	amount, err := amountField(line, "amount", 28, 12)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Office:        trimZeros(field(line, 6, 4)),
		Date:          date,
		DateRaw:       dateRaw,
		DateValue:     dateValue,
		ConceptCommon: field(line, 22, 2),
		ConceptOwn:    field(line, 24, 3),
		Type:          parseType(field(line, 27, 1)),
		Amount:        amount,
		Document:      trimZeros(field(line, 42, 10)),
		Reference1:    trimZeros(field(line, 52, 12)),
		Reference2:    strings.TrimSpace(field(line, 64, 16)),
		Raw:           line,
		Concepts:      make(map[string]string),
	}, nil
}

// applyConcept stores a 23 record on e; a repeated slot overwrites the previous text.
func applyConcept(e *Entry, line string) {
	e.Concepts[field(line, 2, 2)] = strings.TrimSpace(rest(line, 4))
}

// applyEquivalence stores a 24 record on e.
func applyEquivalence(e *Entry, line string) error {
	cur, err := currencyField(line, "currency_eq", 4)
	if err != nil {
		return err
	}

	amount, err := amountField(line, "amount_eq", 7, 12)
	if err != nil {
		return err
	}

	e.CurrencyEq = cur
	e.AmountEq = &amount

	return nil
}

// applyTrailer stores the final balance of a 33 record on a.
func applyTrailer(a *Account, line string) error {
	balance, err := amountField(line, "balance_end", 59, 12)
	if err != nil {
		return err
	}

	a.BalanceEnd = &balance

	return nil
}

// decodeRecordCount reads the declared number of records from an 88 record.
func decodeRecordCount(line string) (int, error) {
	return intField(line, "record_count", 20, 6)
}
