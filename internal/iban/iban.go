// Package iban computes Spanish CCC control digits and derives IBANs from them.
package iban

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrInvalidCCC     = errors.New("invalid CCC")
	ErrInvalidCountry = errors.New("invalid country code")
)

// weights are applied from the rightmost digit leftwards.
var weights = [10]int{6, 3, 7, 9, 10, 5, 8, 4, 2, 1}

var ninetySeven = big.NewInt(97)

// CheckDigits returns the two CCC control digits for a bank, office and
// account number. The first digit covers bank and office, the second the account.
func CheckDigits(bank, office, account string) (string, error) {
	if len(bank) != 4 || len(office) != 4 || len(account) != 10 {
		return "", fmt.Errorf("%w: want 4+4+10 digits, got %d+%d+%d", ErrInvalidCCC, len(bank), len(office), len(account))
	}

	if !isDigits(bank + office + account) {
		return "", fmt.Errorf("%w: non-digit in %s %s %s", ErrInvalidCCC, bank, office, account)
	}

	return string([]byte{controlDigit(bank + office), controlDigit(account)}), nil
}

func controlDigit(digits string) byte {
	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		sum += d * weights[i%len(weights)]
	}

	switch r := 11 - sum%11; r {
	case 11:
		return '0'
	case 10:
		return '1'
	default:
		return byte('0' + r)
	}
}

// CCC builds the 20-digit Código Cuenta Cliente: bank, office, control digits, account.
func CCC(bank, office, account string) (string, error) {
	dc, err := CheckDigits(bank, office, account)
	if err != nil {
		return "", err
	}

	return bank + office + dc + account, nil
}

// FromCCC derives the IBAN for a national account identifier using ISO 7064 mod 97-10.
func FromCCC(country, ccc string) (string, error) {
	country = strings.ToUpper(country)
	if len(country) != 2 || !isUpperLetters(country) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountry, country)
	}

	if ccc == "" || !isDigits(ccc) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCCC, ccc)
	}

	numeral := ccc + letterValue(country[0]) + letterValue(country[1]) + "00"

	check := 98 - mod97(numeral)

	return fmt.Sprintf("%s%02d%s", country, check, ccc), nil
}

// Valid reports whether an IBAN passes the mod 97 check.
func Valid(iban string) bool {
	iban = strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if len(iban) < 5 {
		return false
	}

	rearranged := iban[4:] + iban[:4]

	var sb strings.Builder

	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]

		switch {
		case c >= '0' && c <= '9':
			sb.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			sb.WriteString(letterValue(c))
		default:
			return false
		}
	}

	return mod97(sb.String()) == 1
}

func mod97(numeral string) int64 {
	n, ok := new(big.Int).SetString(numeral, 10)
	if !ok {
		return -1
	}

	return new(big.Int).Mod(n, ninetySeven).Int64()
}

// letterValue maps A..Z to "10".."35".
func letterValue(c byte) string {
	return fmt.Sprintf("%d", int(c-'A')+10)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func isUpperLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}

	return true
}
