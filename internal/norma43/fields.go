package norma43

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/norma43/internal/currency"
)

// field returns the characters [start, start+length) of line, clipped to the
// end of the line. Offsets count characters, so decoded Latin-1 text keeps its columns.
func field(line string, start, length int) string {
	if utf8.RuneCountInString(line) == len(line) {
		if start >= len(line) {
			return ""
		}

		return line[start:min(start+length, len(line))]
	}

	runes := []rune(line)
	if start >= len(runes) {
		return ""
	}

	return string(runes[start:min(start+length, len(runes))])
}

// rest returns everything from character start to the end of the line.
func rest(line string, start int) string {
	return field(line, start, utf8.RuneCountInString(line))
}

func trimZeros(s string) string {
	return strings.TrimLeft(s, "0")
}

func digitsField(line, name string, start, length int) (string, error) {
	s := field(line, start, length)
	if len(s) != length || !isDigits(s) {
		return "", &FieldError{Field: name, Value: s}
	}

	return s, nil
}

// amountField reconstructs intLen integer digits followed by 2 decimals.
func amountField(line, name string, start, intLen int) (decimal.Decimal, error) {
	s, err := digitsField(line, name, start, intLen+2)
	if err != nil {
		return decimal.Zero, err
	}

	d, err := decimal.NewFromString(s[:intLen] + "." + s[intLen:])
	if err != nil {
		return decimal.Zero, &FieldError{Field: name, Value: s, Err: err}
	}

	return d, nil
}

// dateField parses a YYMMDD date.
func dateField(line, name string, start int) (time.Time, string, error) {
	s, err := digitsField(line, name, start, 6)
	if err != nil {
		return time.Time{}, "", err
	}

	t, err := time.Parse("060102", s)
	if err != nil {
		return time.Time{}, "", &FieldError{Field: name, Value: s, Err: err}
	}

	return t, s, nil
}

func intField(line, name string, start, length int) (int, error) {
	s, err := digitsField(line, name, start, length)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FieldError{Field: name, Value: s, Err: err}
	}

	return n, nil
}

func currencyField(line, name string, start int) (string, error) {
	n, err := intField(line, name, start, 3)
	if err != nil {
		return "", err
	}

	code, err := currency.NumberToCode(n)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	return code, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
