package currency

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCurrency = errors.New("unknown currency")

// codes maps ISO-4217 alphabetic codes to their numeric form.
var codes = map[string]int{
	"EUR": 978,
	"USD": 840,
	"GBP": 426,
	"JPY": 392,
	"CNY": 156,
}

// CodeToNumber returns the ISO-4217 numeric code for an alphabetic code.
// The lookup ignores case.
func CodeToNumber(code string) (int, error) {
	n, ok := codes[strings.ToUpper(code)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}

	return n, nil
}

// NumberToCode returns the ISO-4217 alphabetic code for a numeric code.
func NumberToCode(n int) (string, error) {
	for code, num := range codes {
		if num == n {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w: %03d", ErrUnknownCurrency, n)
}
