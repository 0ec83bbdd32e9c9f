// Package phone normalizes and validates contact phone numbers.
//
// A stored ("normalized") phone number is the country extension digits
// followed by the subscriber number with leading zeros stripped, e.g.
// extension "60" + "0123456789" -> "60123456789". Equivalent inputs with
// different formatting normalize to the same value, which is what lets
// identities be reused across bookings and the duplicate guard compare
// numbers reliably.
package phone

import (
	"errors"
	"fmt"
	"strings"
)

// Extension describes one supported country extension and the allowed
// subscriber-number digit range for it (after leading zeros are
// stripped).
type Extension struct {
	Code      string // digits, no "+" prefix
	Country   string
	MinDigits int
	MaxDigits int
}

// Extensions is the supported country extension table. The digit ranges
// must match the booking form's client-side rules exactly.
var Extensions = []Extension{
	{Code: "60", Country: "Malaysia", MinDigits: 9, MaxDigits: 11},
	{Code: "44", Country: "United Kingdom", MinDigits: 10, MaxDigits: 13},
	{Code: "1", Country: "United States", MinDigits: 10, MaxDigits: 11},
	{Code: "91", Country: "India", MinDigits: 10, MaxDigits: 12},
}

var (
	ErrUnknownExtension = errors.New("unsupported country extension")
	ErrNotNumeric       = errors.New("phone number must contain only digits")
	ErrEmpty            = errors.New("phone number is required")
)

// LengthError reports a subscriber number outside the allowed digit
// range for its extension.
type LengthError struct {
	Ext    Extension
	Digits int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("phone number for %s (+%s) must be %d-%d digits, got %d",
		e.Ext.Country, e.Ext.Code, e.Ext.MinDigits, e.Ext.MaxDigits, e.Digits)
}

// LookupExtension returns the extension entry for the given code.
func LookupExtension(code string) (Extension, bool) {
	code = strings.TrimPrefix(strings.TrimSpace(code), "+")
	for _, ext := range Extensions {
		if ext.Code == code {
			return ext, true
		}
	}
	return Extension{}, false
}

// Normalize validates a raw subscriber number against the extension's
// digit range and returns the stored form (extension + number with
// leading zeros stripped).
func Normalize(extCode, raw string) (string, error) {
	ext, ok := LookupExtension(extCode)
	if !ok {
		return "", ErrUnknownExtension
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmpty
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return "", ErrNotNumeric
		}
	}

	subscriber := strings.TrimLeft(raw, "0")
	if n := len(subscriber); n < ext.MinDigits || n > ext.MaxDigits {
		return "", &LengthError{Ext: ext, Digits: n}
	}
	return ext.Code + subscriber, nil
}

// E164 renders a stored phone number for an SMS gateway ("+" prefix).
func E164(normalized string) string {
	if normalized == "" {
		return ""
	}
	return "+" + normalized
}
