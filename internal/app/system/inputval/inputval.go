// Package inputval validates user-supplied form fields. The rules here
// mirror the booking form's client-side checks so the server rejects
// exactly what the form would, with messages specific enough for the UI
// to point at the offending field.
package inputval

import (
	"net/mail"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fullNameRe allows letters and separating spaces only. Digits and
// punctuation are rejected outright, which also covers the all-digits
// case.
var fullNameRe = regexp.MustCompile(`^[A-Za-z]+(?: [A-Za-z]+)*$`)

// MaxFreeTextWords caps free-text fields (outreach details, feedback).
const MaxFreeTextWords = 50

// MinAddressLen is the minimum address length after trimming.
const MinAddressLen = 5

// IsValidFullName reports whether s is a plausible person name:
// letters and single spaces, at least one letter.
func IsValidFullName(s string) bool {
	return fullNameRe.MatchString(strings.TrimSpace(s))
}

// IsValidEmail reports whether s is a bare, well-formed address.
// Display-name forms ("Name <a@b>") are rejected; only the plain
// address is accepted.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	a, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return a.Name == "" && a.Address == s
}

// IsValidAddress reports whether s is long enough to be a street
// address once trimmed.
func IsValidAddress(s string) bool {
	return len(strings.TrimSpace(s)) >= MinAddressLen
}

// WithinWordLimit reports whether s has at most limit whitespace-
// separated words.
func WithinWordLimit(s string, limit int) bool {
	return len(strings.Fields(s)) <= limit
}

// IsValidObjectID reports whether s parses as a Mongo ObjectID hex
// string.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
