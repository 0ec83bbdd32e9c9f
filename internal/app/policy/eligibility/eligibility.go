// Package eligibility decides whether an applicant may book a restricted
// event.
//
// Rules (applied only when the event is restricted):
//   - gender must be "female"
//   - age, in whole years as of the evaluation date, must be 30-65
//   - if employed, monthly income must be strictly below the configured
//     threshold
//
// Unrestricted events accept every applicant, and the demographic fields
// may be absent entirely. Evaluate is pure: no clock reads, no I/O, so
// it is unit-testable against a fixed date.
package eligibility

import (
	"errors"
	"strings"
	"time"
)

// DefaultIncomeThreshold is the monthly-income ceiling (in currency
// units) for employed applicants, used when no threshold is configured.
const DefaultIncomeThreshold = 5250

const (
	requiredGender = "female"
	minAge         = 30
	maxAge         = 65
)

var (
	ErrWrongGender   = errors.New("this event is open to female applicants only")
	ErrAgeOutOfRange = errors.New("applicants must be between 30 and 65 years old")
	ErrIncomeTooHigh = errors.New("monthly income is above the limit for this event")
	ErrMissingFields = errors.New("gender and date of birth are required for this event")
)

// Applicant carries the demographic attributes the policy evaluates.
// Fields are pointers because they are optional for unrestricted events.
type Applicant struct {
	Gender           *string
	DateOfBirth      *time.Time
	EmploymentStatus *string
	MonthlyIncome    *int
}

// Policy holds the configurable pieces of the eligibility rules.
type Policy struct {
	IncomeThreshold int
}

// Default returns a Policy with the documented income threshold.
func Default() Policy {
	return Policy{IncomeThreshold: DefaultIncomeThreshold}
}

// Evaluate reports whether the applicant may book the event. A nil
// return means admission is allowed. now supplies the evaluation date so
// age boundaries are deterministic under test.
func (p Policy) Evaluate(a Applicant, restricted bool, now time.Time) error {
	if !restricted {
		return nil
	}

	if a.Gender == nil || a.DateOfBirth == nil {
		return ErrMissingFields
	}
	if !strings.EqualFold(strings.TrimSpace(*a.Gender), requiredGender) {
		return ErrWrongGender
	}

	age := Age(*a.DateOfBirth, now)
	if age < minAge || age > maxAge {
		return ErrAgeOutOfRange
	}

	if a.EmploymentStatus != nil && strings.EqualFold(strings.TrimSpace(*a.EmploymentStatus), "employed") {
		threshold := p.IncomeThreshold
		if threshold <= 0 {
			threshold = DefaultIncomeThreshold
		}
		if a.MonthlyIncome == nil || *a.MonthlyIncome >= threshold {
			return ErrIncomeTooHigh
		}
	}

	return nil
}

// Age returns whole years elapsed from dob to now, subtracting one year
// when now's month/day falls before the birthday.
func Age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
