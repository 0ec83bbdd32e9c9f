package admission

import (
	"strings"
	"time"

	"github.com/careconnect/careconnect/internal/app/policy/eligibility"
	"github.com/careconnect/careconnect/internal/app/system/inputval"
	"github.com/careconnect/careconnect/internal/app/system/normalize"
	"github.com/careconnect/careconnect/internal/app/system/phone"
)

// Form carries the raw booking submission as received from the client.
// All fields arrive as strings except the numeric income; validate
// normalizes and types them.
type Form struct {
	FullName string `json:"full_name"`
	PhoneExt string `json:"phone_ext"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`

	// Demographic fields, required only for restricted events.
	Gender           string `json:"gender"`
	DateOfBirth      string `json:"date_of_birth"` // 2006-01-02
	EmploymentStatus string `json:"employment_status"`
	MonthlyIncome    *int   `json:"monthly_income"`
}

// ValidationError identifies the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

const dobLayout = "2006-01-02"

// cleanForm is the normalized submission the pipeline operates on.
type cleanForm struct {
	fullName  string
	phone     string
	email     string
	address   string
	applicant eligibility.Applicant
}

// validate normalizes and checks every field, returning the first
// failure. Demographic fields are validated when present regardless of
// the event's restriction; presence is enforced later by the
// eligibility policy for restricted events only.
func (f Form) validate() (cleanForm, *ValidationError) {
	var out cleanForm

	out.fullName = normalize.Name(f.FullName)
	if !inputval.IsValidFullName(out.fullName) {
		return out, invalid("full_name", "name must be letters and single spaces only")
	}

	normalized, err := phone.Normalize(strings.TrimSpace(f.PhoneExt), f.Phone)
	if err != nil {
		return out, invalid("phone", err.Error())
	}
	out.phone = normalized

	out.email = normalize.Email(f.Email)
	if out.email != "" && !inputval.IsValidEmail(out.email) {
		return out, invalid("email", "email address is not valid")
	}

	out.address = strings.TrimSpace(f.Address)
	if !inputval.IsValidAddress(out.address) {
		return out, invalid("address", "address is too short")
	}

	if g := strings.ToLower(strings.TrimSpace(f.Gender)); g != "" {
		if g != "female" && g != "male" {
			return out, invalid("gender", "gender must be female or male")
		}
		out.applicant.Gender = &g
	}

	if d := strings.TrimSpace(f.DateOfBirth); d != "" {
		dob, err := time.Parse(dobLayout, d)
		if err != nil {
			return out, invalid("date_of_birth", "date of birth must be YYYY-MM-DD")
		}
		if dob.After(time.Now()) {
			return out, invalid("date_of_birth", "date of birth is in the future")
		}
		out.applicant.DateOfBirth = &dob
	}

	if s := strings.ToLower(strings.TrimSpace(f.EmploymentStatus)); s != "" {
		out.applicant.EmploymentStatus = &s
	}

	if f.MonthlyIncome != nil {
		if *f.MonthlyIncome < 0 {
			return out, invalid("monthly_income", "monthly income cannot be negative")
		}
		income := *f.MonthlyIncome
		out.applicant.MonthlyIncome = &income
	}

	return out, nil
}
