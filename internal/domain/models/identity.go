// internal/domain/models/identity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is a stored person profile keyed by normalized phone number.
// It is created on the first booking attempt with an unseen phone number
// and reused for every later booking with the same number. Identities are
// never deleted automatically.
//
// The demographic fields (DateOfBirth, Gender, EmploymentStatus,
// MonthlyIncome) are only collected for restricted events and stay nil
// when the person has only ever booked unrestricted events.
type Identity struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Phone      string             `bson:"phone" json:"phone"`               // normalized: extension + subscriber digits
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Address    string             `bson:"address" json:"address"`

	DateOfBirth      *time.Time `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	Gender           *string    `bson:"gender,omitempty" json:"gender,omitempty"`
	EmploymentStatus *string    `bson:"employment_status,omitempty" json:"employment_status,omitempty"`
	MonthlyIncome    *int       `bson:"monthly_income,omitempty" json:"monthly_income,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
