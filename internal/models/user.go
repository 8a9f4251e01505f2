package models

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/validation"
)

// User is the full user record, including the credential hash. The hash is
// never serialized; handlers expose users through OutUser instead.
type User struct {
	ID           primitive.ObjectID `json:"id,omitempty"`
	FirstName    string             `json:"first_name" validate:"required,max=64"`
	LastName     string             `json:"last_name" validate:"required,max=64"`
	Email        string             `json:"email" validate:"required,email"`
	Password     string             `json:"password,omitempty" validate:"omitempty,min=8"`
	PasswordHash string             `json:"-"`
}

// Validate checks the user's fields. requirePassword is set on registration,
// where a password must be supplied; profile edits may omit it.
func (u *User) Validate(requirePassword bool) validation.Report {
	report := validation.Struct(u)
	if requirePassword && u.Password == "" {
		report.Add("password", "This field is required")
	}
	return report
}

// ValidateForRegistration runs field validation plus the unique-email check.
// A storage error during the lookup degrades to an invalid report rather than
// aborting the request.
func (u *User) ValidateForRegistration(ctx context.Context, users UserFinder) validation.Report {
	report := u.Validate(true)
	u.checkUniqueEmail(ctx, users, report)
	return report
}

// ValidateForUpdate is the profile-edit variant: the password is optional, the
// email must still be unique among other users.
func (u *User) ValidateForUpdate(ctx context.Context, users UserFinder) validation.Report {
	report := u.Validate(false)
	u.checkUniqueEmail(ctx, users, report)
	return report
}

func (u *User) checkUniqueEmail(ctx context.Context, users UserFinder, report validation.Report) {
	if u.Email == "" {
		return
	}
	existing, err := users.FindOneByEmail(ctx, u.Email)
	if err != nil {
		report.Add("email", "Unable to verify email address")
		return
	}
	if existing != nil && existing.ID != u.ID {
		report.Add("email", "Email address already in use")
	}
}

// Redacted returns a copy safe to echo back in an Invalid outcome.
func (u User) Redacted() User {
	u.Password = ""
	u.PasswordHash = ""
	return u
}

// UserFinder is the slice of the user repository that cross-entity validation
// needs. Returns nil without error when no user matches.
type UserFinder interface {
	FindOneByEmail(ctx context.Context, email string) (*User, error)
}

// OutUser is the public projection of a user: identity and contact fields
// only, never the credential hash.
type OutUser struct {
	ID        primitive.ObjectID `json:"id"`
	FirstName string             `json:"first_name,omitempty"`
	LastName  string             `json:"last_name,omitempty"`
	Email     string             `json:"email,omitempty"`
}

// NewOutUser projects a full user record to its public fields.
func NewOutUser(u User) OutUser {
	return OutUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
