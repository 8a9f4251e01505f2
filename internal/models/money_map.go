package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/validation"
)

// MoneyMap is a budget workspace shared among a set of users. Membership is
// stored as an embedded list of {user_id, owner} records; exactly one record
// per map carries owner=true, assigned at creation to the creating user.
type MoneyMap struct {
	ID    primitive.ObjectID `json:"id,omitempty"`
	Name  string             `json:"name" validate:"required,max=64"`
	Users []MoneyMapUser     `json:"users,omitempty"`
}

// Validate checks the money map's client-settable fields. Membership is never
// client-settable and is not validated here.
func (m *MoneyMap) Validate() validation.Report {
	return validation.Struct(m)
}

// Owner returns the owner membership entry, or nil if the membership list has
// not been populated.
func (m *MoneyMap) Owner() *MoneyMapUser {
	for i := range m.Users {
		if m.Users[i].Owner {
			return &m.Users[i]
		}
	}
	return nil
}

// HasMember reports whether userID appears in the membership list.
func (m *MoneyMap) HasMember(userID primitive.ObjectID) bool {
	for _, mu := range m.Users {
		if mu.User.ID == userID {
			return true
		}
	}
	return false
}

// MoneyMapUser is the join projection of a membership record with the
// referenced user's public fields. Constructed on read, never persisted.
type MoneyMapUser struct {
	User  OutUser `json:"user"`
	Owner bool    `json:"owner"`
}

// InMoneyMapUser is the payload for adding a user to a money map. The user is
// referenced by email; resolution to a user id happens during validation.
type InMoneyMapUser struct {
	Email string `json:"email" validate:"required,email"`
}

// Validate runs field validation plus the cross-entity checks: the referenced
// user must exist and must not already be a member of the map. A storage
// error during the lookup degrades to an invalid report. On success the
// resolved user is returned alongside the report.
func (in *InMoneyMapUser) Validate(ctx context.Context, users UserFinder, mm *MoneyMap) (*User, validation.Report) {
	report := validation.Struct(in)
	if !report.IsValid() {
		return nil, report
	}

	user, err := users.FindOneByEmail(ctx, in.Email)
	if err != nil {
		report.Add("email", "Unable to verify user")
		return nil, report
	}
	if user == nil {
		report.Add("email", "No user found with this email address")
		return nil, report
	}
	if mm.HasMember(user.ID) {
		report.Add("email", "User is already a member of this money map")
		return nil, report
	}
	return user, report
}
