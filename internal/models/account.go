package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/validation"
)

// Account is a financial account scoped strictly to its parent money map.
type Account struct {
	ID          primitive.ObjectID `json:"id,omitempty"`
	MoneyMapID  primitive.ObjectID `json:"money_map_id,omitempty"`
	Name        string             `json:"name" validate:"required,max=64"`
	AccountType string             `json:"account_type" validate:"required,oneof=checking savings credit cash"`
}

// Validate checks the account's client-settable fields.
func (a *Account) Validate() validation.Report {
	return validation.Struct(a)
}
