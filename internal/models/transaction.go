package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/validation"
)

// Transaction is a single dated movement of money on an account.
type Transaction struct {
	ID              primitive.ObjectID `json:"id,omitempty"`
	AccountID       primitive.ObjectID `json:"account_id,omitempty"`
	Payee           string             `json:"payee" validate:"required,max=128"`
	Description     string             `json:"description,omitempty" validate:"max=512"`
	Category        string             `json:"category,omitempty" validate:"max=64"`
	Amount          float64            `json:"amount" validate:"required"`
	TransactionType string             `json:"transaction_type" validate:"required,oneof=debit credit"`
	Datetime        time.Time          `json:"datetime,omitempty"`
}

// Validate checks the transaction's client-settable fields.
func (t *Transaction) Validate() validation.Report {
	return validation.Struct(t)
}
