package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/validation"
)

// AccountStatement is a point-in-time balance snapshot for an account.
type AccountStatement struct {
	ID            primitive.ObjectID `json:"id,omitempty"`
	AccountID     primitive.ObjectID `json:"account_id,omitempty"`
	StatementDate time.Time          `json:"statement_date" validate:"required"`
	EndingBalance float64            `json:"ending_balance"`
}

// Validate checks the statement's client-settable fields.
func (s *AccountStatement) Validate() validation.Report {
	return validation.Struct(s)
}
