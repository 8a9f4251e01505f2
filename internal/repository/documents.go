package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/models"
)

// Document mapping for each entity. Write mappers serialize only the fields a
// client is allowed to set; the deleted flag is never client-settable and is
// applied by the repository operations themselves. Read mappers are tolerant:
// an absent or mistyped field maps to the zero value, and a malformed
// membership element is skipped rather than failing the containing read.

func userDocument(u models.User) bson.M {
	return bson.M{
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"email":         models.NormalizeEmail(u.Email),
		"password_hash": u.PasswordHash,
	}
}

func userFromDocument(doc bson.M) models.User {
	return models.User{
		ID:           docObjectID(doc, "_id"),
		FirstName:    docString(doc, "first_name"),
		LastName:     docString(doc, "last_name"),
		Email:        docString(doc, "email"),
		PasswordHash: docString(doc, "password_hash"),
	}
}

func moneyMapDocument(m models.MoneyMap) bson.M {
	return bson.M{
		"name": m.Name,
	}
}

func moneyMapFromDocument(doc bson.M) models.MoneyMap {
	mm := models.MoneyMap{
		ID:   docObjectID(doc, "_id"),
		Name: docString(doc, "name"),
	}
	for _, el := range docArray(doc, "users") {
		record, ok := subDocument(el)
		if !ok {
			continue
		}
		userID := docObjectID(record, "user_id")
		if userID.IsZero() {
			continue
		}
		mm.Users = append(mm.Users, models.MoneyMapUser{
			User:  models.OutUser{ID: userID},
			Owner: docBool(record, "owner"),
		})
	}
	return mm
}

// membershipRecord builds the embedded {user_id, owner} document. User ids
// are stored as hex strings inside membership records.
func membershipRecord(userID primitive.ObjectID, owner bool) bson.M {
	return bson.M{
		"user_id": userID.Hex(),
		"owner":   owner,
	}
}

func accountDocument(a models.Account) bson.M {
	return bson.M{
		"name":         a.Name,
		"account_type": a.AccountType,
	}
}

func accountFromDocument(doc bson.M) models.Account {
	return models.Account{
		ID:          docObjectID(doc, "_id"),
		MoneyMapID:  docObjectID(doc, "money_map_id"),
		Name:        docString(doc, "name"),
		AccountType: docString(doc, "account_type"),
	}
}

func transactionDocument(t models.Transaction) bson.M {
	return bson.M{
		"payee":            t.Payee,
		"description":      t.Description,
		"category":         t.Category,
		"amount":           t.Amount,
		"transaction_type": t.TransactionType,
		"datetime":         t.Datetime,
	}
}

func transactionFromDocument(doc bson.M) models.Transaction {
	return models.Transaction{
		ID:              docObjectID(doc, "_id"),
		AccountID:       docObjectID(doc, "account_id"),
		Payee:           docString(doc, "payee"),
		Description:     docString(doc, "description"),
		Category:        docString(doc, "category"),
		Amount:          docFloat(doc, "amount"),
		TransactionType: docString(doc, "transaction_type"),
		Datetime:        docTime(doc, "datetime"),
	}
}

func statementDocument(s models.AccountStatement) bson.M {
	return bson.M{
		"statement_date": s.StatementDate,
		"ending_balance": s.EndingBalance,
	}
}

func statementFromDocument(doc bson.M) models.AccountStatement {
	return models.AccountStatement{
		ID:            docObjectID(doc, "_id"),
		AccountID:     docObjectID(doc, "account_id"),
		StatementDate: docTime(doc, "statement_date"),
		EndingBalance: docFloat(doc, "ending_balance"),
	}
}

// Tolerant field readers. The mongo driver decodes embedded documents into
// bson.M or bson.D depending on the decode path, times into either time.Time
// or primitive.DateTime, and numbers into any of the integer widths; the
// readers accept all of them and fall back to the zero value.

func docString(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

func docBool(doc bson.M, key string) bool {
	b, _ := doc[key].(bool)
	return b
}

func docFloat(doc bson.M, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func docObjectID(doc bson.M, key string) primitive.ObjectID {
	switch v := doc[key].(type) {
	case primitive.ObjectID:
		return v
	case string:
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return primitive.NilObjectID
		}
		return id
	default:
		return primitive.NilObjectID
	}
}

func docTime(doc bson.M, key string) time.Time {
	switch v := doc[key].(type) {
	case time.Time:
		return v
	case primitive.DateTime:
		return v.Time()
	default:
		return time.Time{}
	}
}

func docArray(doc bson.M, key string) []any {
	switch v := doc[key].(type) {
	case bson.A:
		return v
	case []any:
		return v
	default:
		return nil
	}
}

func subDocument(el any) (bson.M, bool) {
	switch v := el.(type) {
	case bson.M:
		return v, true
	case bson.D:
		return v.Map(), true
	default:
		return nil, false
	}
}
