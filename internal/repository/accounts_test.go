package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/models"
)

func TestAccountCreateScopedToMoneyMap(t *testing.T) {
	m, _ := newTestManager(t)
	accounts, _ := m.Accounts()
	mmID := primitive.NewObjectID()
	otherMapID := primitive.NewObjectID()

	id, err := accounts.Create(context.Background(), models.Account{
		Name:        "checking",
		AccountType: "checking",
	}, mmID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	account, err := accounts.FindOne(context.Background(), bson.M{"_id": id, "money_map_id": mmID})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if account == nil {
		t.Fatal("account not found under its money map")
	}
	if account.MoneyMapID != mmID {
		t.Errorf("money map id not mapped: %+v", account)
	}

	// Invisible when scoped to a different map.
	account, err = accounts.FindOne(context.Background(), bson.M{"_id": id, "money_map_id": otherMapID})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if account != nil {
		t.Error("account visible under the wrong money map")
	}
}

func TestAccountUpdateAndSoftDelete(t *testing.T) {
	m, _ := newTestManager(t)
	accounts, _ := m.Accounts()
	mmID := primitive.NewObjectID()

	id, _ := accounts.Create(context.Background(), models.Account{Name: "old", AccountType: "checking"}, mmID)

	updated, err := accounts.Update(context.Background(), models.Account{ID: id, Name: "new"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "new" || updated.AccountType != "checking" {
		t.Errorf("partial update wrong: %+v", updated)
	}

	if err := accounts.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	account, _ := accounts.FindOne(context.Background(), bson.M{"_id": id})
	if account != nil {
		t.Error("soft-deleted account still visible")
	}
	if err := accounts.Delete(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestTransactionCreateDefaultsDatetime(t *testing.T) {
	m, _ := newTestManager(t)
	transactions, _ := m.Transactions()
	accountID := primitive.NewObjectID()

	before := time.Now().UTC()
	id, err := transactions.Create(context.Background(), models.Transaction{
		Payee:           "Grocer",
		Amount:          12.50,
		TransactionType: "debit",
	}, accountID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tx, err := transactions.FindOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if tx == nil {
		t.Fatal("transaction not found")
	}
	if tx.AccountID != accountID {
		t.Errorf("account id not mapped: %+v", tx)
	}
	if tx.Datetime.Before(before) {
		t.Errorf("zero datetime not defaulted: %v", tx.Datetime)
	}

	// An explicit datetime is kept.
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, _ = transactions.Create(context.Background(), models.Transaction{
		Payee:           "Landlord",
		Amount:          900,
		TransactionType: "debit",
		Datetime:        when,
	}, accountID)
	tx, _ = transactions.FindOne(context.Background(), bson.M{"_id": id})
	if !tx.Datetime.Equal(when) {
		t.Errorf("explicit datetime not kept: %v", tx.Datetime)
	}
}

func TestTransactionFindByAccount(t *testing.T) {
	m, _ := newTestManager(t)
	transactions, _ := m.Transactions()
	accountID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	transactions.Create(context.Background(), models.Transaction{Payee: "A", Amount: 1, TransactionType: "debit"}, accountID)
	transactions.Create(context.Background(), models.Transaction{Payee: "B", Amount: 2, TransactionType: "credit"}, accountID)
	transactions.Create(context.Background(), models.Transaction{Payee: "C", Amount: 3, TransactionType: "debit"}, otherID)

	list, err := transactions.Find(context.Background(), bson.M{"account_id": accountID})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 transactions, got %d", len(list))
	}
}

func TestStatementCreateAndDelete(t *testing.T) {
	m, _ := newTestManager(t)
	statements, _ := m.Statements()
	accountID := primitive.NewObjectID()

	when := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	id, err := statements.Create(context.Background(), models.AccountStatement{
		StatementDate: when,
		EndingBalance: 1024.33,
	}, accountID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	statement, err := statements.FindOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if statement == nil {
		t.Fatal("statement not found")
	}
	if !statement.StatementDate.Equal(when) || statement.EndingBalance != 1024.33 {
		t.Errorf("statement mangled: %+v", statement)
	}

	if err := statements.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	statement, _ = statements.FindOne(context.Background(), bson.M{"_id": id})
	if statement != nil {
		t.Error("soft-deleted statement still visible")
	}
}
