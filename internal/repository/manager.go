// Package repository implements the data-access layer: one repository per
// entity collection, minted by a Manager bound to the active store
// connection. Every query is pre-filtered by the soft-delete flag; membership
// and ownership predicates are composed by the callers, keeping authorization
// visible at the call site.
package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/bpowers1215/money-map/internal/store"
)

const (
	usersCollection        = "users"
	moneyMapsCollection    = "money_maps"
	accountsCollection     = "accounts"
	transactionsCollection = "transactions"
	statementsCollection   = "account_statements"
)

var (
	// ErrNoConnection is returned by the manager when no store connection is
	// established. It is the only error the manager itself originates.
	ErrNoConnection = errors.New("database connection not established")

	// ErrNotFound is returned by mutating operations when the target document
	// is absent or excluded by the soft-delete filter.
	ErrNotFound = errors.New("document not found")
)

// Manager hands out per-entity repositories bound to the active connection.
type Manager struct {
	db *store.DB
}

// NewManager creates a repository manager over the given connection handle.
func NewManager(db *store.DB) *Manager {
	return &Manager{db: db}
}

func (m *Manager) collection(name string) (store.Collection, error) {
	database := m.db.Database()
	if database == nil {
		return nil, ErrNoConnection
	}
	return database.Collection(name), nil
}

// Users returns a user repository, or ErrNoConnection.
func (m *Manager) Users() (*UserRepository, error) {
	coll, err := m.collection(usersCollection)
	if err != nil {
		return nil, err
	}
	return &UserRepository{coll: coll}, nil
}

// MoneyMaps returns a money map repository, or ErrNoConnection.
func (m *Manager) MoneyMaps() (*MoneyMapRepository, error) {
	coll, err := m.collection(moneyMapsCollection)
	if err != nil {
		return nil, err
	}
	return &MoneyMapRepository{coll: coll}, nil
}

// Accounts returns an account repository, or ErrNoConnection.
func (m *Manager) Accounts() (*AccountRepository, error) {
	coll, err := m.collection(accountsCollection)
	if err != nil {
		return nil, err
	}
	return &AccountRepository{coll: coll}, nil
}

// Transactions returns a transaction repository, or ErrNoConnection.
func (m *Manager) Transactions() (*TransactionRepository, error) {
	coll, err := m.collection(transactionsCollection)
	if err != nil {
		return nil, err
	}
	return &TransactionRepository{coll: coll}, nil
}

// Statements returns an account statement repository, or ErrNoConnection.
func (m *Manager) Statements() (*StatementRepository, error) {
	coll, err := m.collection(statementsCollection)
	if err != nil {
		return nil, err
	}
	return &StatementRepository{coll: coll}, nil
}

// notDeleted conjoins the caller's filter with the soft-delete exclusion
// shared by every read and mutation path.
func notDeleted(filter bson.M) bson.M {
	scoped := bson.M{"deleted": bson.M{"$ne": true}}
	for key, value := range filter {
		scoped[key] = value
	}
	return scoped
}
