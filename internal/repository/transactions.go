package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/models"
	"github.com/bpowers1215/money-map/internal/store"
)

// TransactionRepository handles the transactions collection. Transactions are
// children of accounts; callers scope queries with an account_id they have
// already authorized through the money map membership chain.
type TransactionRepository struct {
	coll store.Collection
}

// Find returns all transactions matching the filter, excluding soft-deleted
// documents.
func (r *TransactionRepository) Find(ctx context.Context, filter bson.M) ([]models.Transaction, error) {
	docs, err := r.coll.Find(ctx, notDeleted(filter))
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	transactions := make([]models.Transaction, 0, len(docs))
	for _, doc := range docs {
		transactions = append(transactions, transactionFromDocument(doc))
	}
	return transactions, nil
}

// FindOne returns the first transaction matching the filter, or nil when no
// non-deleted document matches.
func (r *TransactionRepository) FindOne(ctx context.Context, filter bson.M) (*models.Transaction, error) {
	doc, err := r.coll.FindOne(ctx, notDeleted(filter))
	if errors.Is(err, store.ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	transaction := transactionFromDocument(doc)
	return &transaction, nil
}

// Create inserts a new transaction under the given account. A zero datetime
// defaults to the insertion time.
func (r *TransactionRepository) Create(ctx context.Context, transaction models.Transaction, accountID primitive.ObjectID) (primitive.ObjectID, error) {
	if transaction.Datetime.IsZero() {
		transaction.Datetime = time.Now().UTC()
	}
	doc := transactionDocument(transaction)
	doc["account_id"] = accountID
	doc["deleted"] = false

	id, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert transaction: %w", err)
	}
	return id, nil
}

// Update applies the mutable fields of transaction to the stored document
// matched by id and re-reads the result.
func (r *TransactionRepository) Update(ctx context.Context, transaction models.Transaction) (*models.Transaction, error) {
	set := bson.M{}
	if transaction.Payee != "" {
		set["payee"] = transaction.Payee
	}
	if transaction.Description != "" {
		set["description"] = transaction.Description
	}
	if transaction.Category != "" {
		set["category"] = transaction.Category
	}
	if transaction.Amount != 0 {
		set["amount"] = transaction.Amount
	}
	if transaction.TransactionType != "" {
		set["transaction_type"] = transaction.TransactionType
	}
	if !transaction.Datetime.IsZero() {
		set["datetime"] = transaction.Datetime
	}

	filter := notDeleted(bson.M{"_id": transaction.ID})
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	if res.Matched == 0 {
		return nil, ErrNotFound
	}
	return r.FindOne(ctx, bson.M{"_id": transaction.ID})
}

// Delete soft-deletes the transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	filter := notDeleted(bson.M{"_id": id})
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"deleted": true}})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if res.Matched == 0 {
		return ErrNotFound
	}
	return nil
}
