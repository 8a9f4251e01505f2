package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/models"
	"github.com/bpowers1215/money-map/internal/store"
)

// AccountRepository handles the accounts collection. Accounts exist strictly
// under a parent money map; callers scope queries with the money_map_id they
// have already authorized.
type AccountRepository struct {
	coll store.Collection
}

// Find returns all accounts matching the filter, excluding soft-deleted
// documents.
func (r *AccountRepository) Find(ctx context.Context, filter bson.M) ([]models.Account, error) {
	docs, err := r.coll.Find(ctx, notDeleted(filter))
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}
	accounts := make([]models.Account, 0, len(docs))
	for _, doc := range docs {
		accounts = append(accounts, accountFromDocument(doc))
	}
	return accounts, nil
}

// FindOne returns the first account matching the filter, or nil when no
// non-deleted document matches.
func (r *AccountRepository) FindOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	doc, err := r.coll.FindOne(ctx, notDeleted(filter))
	if errors.Is(err, store.ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	account := accountFromDocument(doc)
	return &account, nil
}

// Create inserts a new account under the given money map and returns the
// store-assigned id.
func (r *AccountRepository) Create(ctx context.Context, account models.Account, moneyMapID primitive.ObjectID) (primitive.ObjectID, error) {
	doc := accountDocument(account)
	doc["money_map_id"] = moneyMapID
	doc["deleted"] = false

	id, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert account: %w", err)
	}
	return id, nil
}

// Update applies the mutable fields of account to the stored document matched
// by id and re-reads the result.
func (r *AccountRepository) Update(ctx context.Context, account models.Account) (*models.Account, error) {
	set := bson.M{}
	if account.Name != "" {
		set["name"] = account.Name
	}
	if account.AccountType != "" {
		set["account_type"] = account.AccountType
	}

	filter := notDeleted(bson.M{"_id": account.ID})
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if res.Matched == 0 {
		return nil, ErrNotFound
	}
	return r.FindOne(ctx, bson.M{"_id": account.ID})
}

// Delete soft-deletes the account.
func (r *AccountRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	filter := notDeleted(bson.M{"_id": id})
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"deleted": true}})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.Matched == 0 {
		return ErrNotFound
	}
	return nil
}
