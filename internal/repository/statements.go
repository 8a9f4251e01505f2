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

// StatementRepository handles the account_statements collection. Statements
// follow the same account-scoping contract as transactions.
type StatementRepository struct {
	coll store.Collection
}

// Find returns all statements matching the filter, excluding soft-deleted
// documents.
func (r *StatementRepository) Find(ctx context.Context, filter bson.M) ([]models.AccountStatement, error) {
	docs, err := r.coll.Find(ctx, notDeleted(filter))
	if err != nil {
		return nil, fmt.Errorf("find statements: %w", err)
	}
	statements := make([]models.AccountStatement, 0, len(docs))
	for _, doc := range docs {
		statements = append(statements, statementFromDocument(doc))
	}
	return statements, nil
}

// FindOne returns the first statement matching the filter, or nil when no
// non-deleted document matches.
func (r *StatementRepository) FindOne(ctx context.Context, filter bson.M) (*models.AccountStatement, error) {
	doc, err := r.coll.FindOne(ctx, notDeleted(filter))
	if errors.Is(err, store.ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find statement: %w", err)
	}
	statement := statementFromDocument(doc)
	return &statement, nil
}

// Create inserts a new statement under the given account and returns the
// store-assigned id.
func (r *StatementRepository) Create(ctx context.Context, statement models.AccountStatement, accountID primitive.ObjectID) (primitive.ObjectID, error) {
	doc := statementDocument(statement)
	doc["account_id"] = accountID
	doc["deleted"] = false

	id, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert statement: %w", err)
	}
	return id, nil
}

// Delete soft-deletes the statement.
func (r *StatementRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	filter := notDeleted(bson.M{"_id": id})
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"deleted": true}})
	if err != nil {
		return fmt.Errorf("delete statement: %w", err)
	}
	if res.Matched == 0 {
		return ErrNotFound
	}
	return nil
}
