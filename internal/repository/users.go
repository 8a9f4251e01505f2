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

// UserRepository handles the users collection.
type UserRepository struct {
	coll store.Collection
}

// Find returns all users matching the filter, excluding soft-deleted
// documents.
func (r *UserRepository) Find(ctx context.Context, filter bson.M) ([]models.User, error) {
	docs, err := r.coll.Find(ctx, notDeleted(filter))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, userFromDocument(doc))
	}
	return users, nil
}

// FindOne returns the first user matching the filter, or nil when no
// non-deleted document matches.
func (r *UserRepository) FindOne(ctx context.Context, filter bson.M) (*models.User, error) {
	doc, err := r.coll.FindOne(ctx, notDeleted(filter))
	if errors.Is(err, store.ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	user := userFromDocument(doc)
	return &user, nil
}

// FindOneByEmail looks a user up by normalized email.
func (r *UserRepository) FindOneByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

// FindByIDs returns the users whose ids appear in ids. Absent ids are simply
// not represented in the result.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	values := make(bson.A, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return r.Find(ctx, bson.M{"_id": bson.M{"$in": values}})
}

// Create inserts a new user. The password hash must already be set; the
// plaintext password is never persisted.
func (r *UserRepository) Create(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	doc := userDocument(user)
	doc["deleted"] = false

	id, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// Update applies the mutable profile fields (and, when set, a new password
// hash) to the stored document matched by id, then re-reads the result.
func (r *UserRepository) Update(ctx context.Context, user models.User) (*models.User, error) {
	set := bson.M{}
	if user.FirstName != "" {
		set["first_name"] = user.FirstName
	}
	if user.LastName != "" {
		set["last_name"] = user.LastName
	}
	if user.Email != "" {
		set["email"] = models.NormalizeEmail(user.Email)
	}
	if user.PasswordHash != "" {
		set["password_hash"] = user.PasswordHash
	}

	filter := notDeleted(bson.M{"_id": user.ID})
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.Matched == 0 {
		return nil, ErrNotFound
	}
	return r.FindOne(ctx, bson.M{"_id": user.ID})
}
