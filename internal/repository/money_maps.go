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

// MoneyMapRepository handles the money_maps collection. Membership and
// ownership predicates are supplied by callers through the filter; the
// repository contributes the soft-delete scoping and the document mapping.
type MoneyMapRepository struct {
	coll store.Collection
}

// Find returns all money maps matching the filter, excluding soft-deleted
// documents.
func (r *MoneyMapRepository) Find(ctx context.Context, filter bson.M) ([]models.MoneyMap, error) {
	docs, err := r.coll.Find(ctx, notDeleted(filter))
	if err != nil {
		return nil, fmt.Errorf("find money maps: %w", err)
	}
	maps := make([]models.MoneyMap, 0, len(docs))
	for _, doc := range docs {
		maps = append(maps, moneyMapFromDocument(doc))
	}
	return maps, nil
}

// FindOne returns the first money map matching the filter, or nil when no
// non-deleted document matches.
func (r *MoneyMapRepository) FindOne(ctx context.Context, filter bson.M) (*models.MoneyMap, error) {
	doc, err := r.coll.FindOne(ctx, notDeleted(filter))
	if errors.Is(err, store.ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find money map: %w", err)
	}
	mm := moneyMapFromDocument(doc)
	return &mm, nil
}

// Create inserts a new money map, seeding the membership list with exactly
// one owner record for ownerID. Returns the store-assigned id.
func (r *MoneyMapRepository) Create(ctx context.Context, mm models.MoneyMap, ownerID primitive.ObjectID) (primitive.ObjectID, error) {
	doc := moneyMapDocument(mm)
	doc["deleted"] = false
	doc["users"] = bson.A{membershipRecord(ownerID, true)}

	id, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert money map: %w", err)
	}
	return id, nil
}

// Update applies the mutable fields of mm to the stored document matched by
// id and re-reads the result. Returns ErrNotFound when the document is absent
// or soft-deleted.
func (r *MoneyMapRepository) Update(ctx context.Context, mm models.MoneyMap) (*models.MoneyMap, error) {
	set := bson.M{}
	if mm.Name != "" {
		set["name"] = mm.Name
	}

	filter := notDeleted(bson.M{"_id": mm.ID})
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update money map: %w", err)
	}
	if res.Matched == 0 {
		return nil, ErrNotFound
	}
	return r.FindOne(ctx, bson.M{"_id": mm.ID})
}

// Delete soft-deletes the money map. The filter requires an owner membership
// record for ownerID, so only the owner can delete a map. Returns ErrNotFound
// when nothing matched.
func (r *MoneyMapRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	filter := notDeleted(bson.M{
		"_id": id,
		"users": bson.M{"$elemMatch": bson.M{
			"user_id": ownerID.Hex(),
			"owner":   true,
		}},
	})
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"deleted": true}})
	if err != nil {
		return fmt.Errorf("delete money map: %w", err)
	}
	if res.Matched == 0 {
		return ErrNotFound
	}
	return nil
}

// AddUser appends a non-owner membership record for userID to the map.
func (r *MoneyMapRepository) AddUser(ctx context.Context, mapID, userID primitive.ObjectID) error {
	filter := notDeleted(bson.M{"_id": mapID})
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"users": membershipRecord(userID, false)},
	})
	if err != nil {
		return fmt.Errorf("add money map user: %w", err)
	}
	if res.Matched == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveUser removes userID's membership record from the map. The pull
// condition excludes owner records, so the owner can never be removed here.
func (r *MoneyMapRepository) RemoveUser(ctx context.Context, mapID, userID primitive.ObjectID) error {
	filter := notDeleted(bson.M{"_id": mapID})
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$pull": bson.M{"users": bson.M{
			"user_id": userID.Hex(),
			"owner":   false,
		}},
	})
	if err != nil {
		return fmt.Errorf("remove money map user: %w", err)
	}
	if res.Matched == 0 {
		return ErrNotFound
	}
	return nil
}
