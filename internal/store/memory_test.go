package store

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedCollection(t *testing.T, docs ...bson.M) (*MemoryCollection, []primitive.ObjectID) {
	t.Helper()
	coll := NewMemoryDatabase().Collection("test").(*MemoryCollection)
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		id, err := coll.InsertOne(context.Background(), doc)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, id)
	}
	return coll, ids
}

func TestInsertAssignsID(t *testing.T) {
	coll, ids := seedCollection(t, bson.M{"name": "a"})
	if ids[0] == primitive.NilObjectID {
		t.Fatal("expected a generated object id")
	}
	doc, ok := coll.Raw(ids[0])
	if !ok {
		t.Fatal("document not stored")
	}
	if doc["name"] != "a" {
		t.Errorf("stored doc mangled: %v", doc)
	}
}

func TestFindFilters(t *testing.T) {
	memberID := primitive.NewObjectID().Hex()
	coll, ids := seedCollection(t,
		bson.M{"name": "visible", "deleted": false, "users": bson.A{
			bson.M{"user_id": memberID, "owner": true},
		}},
		bson.M{"name": "gone", "deleted": true},
		bson.M{"name": "other", "deleted": false, "users": bson.A{
			bson.M{"user_id": primitive.NewObjectID().Hex(), "owner": true},
		}},
	)

	tests := []struct {
		name   string
		filter bson.M
		want   int
	}{
		{"match all", bson.M{}, 3},
		{"equality", bson.M{"name": "visible"}, 1},
		{"soft delete exclusion", bson.M{"deleted": bson.M{"$ne": true}}, 2},
		{"dotted path into array", bson.M{"users.user_id": memberID}, 1},
		{"dotted path no match", bson.M{"users.user_id": "nobody"}, 0},
		{"in operator", bson.M{"name": bson.M{"$in": bson.A{"visible", "gone"}}}, 2},
		{"elem match", bson.M{"users": bson.M{"$elemMatch": bson.M{"user_id": memberID, "owner": true}}}, 1},
		{"elem match wrong flag", bson.M{"users": bson.M{"$elemMatch": bson.M{"user_id": memberID, "owner": false}}}, 0},
		{"by id", bson.M{"_id": ids[1]}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := coll.Find(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if len(docs) != tt.want {
				t.Errorf("expected %d docs, got %d", tt.want, len(docs))
			}
		})
	}
}

func TestFindUnknownOperator(t *testing.T) {
	coll, _ := seedCollection(t, bson.M{"n": 1})
	if _, err := coll.Find(context.Background(), bson.M{"n": bson.M{"$regex": "x"}}); err == nil {
		t.Error("expected an error for an unsupported operator")
	}
}

func TestFindOneNoMatch(t *testing.T) {
	coll, _ := seedCollection(t, bson.M{"name": "a"})
	_, err := coll.FindOne(context.Background(), bson.M{"name": "b"})
	if err != ErrNoDocument {
		t.Errorf("expected ErrNoDocument, got %v", err)
	}
}

func TestUpdateSet(t *testing.T) {
	coll, ids := seedCollection(t, bson.M{"name": "before", "deleted": false})

	res, err := coll.UpdateOne(context.Background(), bson.M{"_id": ids[0]}, bson.M{"$set": bson.M{"name": "after"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Matched != 1 || res.Modified != 1 {
		t.Errorf("unexpected result: %+v", res)
	}

	doc, _ := coll.Raw(ids[0])
	if doc["name"] != "after" {
		t.Errorf("set not applied: %v", doc)
	}

	// Same update again matches but modifies nothing.
	res, err = coll.UpdateOne(context.Background(), bson.M{"_id": ids[0]}, bson.M{"$set": bson.M{"name": "after"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Matched != 1 || res.Modified != 0 {
		t.Errorf("expected idempotent re-apply, got %+v", res)
	}
}

func TestUpdateNoMatch(t *testing.T) {
	coll, _ := seedCollection(t, bson.M{"name": "a"})
	res, err := coll.UpdateOne(context.Background(), bson.M{"name": "missing"}, bson.M{"$set": bson.M{"name": "b"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Matched != 0 {
		t.Errorf("expected no match, got %+v", res)
	}
}

func TestUpdatePushPull(t *testing.T) {
	coll, ids := seedCollection(t, bson.M{"users": bson.A{
		bson.M{"user_id": "owner", "owner": true},
	}})

	_, err := coll.UpdateOne(context.Background(), bson.M{"_id": ids[0]}, bson.M{
		"$push": bson.M{"users": bson.M{"user_id": "member", "owner": false}},
	})
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	doc, _ := coll.Raw(ids[0])
	if len(doc["users"].(bson.A)) != 2 {
		t.Fatalf("push not applied: %v", doc)
	}

	// Pull with an owner:false condition removes the member, never the owner.
	_, err = coll.UpdateOne(context.Background(), bson.M{"_id": ids[0]}, bson.M{
		"$pull": bson.M{"users": bson.M{"user_id": "member", "owner": false}},
	})
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	_, err = coll.UpdateOne(context.Background(), bson.M{"_id": ids[0]}, bson.M{
		"$pull": bson.M{"users": bson.M{"user_id": "owner", "owner": false}},
	})
	if err != nil {
		t.Fatalf("pull: %v", err)
	}

	doc, _ = coll.Raw(ids[0])
	users := doc["users"].(bson.A)
	if len(users) != 1 {
		t.Fatalf("expected only the owner to remain: %v", users)
	}
	if users[0].(bson.M)["user_id"] != "owner" {
		t.Errorf("owner was pulled: %v", users)
	}
}

func TestDocumentsAreCopied(t *testing.T) {
	coll, ids := seedCollection(t, bson.M{"name": "original"})

	docs, err := coll.Find(context.Background(), bson.M{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	docs[0]["name"] = "mutated"

	stored, _ := coll.Raw(ids[0])
	if stored["name"] != "original" {
		t.Error("Find returned a reference to the stored document")
	}
}
