package repository

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/models"
)

func TestMoneyMapCreateSeedsOwner(t *testing.T) {
	m, mem := newTestManager(t)
	maps, _ := m.MoneyMaps()
	ownerID := primitive.NewObjectID()

	id, err := maps.Create(context.Background(), models.MoneyMap{Name: "household"}, ownerID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	mm, err := maps.FindOne(context.Background(), bson.M{
		"_id":           id,
		"users.user_id": ownerID.Hex(),
	})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if mm == nil {
		t.Fatal("created map not visible to its owner")
	}
	if len(mm.Users) != 1 {
		t.Fatalf("expected exactly one membership record, got %d", len(mm.Users))
	}
	if !mm.Users[0].Owner || mm.Users[0].User.ID != ownerID {
		t.Errorf("owner record wrong: %+v", mm.Users[0])
	}

	doc, ok := rawCollection(mem, moneyMapsCollection).Raw(id)
	if !ok {
		t.Fatal("document missing from store")
	}
	if doc["deleted"] != false {
		t.Errorf("expected deleted=false on insert, got %v", doc["deleted"])
	}
}

func TestMoneyMapMembershipScoping(t *testing.T) {
	m, _ := newTestManager(t)
	maps, _ := m.MoneyMaps()
	ownerID := primitive.NewObjectID()
	strangerID := primitive.NewObjectID()

	id, err := maps.Create(context.Background(), models.MoneyMap{Name: "household"}, ownerID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	mm, err := maps.FindOne(context.Background(), bson.M{
		"_id":           id,
		"users.user_id": strangerID.Hex(),
	})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if mm != nil {
		t.Error("map visible to a non-member")
	}
}

func TestMoneyMapFindOneNoMatch(t *testing.T) {
	m, _ := newTestManager(t)
	maps, _ := m.MoneyMaps()

	mm, err := maps.FindOne(context.Background(), bson.M{"_id": primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if mm != nil {
		t.Error("expected nil for a missing document")
	}
}

func TestMoneyMapUpdate(t *testing.T) {
	m, _ := newTestManager(t)
	maps, _ := m.MoneyMaps()
	ownerID := primitive.NewObjectID()

	id, _ := maps.Create(context.Background(), models.MoneyMap{Name: "before"}, ownerID)

	updated, err := maps.Update(context.Background(), models.MoneyMap{ID: id, Name: "after"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "after" {
		t.Errorf("expected renamed map, got %q", updated.Name)
	}

	// Applying the same update twice yields the same stored state.
	again, err := maps.Update(context.Background(), models.MoneyMap{ID: id, Name: "after"})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if again.Name != updated.Name {
		t.Errorf("update not idempotent: %q vs %q", again.Name, updated.Name)
	}
}

func TestMoneyMapUpdateMissing(t *testing.T) {
	m, _ := newTestManager(t)
	maps, _ := m.MoneyMaps()

	_, err := maps.Update(context.Background(), models.MoneyMap{ID: primitive.NewObjectID(), Name: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMoneyMapDeleteIsSoft(t *testing.T) {
	m, mem := newTestManager(t)
	maps, _ := m.MoneyMaps()
	ownerID := primitive.NewObjectID()

	id, _ := maps.Create(context.Background(), models.MoneyMap{Name: "doomed"}, ownerID)

	if err := maps.Delete(context.Background(), id, ownerID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Gone from every filtered read path.
	mm, err := maps.FindOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if mm != nil {
		t.Error("soft-deleted map still visible")
	}
	list, err := maps.Find(context.Background(), bson.M{"users.user_id": ownerID.Hex()})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("soft-deleted map still listed: %v", list)
	}

	// Still physically present.
	doc, ok := rawCollection(mem, moneyMapsCollection).Raw(id)
	if !ok {
		t.Fatal("document physically removed")
	}
	if doc["deleted"] != true {
		t.Errorf("expected deleted=true, got %v", doc["deleted"])
	}

	// A deleted map cannot be updated.
	if _, err := maps.Update(context.Background(), models.MoneyMap{ID: id, Name: "revived"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound updating a deleted map, got %v", err)
	}
}

func TestMoneyMapDeleteRequiresOwner(t *testing.T) {
	m, _ := newTestManager(t)
	maps, _ := m.MoneyMaps()
	ownerID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()

	id, _ := maps.Create(context.Background(), models.MoneyMap{Name: "shared"}, ownerID)
	if err := maps.AddUser(context.Background(), id, memberID); err != nil {
		t.Fatalf("add user: %v", err)
	}

	if err := maps.Delete(context.Background(), id, memberID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-owner delete, got %v", err)
	}

	// Map untouched.
	mm, _ := maps.FindOne(context.Background(), bson.M{"_id": id})
	if mm == nil {
		t.Fatal("map disappeared after rejected delete")
	}
}

func TestMoneyMapAddRemoveUser(t *testing.T) {
	m, _ := newTestManager(t)
	maps, _ := m.MoneyMaps()
	ownerID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()

	id, _ := maps.Create(context.Background(), models.MoneyMap{Name: "shared"}, ownerID)

	if err := maps.AddUser(context.Background(), id, memberID); err != nil {
		t.Fatalf("add user: %v", err)
	}
	mm, _ := maps.FindOne(context.Background(), bson.M{"_id": id})
	if len(mm.Users) != 2 {
		t.Fatalf("expected 2 members, got %d", len(mm.Users))
	}
	if owner := mm.Owner(); owner == nil || owner.User.ID != ownerID {
		t.Errorf("owner record lost after add: %+v", mm.Users)
	}

	// The new member sees the map now.
	visible, _ := maps.FindOne(context.Background(), bson.M{
		"_id":           id,
		"users.user_id": memberID.Hex(),
	})
	if visible == nil {
		t.Error("map not visible to the added member")
	}

	if err := maps.RemoveUser(context.Background(), id, memberID); err != nil {
		t.Fatalf("remove user: %v", err)
	}
	mm, _ = maps.FindOne(context.Background(), bson.M{"_id": id})
	if len(mm.Users) != 1 {
		t.Fatalf("expected 1 member after removal, got %d", len(mm.Users))
	}

	// The owner record can never be pulled.
	if err := maps.RemoveUser(context.Background(), id, ownerID); err != nil {
		t.Fatalf("remove owner: %v", err)
	}
	mm, _ = maps.FindOne(context.Background(), bson.M{"_id": id})
	if owner := mm.Owner(); owner == nil || owner.User.ID != ownerID {
		t.Errorf("owner record removed: %+v", mm.Users)
	}
}

func TestMoneyMapTolerantMembershipDecode(t *testing.T) {
	m, mem := newTestManager(t)
	maps, _ := m.MoneyMaps()
	ownerID := primitive.NewObjectID()

	// A document with one well-formed and two malformed membership elements.
	coll := rawCollection(mem, moneyMapsCollection)
	id, err := coll.InsertOne(context.Background(), bson.M{
		"name":    "lenient",
		"deleted": false,
		"users": bson.A{
			bson.M{"user_id": ownerID.Hex(), "owner": true},
			bson.M{"user_id": "not-a-hex-id", "owner": false},
			"not even a document",
		},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	mm, err := maps.FindOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if mm == nil {
		t.Fatal("document not readable")
	}
	if len(mm.Users) != 1 {
		t.Fatalf("malformed membership elements should be skipped, got %d entries", len(mm.Users))
	}
	if mm.Users[0].User.ID != ownerID {
		t.Errorf("surviving entry wrong: %+v", mm.Users[0])
	}
}
