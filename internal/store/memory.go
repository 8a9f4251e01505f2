package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryDatabase is an in-memory Database for tests and local development.
// It interprets the filter and update subset the repositories use: equality,
// dotted paths into embedded document arrays, $ne, $in, $elemMatch, and the
// $set, $push and $pull update operators.
type MemoryDatabase struct {
	mu          sync.RWMutex
	collections map[string]*MemoryCollection
}

// NewMemoryDatabase returns an empty in-memory database.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{collections: make(map[string]*MemoryCollection)}
}

// Collection returns the named collection, creating it on first use.
func (d *MemoryDatabase) Collection(name string) Collection {
	d.mu.Lock()
	defer d.mu.Unlock()
	coll, ok := d.collections[name]
	if !ok {
		coll = &MemoryCollection{docs: make(map[primitive.ObjectID]bson.M)}
		d.collections[name] = coll
	}
	return coll
}

// MemoryCollection stores documents keyed by object id. Safe for concurrent
// use.
type MemoryCollection struct {
	mu   sync.RWMutex
	docs map[primitive.ObjectID]bson.M
}

func (c *MemoryCollection) Find(ctx context.Context, filter bson.M) ([]bson.M, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]primitive.ObjectID, 0, len(c.docs))
	for id := range c.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })

	var out []bson.M
	for _, id := range ids {
		doc := c.docs[id]
		ok, err := matchDocument(doc, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, copyDocument(doc))
		}
	}
	return out, nil
}

func (c *MemoryCollection) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	docs, err := c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoDocument
	}
	return docs[0], nil
}

func (c *MemoryCollection) InsertOne(ctx context.Context, doc bson.M) (primitive.ObjectID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := copyDocument(doc)
	id, ok := stored["_id"].(primitive.ObjectID)
	if !ok {
		id = primitive.NewObjectID()
		stored["_id"] = id
	}
	if _, exists := c.docs[id]; exists {
		return primitive.NilObjectID, fmt.Errorf("duplicate _id %s", id.Hex())
	}
	c.docs[id] = stored
	return id, nil
}

func (c *MemoryCollection) UpdateOne(ctx context.Context, filter, update bson.M) (UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]primitive.ObjectID, 0, len(c.docs))
	for id := range c.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })

	for _, id := range ids {
		doc := c.docs[id]
		ok, err := matchDocument(doc, filter)
		if err != nil {
			return UpdateResult{}, err
		}
		if !ok {
			continue
		}
		updated := copyDocument(doc)
		if err := applyUpdate(updated, update); err != nil {
			return UpdateResult{}, err
		}
		res := UpdateResult{Matched: 1}
		if !reflect.DeepEqual(doc, updated) {
			c.docs[id] = updated
			res.Modified = 1
		}
		return res, nil
	}
	return UpdateResult{}, nil
}

// Raw returns a copy of a stored document by id regardless of any soft-delete
// flag, bypassing the filter machinery. Test helper.
func (c *MemoryCollection) Raw(id primitive.ObjectID) (bson.M, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, false
	}
	return copyDocument(doc), true
}

// Len returns the number of stored documents, deleted ones included. Test
// helper.
func (c *MemoryCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

func matchDocument(doc, filter bson.M) (bool, error) {
	for path, cond := range filter {
		ok, err := matchField(doc, path, cond)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchField(doc bson.M, path string, cond any) (bool, error) {
	head, rest, nested := strings.Cut(path, ".")
	val, exists := doc[head]
	if !nested {
		return matchValue(val, exists, cond)
	}

	switch v := val.(type) {
	case bson.M:
		return matchField(v, rest, cond)
	case bson.A:
		return matchElements(v, rest, cond)
	case []any:
		return matchElements(v, rest, cond)
	default:
		// Path does not resolve; only a negated condition matches.
		return matchValue(nil, false, cond)
	}
}

func matchElements(elements []any, path string, cond any) (bool, error) {
	for _, el := range elements {
		elDoc, ok := el.(bson.M)
		if !ok {
			continue
		}
		matched, err := matchField(elDoc, path, cond)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

func matchValue(val any, exists bool, cond any) (bool, error) {
	ops, isOps := operatorDoc(cond)
	if !isOps {
		return exists && looseEqual(val, cond), nil
	}
	for op, arg := range ops {
		switch op {
		case "$ne":
			if looseEqual(val, arg) {
				return false, nil
			}
		case "$in":
			list, err := asSlice(arg)
			if err != nil {
				return false, err
			}
			found := false
			for _, candidate := range list {
				if exists && looseEqual(val, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		case "$elemMatch":
			sub, ok := arg.(bson.M)
			if !ok {
				return false, fmt.Errorf("$elemMatch requires a document argument")
			}
			elements, err := asSlice(val)
			if err != nil {
				return false, nil
			}
			matched := false
			for _, el := range elements {
				elDoc, ok := el.(bson.M)
				if !ok {
					continue
				}
				docMatched, err := matchDocument(elDoc, sub)
				if err != nil {
					return false, err
				}
				if docMatched {
					matched = true
					break
				}
			}
			if !matched {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported filter operator %q", op)
		}
	}
	return true, nil
}

// operatorDoc reports whether cond is a {"$op": ...} document.
func operatorDoc(cond any) (bson.M, bool) {
	m, ok := cond.(bson.M)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for key := range m {
		if !strings.HasPrefix(key, "$") {
			return nil, false
		}
	}
	return m, true
}

func asSlice(val any) ([]any, error) {
	switch v := val.(type) {
	case bson.A:
		return v, nil
	case []any:
		return v, nil
	default:
		return nil, fmt.Errorf("expected array, got %T", val)
	}
}

func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}

func applyUpdate(doc bson.M, update bson.M) error {
	for op, arg := range update {
		fields, ok := arg.(bson.M)
		if !ok {
			return fmt.Errorf("update operator %q requires a document argument", op)
		}
		switch op {
		case "$set":
			for field, value := range fields {
				doc[field] = copyValue(value)
			}
		case "$push":
			for field, value := range fields {
				current, err := pushTarget(doc[field])
				if err != nil {
					return fmt.Errorf("$push %s: %w", field, err)
				}
				doc[field] = append(current, copyValue(value))
			}
		case "$pull":
			for field, cond := range fields {
				current, err := asSlice(doc[field])
				if err != nil {
					return fmt.Errorf("$pull %s: %w", field, err)
				}
				var kept bson.A
				for _, el := range current {
					remove, err := pullMatches(el, cond)
					if err != nil {
						return err
					}
					if !remove {
						kept = append(kept, el)
					}
				}
				doc[field] = kept
			}
		default:
			return fmt.Errorf("unsupported update operator %q", op)
		}
	}
	return nil
}

func pushTarget(val any) (bson.A, error) {
	if val == nil {
		return bson.A{}, nil
	}
	list, err := asSlice(val)
	if err != nil {
		return nil, err
	}
	return append(bson.A{}, list...), nil
}

func pullMatches(el, cond any) (bool, error) {
	condDoc, ok := cond.(bson.M)
	if !ok {
		return looseEqual(el, cond), nil
	}
	elDoc, ok := el.(bson.M)
	if !ok {
		return false, nil
	}
	return matchDocument(elDoc, condDoc)
}

func copyDocument(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(val any) any {
	switch v := val.(type) {
	case bson.M:
		return copyDocument(v)
	case bson.A:
		out := make(bson.A, len(v))
		for i, el := range v {
			out[i] = copyValue(el)
		}
		return out
	case []any:
		out := make(bson.A, len(v))
		for i, el := range v {
			out[i] = copyValue(el)
		}
		return out
	default:
		return v
	}
}
