package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository keeps documents in process. It mirrors MongoRepository
// closely enough for local runs and tests.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[primitive.ObjectID]bson.M
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[primitive.ObjectID]bson.M), now: time.Now}
}

func copyDoc(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func (r *MemoryRepository) live(id string) (primitive.ObjectID, bson.M, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return objID, nil, ErrInvalidID
	}
	doc, ok := r.docs[objID]
	if !ok || doc[FieldDeleted] == true {
		return objID, nil, ErrNotFound
	}
	return objID, doc, nil
}

func (r *MemoryRepository) Create(_ context.Context, doc bson.M) (bson.M, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := primitive.NewDateTimeFromTime(r.now())
	stored := stripManaged(doc)
	id := primitive.NewObjectID()
	stored[FieldID] = id
	stored[FieldCreatedAt] = now
	stored[FieldUpdatedAt] = now
	stored[FieldDeleted] = false
	r.docs[id] = stored
	return Public(stored), nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (bson.M, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, doc, err := r.live(id)
	if err != nil {
		return nil, err
	}
	return Public(doc), nil
}

func (r *MemoryRepository) FindAll(_ context.Context, q ListQuery) ([]bson.M, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(q.Search)
	matches := make([]bson.M, 0, len(r.docs))
	for _, doc := range r.docs {
		if doc[FieldDeleted] == true {
			continue
		}
		if needle != "" {
			name, _ := doc[FieldName].(string)
			if !strings.Contains(strings.ToLower(name), needle) {
				continue
			}
		}
		matches = append(matches, doc)
	}
	sort.Slice(matches, func(i, j int) bool {
		ti, _ := matches[i][FieldCreatedAt].(primitive.DateTime)
		tj, _ := matches[j][FieldCreatedAt].(primitive.DateTime)
		if ti != tj {
			return ti > tj
		}
		// ObjectIDs grow with insertion order
		idi := matches[i][FieldID].(primitive.ObjectID)
		idj := matches[j][FieldID].(primitive.ObjectID)
		return idi.Hex() > idj.Hex()
	})

	total := int64(len(matches))
	if q.Page > 0 && q.PageSize > 0 {
		start := (q.Page - 1) * q.PageSize
		if start > len(matches) {
			start = len(matches)
		}
		end := start + q.PageSize
		if end > len(matches) {
			end = len(matches)
		}
		matches = matches[start:end]
	}

	out := make([]bson.M, 0, len(matches))
	for _, doc := range matches {
		out = append(out, Public(doc))
	}
	return out, total, nil
}

func (r *MemoryRepository) Replace(_ context.Context, id string, doc bson.M) (bson.M, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objID, existing, err := r.live(id)
	if err != nil {
		return nil, err
	}
	stored := stripManaged(doc)
	stored[FieldID] = objID
	stored[FieldCreatedAt] = existing[FieldCreatedAt]
	stored[FieldUpdatedAt] = primitive.NewDateTimeFromTime(r.now())
	stored[FieldDeleted] = false
	r.docs[objID] = stored
	return Public(stored), nil
}

func (r *MemoryRepository) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	objID, existing, err := r.live(id)
	if err != nil {
		return err
	}
	deleted := copyDoc(existing)
	deleted[FieldDeleted] = true
	deleted[FieldUpdatedAt] = primitive.NewDateTimeFromTime(r.now())
	r.docs[objID] = deleted
	return nil
}
