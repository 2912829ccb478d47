package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{
		collection: collection,
	}
}

// Create inserts doc under a new ObjectID
func (r *MongoRepository) Create(ctx context.Context, doc bson.M) (bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := primitive.NewDateTimeFromTime(time.Now())
	stored := stripManaged(doc)
	stored[FieldID] = primitive.NewObjectID()
	stored[FieldCreatedAt] = now
	stored[FieldUpdatedAt] = now
	stored[FieldDeleted] = false

	if _, err := r.collection.InsertOne(ctx, stored); err != nil {
		return nil, err
	}
	return Public(stored), nil
}

// FindByID returns a live document
func (r *MongoRepository) FindByID(ctx context.Context, id string) (bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var doc bson.M
	filter := bson.M{
		FieldID:      objID,
		FieldDeleted: false,
	}
	err = r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return Public(doc), nil
}

// FindAll lists live documents, newest first, optionally paged and filtered by name
func (r *MongoRepository) FindAll(ctx context.Context, q ListQuery) ([]bson.M, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{FieldDeleted: false}
	if q.Search != "" {
		filter[FieldName] = bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
	}

	// count alongside the find
	totalCh := make(chan int64, 1)
	errCh := make(chan error, 1)
	go func() {
		total, err := r.collection.CountDocuments(ctx, filter)
		if err != nil {
			errCh <- err
			return
		}
		totalCh <- total
	}()

	findOptions := options.Find().SetSort(bson.D{{Key: FieldCreatedAt, Value: -1}, {Key: FieldID, Value: -1}})
	if q.Page > 0 && q.PageSize > 0 {
		findOptions.SetSkip(int64((q.Page - 1) * q.PageSize))
		findOptions.SetLimit(int64(q.PageSize))
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	docs := make([]bson.M, 0)
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	for i := range docs {
		docs[i] = Public(docs[i])
	}

	var total int64
	select {
	case total = <-totalCh:
	case err := <-errCh:
		return docs, 0, err
	case <-ctx.Done():
		return docs, 0, ctx.Err()
	}
	return docs, total, nil
}

// Replace overwrites a live document, keeping _id and createdAt
func (r *MongoRepository) Replace(ctx context.Context, id string, doc bson.M) (bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var existing bson.M
	filter := bson.M{FieldID: objID, FieldDeleted: false}
	if err := r.collection.FindOne(ctx, filter).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	stored := stripManaged(doc)
	stored[FieldID] = objID
	stored[FieldCreatedAt] = existing[FieldCreatedAt]
	stored[FieldUpdatedAt] = primitive.NewDateTimeFromTime(time.Now())
	stored[FieldDeleted] = false

	result, err := r.collection.ReplaceOne(ctx, filter, stored)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return Public(stored), nil
}

// SoftDelete marks a document deleted
func (r *MongoRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	filter := bson.M{
		FieldID:      objID,
		FieldDeleted: false,
	}
	update := bson.M{
		"$set": bson.M{
			FieldDeleted:   true,
			FieldUpdatedAt: primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
