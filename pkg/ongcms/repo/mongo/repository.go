// Package mongo implements ongcms.DocumentStore on a MongoDB database.
// Documents are stored as-is; "_id" is surfaced to callers as the hex
// string field "id", and bson container types are converted back to plain
// maps, slices and time values so documents look the same regardless of
// the backing store.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

// Store implements ongcms.DocumentStore using a mongo database handle.
type Store struct {
	db *mongo.Database
}

// New creates a document store on the given database
func New(db *mongo.Database) ongcms.DocumentStore {
	return &Store{db: db}
}

// Connect dials MongoDB, verifies the connection with a ping and returns a
// store on the named database.
func Connect(ctx context.Context, uri, database string) (ongcms.DocumentStore, *mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return New(client.Database(database)), client, nil
}

func (s *Store) Insert(ctx context.Context, collection string, doc ongcms.Document) (ongcms.Document, error) {
	now := time.Now().UTC()
	stored := bson.M{}
	for k, v := range doc {
		stored[k] = v
	}
	stored["createdAt"] = now
	stored["updatedAt"] = now

	res, err := s.db.Collection(collection).InsertOne(ctx, stored)
	if err != nil {
		return nil, err
	}

	out := fromBSON(stored).(map[string]any)
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	out["id"] = oid.Hex()
	return ongcms.Document(out), nil
}

func (s *Store) FindByID(ctx context.Context, collection, id string) (ongcms.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ongcms.ErrEntityNotFound
	}

	var raw bson.M
	err = s.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ongcms.ErrEntityNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDocument(raw), nil
}

func (s *Store) Find(ctx context.Context, collection string, q ongcms.ListQuery) ([]ongcms.Document, error) {
	opts := options.Find()
	if len(q.Sort) > 0 {
		sort := bson.D{}
		for _, f := range q.Sort {
			direction := 1
			if f.Desc {
				direction = -1
			}
			sort = append(sort, bson.E{Key: f.Field, Value: direction})
		}
		opts.SetSort(sort)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []ongcms.Document
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		docs = append(docs, toDocument(raw))
	}
	return docs, cursor.Err()
}

func (s *Store) Count(ctx context.Context, collection string, q ongcms.ListQuery) (int64, error) {
	return s.db.Collection(collection).CountDocuments(ctx, buildFilter(q))
}

func (s *Store) UpdateByID(ctx context.Context, collection, id string, set ongcms.Document) (ongcms.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ongcms.ErrEntityNotFound
	}

	fields := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range set {
		fields[k] = v
	}

	var raw bson.M
	err = s.db.Collection(collection).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ongcms.ErrEntityNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDocument(raw), nil
}

func (s *Store) DeleteByID(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ongcms.ErrEntityNotFound
	}

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ongcms.ErrEntityNotFound
	}
	return nil
}

func buildFilter(q ongcms.ListQuery) bson.M {
	var and []bson.M

	for field, value := range q.Equals {
		and = append(and, bson.M{field: value})
	}

	for _, m := range q.Match {
		var or []bson.M
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(m.Term), Options: "i"}
		for _, field := range m.Fields {
			or = append(or, bson.M{field: pattern})
		}
		if len(or) > 0 {
			and = append(and, bson.M{"$or": or})
		}
	}

	if len(q.TimeFields) > 0 && (!q.After.IsZero() || !q.Before.IsZero()) {
		window := bson.M{}
		if !q.After.IsZero() {
			window["$gte"] = q.After
		}
		if !q.Before.IsZero() {
			window["$lt"] = q.Before
		}
		var or []bson.M
		for _, field := range q.TimeFields {
			or = append(or, bson.M{field: window})
		}
		and = append(and, bson.M{"$or": or})
	}

	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}

func toDocument(raw bson.M) ongcms.Document {
	doc := fromBSON(raw).(map[string]any)
	if oid, ok := raw["_id"].(primitive.ObjectID); ok {
		delete(doc, "_id")
		doc["id"] = oid.Hex()
	}
	return ongcms.Document(doc)
}

// fromBSON converts decoded bson values into the plain types the rest of
// the library works with.
func fromBSON(v any) any {
	switch value := v.(type) {
	case bson.M:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[k] = fromBSON(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[k] = fromBSON(item)
		}
		return out
	case bson.A:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = fromBSON(item)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = fromBSON(item)
		}
		return out
	case primitive.DateTime:
		return value.Time().UTC()
	case primitive.ObjectID:
		return value.Hex()
	case time.Time:
		return value.UTC()
	default:
		return v
	}
}
