package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a filter matches no document. Every other
// failure coming out of the adapter is a store-level error and keeps the
// driver error in its chain.
var ErrNotFound = errors.New("store: entity not found")

// Store is a typed wrapper around one document collection. All mutations go
// through the store's atomic update operators; the adapter never does a
// read-modify-write round trip on behalf of a caller.
type Store struct {
	col IMongoCollection
}

func New(col IMongoCollection) *Store {
	return &Store{col: col}
}

// Wrap builds a Store over a live mongo collection.
func Wrap(coll *mongo.Collection) *Store {
	return New(&MongoCollection{Coll: coll})
}

// UpdateOpts tunes ApplyUpdate.
type UpdateOpts struct {
	// Upsert creates a document matching the filter merged with the
	// mutation when nothing matches.
	Upsert bool

	// ArrayFilters are passed through to the update so nested array
	// elements can be addressed by identity instead of position.
	ArrayFilters []interface{}
}

func (s *Store) FetchOne(ctx context.Context, filter interface{}, out interface{}) error {
	err := s.col.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: fetch failed: %w", err)
	}
	return nil
}

// ApplyUpdate runs one atomic update. When out is non-nil the post-update
// document is decoded into it. Without upsert, a filter that matches nothing
// yields ErrNotFound and no write happens.
func (s *Store) ApplyUpdate(ctx context.Context, filter, mutation interface{}, opts UpdateOpts, out interface{}) error {
	if out == nil {
		updateOpts := options.Update()
		if opts.Upsert {
			updateOpts.SetUpsert(true)
		}
		if opts.ArrayFilters != nil {
			updateOpts.SetArrayFilters(options.ArrayFilters{Filters: opts.ArrayFilters})
		}
		res, err := s.col.UpdateOne(ctx, filter, mutation, updateOpts)
		if err != nil {
			return fmt.Errorf("store: update failed: %w", err)
		}
		if res.MatchedCount() == 0 && !opts.Upsert {
			return ErrNotFound
		}
		return nil
	}

	findOpts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if opts.Upsert {
		findOpts.SetUpsert(true)
	}
	if opts.ArrayFilters != nil {
		findOpts.SetArrayFilters(options.ArrayFilters{Filters: opts.ArrayFilters})
	}
	err := s.col.FindOneAndUpdate(ctx, filter, mutation, findOpts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: update failed: %w", err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, doc interface{}) error {
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("store: insert failed: %w", err)
	}
	return nil
}

func (s *Store) FetchAll(ctx context.Context, filter interface{}, out interface{}) error {
	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("store: find failed: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("store: failed reading documents from cursor: %w", err)
	}
	return nil
}
