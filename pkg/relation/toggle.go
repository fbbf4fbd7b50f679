// Package relation implements the membership toggle shared by likes and
// bookmarks: add the actor id to a set-valued field if absent, remove it if
// present.
package relation

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/store"
)

// Engine toggles one actor id in one set-valued field of a parent document.
// The add and remove go through $addToSet/$pull, so two racing toggles can
// flicker but never duplicate the member; the store linearizes the set ops.
type Engine struct {
	store *store.Store
	field string
}

func NewEngine(s *store.Store, field string) *Engine {
	return &Engine{store: s, field: field}
}

// Toggle flips membership of member in the parent selected by parentFilter.
// It reports whether the member is in the set after the toggle and, when out
// is non-nil, decodes the post-update parent into it. A filter matching
// nothing returns store.ErrNotFound before any write.
func (e *Engine) Toggle(ctx context.Context, parentFilter bson.M, member string, out interface{}) (bool, error) {
	current := bson.M{}
	if err := e.store.FetchOne(ctx, parentFilter, &current); err != nil {
		return false, err
	}

	present := false
	if members, ok := current[e.field].(bson.A); ok {
		for _, m := range members {
			if s, ok := m.(string); ok && s == member {
				present = true
				break
			}
		}
	}

	var mutation bson.M
	if present {
		mutation = bson.M{"$pull": bson.M{e.field: member}}
	} else {
		mutation = bson.M{"$addToSet": bson.M{e.field: member}}
	}

	if err := e.store.ApplyUpdate(ctx, parentFilter, mutation, store.UpdateOpts{}, out); err != nil {
		return false, fmt.Errorf("relation: failed toggling %s: %w", e.field, err)
	}
	return !present, nil
}
