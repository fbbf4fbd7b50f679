package relation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/store"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/store/storetest"
)

func members(t *testing.T, col *storetest.Collection, id, field string) []interface{} {
	t.Helper()
	docs := col.Snapshot(bson.M{"id": id})
	require.Len(t, docs, 1)
	arr, _ := docs[0][field].(bson.A)
	return arr
}

func TestToggleFlipsMembership(t *testing.T) {
	ctx := context.Background()
	col := storetest.NewCollection()
	col.Seed(bson.M{"id": "p1", "likes": bson.A{}})
	engine := NewEngine(store.New(col), "likes")

	liked, err := engine.Toggle(ctx, bson.M{"id": "p1"}, "alice", nil)
	require.Nil(t, err)
	assert.True(t, liked)
	assert.Equal(t, bson.A{"alice"}, bson.A(members(t, col, "p1", "likes")))

	liked, err = engine.Toggle(ctx, bson.M{"id": "p1"}, "alice", nil)
	require.Nil(t, err)
	assert.False(t, liked)
	assert.Empty(t, members(t, col, "p1", "likes"))
}

func TestToggleNeverDuplicatesMember(t *testing.T) {
	ctx := context.Background()
	col := storetest.NewCollection()
	col.Seed(bson.M{"id": "p1", "likes": bson.A{"bob"}})
	engine := NewEngine(store.New(col), "likes")

	for i := 0; i < 7; i++ {
		_, err := engine.Toggle(ctx, bson.M{"id": "p1"}, "alice", nil)
		require.Nil(t, err)

		count := 0
		for _, m := range members(t, col, "p1", "likes") {
			if m == "alice" {
				count++
			}
		}
		assert.LessOrEqual(t, count, 1)
	}

	// An odd number of toggles ends with alice in the set; bob untouched.
	got := members(t, col, "p1", "likes")
	assert.Contains(t, got, "bob")
	assert.Contains(t, got, "alice")
	assert.Len(t, got, 2)
}

func TestToggleMissingFieldDefaultsToEmptySet(t *testing.T) {
	ctx := context.Background()
	col := storetest.NewCollection()
	col.Seed(bson.M{"id": "p1", "title": "no likes field yet"})
	engine := NewEngine(store.New(col), "likes")

	liked, err := engine.Toggle(ctx, bson.M{"id": "p1"}, "alice", nil)
	require.Nil(t, err)
	assert.True(t, liked)
	assert.Equal(t, bson.A{"alice"}, bson.A(members(t, col, "p1", "likes")))
}

func TestToggleParentNotFound(t *testing.T) {
	ctx := context.Background()
	col := storetest.NewCollection()
	engine := NewEngine(store.New(col), "likes")

	_, err := engine.Toggle(ctx, bson.M{"id": "ghost"}, "alice", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 0, col.Len())
}

func TestToggleDecodesUpdatedParent(t *testing.T) {
	ctx := context.Background()
	col := storetest.NewCollection()
	col.Seed(bson.M{"id": "p1", "likes": bson.A{}})
	engine := NewEngine(store.New(col), "likes")

	out := struct {
		Id    string   `bson:"id"`
		Likes []string `bson:"likes"`
	}{}
	liked, err := engine.Toggle(ctx, bson.M{"id": "p1"}, "alice", &out)
	require.Nil(t, err)
	assert.True(t, liked)
	assert.Equal(t, "p1", out.Id)
	assert.Equal(t, []string{"alice"}, out.Likes)
}
