package user

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/comment"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/relation"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/store"
)

type Repo struct {
	users     *store.Store
	bookmarks *relation.Engine
}

func NewUserRepo(usersCol *mongo.Collection) *Repo {
	return NewRepo(&store.MongoCollection{Coll: usersCol})
}

func NewRepo(col store.IMongoCollection) *Repo {
	s := store.New(col)
	return &Repo{
		users:     s,
		bookmarks: relation.NewEngine(s, "bookmarks"),
	}
}

func (r *Repo) GetByAuthId(ctx context.Context, authId string) (*User, error) {
	u := new(User)
	if err := r.users.FetchOne(ctx, bson.M{"authId": authId}, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Ensure upserts the user document for authId. A brand-new account gets the
// documented defaults: role Reader, empty comment mirror, empty bookmark set.
// An existing document is returned untouched; Ensure never overwrites fields.
func (r *Repo) Ensure(ctx context.Context, authId, username string) (*User, error) {
	u := new(User)
	filter := bson.M{"authId": authId}
	mutation := bson.M{"$setOnInsert": bson.M{
		"username":  username,
		"role":      RoleReader,
		"comments":  []comment.Ref{},
		"bookmarks": []string{},
	}}
	opts := store.UpdateOpts{Upsert: true}
	if err := r.users.ApplyUpdate(ctx, filter, mutation, opts, u); err != nil {
		return nil, fmt.Errorf("user/repo: failed ensuring user %s: %w", authId, err)
	}
	return u, nil
}

// AppendCommentRef pushes one mirror entry onto the user's comment list.
func (r *Repo) AppendCommentRef(ctx context.Context, authId string, ref comment.Ref) error {
	filter := bson.M{"authId": authId}
	mutation := bson.M{"$push": bson.M{"comments": ref}}
	if err := r.users.ApplyUpdate(ctx, filter, mutation, store.UpdateOpts{}, nil); err != nil {
		return fmt.Errorf("user/repo: failed appending comment mirror for %s: %w", authId, err)
	}
	return nil
}

// ToggleBookmark flips postId in the user's authoritative bookmark set and
// returns the membership state after the toggle plus the updated user.
func (r *Repo) ToggleBookmark(ctx context.Context, authId, postId string) (bool, *User, error) {
	updated := new(User)
	bookmarked, err := r.bookmarks.Toggle(ctx, bson.M{"authId": authId}, postId, updated)
	if err != nil {
		return false, nil, err
	}
	return bookmarked, updated, nil
}
