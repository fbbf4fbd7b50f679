package post

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/comment"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/relation"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/store"
)

// ErrCommentNotFound is returned when a comment id does not exist inside the
// targeted post.
var ErrCommentNotFound = errors.New("post: comment not found")

type Repo struct {
	posts *store.Store
	likes *relation.Engine
}

func NewPostRepo(postsCol *mongo.Collection) *Repo {
	return NewRepo(&store.MongoCollection{Coll: postsCol})
}

func NewRepo(col store.IMongoCollection) *Repo {
	s := store.New(col)
	return &Repo{
		posts: s,
		likes: relation.NewEngine(s, "likes"),
	}
}

func (r *Repo) Add(ctx context.Context, p *Post) (PostId, error) {
	if err := r.posts.Insert(ctx, p); err != nil {
		return PostId(``), fmt.Errorf("post/repo: failed inserting a post: %w", err)
	}
	return p.Id, nil
}

func (r *Repo) GetById(ctx context.Context, id PostId) (*Post, error) {
	post := new(Post)
	if err := r.posts.FetchOne(ctx, bson.M{"id": id}, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *Repo) GetAll(ctx context.Context) ([]*Post, error) {
	posts := []*Post{}
	if err := r.posts.FetchAll(ctx, bson.M{}, &posts); err != nil {
		return nil, fmt.Errorf("post/repo: failed finding posts: %w", err)
	}
	return posts, nil
}

func (r *Repo) GetTagPosts(ctx context.Context, tag string) ([]*Post, error) {
	tagPosts := []*Post{}
	if err := r.posts.FetchAll(ctx, bson.M{"tags": tag}, &tagPosts); err != nil {
		return nil, fmt.Errorf("post/repo: failed finding posts: %w", err)
	}
	return tagPosts, nil
}

func (r *Repo) GetUserPosts(ctx context.Context, username string) ([]*Post, error) {
	userPosts := []*Post{}
	if err := r.posts.FetchAll(ctx, bson.M{"author.username": username}, &userPosts); err != nil {
		return nil, fmt.Errorf("post/repo: failed finding posts: %w", err)
	}
	return userPosts, nil
}

// ToggleLike flips actorId's membership in the post's like set and returns
// the membership state after the toggle plus the updated post. The actor id
// is stored as given; likes don't resolve the actor to a user document.
func (r *Repo) ToggleLike(ctx context.Context, id PostId, actorId string) (bool, *Post, error) {
	updated := new(Post)
	liked, err := r.likes.Toggle(ctx, bson.M{"id": id}, actorId, updated)
	if err != nil {
		return false, nil, err
	}
	return liked, updated, nil
}

// AddComment appends cmt to the post's comment list with one atomic push and
// returns the post as it stands after the append. A missing post means no
// write happened at all.
func (r *Repo) AddComment(ctx context.Context, id PostId, cmt *comment.Comment) (*Post, error) {
	updated := new(Post)
	filter := bson.M{"id": id}
	mutation := bson.M{"$push": bson.M{"comments": cmt}}
	if err := r.posts.ApplyUpdate(ctx, filter, mutation, store.UpdateOpts{}, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// AddReaction bumps the per-emoji counter on one embedded comment. The
// increment is keyed by the comment's id through an array filter, never by a
// positional index, so a concurrent append to the same post can't shift the
// increment onto another comment.
func (r *Repo) AddReaction(ctx context.Context, id PostId, commentId comment.CommentId, emoji string) (*Post, error) {
	current, err := r.GetById(ctx, id)
	if err != nil {
		return nil, err
	}

	found := false
	for _, cmt := range current.Comments {
		if cmt.Id == commentId {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrCommentNotFound
	}

	updated := new(Post)
	filter := bson.M{"id": id}
	mutation := bson.M{"$inc": bson.M{"comments.$[c].reactions." + emoji: 1}}
	opts := store.UpdateOpts{ArrayFilters: []interface{}{bson.M{"c.id": commentId}}}
	if err := r.posts.ApplyUpdate(ctx, filter, mutation, opts, updated); err != nil {
		return nil, fmt.Errorf("post/repo: failed incrementing reaction: %w", err)
	}
	return updated, nil
}
