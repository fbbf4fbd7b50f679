// Package interaction is the engagement subsystem: like and bookmark toggles,
// comment appends with the user-side mirror, and per-emoji reaction counters.
package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/comment"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/common"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/post"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/store"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/user"
)

// AnonymousName is used when neither an override nor the actor's own display
// name is available.
const AnonymousName = "Anonymous"

type (
	IPostRepo interface {
		GetById(context.Context, post.PostId) (*post.Post, error)
		ToggleLike(context.Context, post.PostId, string) (bool, *post.Post, error)
		AddComment(context.Context, post.PostId, *comment.Comment) (*post.Post, error)
		AddReaction(context.Context, post.PostId, comment.CommentId, string) (*post.Post, error)
	}

	IUserRepo interface {
		GetByAuthId(context.Context, string) (*user.User, error)
		AppendCommentRef(context.Context, string, comment.Ref) error
		ToggleBookmark(context.Context, string, string) (bool, *user.User, error)
	}

	IRecordStore interface {
		ReplaceBookmarks(context.Context, string, []string) error
		GetBookmarks(context.Context, string) ([]string, error)
	}
)

type Service struct {
	posts   IPostRepo
	users   IUserRepo
	records IRecordStore
}

func NewService(posts IPostRepo, users IUserRepo, records IRecordStore) *Service {
	return &Service{
		posts:   posts,
		users:   users,
		records: records,
	}
}

type LikeResult struct {
	Liked bool       `json:"liked"`
	Post  *post.Post `json:"post"`
}

type BookmarkResult struct {
	Bookmarked bool `json:"bookmarked"`
}

type CommentResult struct {
	Comment      *comment.Comment `json:"comment"`
	CommentCount int              `json:"commentCount"`
}

// ToggleLike flips actorId in the post's like set. The actor id is stored as
// a bare identifier without resolving it to a user document.
func (s *Service) ToggleLike(ctx context.Context, postId, actorId string) (*LikeResult, error) {
	if err := requireFields(field{"postId", postId}, field{"actorId", actorId}); err != nil {
		return nil, err
	}

	liked, updated, err := s.posts.ToggleLike(ctx, post.PostId(postId), actorId)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrParentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, Post: updated}, nil
}

// ToggleBookmark flips postId in the actor's authoritative bookmark set, then
// rewrites the relational bookmark cache from the post-toggle set. A failed
// cache rewrite is reported as a PartialWriteError; the toggle itself stood.
func (s *Service) ToggleBookmark(ctx context.Context, postId, actorId string) (*BookmarkResult, error) {
	if err := requireFields(field{"postId", postId}, field{"actorId", actorId}); err != nil {
		return nil, err
	}

	if _, err := s.posts.GetById(ctx, post.PostId(postId)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, err
	}
	if _, err := s.users.GetByAuthId(ctx, actorId); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}

	bookmarked, updated, err := s.users.ToggleBookmark(ctx, actorId, postId)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}

	if err := s.records.ReplaceBookmarks(ctx, actorId, updated.Bookmarks); err != nil {
		return &BookmarkResult{Bookmarked: bookmarked}, &PartialWriteError{
			Landed: "bookmark set on the user document",
			Failed: "bookmark record cache rewrite",
			Err:    err,
		}
	}
	return &BookmarkResult{Bookmarked: bookmarked}, nil
}

// Bookmarks lists the actor's bookmarked post ids, served from the relational
// cache. After a failed rewrite the cache may lag one toggle behind until the
// actor's next successful toggle.
func (s *Service) Bookmarks(ctx context.Context, actorId string) ([]string, error) {
	if err := requireFields(field{"actorId", actorId}); err != nil {
		return nil, err
	}
	return s.records.GetBookmarks(ctx, actorId)
}

// AddComment appends a comment to the post and mirrors a truncated reference
// onto the acting user's document. The two pushes are independent and
// non-transactional: a failed mirror push surfaces as a PartialWriteError
// carrying the comment that did land.
func (s *Service) AddComment(ctx context.Context, postId, actorId, text, displayName string) (*CommentResult, error) {
	if err := requireFields(field{"postId", postId}, field{"actorId", actorId}, field{"text", text}); err != nil {
		return nil, err
	}

	actor, err := s.users.GetByAuthId(ctx, actorId)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}

	username := displayName
	if username == "" {
		username = actor.Username
	}
	if username == "" {
		username = AnonymousName
	}

	cmt := &comment.Comment{
		Id:       comment.CommentId(common.RandStringRunes(12)),
		UserId:   actorId,
		Username: username,
		Body:     text,
		Created:  time.Now().UTC(),
	}

	updated, err := s.posts.AddComment(ctx, post.PostId(postId), cmt)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, err
	}
	result := &CommentResult{Comment: cmt, CommentCount: len(updated.Comments)}

	ref := comment.Ref{PostId: postId, Text: common.Truncate(text, common.TruncateLimit)}
	if err := s.users.AppendCommentRef(ctx, actorId, ref); err != nil {
		return result, &PartialWriteError{
			Landed: "comment push on the post",
			Failed: "comment mirror push on the user",
			Err:    err,
		}
	}
	return result, nil
}

// AddReaction bumps the emoji counter on one comment, keyed by the comment's
// id. The actor id is required but not used to deduplicate: the same actor
// may react to the same emoji any number of times.
func (s *Service) AddReaction(ctx context.Context, postId, commentId, emoji, actorId string) (*post.Post, error) {
	err := requireFields(
		field{"postId", postId},
		field{"commentId", commentId},
		field{"emoji", emoji},
		field{"actorId", actorId},
	)
	if err != nil {
		return nil, err
	}

	updated, err := s.posts.AddReaction(ctx, post.PostId(postId), comment.CommentId(commentId), emoji)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrParentNotFound
	}
	if errors.Is(err, post.ErrCommentNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

type field struct {
	name, value string
}

// requireFields checks fields in the given order, so the reported name is
// always the first empty one.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrValidation, f.name)
		}
	}
	return nil
}
