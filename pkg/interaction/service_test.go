package interaction

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/comment"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/post"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/store/storetest"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/user"
)

// stubRecords records bookmark cache rewrites instead of talking to Postgres.
type stubRecords struct {
	mu       sync.Mutex
	byUser   map[string][]string
	rewrites int
	failNext error
}

func newStubRecords() *stubRecords {
	return &stubRecords{byUser: map[string][]string{}}
}

func (s *stubRecords) ReplaceBookmarks(_ context.Context, authId string, postIds []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	s.byUser[authId] = append([]string{}, postIds...)
	s.rewrites++
	return nil
}

func (s *stubRecords) GetBookmarks(_ context.Context, authId string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.byUser[authId]...), nil
}

type testEnv struct {
	svc   *Service
	posts *storetest.Collection
	users *storetest.Collection
	recs  *stubRecords
}

func newTestEnv() *testEnv {
	postsCol := storetest.NewCollection()
	usersCol := storetest.NewCollection()
	recs := newStubRecords()
	svc := NewService(post.NewRepo(postsCol), user.NewRepo(usersCol), recs)
	return &testEnv{svc: svc, posts: postsCol, users: usersCol, recs: recs}
}

func (e *testEnv) seedPost(id string, comments ...*comment.Comment) {
	e.posts.Seed(&post.Post{
		Id:       post.PostId(id),
		Title:    "a post",
		Author:   post.Author{Id: "writer1", Username: "pike"},
		Likes:    []string{},
		Comments: comments,
	})
}

func (e *testEnv) seedUser(authId, username string) {
	e.users.Seed(&user.User{
		AuthId:    authId,
		Username:  username,
		Role:      user.RoleReader,
		Comments:  []comment.Ref{},
		Bookmarks: []string{},
	})
}

func (e *testEnv) postDoc(t *testing.T, id string) bson.M {
	t.Helper()
	docs := e.posts.Snapshot(bson.M{"id": id})
	require.Len(t, docs, 1)
	return docs[0]
}

func (e *testEnv) userDoc(t *testing.T, authId string) bson.M {
	t.Helper()
	docs := e.users.Snapshot(bson.M{"authId": authId})
	require.Len(t, docs, 1)
	return docs[0]
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedPost("p1")

	t.Run("like then unlike", func(t *testing.T) {
		result, err := env.svc.ToggleLike(ctx, "p1", "alice")
		require.Nil(t, err)
		assert.True(t, result.Liked)
		assert.Equal(t, []string{"alice"}, result.Post.Likes)

		result, err = env.svc.ToggleLike(ctx, "p1", "alice")
		require.Nil(t, err)
		assert.False(t, result.Liked)
		assert.Empty(t, result.Post.Likes)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := env.svc.ToggleLike(ctx, "ghost", "alice")
		assert.ErrorIs(t, err, ErrParentNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := env.svc.ToggleLike(ctx, "", "alice")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = env.svc.ToggleLike(ctx, "p1", "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("first empty field is the one reported", func(t *testing.T) {
		_, err := env.svc.ToggleLike(ctx, "", "")
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, ErrValidation.Error()+": postId", err.Error())

		_, err = env.svc.AddReaction(ctx, "p1", "", "", "")
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, ErrValidation.Error()+": commentId", err.Error())
	})
}

func TestToggleBookmark(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedPost("p1")
	env.seedUser("auth1", "ann")

	t.Run("bookmark, cache rewritten", func(t *testing.T) {
		result, err := env.svc.ToggleBookmark(ctx, "p1", "auth1")
		require.Nil(t, err)
		assert.True(t, result.Bookmarked)
		assert.Equal(t, []string{"p1"}, env.recs.byUser["auth1"])
	})

	t.Run("reads are served from the cache", func(t *testing.T) {
		bookmarks, err := env.svc.Bookmarks(ctx, "auth1")
		require.Nil(t, err)
		assert.Equal(t, []string{"p1"}, bookmarks)

		_, err = env.svc.Bookmarks(ctx, "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unbookmark, cache rewritten to empty", func(t *testing.T) {
		result, err := env.svc.ToggleBookmark(ctx, "p1", "auth1")
		require.Nil(t, err)
		assert.False(t, result.Bookmarked)
		assert.Empty(t, env.recs.byUser["auth1"])
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := env.svc.ToggleBookmark(ctx, "ghost", "auth1")
		assert.ErrorIs(t, err, ErrParentNotFound)
	})

	t.Run("missing actor", func(t *testing.T) {
		_, err := env.svc.ToggleBookmark(ctx, "p1", "ghost")
		assert.ErrorIs(t, err, ErrActorNotFound)
	})

	t.Run("failed cache rewrite is a partial write, toggle stands", func(t *testing.T) {
		env.recs.failNext = fmt.Errorf("pg down")

		result, err := env.svc.ToggleBookmark(ctx, "p1", "auth1")
		var partial *PartialWriteError
		require.ErrorAs(t, err, &partial)
		require.NotNil(t, result)
		assert.True(t, result.Bookmarked)

		// The authoritative set changed even though the cache didn't.
		bookmarks, _ := env.userDoc(t, "auth1")["bookmarks"].(bson.A)
		assert.Equal(t, bson.A{"p1"}, bookmarks)
		assert.Empty(t, env.recs.byUser["auth1"])
	})
}

func TestAddCommentPreservesPriorComments(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedUser("auth1", "ann")
	env.seedPost("p1",
		&comment.Comment{Id: "c1", UserId: "u1", Username: "bob", Body: "first"},
		&comment.Comment{Id: "c2", UserId: "u2", Username: "kim", Body: "second"},
	)

	before, _ := env.postDoc(t, "p1")["comments"].(bson.A)

	result, err := env.svc.AddComment(ctx, "p1", "auth1", "third", "")
	require.Nil(t, err)
	assert.Equal(t, 3, result.CommentCount)
	assert.Equal(t, "ann", result.Comment.Username)
	assert.NotEmpty(t, result.Comment.Id)

	after, _ := env.postDoc(t, "p1")["comments"].(bson.A)
	require.Len(t, after, 3)
	assert.True(t, reflect.DeepEqual(before, after[:2]), "existing comments must not change")
}

func TestAddCommentMirror(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedUser("auth1", "ann")
	env.seedPost("p1")

	t.Run("short text is mirrored verbatim", func(t *testing.T) {
		_, err := env.svc.AddComment(ctx, "p1", "auth1", "short one", "")
		require.Nil(t, err)

		mirror, _ := env.userDoc(t, "auth1")["comments"].(bson.A)
		require.Len(t, mirror, 1)
		entry := mirror[0].(bson.M)
		assert.Equal(t, "p1", entry["id"])
		assert.Equal(t, "short one", entry["text"])
	})

	t.Run("long text is truncated with a marker", func(t *testing.T) {
		long := "this comment is much longer than thirty characters in total"
		_, err := env.svc.AddComment(ctx, "p1", "auth1", long, "")
		require.Nil(t, err)

		mirror, _ := env.userDoc(t, "auth1")["comments"].(bson.A)
		require.Len(t, mirror, 2)
		entry := mirror[1].(bson.M)
		assert.Equal(t, long[:30]+"...", entry["text"])
	})
}

func TestAddCommentDisplayName(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedPost("p1")
	env.seedUser("auth1", "ann")
	env.seedUser("auth2", "")

	t.Run("override wins", func(t *testing.T) {
		result, err := env.svc.AddComment(ctx, "p1", "auth1", "hi", "Annie")
		require.Nil(t, err)
		assert.Equal(t, "Annie", result.Comment.Username)
	})

	t.Run("actor's name is the default", func(t *testing.T) {
		result, err := env.svc.AddComment(ctx, "p1", "auth1", "hi", "")
		require.Nil(t, err)
		assert.Equal(t, "ann", result.Comment.Username)
	})

	t.Run("anonymous fallback", func(t *testing.T) {
		result, err := env.svc.AddComment(ctx, "p1", "auth2", "hi", "")
		require.Nil(t, err)
		assert.Equal(t, AnonymousName, result.Comment.Username)
	})
}

func TestAddCommentFailures(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedUser("auth1", "ann")
	env.seedPost("p1")

	t.Run("validation happens before any lookup", func(t *testing.T) {
		_, err := env.svc.AddComment(ctx, "p1", "auth1", "", "")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = env.svc.AddComment(ctx, "p1", "", "hello", "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown actor", func(t *testing.T) {
		_, err := env.svc.AddComment(ctx, "p1", "ghost", "hello", "")
		assert.ErrorIs(t, err, ErrActorNotFound)
	})

	t.Run("unknown post leaves the mirror untouched", func(t *testing.T) {
		mirrorBefore, _ := env.userDoc(t, "auth1")["comments"].(bson.A)

		_, err := env.svc.AddComment(ctx, "ghost", "auth1", "hello", "")
		assert.ErrorIs(t, err, ErrParentNotFound)

		mirrorAfter, _ := env.userDoc(t, "auth1")["comments"].(bson.A)
		assert.Equal(t, len(mirrorBefore), len(mirrorAfter))
	})

	t.Run("failed mirror push is a partial write carrying the comment", func(t *testing.T) {
		env.users.FailNextWrite(fmt.Errorf("mongo down"))

		result, err := env.svc.AddComment(ctx, "p1", "auth1", "landed anyway", "")
		var partial *PartialWriteError
		require.ErrorAs(t, err, &partial)
		require.NotNil(t, result)
		assert.Equal(t, "landed anyway", result.Comment.Body)

		// Comment is on the post, mirror is behind.
		comments, _ := env.postDoc(t, "p1")["comments"].(bson.A)
		assert.Equal(t, result.CommentCount, len(comments))
		mirror, _ := env.userDoc(t, "auth1")["comments"].(bson.A)
		assert.Empty(t, mirror)
	})
}

func TestAddReactionCounts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedPost("p1",
		&comment.Comment{Id: "c1", UserId: "u1", Username: "bob", Body: "first"},
	)

	const k = 6
	for i := 0; i < k; i++ {
		_, err := env.svc.AddReaction(ctx, "p1", "c1", "👍", "alice")
		require.Nil(t, err)
	}
	updated, err := env.svc.AddReaction(ctx, "p1", "c1", "🔥", "alice")
	require.Nil(t, err)

	require.Len(t, updated.Comments, 1)
	assert.Equal(t, int64(k), updated.Comments[0].Reactions["👍"])
	assert.Equal(t, int64(1), updated.Comments[0].Reactions["🔥"])
}

func TestAddReactionFailures(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedPost("p1", &comment.Comment{Id: "c1", Body: "first"})

	t.Run("validation", func(t *testing.T) {
		_, err := env.svc.AddReaction(ctx, "p1", "c1", "", "alice")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = env.svc.AddReaction(ctx, "p1", "c1", "👍", "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := env.svc.AddReaction(ctx, "ghost", "c1", "👍", "alice")
		assert.ErrorIs(t, err, ErrParentNotFound)
	})

	t.Run("unknown comment", func(t *testing.T) {
		_, err := env.svc.AddReaction(ctx, "p1", "ghost", "👍", "alice")
		assert.ErrorIs(t, err, ErrCommentNotFound)
	})
}

// Two concurrent reactions to different emojis on the same comment must both
// be reflected: the store serializes the two increments, neither is lost.
func TestConcurrentReactionsAreNotLost(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedPost("p1", &comment.Comment{Id: "c1", Body: "first"})

	const perEmoji = 10
	var wg sync.WaitGroup
	for _, emoji := range []string{"👍", "🔥"} {
		emoji := emoji
		for i := 0; i < perEmoji; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := env.svc.AddReaction(ctx, "p1", "c1", emoji, "alice")
				assert.Nil(t, err)
			}()
		}
	}
	wg.Wait()

	doc := env.postDoc(t, "p1")
	comments, _ := doc["comments"].(bson.A)
	require.Len(t, comments, 1)
	reactions, _ := comments[0].(bson.M)["reactions"].(bson.M)
	assert.EqualValues(t, perEmoji, reactions["👍"])
	assert.EqualValues(t, perEmoji, reactions["🔥"])
}

// A comment append racing a reaction on an earlier comment must never land
// the increment on the wrong comment: the increment is keyed by the comment
// id, not by a positional index read before the write.
func TestReactionSurvivesConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedUser("auth1", "ann")
	env.seedPost("p1",
		&comment.Comment{Id: "c1", Body: "first"},
		&comment.Comment{Id: "c2", Body: "second"},
	)

	const rounds = 15
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := env.svc.AddReaction(ctx, "p1", "c1", "👍", "alice")
			assert.Nil(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := env.svc.AddComment(ctx, "p1", "auth1", "racing append", "")
			assert.Nil(t, err)
		}()
	}
	wg.Wait()

	doc := env.postDoc(t, "p1")
	comments, _ := doc["comments"].(bson.A)
	require.Len(t, comments, 2+rounds)

	for _, raw := range comments {
		cmt := raw.(bson.M)
		reactions, _ := cmt["reactions"].(bson.M)
		if cmt["id"] == "c1" {
			assert.EqualValues(t, rounds, reactions["👍"])
			continue
		}
		// No other comment picked up a stray increment.
		assert.Empty(t, reactions)
	}
}
