package post

import (
	"time"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/comment"
)

// PostId is the external, caller-facing identifier. It is assigned when the
// post is authored and is independent of the store's own document key.
type PostId string

type Post struct {
	Id       PostId             `bson:"id" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Body     string             `bson:"body" json:"body"`
	Author   Author             `bson:"author" json:"author"`
	Tags     []string           `bson:"tags" json:"tags"`
	Likes    []string           `bson:"likes" json:"likes"`
	Comments []*comment.Comment `bson:"comments" json:"comments"`
	Created  time.Time          `bson:"created" json:"created"`
}

// Author is a snapshot of the writing user, embedded at authoring time.
type Author struct {
	Id       string `bson:"id" json:"id"`
	Username string `bson:"username" json:"username"`
}
