package comment

import (
	"time"
)

type CommentId string

// Comment is embedded in its post; it is never stored as a top-level entity.
// The display name is a snapshot taken when the comment is written, not a
// live join against the user.
type Comment struct {
	Id       CommentId `bson:"id" json:"id"`
	UserId   string    `bson:"userId" json:"userId"`
	Username string    `bson:"username" json:"username"`
	Body     string    `bson:"body" json:"body"`
	Created  time.Time `bson:"created" json:"created"`

	// Reactions maps an emoji to its count. Nil until the first reaction;
	// counts only ever grow.
	Reactions map[string]int64 `bson:"reactions,omitempty" json:"reactions,omitempty"`
}

// Ref is the abbreviated mirror entry kept on the commenting user's own
// document: the post id and the first 30 characters of the text.
type Ref struct {
	PostId string `bson:"id" json:"id"`
	Text   string `bson:"text" json:"text"`
}
