package user

import (
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/comment"
)

const (
	RoleWriter = "Writer"
	RoleReader = "Reader"
)

// User is the authoritative account document. Comments is the denormalized
// mirror of comments the user has posted (post id + truncated text);
// Bookmarks is the authoritative bookmark set, cached on the relational side
// by the records store.
type User struct {
	AuthId    string        `bson:"authId" json:"authId"`
	Username  string        `bson:"username" json:"username"`
	Role      string        `bson:"role" json:"role"`
	Comments  []comment.Ref `bson:"comments" json:"comments"`
	Bookmarks []string      `bson:"bookmarks" json:"bookmarks"`
}
