package main

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/jaswdr/faker"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/comment"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/common"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/post"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/user"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/user/records"
)

var (
	f             = faker.New()
	onePassForAll = common.HashPass("sdfsdfsdf", common.RandStringRunes(8)) // salt must have len of 8
)

var emojis = []string{"👍", "🔥", "😂", "🎉", "❤️"}

type IRecordStore interface {
	Add(*records.Record) (string, error)
	GetAll() ([]*records.Record, error)
}

type IUserRepo interface {
	Ensure(context.Context, string, string) (*user.User, error)
}

func createAuthors(recordStore IRecordStore, userRepo IUserRepo) {
	// Account for experiments (not random)
	genUser(recordStore, userRepo, "pike")
	for i := 1; i <= 5; i++ {
		genUser(recordStore, userRepo, strings.ToLower(f.Person().FirstName()))
	}
}

func seed(recordStore IRecordStore, userRepo IUserRepo, postRepo *post.Repo) {
	authors, err := recordStore.GetAll()
	if err != nil {
		log.Fatalln("seed: can't get all authors:", err)
	}

	if len(authors) == 0 {
		createAuthors(recordStore, userRepo)
		if authors, err = recordStore.GetAll(); err != nil {
			log.Fatalln("seed: can't get all authors:", err)
		}
	}

	for i := 0; i <= 5; i++ {
		if _, err := postRepo.Add(context.Background(), genPost(authors)); err != nil {
			log.Fatalln("seed: can't add post:", err)
		}
	}
}

func genUser(recordStore IRecordStore, userRepo IUserRepo, username string) {
	rec := &records.Record{
		AuthId:   common.RandStringRunes(12),
		Username: username,
		Password: onePassForAll,
	}
	if _, err := recordStore.Add(rec); err != nil {
		log.Fatalln("seed: can't add user record:", err)
	}
	if _, err := userRepo.Ensure(context.Background(), rec.AuthId, rec.Username); err != nil {
		log.Fatalln("seed: can't ensure user document:", err)
	}
}

func randTags() []string {
	all := []string{"programming", "music", "travel", "food", "news", "fashion"}
	n := rand.Intn(3) + 1
	tags := []string{}
	for _, idx := range rand.Perm(len(all))[:n] {
		tags = append(tags, all[idx])
	}
	return tags
}

func genComments(authors []*records.Record) []*comment.Comment {
	n := rand.Intn(10)
	comments := []*comment.Comment{}
	for i := 0; i <= n; i++ {
		author := randAuthor(authors)
		comments = append(comments, &comment.Comment{
			Id:        comment.CommentId(common.RandStringRunes(12)),
			UserId:    author.AuthId,
			Username:  author.Username,
			Created:   f.Time().Time(time.Now()),
			Body:      genText(),
			Reactions: genReactions(),
		})
	}
	return comments
}

func genReactions() map[string]int64 {
	if rand.Intn(2) == 0 {
		return nil
	}
	reactions := map[string]int64{}
	for i := 0; i < rand.Intn(3)+1; i++ {
		reactions[emojis[rand.Intn(len(emojis))]] = int64(rand.Intn(20) + 1)
	}
	return reactions
}

func genLikes(authors []*records.Record) []string {
	likes := []string{}
	for _, a := range authors {
		if rand.Intn(2) == 0 {
			likes = append(likes, a.AuthId)
		}
	}
	return likes
}

func genTitle() string {
	return strings.Join(f.Lorem().Words(rand.Intn(5)+3), " ")
}

func genText() string {
	return f.Lorem().Paragraph(rand.Intn(3) + 2)
}

func genPost(authors []*records.Record) *post.Post {
	author := randAuthor(authors)
	return &post.Post{
		Id:       post.PostId(common.RandStringRunes(12)),
		Title:    genTitle(),
		Body:     genText(),
		Author:   post.Author{Id: author.AuthId, Username: author.Username},
		Tags:     randTags(),
		Likes:    genLikes(authors),
		Comments: genComments(authors),
		Created:  f.Time().Time(time.Now()),
	}
}

func randAuthor(authors []*records.Record) *records.Record {
	return authors[rand.Intn(len(authors))]
}
