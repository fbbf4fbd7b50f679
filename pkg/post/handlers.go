package post

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/comment"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/common"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/logger"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/sessions"
)

type IPostRepo interface {
	GetAll(context.Context) ([]*Post, error)
	GetById(context.Context, PostId) (*Post, error)
	GetTagPosts(context.Context, string) ([]*Post, error)
	GetUserPosts(context.Context, string) ([]*Post, error)

	Add(context.Context, *Post) (PostId, error)
}

type PostHandler struct {
	PostRepo IPostRepo
}

func NewPostHandler(postRepo IPostRepo) *PostHandler {
	return &PostHandler{
		PostRepo: postRepo,
	}
}

func (ph PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := ph.PostRepo.GetAll(r.Context())
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load posts from the repo: %v", err)
		common.WriteMsg(w, "failed loading posts", http.StatusInternalServerError)
		return
	}

	common.WriteRespJSON(w, posts)
}

func (ph *PostHandler) Add(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	author, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		logger.Log(r.Context()).Errorf("post/handlers: can't get the user from repo: %v", err)
		common.WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	p := new(Post)
	if err := common.ParseReqBody(r.Body, p); err != nil {
		logger.Log(r.Context()).Errorf("can't parse post from request body: %v", err)
		common.WriteMsg(w, "can't parse post", http.StatusBadRequest)
		return
	}
	if p.Title == "" {
		common.WriteMsg(w, "post title is required", http.StatusBadRequest)
		return
	}

	p.Created = time.Now().UTC()
	p.Id = PostId(common.RandStringRunes(12))
	p.Author = Author{Id: author.AuthId, Username: author.Username}
	p.Likes = []string{}
	p.Comments = []*comment.Comment{}

	if _, err := ph.PostRepo.Add(r.Context(), p); err != nil {
		logger.Log(r.Context()).Errorf("can't add post to the repo: %v", err)
		common.WriteMsg(w, "failed adding post", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	common.WriteRespJSON(w, p)
}

func (ph PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	postId := mux.Vars(r)["post_id"]
	p, err := ph.PostRepo.GetById(r.Context(), PostId(postId))
	if err != nil {
		logger.Log(r.Context()).Errorf("can't get post with id %s: %v", postId, err)
		common.WriteMsg(w, "post not found", http.StatusNotFound)
		return
	}

	common.WriteRespJSON(w, p)
}

func (ph PostHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tag := mux.Vars(r)["tag"]
	tagPosts, err := ph.PostRepo.GetTagPosts(r.Context(), tag)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load posts for tag %s: %v", tag, err)
		common.WriteMsg(w, "failed loading posts for the tag", http.StatusInternalServerError)
		return
	}

	common.WriteRespJSON(w, tagPosts)
}

func (ph PostHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	username := mux.Vars(r)["username"]
	userPosts, err := ph.PostRepo.GetUserPosts(r.Context(), username)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load posts of user %s: %v", username, err)
		common.WriteMsg(w, "failed loading user posts", http.StatusInternalServerError)
		return
	}

	common.WriteRespJSON(w, userPosts)
}
