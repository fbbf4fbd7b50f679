package interaction

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/common"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/logger"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/sessions"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	actor, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		common.WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	postId := mux.Vars(r)["post_id"]
	result, err := h.Service.ToggleLike(r.Context(), postId, actor.AuthId)
	if err != nil {
		h.writeFailure(w, r, err, "can't toggle like for post "+postId)
		return
	}

	w.WriteHeader(http.StatusOK)
	common.WriteRespJSON(w, result)
}

func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	actor, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		common.WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	postId := mux.Vars(r)["post_id"]
	result, err := h.Service.ToggleBookmark(r.Context(), postId, actor.AuthId)
	if err != nil {
		// A partial write still carries the toggle outcome; surface it as
		// a distinct failure, never as clean success.
		h.writeFailure(w, r, err, "can't toggle bookmark for post "+postId)
		return
	}

	w.WriteHeader(http.StatusOK)
	common.WriteRespJSON(w, result)
}

func (h *Handler) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	actor, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		common.WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	bookmarks, err := h.Service.Bookmarks(r.Context(), actor.AuthId)
	if err != nil {
		h.writeFailure(w, r, err, "can't list bookmarks for user "+actor.AuthId)
		return
	}

	w.WriteHeader(http.StatusOK)
	common.WriteRespJSON(w, bookmarks)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	actor, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		common.WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	body := struct {
		Comment     string `json:"comment"`
		DisplayName string `json:"displayName"`
	}{}
	if err := common.ParseReqBody(r.Body, &body); err != nil {
		logger.Log(r.Context()).Errorf("can't get comment body: %v", err)
		common.WriteMsg(w, "failed parsing comment body", http.StatusBadRequest)
		return
	}

	postId := mux.Vars(r)["post_id"]
	result, err := h.Service.AddComment(r.Context(), postId, actor.AuthId, body.Comment, body.DisplayName)
	if err != nil {
		h.writeFailure(w, r, err, "can't add comment to post "+postId)
		return
	}

	w.WriteHeader(http.StatusCreated)
	common.WriteRespJSON(w, result)
}

func (h *Handler) AddReaction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	actor, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		common.WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	body := struct {
		Emoji string `json:"emoji"`
	}{}
	if err := common.ParseReqBody(r.Body, &body); err != nil {
		logger.Log(r.Context()).Errorf("can't get reaction body: %v", err)
		common.WriteMsg(w, "failed parsing reaction body", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	postId, commentId := vars["post_id"], vars["comment_id"]
	updated, err := h.Service.AddReaction(r.Context(), postId, commentId, body.Emoji, actor.AuthId)
	if err != nil {
		h.writeFailure(w, r, err, "can't add reaction to comment "+commentId)
		return
	}

	w.WriteHeader(http.StatusOK)
	common.WriteRespJSON(w, updated)
}

func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	logger.Log(r.Context()).Errorf("%s: %v", logMsg, err)

	var partial *PartialWriteError
	switch {
	case errors.Is(err, ErrValidation):
		common.WriteMsg(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrParentNotFound):
		common.WriteMsg(w, "post not found", http.StatusNotFound)
	case errors.Is(err, ErrActorNotFound):
		common.WriteMsg(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrCommentNotFound):
		common.WriteMsg(w, "comment not found", http.StatusNotFound)
	case errors.As(err, &partial):
		common.WriteMsg(w, partial.Error(), http.StatusBadGateway)
	default:
		common.WriteMsg(w, "request failed", http.StatusInternalServerError)
	}
}
