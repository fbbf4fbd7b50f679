package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/common"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/logger"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/sessions"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/user"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/user/records"
)

//go:generate mockgen -source=handlers.go -destination=handlers_mocks.go -package=api

type (
	UserRecords interface {
		UserExists(string) bool
		GetByUsernameAndPass(string, string) (*records.Record, error)
		Add(*records.Record) (string, error)
	}

	UserDocs interface {
		Ensure(context.Context, string, string) (*user.User, error)
	}

	SessionManager interface {
		CreateToken(*sessions.Identity) (string, error)
		CleanupUserSessions(authId string) error
	}

	UserHandler struct {
		Records        UserRecords
		Users          UserDocs
		SessionManager SessionManager
	}

	HttpUser struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
)

func NewUserHandler(recs UserRecords, docs UserDocs, sm SessionManager) *UserHandler {
	return &UserHandler{
		Records:        recs,
		Users:          docs,
		SessionManager: sm,
	}
}

func (uh UserHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	httpUser := new(HttpUser)
	if err := common.ParseReqBody(r.Body, httpUser); err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as user: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	rec, err := uh.Records.GetByUsernameAndPass(httpUser.Username, httpUser.Password)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't get the user by username `%s` and password: %v",
			httpUser.Username, err)
		common.WriteMsg(w, "user not found", http.StatusNotFound)
		return
	}

	// Remove expired sessions if there are any
	if err := uh.SessionManager.CleanupUserSessions(rec.AuthId); err != nil {
		logger.Log(r.Context()).Errorf("user/handlers: can't cleanup sessions for user `%s`, %v", httpUser.Username, err)
		common.WriteMsg(w, "failed managing user sessions", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	uh.sendToken(w, &sessions.Identity{AuthId: rec.AuthId, Username: rec.Username})
}

// Register provisions a new account in both stores: the relational record
// (credentials) and the authoritative user document (explicit ensure-upsert
// with defaults). The two writes are not transactional; a failed document
// write is reported distinctly, never as clean success.
func (uh UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	httpUser := new(HttpUser)
	if err := common.ParseReqBody(r.Body, httpUser); err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as user: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}
	if httpUser.Username == "" || httpUser.Password == "" {
		common.WriteMsg(w, "username and password are required", http.StatusBadRequest)
		return
	}

	if uh.Records.UserExists(httpUser.Username) {
		msg := fmt.Sprintf(`user "%s" already exists`, httpUser.Username)
		logger.Log(r.Context()).Error(msg)
		common.WriteMsg(w, msg, http.StatusConflict)
		return
	}

	salt := common.RandStringRunes(8)
	rec := &records.Record{
		AuthId:   common.RandStringRunes(12),
		Username: httpUser.Username,
		Password: common.HashPass(httpUser.Password, salt),
	}
	if _, err := uh.Records.Add(rec); err != nil {
		logger.Log(r.Context()).Errorf("can't add user record: %v", err)
		common.WriteMsg(w, "can't add user", http.StatusInternalServerError)
		return
	}

	if _, err := uh.Users.Ensure(r.Context(), rec.AuthId, rec.Username); err != nil {
		logger.Log(r.Context()).Errorf("user record %s created but document provisioning failed: %v", rec.AuthId, err)
		common.WriteMsg(w, "account partially provisioned, retry login later", http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusCreated)
	uh.sendToken(w, &sessions.Identity{AuthId: rec.AuthId, Username: rec.Username})
}

func (uh *UserHandler) sendToken(w http.ResponseWriter, identity *sessions.Identity) {
	token, err := uh.SessionManager.CreateToken(identity)
	if err != nil {
		logger.Log(context.Background()).Errorf("can't create JWT token: %v", err)
		common.WriteMsg(w, "user authentication failed", http.StatusInternalServerError)
		return
	}

	tk := struct {
		Token string `json:"token"`
	}{token}
	common.WriteRespJSON(w, tk)
}
