package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/common"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/logger"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/sessions"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/user"
)

type (
	IUserRepo interface {
		GetByAuthId(context.Context, string) (*user.User, error)
	}
	ISessionManager interface {
		IdentityFromToken(string) (*sessions.Identity, error)
	}
	Auth struct {
		UserRepo       IUserRepo
		SessionManager ISessionManager
	}
)

func NewAuthMiddleware(sm ISessionManager, ur IUserRepo) *Auth {
	return &Auth{
		UserRepo:       ur,
		SessionManager: sm,
	}
}

// Middleware resolves the bearer token to the acting user document and pins
// it to the request context. Requests without a token pass through anonymous;
// mutating handlers reject those themselves.
func (auth Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := auth.SessionManager.IdentityFromToken(authHeader)
		if err != nil {
			logger.Log(r.Context()).Errorf("can't get identity from token: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		repoCtx, repoCtxCancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer repoCtxCancel()
		actingUser, err := auth.UserRepo.GetByAuthId(repoCtx, identity.AuthId)
		if err != nil {
			logger.Log(r.Context()).Errorf("auth: can't get the user from repo: %v", err)
			common.WriteMsg(w, "user not found", http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), sessions.SessionKey, actingUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
