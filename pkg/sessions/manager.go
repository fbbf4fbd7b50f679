package sessions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gomodule/redigo/redis"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/common"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/user"
)

const redisNS = "chatterSessions:"

const tokenTTL = 30 * 24 * time.Hour

type (
	sessionKey string

	// Identity is what the token carries: the external actor identifier
	// plus a display name. The subsystem trusts the identifier as given.
	Identity struct {
		AuthId   string `json:"authId"`
		Username string `json:"username"`
	}

	SessionManager struct {
		secret []byte
		redis  redis.Conn
	}

	jwtClaims struct {
		Identity Identity `json:"identity"`
		jwt.StandardClaims
	}
)

const SessionKey sessionKey = "authenticatedUser"

var ErrNoAuth = errors.New("sessions: no session found")

func NewSessionManager(secret string, conn redis.Conn) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		redis:  conn,
	}
}

// IdentityFromToken validates the bearer token and its Redis-side session
// record and returns the identity the token carries.
func (sm *SessionManager) IdentityFromToken(authHeader string) (*Identity, error) {
	if authHeader == "" {
		return nil, errors.New("sessions: auth header not found")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(sm.secret), nil
		})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return nil, errors.New("sessions: can't cast token to claim")
	}
	if !token.Valid {
		return nil, errors.New("sessions: token is not valid")
	}

	if _, redisErr := sm.CheckRedis(claims.Identity.AuthId, claims.Id); redisErr != nil {
		return nil, fmt.Errorf("sessions/manager: Redis session is not valid: %v", redisErr)
	}

	return &claims.Identity, nil
}

// Goes through all sessions of one account and removes expired ones.
func (sm *SessionManager) CleanupUserSessions(authId string) error {
	sessions, err := redis.StringMap(sm.redis.Do("HGETALL", redisNS+authId))
	if err != nil {
		log.Println("sessions/manager: can't HGETALL account sessions from Redis:", err)
		return err
	}

	nowTs := time.Now().Unix()
	for sessId, exp := range sessions {
		expTs, _ := strconv.ParseInt(exp, 10, 64)
		if nowTs > expTs {
			sm.redis.Do("HDEL", redisNS+authId, sessId)
			log.Printf("sessions/manager: session %s removed (expired at %s)\n", sessId, exp)
		}
	}

	return nil
}

func (sm *SessionManager) CheckRedis(authId, sessionId string) (bool, error) {
	expirationData, err := redis.Bytes(sm.redis.Do("HGET", redisNS+authId, sessionId))
	if err != nil {
		log.Println("sessions/manager: can't HGET from Redis:", err)
		return false, err
	}

	expiredTs, _ := strconv.ParseInt(string(expirationData), 10, 64)
	nowTs := time.Now().Unix()
	if nowTs > expiredTs {
		return false, errors.New("session has expired")
	}

	// Prolong the session when it expires in less than 24 hours; an active
	// account shouldn't get kicked off mid-use.
	if expiredTs-nowTs < int64(time.Duration(24*time.Hour).Seconds()) {
		newExpDate := time.Now().Add(tokenTTL).Unix()
		if err := sm.AddToRedis(authId, sessionId, newExpDate); err != nil {
			log.Println("sessions/manager: failed add to Redis", err)
			return false, err
		}
	}

	return true, nil
}

func (sm *SessionManager) AddToRedis(authId, sessionId string, exp int64) error {
	if _, err := sm.redis.Do("HSET", redisNS+authId, sessionId, exp); err != nil {
		return fmt.Errorf("sessions/manager: failed HSET to Redis: %v", err)
	}
	return nil
}

func (sm *SessionManager) CreateToken(identity *Identity) (string, error) {
	sessionID := common.RandStringRunes(10)
	data := jwtClaims{
		Identity: *identity,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
			Id:        sessionID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, data).SignedString(sm.secret)
	if err != nil {
		return "", err
	}

	if redisErr := sm.AddToRedis(identity.AuthId, sessionID, data.ExpiresAt); redisErr != nil {
		log.Println("sessions/manager: failed add to redis", redisErr)
		return ``, redisErr
	}

	return token, nil
}

// GetAuthUser returns the resolved acting user the auth middleware pinned to
// the request context.
func GetAuthUser(ctx context.Context) (*user.User, error) {
	u, ok := ctx.Value(SessionKey).(*user.User)
	if !ok || u == nil {
		return nil, ErrNoAuth
	}
	return u, nil
}
