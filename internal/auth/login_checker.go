package auth

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultSessionsCacheSize is the freecache size in bytes, freecache minimum is 512 KiB.
	DefaultSessionsCacheSize = 4 * 1024 * 1024
	sessionsCacheTTLSeconds  = 60
)

// LoginChecker resolves session tokens to user ids. Sessions are kept in a
// short lived local cache in front of redis.
type LoginChecker struct {
	ttl           time.Duration
	redisClient   *redis.Client
	sessionsCache *freecache.Cache
	nowFunc       func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client, sessionsCache *freecache.Cache) *LoginChecker {
	return &LoginChecker{
		ttl:           ttl,
		redisClient:   redisClient,
		sessionsCache: sessionsCache,
		nowFunc:       time.Now,
	}
}

// UserID returns the id of the user owning the token, or ErrNotLoggedIn.
func (lc *LoginChecker) UserID(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNotLoggedIn
	}

	val, err := lc.sessionValue(ctx, token)
	if err != nil {
		return "", err
	}

	s, err := parseSession(val)
	if err != nil {
		return "", err
	}

	if s.expired(lc.ttl, lc.nowFunc()) {
		lc.forget(token)
		return "", ErrNotLoggedIn
	}

	return s.UserID, nil
}

func (lc *LoginChecker) sessionValue(ctx context.Context, token string) (string, error) {
	if lc.sessionsCache != nil {
		if cached, err := lc.sessionsCache.Get([]byte(token)); err == nil {
			return string(cached), nil
		}
	}

	cmd := lc.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotLoggedIn
		}
		return "", err
	}

	val := cmd.Val()
	if lc.sessionsCache != nil {
		if err := lc.sessionsCache.Set([]byte(token), []byte(val), sessionsCacheTTLSeconds); err != nil {
			log.Warnf("login checker, cache session: %s", err)
		}
	}

	return val, nil
}

func (lc *LoginChecker) forget(token string) {
	if lc.sessionsCache != nil {
		lc.sessionsCache.Del([]byte(token))
	}
}
