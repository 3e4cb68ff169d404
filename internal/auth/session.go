package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	sessionKeyPrefix = "fitmix-session||"
	tokensSetKey     = "fitmix-sessions"
	sessionTokenLen  = 35
)

type session struct {
	UserID    string
	CreatedAt time.Time
}

// encode stores the session as "<created at unix>|<user id>".
func (s session) encode() string {
	return fmt.Sprintf("%d|%s", s.CreatedAt.Unix(), s.UserID)
}

func parseSession(val string) (session, error) {
	createdAtUnixStr, userID, found := strings.Cut(val, "|")
	if !found || userID == "" {
		return session{}, errors.New("malformed session value")
	}
	createdAtUnix, err := strconv.ParseInt(createdAtUnixStr, 10, 64)
	if err != nil {
		return session{}, fmt.Errorf("session created at: %w", err)
	}
	return session{
		UserID:    userID,
		CreatedAt: time.Unix(createdAtUnix, 0),
	}, nil
}

func (s session) expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.CreatedAt) > ttl
}
