package auth

import "context"

// LoginTestChecker maps tokens to user ids, without redis.
type LoginTestChecker struct {
	Sessions map[string]string
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		Sessions: map[string]string{},
	}
}

func (c *LoginTestChecker) UserID(_ context.Context, token string) (string, error) {
	userID, ok := c.Sessions[token]
	if !ok || userID == "" {
		return "", ErrNotLoggedIn
	}
	return userID, nil
}
