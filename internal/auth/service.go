package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fitmix/backend/internal/telemetry/tracing"
	"github.com/fitmix/backend/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=users_mocks_test.go -package=auth

const DefaultTTL = 24 * 7 * time.Hour

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

type Service struct {
	usersRepo     usersRepo
	redisClient   *redis.Client
	sessionsCache *freecache.Cache
	ttl           time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
	NowFunc        func() time.Time
}

// NewAuthService creates the identity provider. sessionsCache is shared with
// the LoginChecker so signed out tokens are dropped from it; it may be nil.
func NewAuthService(
	usersRepo usersRepo,
	ttl time.Duration,
	redisClient *redis.Client,
	sessionsCache *freecache.Cache,
) *Service {
	return &Service{
		usersRepo:      usersRepo,
		ttl:            ttl,
		redisClient:    redisClient,
		sessionsCache:  sessionsCache,
		RandStringFunc: pkg.GenerateRandomString,
		NowFunc:        time.Now,
	}
}

func (as *Service) SignUp(ctx context.Context, email, password, displayName string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.signUp")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	email, err = NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := as.usersRepo.Add(ctx, User{
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: passwordHash,
		CreatedAt:    as.NowFunc().UTC(),
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return user, nil
}

// SignIn checks the credentials and opens a new session.
func (as *Service) SignIn(ctx context.Context, email, password string) (_ string, _ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.signIn")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	email, err = NormalizeEmail(email)
	if err != nil {
		return "", nil, ErrWrongCredentials
	}

	user, err := as.usersRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrWrongCredentials
		}
		return "", nil, err
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		log.Tracef("[password] failed sign in attempt for user: %s", user.ID)
		return "", nil, ErrWrongCredentials
	}

	token, err := as.login(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (as *Service) login(ctx context.Context, userID string) (string, error) {
	token, err := as.RandStringFunc(sessionTokenLen)
	if err != nil {
		return "", err
	}

	s := session{
		UserID:    userID,
		CreatedAt: as.NowFunc(),
	}

	sessionKey := sessionKeyPrefix + token
	cmdSet := as.redisClient.Set(ctx, sessionKey, s.encode(), as.ttl)
	if err := cmdSet.Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", err
	}

	return token, nil
}

// SignOut removes the session. Returns false if there was no such session.
func (as *Service) SignOut(ctx context.Context, token string) (bool, error) {
	sessionKey := sessionKeyPrefix + token

	if as.sessionsCache != nil {
		as.sessionsCache.Del([]byte(token))
	}

	cmdDel := as.redisClient.Del(ctx, sessionKey)
	if err := cmdDel.Err(); err != nil {
		return false, err
	}

	// remove token from the list of sessions
	cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, token)
	if err := cmdSRem.Err(); err != nil {
		return false, err
	}

	return cmdDel.Val() > 0, nil
}

func (as *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return as.usersRepo.Get(ctx, userID)
}

func (as *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.updateProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if update.DisplayName != nil {
		displayName := strings.TrimSpace(*update.DisplayName)
		update.DisplayName = &displayName
	}

	return as.usersRepo.UpdateProfile(ctx, userID, update)
}

// ChangePassword re-authenticates the user with the current password before
// setting the new one.
func (as *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.changePassword")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := as.usersRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	if !pkg.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrWrongCredentials
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := pkg.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return as.usersRepo.UpdatePasswordHash(ctx, userID, passwordHash)
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Infof("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	now := as.NowFunc()
	var toRemove []string
	for _, token := range sessionTokens {
		sessionKey := sessionKeyPrefix + token
		cmd := as.redisClient.Get(ctx, sessionKey)
		if err := cmd.Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				// already expired in redis
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		s, err := parseSession(cmd.Val())
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}

		if s.expired(as.ttl, now) {
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		sessionKey := sessionKeyPrefix + token
		if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}

		// remove token from the list of sessions
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}
	}
	log.Infof("=> auth service, scan and clean done, removed %d sessions", len(toRemove))
}
