package profile

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fitmix/backend/internal/auth"
	"github.com/fitmix/backend/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=profile_mocks_test.go -package=profile_test

const (
	MaxImageSize       = 5 << 20
	profileImagePrefix = "profile_images/"
)

var (
	ErrInvalidImage  = errors.New("invalid image")
	ErrImageTooLarge = errors.New("image too large")
)

type usersService interface {
	GetUser(ctx context.Context, userID string) (*auth.User, error)
	UpdateProfile(ctx context.Context, userID string, update auth.ProfileUpdate) (*auth.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type Service struct {
	users usersService
	store ObjectStore
}

func NewService(users usersService, store ObjectStore) *Service {
	return &Service{
		users: users,
		store: store,
	}
}

func (s *Service) Get(ctx context.Context, userID string) (*auth.User, error) {
	return s.users.GetUser(ctx, userID)
}

func (s *Service) SetDisplayName(ctx context.Context, userID, displayName string) (*auth.User, error) {
	return s.users.UpdateProfile(ctx, userID, auth.ProfileUpdate{DisplayName: &displayName})
}

func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	return s.users.ChangePassword(ctx, userID, currentPassword, newPassword)
}

// UploadImage stores the base64 encoded image as the user's profile image and
// returns its public URL. A "data:<mime>;base64," prefix is accepted.
func (s *Service) UploadImage(ctx context.Context, userID, blob string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.uploadImage")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	data, err := DecodeImage(blob)
	if err != nil {
		return "", err
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: content type %s", ErrInvalidImage, contentType)
	}
	span.SetAttributes(
		attribute.String("image.content_type", contentType),
		attribute.Int("image.size", len(data)),
	)

	key := ImageKey(userID)
	if err := s.store.Put(ctx, key, contentType, data); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	photoURL := s.store.PublicURL(key)
	if _, err := s.users.UpdateProfile(ctx, userID, auth.ProfileUpdate{PhotoURL: &photoURL}); err != nil {
		return "", fmt.Errorf("update photo url: %w", err)
	}

	log.Debugf("profile image uploaded for user %s: %s", userID, contentType)
	return photoURL, nil
}

func ImageKey(userID string) string {
	return profileImagePrefix + userID
}

// DecodeImage decodes a base64 blob, with or without a data URL prefix.
func DecodeImage(blob string) ([]byte, error) {
	blob = strings.TrimSpace(blob)
	if strings.HasPrefix(blob, "data:") {
		idx := strings.Index(blob, ",")
		if idx < 0 || !strings.HasSuffix(blob[:idx], ";base64") {
			return nil, fmt.Errorf("%w: malformed data url", ErrInvalidImage)
		}
		blob = blob[idx+1:]
	}
	if blob == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidImage)
	}

	if base64.StdEncoding.DecodedLen(len(blob)) > MaxImageSize+3 {
		return nil, ErrImageTooLarge
	}

	encoding := base64.StdEncoding
	if !strings.HasSuffix(blob, "=") && len(blob)%4 != 0 {
		encoding = base64.RawStdEncoding
	}
	data, err := encoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	return data, nil
}
