package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/storage/v1"

	"github.com/fitmix/backend/internal/telemetry/tracing"
)

const gcsPublicHost = "https://storage.googleapis.com"

var _ ObjectStore = (*GCSStore)(nil)

// GCSStore keeps objects in a Google Cloud Storage bucket.
type GCSStore struct {
	service       *storage.Service
	bucket        string
	publicBaseURL string
}

// NewGCSStore creates the store. Credentials are resolved by the client
// options, application default credentials when none are given.
func NewGCSStore(ctx context.Context, bucket, publicBaseURL string, opts ...option.ClientOption) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("bucket cannot be empty")
	}

	service, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("new storage service: %w", err)
	}

	if publicBaseURL == "" {
		publicBaseURL = gcsPublicHost + "/" + bucket
	}

	return &GCSStore{
		service:       service,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func (gs *GCSStore) Put(ctx context.Context, key, contentType string, data []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gcsStore.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("object.bucket", gs.bucket),
		attribute.String("object.key", key),
		attribute.Int("object.size", len(data)),
	)

	if err := validateKey(key); err != nil {
		return err
	}

	object := &storage.Object{
		Name:         key,
		ContentType:  contentType,
		CacheControl: "public, max-age=300",
	}

	if _, err := gs.service.Objects.
		Insert(gs.bucket, object).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("insert object %s: %w", key, err)
	}

	return nil
}

func (gs *GCSStore) PublicURL(key string) string {
	return gs.publicBaseURL + "/" + escapeKey(key)
}
