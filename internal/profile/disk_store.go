package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fitmix/backend/internal/telemetry/tracing"
	"github.com/fitmix/backend/pkg"
)

var _ ObjectStore = (*DiskStore)(nil)

// DiskStore keeps objects as files under a root folder. Used in development
// and tests, with objects served back by the media handler.
type DiskStore struct {
	rootPath      string
	publicBaseURL string
	mutex         sync.RWMutex
}

func NewDiskStore(rootPath, publicBaseURL string) (*DiskStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}

	exists, err := pkg.PathExists(rootPath, true)
	if err != nil {
		return nil, fmt.Errorf("check root path: %w", err)
	}
	if !exists {
		if err := os.MkdirAll(rootPath, 0755); err != nil {
			return nil, fmt.Errorf("create root folder: %w", err)
		}
		log.Debugf("disk store: root folder created: %s", rootPath)
	}

	return &DiskStore{
		rootPath:      rootPath,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func (ds *DiskStore) objectPath(key string) string {
	return filepath.Join(ds.rootPath, filepath.FromSlash(key))
}

func (ds *DiskStore) Put(ctx context.Context, key, contentType string, data []byte) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("object.key", key),
		attribute.Int("object.size", len(data)),
		attribute.String("object.content_type", contentType),
	)

	if err := validateKey(key); err != nil {
		return err
	}

	objectPath := ds.objectPath(key)
	if err := os.MkdirAll(filepath.Dir(objectPath), 0755); err != nil {
		return fmt.Errorf("create object folder: %w", err)
	}

	ds.mutex.Lock()
	defer ds.mutex.Unlock()

	// write to a temp file first, so readers never see a partial object
	tmp, err := os.CreateTemp(filepath.Dir(objectPath), ".upload-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
				log.Errorf("disk store: remove temp file %s: %s", tmpPath, removeErr)
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, objectPath); err != nil {
		return err
	}

	log.Debugf("disk store: object saved: %s", key)
	return nil
}

// Get returns the object content and its detected content type.
func (ds *DiskStore) Get(ctx context.Context, key string) (_ []byte, _ string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("object.key", key))

	if err := validateKey(key); err != nil {
		return nil, "", err
	}

	ds.mutex.RLock()
	defer ds.mutex.RUnlock()

	data, err := os.ReadFile(ds.objectPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", err
	}

	return data, http.DetectContentType(data), nil
}

func (ds *DiskStore) PublicURL(key string) string {
	return ds.publicBaseURL + "/" + escapeKey(key)
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
