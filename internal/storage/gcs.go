package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// objectIterator is satisfied by *storage.ObjectIterator
type objectIterator interface {
	Next() (*storage.ObjectAttrs, error)
}

// bucket is the part of a GCS bucket the storage needs
type bucket interface {
	Objects(ctx context.Context, q *storage.Query) objectIterator
	Delete(ctx context.Context, name string) error
}

type gcsBucket struct {
	handle *storage.BucketHandle
}

func (b gcsBucket) Objects(ctx context.Context, q *storage.Query) objectIterator {
	return b.handle.Objects(ctx, q)
}

func (b gcsBucket) Delete(ctx context.Context, name string) error {
	return b.handle.Object(name).Delete(ctx)
}

// GCSStorage implements the Storage interface for Google Cloud Storage.
// A bundle is every object under "<prefix>/<asset>.movpkg/".
type GCSStorage struct {
	client       *storage.Client
	bucket       bucket
	bucketName   string
	objectPrefix string
	ctx          context.Context
}

// NewGCSStorage creates a new GCSStorage instance
func NewGCSStorage(ctx context.Context, bucketName, objectPrefix, credentialsFile string) (*GCSStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFile != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		// Use application default credentials
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	s := newGCSStorage(ctx, gcsBucket{handle: client.Bucket(bucketName)}, bucketName, objectPrefix)
	s.client = client
	return s, nil
}

func newGCSStorage(ctx context.Context, b bucket, bucketName, objectPrefix string) *GCSStorage {
	return &GCSStorage{
		bucket:       b,
		bucketName:   bucketName,
		objectPrefix: strings.Trim(objectPrefix, "/"),
		ctx:          ctx,
	}
}

// AssetPath returns the object prefix of the downloaded bundle for an asset
func (s *GCSStorage) AssetPath(assetName string) string {
	return s.objectName(FileName(assetName))
}

// FileExists checks if any object of the bundle exists
func (s *GCSStorage) FileExists(p string) bool {
	it := s.bucket.Objects(s.ctx, &storage.Query{Prefix: s.bundlePrefix(p)})
	_, err := it.Next()
	return err == nil
}

// Remove deletes every object of the bundle; a missing bundle is not an error
func (s *GCSStorage) Remove(p string) error {
	it := s.bucket.Objects(s.ctx, &storage.Query{Prefix: s.bundlePrefix(p)})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("error listing objects: %w", err)
		}
		names = append(names, attrs.Name)
	}

	for _, name := range names {
		err := s.bucket.Delete(s.ctx, name)
		if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("failed to delete object %s: %w", name, err)
		}
	}
	return nil
}

// ListBundles lists the bundle prefixes directly under the object prefix
func (s *GCSStorage) ListBundles() ([]string, error) {
	prefix := ""
	if s.objectPrefix != "" {
		prefix = s.objectPrefix + "/"
	}

	it := s.bucket.Objects(s.ctx, &storage.Query{
		Prefix:    prefix,
		Delimiter: "/",
	})

	var results []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing objects: %w", err)
		}

		// Bundles show up as synthetic directory entries
		name := strings.TrimSuffix(attrs.Prefix, "/")
		if name == "" || !strings.HasSuffix(name, "."+PackageExt) {
			continue
		}
		results = append(results, name)
	}

	return results, nil
}

// Locator returns the gs:// URL of the bundle
func (s *GCSStorage) Locator(p string) string {
	return "gs://" + s.bucketName + "/" + s.objectName(p)
}

// Close closes the GCS client
func (s *GCSStorage) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *GCSStorage) bundlePrefix(p string) string {
	return strings.TrimSuffix(s.objectName(p), "/") + "/"
}

func (s *GCSStorage) objectName(p string) string {
	p = strings.TrimPrefix(p, "/")
	if s.objectPrefix == "" || p == s.objectPrefix || strings.HasPrefix(p, s.objectPrefix+"/") {
		return p
	}
	if p == "" {
		return s.objectPrefix
	}
	return s.objectPrefix + "/" + p
}
