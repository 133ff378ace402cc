package adapter

import (
	"context"
	"errors"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Storage is the interface for object deletion in a bucket
type Storage interface {
	// Delete removes an object. A missing object is not an error.
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object whose key starts with prefix and returns the count
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	// Close releases the underlying client
	Close() error
}

// storageClient implements Storage interface using Cloud Storage
type storageClient struct {
	bucketName string
	client     *storage.Client
}

// NewStorage creates a new Cloud Storage client
func NewStorage(ctx context.Context, bucketName string, opts ...option.ClientOption) (Storage, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &storageClient{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (s *storageClient) Delete(ctx context.Context, key string) error {
	obj := s.client.Bucket(s.bucketName).Object(key)
	if err := obj.Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to delete object",
			goerr.V("bucket", s.bucketName),
			goerr.V("key", key),
		)
	}
	return nil
}

func (s *storageClient) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if prefix == "" {
		return 0, goerr.New("refusing to delete with empty prefix", goerr.V("bucket", s.bucketName))
	}

	bucket := s.client.Bucket(s.bucketName)
	it := bucket.Objects(ctx, &storage.Query{Prefix: prefix})

	deleted := 0
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return deleted, goerr.Wrap(err, "failed to list objects",
				goerr.V("bucket", s.bucketName),
				goerr.V("prefix", prefix),
			)
		}

		if err := s.Delete(ctx, attrs.Name); err != nil {
			return deleted, err
		}
		deleted++
	}

	return deleted, nil
}

func (s *storageClient) Close() error {
	if err := s.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close storage client", goerr.V("bucket", s.bucketName))
	}
	return nil
}

// ObjectStore deletes conversation file blobs from a bucket
type ObjectStore struct {
	storage Storage
}

// NewObjectStore creates an ObjectStore on top of storage
func NewObjectStore(storage Storage) *ObjectStore {
	return &ObjectStore{storage: storage}
}

func (x *ObjectStore) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return goerr.New("object key is empty")
	}
	return x.storage.Delete(ctx, key)
}
