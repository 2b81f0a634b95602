// Package storage implements the durable blob store client on top of S3.
//
// Objects are stored under keys of the form <uuid>/<sanitized file name>, so
// repeated uploads of identically titled tracks never collide and every
// upload mints a fresh key. The pipeline never deduplicates audio content:
// each acquisition is a new stored object.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/soundvault/soundvault/internal/shared"
)

// s3API is the subset of the S3 client the store uses; satisfied by
// [s3.Client] and by fakes in tests.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store uploads local files to a single S3 bucket and enumerates its keys.
type Store struct {
	client s3API
	bucket string

	// newID mints key prefixes; defaults to uuid v4, overridden in tests.
	newID func() string
}

// NewStore builds a Store from the storage configuration, using static
// credentials the way the original deployment supplies them.
func NewStore(ctx context.Context, cfg shared.StorageConfig) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %v", shared.ErrInvalidConfig, err)
	}

	return NewStoreWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket), nil
}

// NewStoreWithClient builds a Store around an existing client. Tests inject
// fakes here.
func NewStoreWithClient(client s3API, bucket string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		newID:  shared.GenerateID,
	}
}

// Bucket returns the destination bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// URI returns the s3:// address for a stored key.
func (s *Store) URI(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}

// Put uploads the file at localPath under a freshly minted key derived from
// name (the track title plus extension). Every call produces a new key, even
// for identical inputs.
//
// Failure classes: shared.ErrSourceMissing when the local file is absent
// (an upstream cleanup bug, never retried), shared.ErrAuthFailed for
// credential problems (never retried), shared.ErrTransientIO otherwise.
func (s *Store) Put(ctx context.Context, localPath, name string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", shared.ErrSourceMissing, localPath)
		}
		return "", fmt.Errorf("%w: opening %s: %v", shared.ErrTransientIO, localPath, err)
	}
	defer f.Close()

	if name == "" {
		name = filepath.Base(localPath)
	}
	key := fmt.Sprintf("%s/%s", s.newID(), shared.SanitizeFileName(name))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", classify(err)
	}

	return key, nil
}

// Keys enumerates every object key in the bucket. Pagination is internal:
// callers always see the full, finite listing from the start.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		for _, object := range page.Contents {
			if object.Key != nil {
				keys = append(keys, *object.Key)
			}
		}
	}

	return keys, nil
}

// Delete removes a stored object. Administrative only: no pipeline workflow
// calls it.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// classify maps an S3 error onto the store's failure taxonomy.
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "AccessDenied", "ExpiredToken", "TokenRefreshRequired":
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
	}
	return fmt.Errorf("%w: %v", shared.ErrTransientIO, err)
}
