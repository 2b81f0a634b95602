package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/soundvault/soundvault/internal/shared"
)

// fakeS3 records puts and serves paginated listings.
type fakeS3 struct {
	putKeys   []string
	putErr    error
	pages     [][]string
	listErr   error
	deleted   []string
	deleteErr error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.putKeys = append(f.putKeys, aws.ToString(params.Key))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	pageIdx := 0
	if tok := aws.ToString(params.ContinuationToken); tok != "" {
		fmt.Sscanf(tok, "page-%d", &pageIdx)
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if pageIdx < len(f.pages) {
		for _, key := range f.pages[pageIdx] {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		}
	}
	if pageIdx+1 < len(f.pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(fmt.Sprintf("page-%d", pageIdx+1))
	}
	return out, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleted = append(f.deleted, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func writeLocalFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("audio-bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPut(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads under a uuid-prefixed sanitized key", func(t *testing.T) {
		fake := &fakeS3{}
		store := NewStoreWithClient(fake, "songs")
		store.newID = func() string { return "3fa1b2c3" }

		path := writeLocalFile(t, "acq.webm")
		key, err := store.Put(ctx, path, "Bohemian Rhapsody.webm")
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if key != "3fa1b2c3/Bohemian Rhapsody.webm" {
			t.Errorf("key = %q", key)
		}
		if len(fake.putKeys) != 1 || fake.putKeys[0] != key {
			t.Errorf("uploaded keys = %v", fake.putKeys)
		}
	})

	t.Run("sanitizes hostile names", func(t *testing.T) {
		fake := &fakeS3{}
		store := NewStoreWithClient(fake, "songs")
		store.newID = func() string { return "prefix" }

		path := writeLocalFile(t, "acq.webm")
		key, err := store.Put(ctx, path, "../evil/name.webm")
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if strings.Count(key, "/") != 1 {
			t.Errorf("sanitized key still nests: %q", key)
		}
	})

	t.Run("repeated uploads of the same name mint distinct keys", func(t *testing.T) {
		fake := &fakeS3{}
		store := NewStoreWithClient(fake, "songs")
		path := writeLocalFile(t, "acq.webm")

		const n = 1000
		seen := make(map[string]bool, n)
		for i := 0; i < n; i++ {
			key, err := store.Put(ctx, path, "Same Title.webm")
			if err != nil {
				t.Fatalf("Put %d failed: %v", i, err)
			}
			if seen[key] {
				t.Fatalf("duplicate key after %d uploads: %s", i, key)
			}
			seen[key] = true
		}
	})

	t.Run("missing local file is ErrSourceMissing", func(t *testing.T) {
		store := NewStoreWithClient(&fakeS3{}, "songs")

		_, err := store.Put(ctx, filepath.Join(t.TempDir(), "gone.webm"), "gone.webm")
		if !errors.Is(err, shared.ErrSourceMissing) {
			t.Errorf("expected ErrSourceMissing, got %v", err)
		}
	})

	t.Run("credential failure is ErrAuthFailed", func(t *testing.T) {
		fake := &fakeS3{putErr: &smithy.GenericAPIError{Code: "InvalidAccessKeyId", Message: "bad key"}}
		store := NewStoreWithClient(fake, "songs")

		_, err := store.Put(ctx, writeLocalFile(t, "acq.webm"), "x.webm")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("other provider errors are ErrTransientIO", func(t *testing.T) {
		fake := &fakeS3{putErr: &smithy.GenericAPIError{Code: "SlowDown", Message: "throttled"}}
		store := NewStoreWithClient(fake, "songs")

		_, err := store.Put(ctx, writeLocalFile(t, "acq.webm"), "x.webm")
		if !errors.Is(err, shared.ErrTransientIO) {
			t.Errorf("expected ErrTransientIO, got %v", err)
		}
	})
}

func TestKeys(t *testing.T) {
	ctx := context.Background()

	t.Run("walks every page", func(t *testing.T) {
		fake := &fakeS3{pages: [][]string{
			{"a/one.webm", "b/two.webm"},
			{"c/three.webm"},
			{"d/four.webm", "e/five.webm"},
		}}
		store := NewStoreWithClient(fake, "songs")

		keys, err := store.Keys(ctx)
		if err != nil {
			t.Fatalf("Keys failed: %v", err)
		}
		if len(keys) != 5 {
			t.Fatalf("expected 5 keys across pages, got %d: %v", len(keys), keys)
		}
		if keys[0] != "a/one.webm" || keys[4] != "e/five.webm" {
			t.Errorf("unexpected ordering: %v", keys)
		}
	})

	t.Run("empty bucket yields no keys", func(t *testing.T) {
		store := NewStoreWithClient(&fakeS3{pages: [][]string{{}}}, "songs")
		keys, err := store.Keys(ctx)
		if err != nil {
			t.Fatalf("Keys failed: %v", err)
		}
		if len(keys) != 0 {
			t.Errorf("expected empty listing, got %v", keys)
		}
	})

	t.Run("provider failure is classified", func(t *testing.T) {
		fake := &fakeS3{listErr: &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"}}
		store := NewStoreWithClient(fake, "songs")

		if _, err := store.Keys(ctx); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}

func TestDelete(t *testing.T) {
	fake := &fakeS3{}
	store := NewStoreWithClient(fake, "songs")

	if err := store.Delete(context.Background(), "a/one.webm"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "a/one.webm" {
		t.Errorf("deleted = %v", fake.deleted)
	}
}

func TestURI(t *testing.T) {
	store := NewStoreWithClient(&fakeS3{}, "bucket")
	if got := store.URI("3fa1/Bohemian Rhapsody.webm"); got != "s3://bucket/3fa1/Bohemian Rhapsody.webm" {
		t.Errorf("URI = %q", got)
	}
}
