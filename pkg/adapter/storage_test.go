package adapter_test

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/m-mizutani/agentsweep/pkg/adapter"
	"github.com/m-mizutani/gt"
)

func TestStorage(t *testing.T) {
	bucket := os.Getenv("TEST_STORAGE_BUCKET")
	if bucket == "" {
		t.Skip("TEST_STORAGE_BUCKET is not set")
	}

	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	gt.NoError(t, err)
	defer client.Close()

	prefix := "agentsweep-test/" + uuid.NewString() + "/"
	for _, name := range []string{"a.bin", "b.bin", "nested/c.bin"} {
		w := client.Bucket(bucket).Object(prefix + name).NewWriter(ctx)
		_, err := w.Write([]byte("x"))
		gt.NoError(t, err)
		gt.NoError(t, w.Close())
	}

	s, err := adapter.NewStorage(ctx, bucket)
	gt.NoError(t, err)
	defer func() {
		gt.NoError(t, s.Close())
	}()

	t.Run("delete one object", func(t *testing.T) {
		gt.NoError(t, s.Delete(ctx, prefix+"a.bin"))
	})

	t.Run("delete missing object", func(t *testing.T) {
		gt.NoError(t, s.Delete(ctx, prefix+"a.bin"))
	})

	t.Run("delete prefix", func(t *testing.T) {
		n, err := s.DeletePrefix(ctx, prefix)
		gt.NoError(t, err)
		gt.Equal(t, n, 2)

		n, err = s.DeletePrefix(ctx, prefix)
		gt.NoError(t, err)
		gt.Equal(t, n, 0)
	})

	t.Run("empty prefix is refused", func(t *testing.T) {
		_, err := s.DeletePrefix(ctx, "")
		gt.Error(t, err)
	})
}
