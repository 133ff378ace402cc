package adapter_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/agentsweep/pkg/adapter"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

type mockStorage struct {
	adapter.Storage
	deleteFunc       func(ctx context.Context, key string) error
	deletePrefixFunc func(ctx context.Context, prefix string) (int, error)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.deleteFunc(ctx, key)
}

func (m *mockStorage) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	return m.deletePrefixFunc(ctx, prefix)
}

func TestVectorIndexRemoveAgentIndex(t *testing.T) {
	var prefixes []string
	storage := &mockStorage{
		deletePrefixFunc: func(ctx context.Context, prefix string) (int, error) {
			prefixes = append(prefixes, prefix)
			return 3, nil
		},
	}

	t.Run("default prefix", func(t *testing.T) {
		n, err := adapter.NewVectorIndex(storage, "").RemoveAgentIndex(context.Background(), "agent-1")
		gt.NoError(t, err)
		gt.Equal(t, n, 3)
	})

	t.Run("custom prefix without slash", func(t *testing.T) {
		_, err := adapter.NewVectorIndex(storage, "tenants/vectors").RemoveAgentIndex(context.Background(), "agent-1")
		gt.NoError(t, err)
	})

	gt.Equal(t, prefixes, []string{"vectordb/agent-1/", "tenants/vectors/agent-1/"})
}

func TestGraphFactStoreRemoveAgentFacts(t *testing.T) {
	var keys []string
	storage := &mockStorage{
		deleteFunc: func(ctx context.Context, key string) error {
			keys = append(keys, key)
			if key == "graphs/ws-bad/a1/facts.parquet" {
				return goerr.New("permission denied")
			}
			return nil
		},
	}

	store := adapter.NewGraphFactStore(storage, "")
	gt.NoError(t, store.RemoveAgentFacts(context.Background(), "ws1", "a1"))
	gt.Error(t, store.RemoveAgentFacts(context.Background(), "ws-bad", "a1"))
	gt.Equal(t, keys, []string{"graphs/ws1/a1/facts.parquet", "graphs/ws-bad/a1/facts.parquet"})
}

func TestObjectStoreDeleteObject(t *testing.T) {
	var keys []string
	storage := &mockStorage{
		deleteFunc: func(ctx context.Context, key string) error {
			keys = append(keys, key)
			return nil
		},
	}

	objects := adapter.NewObjectStore(storage)
	gt.NoError(t, objects.DeleteObject(context.Background(), "conversation-files/ws1/a.png"))
	gt.Error(t, objects.DeleteObject(context.Background(), ""))
	gt.Equal(t, keys, []string{"conversation-files/ws1/a.png"})
}
