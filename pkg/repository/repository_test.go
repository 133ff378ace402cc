package repository_test

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/agentsweep/pkg/interfaces"
	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/agentsweep/pkg/repository"
	"github.com/m-mizutani/gt"
)

type seedableStore interface {
	interfaces.DocumentStore
	Put(ctx context.Context, table, key string, data map[string]any) error
}

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func collectKeys(t *testing.T, store interfaces.DocumentStore, q *model.IndexQuery) []string {
	var keys []string
	for rec, err := range store.Query(context.Background(), q) {
		gt.NoError(t, err)
		keys = append(keys, rec.Key)
	}
	sort.Strings(keys)
	return keys
}

func testDocumentStore(t *testing.T, store seedableStore) {
	ctx := context.Background()
	// Unique table names keep runs against a shared database apart
	table := "test-" + uuid.NewString()

	seed := map[string]map[string]any{
		"k1": {"workspaceId": "ws1", "agentId": "a1"},
		"k2": {"workspaceId": "ws1", "agentId": "a1"},
		"k3": {"workspaceId": "ws2", "agentId": "a1"},
		"k4": {"workspaceId": "ws1", "agentId": "a2"},
	}
	for key, data := range seed {
		gt.NoError(t, store.Put(ctx, table, key, data))
	}

	t.Run("get existing record", func(t *testing.T) {
		rec, err := store.Get(ctx, table, "k1")
		gt.NoError(t, err)
		gt.Equal(t, rec.Key, "k1")
		gt.Equal(t, rec.Table, table)
		gt.Equal(t, rec.Field("agentId"), "a1")
	})

	t.Run("get missing record", func(t *testing.T) {
		_, err := store.Get(ctx, table, "missing")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrRecordNotFound))
	})

	t.Run("query by partition key", func(t *testing.T) {
		keys := collectKeys(t, store, &model.IndexQuery{
			Table: table,
			Key:   model.Condition{Field: "agentId", Value: "a1"},
		})
		gt.Equal(t, keys, []string{"k1", "k2", "k3"})
	})

	t.Run("query with filter expression", func(t *testing.T) {
		keys := collectKeys(t, store, &model.IndexQuery{
			Table:  table,
			Key:    model.Condition{Field: "agentId", Value: "a1"},
			Filter: []model.Condition{{Field: "workspaceId", Value: "ws1"}},
		})
		gt.Equal(t, keys, []string{"k1", "k2"})
	})

	t.Run("query unknown table", func(t *testing.T) {
		keys := collectKeys(t, store, &model.IndexQuery{
			Table: table + "-none",
			Key:   model.Condition{Field: "agentId", Value: "a1"},
		})
		gt.A(t, keys).Length(0)
	})

	t.Run("delete while scanning", func(t *testing.T) {
		q := &model.IndexQuery{
			Table: table,
			Key:   model.Condition{Field: "agentId", Value: "a2"},
		}
		for rec, err := range store.Query(ctx, q) {
			gt.NoError(t, err)
			gt.NoError(t, store.DeleteIfExists(ctx, table, rec.Key))
		}
		gt.A(t, collectKeys(t, store, q)).Length(0)
	})

	t.Run("strict delete of missing record fails", func(t *testing.T) {
		gt.NoError(t, store.Delete(ctx, table, "k3"))
		err := store.Delete(ctx, table, "k3")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrRecordNotFound))
	})

	t.Run("delete if exists tolerates missing record", func(t *testing.T) {
		gt.NoError(t, store.DeleteIfExists(ctx, table, "k2"))
		gt.NoError(t, store.DeleteIfExists(ctx, table, "k2"))
		_, err := store.Get(ctx, table, "k2")
		gt.True(t, errors.Is(err, model.ErrRecordNotFound))
	})

	t.Run("cleanup", func(t *testing.T) {
		for key := range seed {
			gt.NoError(t, store.DeleteIfExists(ctx, table, key))
		}
	})
}

func TestMemory(t *testing.T) {
	testDocumentStore(t, repository.NewMemory())
}

func TestMemorySmallPages(t *testing.T) {
	testDocumentStore(t, repository.NewMemory(repository.WithPageSize(1)))
}

func TestFirestore(t *testing.T) {
	testDocumentStore(t, setupFirestore(t))
}
