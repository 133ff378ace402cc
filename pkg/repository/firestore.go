package repository

import (
	"context"
	"errors"
	"iter"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore implements interfaces.DocumentStore. A table is a collection and a record key
// is a document ID.
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string, opts ...option.ClientOption) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID),
			goerr.V("database", databaseID),
		)
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}

// Put writes a record, replacing any existing one. Only used to seed data.
func (r *Firestore) Put(ctx context.Context, table, key string, data map[string]any) error {
	if _, err := r.client.Collection(table).Doc(key).Set(ctx, data); err != nil {
		return goerr.Wrap(err, "failed to put record", goerr.V("table", table), goerr.V("key", key))
	}
	return nil
}

func (r *Firestore) Get(ctx context.Context, table, key string) (*model.Record, error) {
	doc, err := r.client.Collection(table).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrRecordNotFound, "record not found", goerr.V("table", table), goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get record", goerr.V("table", table), goerr.V("key", key))
	}

	return &model.Record{
		Table: table,
		Key:   doc.Ref.ID,
		Data:  doc.Data(),
	}, nil
}

func (r *Firestore) Delete(ctx context.Context, table, key string) error {
	if _, err := r.client.Collection(table).Doc(key).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrRecordNotFound, "record not found", goerr.V("table", table), goerr.V("key", key))
		}
		return goerr.Wrap(err, "failed to delete record", goerr.V("table", table), goerr.V("key", key))
	}
	return nil
}

func (r *Firestore) DeleteIfExists(ctx context.Context, table, key string) error {
	// Without a precondition Firestore accepts deletes of missing documents
	if _, err := r.client.Collection(table).Doc(key).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete record", goerr.V("table", table), goerr.V("key", key))
	}
	return nil
}

func (r *Firestore) Query(ctx context.Context, q *model.IndexQuery) iter.Seq2[*model.Record, error] {
	return func(yield func(*model.Record, error) bool) {
		query := r.client.Collection(q.Table).Where(q.Key.Field, "==", q.Key.Value)
		for _, f := range q.Filter {
			query = query.Where(f.Field, "==", f.Value)
		}

		it := query.Documents(ctx)
		defer it.Stop()

		for {
			doc, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				yield(nil, goerr.Wrap(err, "failed to iterate records",
					goerr.V("table", q.Table),
					goerr.V("key", q.Key.Field),
				))
				return
			}

			rec := &model.Record{
				Table: q.Table,
				Key:   doc.Ref.ID,
				Data:  doc.Data(),
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
