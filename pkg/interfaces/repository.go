package interfaces

import (
	"context"
	"iter"

	"github.com/m-mizutani/agentsweep/pkg/model"
)

// DocumentStore defines the document store holding agents and their dependent records
type DocumentStore interface {
	// Get retrieves a record by key. Returns model.ErrRecordNotFound if absent.
	Get(ctx context.Context, table, key string) (*model.Record, error)

	// Delete removes a record. Returns model.ErrRecordNotFound if absent.
	Delete(ctx context.Context, table, key string) error

	// DeleteIfExists removes a record, treating an absent record as success
	DeleteIfExists(ctx context.Context, table, key string) error

	// Query scans records through a secondary index. Each call starts a new scan; pages
	// are fetched as the sequence is consumed. A failure is yielded once and ends the scan.
	Query(ctx context.Context, q *model.IndexQuery) iter.Seq2[*model.Record, error]
}
