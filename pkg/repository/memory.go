package repository

import (
	"context"
	"iter"
	"maps"
	"slices"
	"sync"

	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Memory is an in-memory document store. Scans iterate a snapshot taken per page so
// records may be deleted while a scan is being consumed.
type Memory struct {
	mu       sync.RWMutex
	tables   map[string]map[string]map[string]any
	pageSize int
}

// MemoryOption is a functional option for Memory
type MemoryOption func(*Memory)

// WithPageSize sets how many records a scan reads per page
func WithPageSize(n int) MemoryOption {
	return func(m *Memory) {
		if n > 0 {
			m.pageSize = n
		}
	}
}

// NewMemory creates an empty in-memory document store
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		tables:   make(map[string]map[string]map[string]any),
		pageSize: 100,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Put(ctx context.Context, table, key string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		t = make(map[string]map[string]any)
		m.tables[table] = t
	}
	t[key] = maps.Clone(data)
	return nil
}

func (m *Memory) Get(ctx context.Context, table, key string) (*model.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.tables[table][key]
	if !ok {
		return nil, goerr.Wrap(model.ErrRecordNotFound, "record not found", goerr.V("table", table), goerr.V("key", key))
	}
	return &model.Record{Table: table, Key: key, Data: maps.Clone(data)}, nil
}

func (m *Memory) Delete(ctx context.Context, table, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[table][key]; !ok {
		return goerr.Wrap(model.ErrRecordNotFound, "record not found", goerr.V("table", table), goerr.V("key", key))
	}
	delete(m.tables[table], key)
	return nil
}

func (m *Memory) DeleteIfExists(ctx context.Context, table, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tables[table], key)
	return nil
}

// Len returns the number of records in the table
func (m *Memory) Len(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}

func (m *Memory) Query(ctx context.Context, q *model.IndexQuery) iter.Seq2[*model.Record, error] {
	return func(yield func(*model.Record, error) bool) {
		var cursor string
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, goerr.Wrap(err, "scan interrupted", goerr.V("table", q.Table)))
				return
			}

			page, next := m.page(q, cursor)
			for _, rec := range page {
				if !yield(rec, nil) {
					return
				}
			}
			if next == "" {
				return
			}
			cursor = next
		}
	}
}

// page returns matching records with keys greater than cursor in key order, and the
// cursor of the next page or empty when the scan is complete
func (m *Memory) page(q *model.IndexQuery, cursor string) ([]*model.Record, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t := m.tables[q.Table]
	keys := slices.Sorted(maps.Keys(t))

	var page []*model.Record
	for _, key := range keys {
		if key <= cursor {
			continue
		}
		if !q.Match(t[key]) {
			continue
		}
		if len(page) == m.pageSize {
			return page, page[len(page)-1].Key
		}
		page = append(page, &model.Record{Table: q.Table, Key: key, Data: maps.Clone(t[key])})
	}
	return page, ""
}
