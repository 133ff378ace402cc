package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type RunID string

// NewRunID generates a new unique RunID
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// CleanupError is the failure of one cleanup phase
type CleanupError struct {
	Label Category
	Err   error
}

func (x *CleanupError) Error() string {
	return string(x.Label) + ": " + x.Err.Error()
}

func (x *CleanupError) Unwrap() error {
	return x.Err
}

// CleanupReport is the outcome of a decommissioning run. Only phase failures are listed;
// best-effort side effects that failed are logged, not reported.
type CleanupReport struct {
	RunID      RunID
	Identity   AgentIdentity
	StartedAt  time.Time
	FinishedAt time.Time

	CleanupErrors []*CleanupError
}

// OK reports whether every phase succeeded
func (x *CleanupReport) OK() bool {
	return len(x.CleanupErrors) == 0
}

// Err joins all cleanup errors, nil when the run fully succeeded
func (x *CleanupReport) Err() error {
	if x.OK() {
		return nil
	}
	errs := make([]error, 0, len(x.CleanupErrors))
	for _, e := range x.CleanupErrors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// Labels returns the labels of the failed phases in run order
func (x *CleanupReport) Labels() []Category {
	labels := make([]Category, 0, len(x.CleanupErrors))
	for _, e := range x.CleanupErrors {
		labels = append(labels, e.Label)
	}
	return labels
}

// Inventory is the read-only view of what a decommissioning run would remove
type Inventory struct {
	Identity     AgentIdentity
	AgentExists  bool
	Records      map[Category]int
	FileBlobKeys []string
}
