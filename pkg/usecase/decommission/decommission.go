package decommission

import (
	"context"
	"time"

	"github.com/m-mizutani/agentsweep/pkg/adapter"
	"github.com/m-mizutani/agentsweep/pkg/interfaces"
	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/agentsweep/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

var ErrCollaboratorNotConfigured = goerr.New("collaborator is not configured")

// UseCase removes an agent and every resource it owns
type UseCase struct {
	store    interfaces.DocumentStore
	objects  interfaces.ObjectStore
	commands interfaces.CommandRegistrar
	vectors  interfaces.VectorIndex
	graphs   interfaces.GraphFactStore
	layout   *model.Layout
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithObjectStore sets the store of conversation file blobs
func WithObjectStore(objects interfaces.ObjectStore) Option {
	return func(uc *UseCase) {
		uc.objects = objects
	}
}

// WithCommandRegistrar replaces the default Discord client
func WithCommandRegistrar(commands interfaces.CommandRegistrar) Option {
	return func(uc *UseCase) {
		uc.commands = commands
	}
}

// WithVectorIndex sets the vector index of agents
func WithVectorIndex(vectors interfaces.VectorIndex) Option {
	return func(uc *UseCase) {
		uc.vectors = vectors
	}
}

// WithGraphFactStore sets the graph fact store of agents
func WithGraphFactStore(graphs interfaces.GraphFactStore) Option {
	return func(uc *UseCase) {
		uc.graphs = graphs
	}
}

// WithLayout replaces the default table layout
func WithLayout(layout *model.Layout) Option {
	return func(uc *UseCase) {
		uc.layout = layout
	}
}

// New creates a new decommission UseCase instance
func New(store interfaces.DocumentStore, opts ...Option) *UseCase {
	uc := &UseCase{
		store:    store,
		commands: adapter.NewDiscord(),
		layout:   model.DefaultLayout(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// RemoveAgentResources runs every cleanup phase for the agent in a fixed order, then
// deletes the agent record. Phase failures are collected in the report and never stop the
// run. The returned error is set only when the identity is invalid or the agent record
// could not be deleted; the report is returned in the latter case as well.
//
// The operation is idempotent and may be re-run after a partial failure.
func (u *UseCase) RemoveAgentResources(ctx context.Context, id model.AgentIdentity) (*model.CleanupReport, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	report := &model.CleanupReport{
		RunID:     model.NewRunID(),
		Identity:  id,
		StartedAt: time.Now(),
	}

	logger := logging.From(ctx).With(
		"run_id", report.RunID,
		"workspace_id", id.WorkspaceID,
		"agent_id", id.AgentID,
	)
	ctx = logging.With(ctx, logger)
	logger.Info("decommissioning agent")

	for _, label := range model.Categories() {
		u.runPhase(ctx, report, label, func(ctx context.Context, p *phase) error {
			return u.cleanup(ctx, p, id)
		})
	}

	// The agent record goes last so that a partial run leaves it in place for a retry
	err := u.store.DeleteIfExists(ctx, u.layout.AgentTable, id.Key())
	report.FinishedAt = time.Now()
	if err != nil {
		return report, goerr.Wrap(err, "failed to delete agent record",
			goerr.V("table", u.layout.AgentTable),
			goerr.V("key", id.Key()),
			goerr.V("run_id", report.RunID),
		)
	}

	logger.Info("agent decommissioned",
		"cleanup_errors", len(report.CleanupErrors),
		"elapsed", report.FinishedAt.Sub(report.StartedAt),
	)
	return report, nil
}

// cleanup removes every resource of one category
func (u *UseCase) cleanup(ctx context.Context, p *phase, id model.AgentIdentity) error {
	switch p.label.Lookup() {
	case model.LookupIndexFiltered, model.LookupIndexClientScoped:
		return u.deleteRecords(ctx, p, id, u.sideEffect(p.label, id))

	case model.LookupSingleKey:
		table := u.layout.Table(p.label)
		if err := u.store.DeleteIfExists(ctx, table, id.Key()); err != nil {
			return goerr.Wrap(err, "failed to delete record", goerr.V("table", table), goerr.V("key", id.Key()))
		}
		return nil

	case model.LookupCollaborator:
		return u.removeAgentMemory(ctx, p, id)
	}

	return goerr.New("unknown category", goerr.V("label", p.label))
}

func (u *UseCase) removeAgentMemory(ctx context.Context, p *phase, id model.AgentIdentity) error {
	switch p.label {
	case model.CategoryGraphFacts:
		if u.graphs == nil {
			return goerr.Wrap(ErrCollaboratorNotConfigured, "graph fact store is not configured")
		}
		if err := u.graphs.RemoveAgentFacts(ctx, id.WorkspaceID, id.AgentID); err != nil {
			return goerr.Wrap(err, "failed to remove graph facts")
		}
		return nil

	case model.CategoryVectorDatabases:
		if u.vectors == nil {
			return goerr.Wrap(ErrCollaboratorNotConfigured, "vector index is not configured")
		}
		n, err := u.vectors.RemoveAgentIndex(ctx, id.AgentID)
		p.deleted += n
		if err != nil {
			return goerr.Wrap(err, "failed to remove vector index")
		}
		return nil
	}

	return goerr.New("category has no collaborator", goerr.V("label", p.label))
}
