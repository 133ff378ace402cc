package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/agentsweep/pkg/adapter"
	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/agentsweep/pkg/repository"
	"github.com/m-mizutani/agentsweep/pkg/usecase/decommission"
	"github.com/m-mizutani/agentsweep/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Repository
	project    string
	database   string
	layoutPath string

	// Object storage
	bucket       string
	vectorPrefix string
	graphPrefix  string

	// Adapters
	discordAPIBase string
	auditDataset   string
	auditTable     string

	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "layout",
			Usage:       "Path to YAML file overriding table and field names",
			Sources:     cli.EnvVars("AGENTSWEEP_LAYOUT"),
			Destination: &cfg.layoutPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("AGENTSWEEP_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// cleanupFlags returns flags only needed when resources are actually removed
func cleanupFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket of conversation files, vector databases and graph facts",
			Sources:     cli.EnvVars("AGENTSWEEP_BUCKET"),
			Destination: &cfg.bucket,
		},
		&cli.StringFlag{
			Name:        "vector-prefix",
			Usage:       "Object prefix of agent vector databases",
			Value:       "vectordb/",
			Sources:     cli.EnvVars("AGENTSWEEP_VECTOR_PREFIX"),
			Destination: &cfg.vectorPrefix,
		},
		&cli.StringFlag{
			Name:        "graph-prefix",
			Usage:       "Object prefix of agent graph fact files",
			Value:       "graphs/",
			Sources:     cli.EnvVars("AGENTSWEEP_GRAPH_PREFIX"),
			Destination: &cfg.graphPrefix,
		},
		&cli.StringFlag{
			Name:        "discord-api-base",
			Usage:       "Discord API base URL",
			Sources:     cli.EnvVars("AGENTSWEEP_DISCORD_API_BASE"),
			Destination: &cfg.discordAPIBase,
		},
		&cli.StringFlag{
			Name:        "audit-dataset",
			Usage:       "BigQuery dataset of the audit table",
			Sources:     cli.EnvVars("AGENTSWEEP_AUDIT_DATASET"),
			Destination: &cfg.auditDataset,
		},
		&cli.StringFlag{
			Name:        "audit-table",
			Usage:       "BigQuery table receiving one row per run",
			Sources:     cli.EnvVars("AGENTSWEEP_AUDIT_TABLE"),
			Destination: &cfg.auditTable,
		},
	}
}

// setupLogger installs the logger for the command and attaches it to ctx
func (cfg *config) setupLogger(ctx context.Context, w io.Writer) (context.Context, error) {
	if _, err := logging.ParseLevel(cfg.logLevel); err != nil {
		return ctx, err
	}
	logger := logging.New(cfg.logLevel, w)
	logging.SetDefault(logger)
	return logging.With(ctx, logger), nil
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (*repository.Firestore, error) {
	if cfg.project == "" {
		return nil, goerr.New("project is required")
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newStorage creates a new Storage adapter instance, nil if no bucket is configured
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket == "" {
		return nil, nil
	}

	storage, err := adapter.NewStorage(ctx, cfg.bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage", goerr.V("bucket", cfg.bucket))
	}
	return storage, nil
}

// newAudit creates the audit sink, nil if no audit table is configured
func (cfg *config) newAudit(ctx context.Context) (adapter.BigQuery, error) {
	if cfg.auditTable == "" {
		return nil, nil
	}
	if cfg.auditDataset == "" {
		return nil, goerr.New("audit-dataset is required with audit-table")
	}

	bq, err := adapter.NewBigQuery(ctx, cfg.project, cfg.auditDataset, cfg.auditTable)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create audit client")
	}
	return bq, nil
}

func (cfg *config) newLayout() (*model.Layout, error) {
	return loadLayout(cfg.layoutPath)
}

// newUseCase wires the decommission use case. Clients it opens are added to rel.
func (cfg *config) newUseCase(ctx context.Context, rel *releaser) (*decommission.UseCase, error) {
	layout, err := cfg.newLayout()
	if err != nil {
		return nil, err
	}

	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, err
	}
	rel.add("firestore", repo)

	opts := []decommission.Option{
		decommission.WithLayout(layout),
		decommission.WithCommandRegistrar(adapter.NewDiscord(adapter.WithDiscordBaseURL(cfg.discordAPIBase))),
	}

	storage, err := cfg.newStorage(ctx)
	if err != nil {
		return nil, err
	}
	if storage != nil {
		rel.add("storage", storage)
		opts = append(opts,
			decommission.WithObjectStore(adapter.NewObjectStore(storage)),
			decommission.WithVectorIndex(adapter.NewVectorIndex(storage, cfg.vectorPrefix)),
			decommission.WithGraphFactStore(adapter.NewGraphFactStore(storage, cfg.graphPrefix)),
		)
	} else {
		logging.From(ctx).Warn("bucket is not set, conversation files and agent memory will not be removed")
	}

	return decommission.New(repo, opts...), nil
}
