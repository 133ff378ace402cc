package adapter

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// BigQuery is an interface for the decommissioning audit log
type BigQuery interface {
	// InsertAuditRecord appends one audit row to the audit table
	InsertAuditRecord(ctx context.Context, record *AuditRecord) error
	// Close releases the underlying client
	Close() error
}

// AuditRecord is one row of the audit table, written once per decommissioning run
type AuditRecord struct {
	RunID         string    `bigquery:"run_id"`
	WorkspaceID   string    `bigquery:"workspace_id"`
	AgentID       string    `bigquery:"agent_id"`
	StartedAt     time.Time `bigquery:"started_at"`
	FinishedAt    time.Time `bigquery:"finished_at"`
	AgentDeleted  bool      `bigquery:"agent_deleted"`
	ErrorCount    int       `bigquery:"error_count"`
	ErrorLabels   []string  `bigquery:"error_labels"`
	ErrorMessages []string  `bigquery:"error_messages"`
	FatalError    string    `bigquery:"fatal_error"`
}

// NewAuditRecord builds the audit row of a run. fatal is the error returned by the run, if any.
func NewAuditRecord(report *model.CleanupReport, fatal error) *AuditRecord {
	record := &AuditRecord{
		RunID:         string(report.RunID),
		WorkspaceID:   string(report.Identity.WorkspaceID),
		AgentID:       string(report.Identity.AgentID),
		StartedAt:     report.StartedAt,
		FinishedAt:    report.FinishedAt,
		AgentDeleted:  fatal == nil,
		ErrorCount:    len(report.CleanupErrors),
		ErrorLabels:   []string{},
		ErrorMessages: []string{},
	}
	for _, e := range report.CleanupErrors {
		record.ErrorLabels = append(record.ErrorLabels, string(e.Label))
		record.ErrorMessages = append(record.ErrorMessages, strings.TrimSpace(e.Err.Error()))
	}
	if fatal != nil {
		record.FatalError = fatal.Error()
	}
	return record
}

type bigqueryClient struct {
	client  *bigquery.Client
	dataset string
	table   string
}

// NewBigQuery creates a new BigQuery audit client writing to dataset.table
func NewBigQuery(ctx context.Context, projectID, dataset, table string, opts ...option.ClientOption) (BigQuery, error) {
	if dataset == "" || table == "" {
		return nil, goerr.New("dataset and table are required",
			goerr.V("dataset", dataset),
			goerr.V("table", table),
		)
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client")
	}

	return &bigqueryClient{
		client:  client,
		dataset: dataset,
		table:   table,
	}, nil
}

func (bq *bigqueryClient) InsertAuditRecord(ctx context.Context, record *AuditRecord) error {
	inserter := bq.client.Dataset(bq.dataset).Table(bq.table).Inserter()
	if err := inserter.Put(ctx, []*AuditRecord{record}); err != nil {
		return goerr.Wrap(err, "failed to insert audit record",
			goerr.V("dataset", bq.dataset),
			goerr.V("table", bq.table),
			goerr.V("run_id", record.RunID),
		)
	}
	return nil
}

func (bq *bigqueryClient) Close() error {
	if err := bq.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close BigQuery client")
	}
	return nil
}
