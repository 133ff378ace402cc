package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/agentsweep/pkg/adapter"
	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/agentsweep/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

var errCleanupIssues = errors.New("agent deleted with cleanup issues")

// identityFlags returns the flags naming the target agent
func identityFlags(workspaceID *model.WorkspaceID, agentID *model.AgentID) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workspace-id",
			Aliases:     []string{"w"},
			Usage:       "Workspace owning the agent",
			Sources:     cli.EnvVars("AGENTSWEEP_WORKSPACE_ID"),
			Destination: (*string)(workspaceID),
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "agent-id",
			Aliases:     []string{"a"},
			Usage:       "Agent to remove",
			Sources:     cli.EnvVars("AGENTSWEEP_AGENT_ID"),
			Destination: (*string)(agentID),
			Required:    true,
		},
	}
}

func decommissionCommand() *cli.Command {
	var (
		cfg         config
		workspaceID model.WorkspaceID
		agentID     model.AgentID
		strict      bool
		quiet       bool
	)

	flags := identityFlags(&workspaceID, &agentID)
	flags = append(flags,
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "Exit with code 2 when any cleanup phase failed",
			Destination: &strict,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "Do not show progress",
			Destination: &quiet,
		},
	)
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, cleanupFlags(&cfg)...)

	return &cli.Command{
		Name:    "decommission",
		Aliases: []string{"rm"},
		Usage:   "Delete an agent and every resource it owns",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setupLogger(ctx, os.Stderr)
			if err != nil {
				return err
			}

			id := model.AgentIdentity{WorkspaceID: workspaceID, AgentID: agentID}
			if err := id.Validate(); err != nil {
				return err
			}

			var rel releaser
			defer rel.release(ctx)

			uc, err := cfg.newUseCase(ctx, &rel)
			if err != nil {
				return err
			}

			audit, err := cfg.newAudit(ctx)
			if err != nil {
				return err
			}
			if audit != nil {
				rel.add("bigquery", audit)
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
			sp.Suffix = " removing agent " + id.String()
			if !quiet && cfg.logLevel != "debug" {
				sp.Start()
			}
			report, runErr := uc.RemoveAgentResources(ctx, id)
			sp.Stop()

			if report != nil && audit != nil {
				if err := audit.InsertAuditRecord(ctx, adapter.NewAuditRecord(report, runErr)); err != nil {
					logging.From(ctx).Warn("failed to write audit record", "error", err, "run_id", report.RunID)
				}
			}

			return finishRun(c.Root().Writer, id, report, runErr, strict)
		},
	}
}

// finishRun prints the report, including when the agent record could not be deleted, and
// turns the outcome into the command result
func finishRun(w io.Writer, id model.AgentIdentity, report *model.CleanupReport, runErr error, strict bool) error {
	if runErr != nil {
		if report != nil {
			printFailedReport(w, report)
		}
		return goerr.Wrap(runErr, "failed to delete agent", goerr.V("agent", id.String()))
	}

	printReport(w, report)
	if strict && !report.OK() {
		return goerr.Wrap(errCleanupIssues, "cleanup incomplete", goerr.V("labels", report.Labels()))
	}
	return nil
}

// printReport writes the outcome of a run for operators
func printReport(w io.Writer, report *model.CleanupReport) {
	if report.OK() {
		fmt.Fprintf(w, "agent deleted: %s (run %s)\n", report.Identity, report.RunID)
		return
	}

	fmt.Fprintf(w, "agent deleted, %d cleanup issues: %s (run %s)\n", len(report.CleanupErrors), report.Identity, report.RunID)
	printCleanupErrors(w, report)
}

// printFailedReport writes the outcome of a run whose agent record is still present
func printFailedReport(w io.Writer, report *model.CleanupReport) {
	fmt.Fprintf(w, "agent not deleted, %d cleanup issues: %s (run %s)\n", len(report.CleanupErrors), report.Identity, report.RunID)
	printCleanupErrors(w, report)
}

func printCleanupErrors(w io.Writer, report *model.CleanupReport) {
	for _, e := range report.CleanupErrors {
		fmt.Fprintf(w, "  - %s: %v\n", e.Label, e.Err)
	}
}
