package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/agentsweep/pkg/usecase/decommission"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func inventoryCommand() *cli.Command {
	var (
		cfg         config
		workspaceID model.WorkspaceID
		agentID     model.AgentID
		showFiles   bool
	)

	flags := identityFlags(&workspaceID, &agentID)
	flags = append(flags, &cli.BoolFlag{
		Name:        "files",
		Usage:       "List conversation file keys",
		Destination: &showFiles,
	})
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:    "inventory",
		Aliases: []string{"ls"},
		Usage:   "Show what decommission would remove, without deleting anything",
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

			layout, err := cfg.newLayout()
			if err != nil {
				return err
			}

			var rel releaser
			defer rel.release(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			rel.add("firestore", repo)

			uc := decommission.New(repo, decommission.WithLayout(layout))
			inv, err := uc.Inventory(ctx, id)
			if err != nil {
				return goerr.Wrap(err, "failed to list agent resources", goerr.V("agent", id.String()))
			}

			printInventory(c.Root().Writer, inv, showFiles)
			return nil
		},
	}
}

func printInventory(w io.Writer, inv *model.Inventory, showFiles bool) {
	state := "present"
	if !inv.AgentExists {
		state = "absent"
	}
	fmt.Fprintf(w, "agent %s: %s\n", inv.Identity, state)

	for _, c := range model.Categories() {
		if !c.HasRecords() {
			continue
		}
		fmt.Fprintf(w, "  %-24s %d\n", c, inv.Records[c])
	}
	fmt.Fprintf(w, "  %-24s %d\n", "conversation-files", len(inv.FileBlobKeys))

	if showFiles {
		for _, key := range inv.FileBlobKeys {
			fmt.Fprintf(w, "    %s\n", key)
		}
	}
}
