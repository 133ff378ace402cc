package cli

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:      "agentsweep",
		Usage:     "Remove agents and every resource they own",
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			decommissionCommand(),
			inventoryCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		code := 1
		if errors.Is(err, errCleanupIssues) {
			code = 2
		}
		return &Error{
			Code:    code,
			Message: err.Error(),
		}
	}

	return nil
}
