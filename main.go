package main

import (
	"context"
	"os"

	"github.com/m-mizutani/agentsweep/pkg/cli"
	"github.com/m-mizutani/agentsweep/pkg/utils/logging"
)

func main() {
	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		logging.Default().Error(err.Message, "code", err.Code)
		os.Exit(err.Code)
	}
}
