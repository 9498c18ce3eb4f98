package main

import (
	"github.com/spf13/cobra"

	"revshare/application/commands"
)

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	container, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer container.Logger.Sync()

	return container.CommandBus.Send(ctx, commands.GenerateSeedCommand{
		OutputPath: flagSeedOutput,
	})
}
