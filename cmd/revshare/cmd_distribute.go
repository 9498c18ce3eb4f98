package main

import (
	"github.com/spf13/cobra"

	"revshare/application/commands"
	"revshare/pkg/common"
)

func runDistribute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if flagTask != "" {
		ctx = common.WithTriggerID(ctx, flagTask)
	}

	container, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer container.Logger.Sync()

	amount, err := resolveMoney(flagAmount, container.Config.DefaultRevenueAmount)
	if err != nil {
		return err
	}

	return container.CommandBus.Send(ctx, commands.DistributeRevenueCommand{
		TriggerTask: flagTask,
		Amount:      amount,
		OutputPath:  flagOutput,
		Debug:       flagDebug,
	})
}

func runAPIRevenue(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	container, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer container.Logger.Sync()

	perCall, err := resolveMoney(flagPerCall, container.Config.RevenuePerCallAmount)
	if err != nil {
		return err
	}

	return container.CommandBus.Send(ctx, commands.DistributeAPIRevenueCommand{
		RevenuePerCall: perCall,
		OutputPath:     flagOutput,
		Debug:          flagDebug,
	})
}
