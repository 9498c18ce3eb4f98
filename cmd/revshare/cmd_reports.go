package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"revshare/application/queries"
	"revshare/application/reports"
	"revshare/pkg/common"
)

func runWeights(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	container, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer container.Logger.Sync()

	result, err := container.QueryBus.Ask(ctx, queries.GetWeightReportQuery{
		Page: common.PageParams{Limit: flagLimit, Offset: flagOffset},
	})
	if err != nil {
		return err
	}

	report, ok := result.(*reports.WeightReport)
	if !ok {
		return fmt.Errorf("unexpected query result type %T", result)
	}

	if err := container.Presenter.PresentWeights(ctx, report); err != nil {
		return err
	}
	if flagOutput != "" {
		return container.Reports.WriteReport(ctx, flagOutput, report)
	}
	return nil
}

func runCitations(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	container, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer container.Logger.Sync()

	result, err := container.QueryBus.Ask(ctx, queries.GetCitationStatsQuery{TopN: flagTopN})
	if err != nil {
		return err
	}

	report, ok := result.(*reports.CitationStatsReport)
	if !ok {
		return fmt.Errorf("unexpected query result type %T", result)
	}

	if err := container.Presenter.PresentCitationStats(ctx, report); err != nil {
		return err
	}
	if flagOutput != "" {
		return container.Reports.WriteReport(ctx, flagOutput, report)
	}
	return nil
}
