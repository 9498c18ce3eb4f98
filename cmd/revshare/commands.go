package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"revshare/pkg/common"
)

var (
	// Persistent flags
	flagConfig  string
	flagCSV     string
	flagVerbose bool

	// Distribution flags
	flagTask    string
	flagAmount  string
	flagPerCall string
	flagOutput  string
	flagDebug   bool

	// Report flags
	flagLimit  int
	flagOffset int
	flagTopN   int

	// Seed flags
	flagSeedOutput string

	rootCmd = &cobra.Command{
		Use:   "revshare",
		Short: "Distribute revenue across a task citation graph",
		Long: `revshare parses a Feishu task export, builds the citation graph,
and distributes revenue from a trigger task to the creators it cites,
level by level, with every split exact to the penny.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(common.EnrichContext(cmd.Context(), uuid.NewString()))
		},
	}

	distributeCmd = &cobra.Command{
		Use:   "distribute",
		Short: "Distribute revenue from a single trigger task",
		RunE:  runDistribute,
	}

	apiRevenueCmd = &cobra.Command{
		Use:   "api-revenue",
		Short: "Distribute call-based revenue across every billable API task",
		RunE:  runAPIRevenue,
	}

	weightsCmd = &cobra.Command{
		Use:   "weights",
		Short: "Show the dynamic weight leaderboard",
		RunE:  runWeights,
	}

	citationsCmd = &cobra.Command{
		Use:   "citations",
		Short: "Analyze the citation structure of the task export",
		RunE:  runCitations,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Render the dataset as an idempotent SQL seed script",
		RunE:  runSeed,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config overlay (defaults to $REVSHARE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagCSV, "csv", "", "task export CSV to ingest")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(distributeCmd)
	distributeCmd.Flags().StringVar(&flagTask, "task", "", "trigger task key or title (defaults to the first record)")
	distributeCmd.Flags().StringVar(&flagAmount, "amount", "", "revenue to distribute (defaults to config)")
	distributeCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "store the JSON report at this path")
	distributeCmd.Flags().BoolVar(&flagDebug, "debug", false, "write stage snapshots under the logs directory")

	rootCmd.AddCommand(apiRevenueCmd)
	apiRevenueCmd.Flags().StringVar(&flagPerCall, "revenue-per-call", "", "revenue per API call (defaults to config)")
	apiRevenueCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "store the JSON report at this path")
	apiRevenueCmd.Flags().BoolVar(&flagDebug, "debug", false, "write stage snapshots under the logs directory")

	rootCmd.AddCommand(weightsCmd)
	weightsCmd.Flags().IntVar(&flagLimit, "limit", 0, "maximum leaderboard rows (0 shows all)")
	weightsCmd.Flags().IntVar(&flagOffset, "offset", 0, "leaderboard rows to skip")
	weightsCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "store the JSON report at this path")

	rootCmd.AddCommand(citationsCmd)
	citationsCmd.Flags().IntVar(&flagTopN, "top", 0, "ranking size for most-cited and busiest executors (0 uses the default)")
	citationsCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "store the JSON report at this path")

	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVarP(&flagSeedOutput, "output", "o", "", "script destination (empty or - writes to stdout)")
}
