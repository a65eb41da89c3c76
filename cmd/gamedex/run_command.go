package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gamedex/internal/logging"
	"gamedex/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		libraryPass   bool
		hltbPass      bool
		igdbPass      bool
		allPasses     bool
		fullRun       bool
		skipIGDBFetch bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run enrichment passes",
		Long: "Run runs the selected enrichment passes in order: library cleaning, " +
			"HowLongToBeat playtime lookup, IGDB catalog matching. With no pass " +
			"flags every pass runs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			passes := pipeline.Passes{
				Library:       libraryPass,
				HLTB:          hltbPass,
				IGDB:          igdbPass,
				Full:          fullRun,
				SkipIGDBFetch: skipIGDBFetch,
			}
			if allPasses || !passes.Any() {
				passes.Library = true
				passes.HLTB = true
				passes.IGDB = true
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return pipeline.New(cfg, logger, cmd.OutOrStdout()).Run(runCtx, passes)
		},
	}

	cmd.Flags().BoolVar(&libraryPass, "library", false, "Run the library cleaning pass")
	cmd.Flags().BoolVar(&hltbPass, "hltb", false, "Run the playtime lookup pass")
	cmd.Flags().BoolVar(&igdbPass, "igdb", false, "Run the catalog matching pass")
	cmd.Flags().BoolVar(&allPasses, "all", false, "Run every pass (default when no pass flags are set)")
	cmd.Flags().BoolVar(&fullRun, "full", false, "Discard incremental state and rebuild from scratch")
	cmd.Flags().BoolVar(&skipIGDBFetch, "skip-igdb-fetch", false, "Match against existing catalog snapshots without refreshing them")
	return cmd
}
