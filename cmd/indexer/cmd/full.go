package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var fullCmd = &cobra.Command{
	Use:   "full",
	Short: "Rebuild the whole price index and swap it in atomically",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx, "priceindex-full")
		if err != nil {
			return err
		}
		defer rt.Close()

		orchestrator, err := newOrchestrator(rt)
		if err != nil {
			return err
		}
		return orchestrator.ReindexFull(ctx)
	},
}
