package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
)

var rowsCmd = &cobra.Command{
	Use:   "rows <entity-id>...",
	Short: "Recompute index rows for the given product entities in place",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]uint32, 0, len(args))
		for _, arg := range args {
			parsed, err := strconv.ParseUint(arg, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid entity id %q", arg)
			}
			ids = append(ids, uint32(parsed))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx, "priceindex-rows")
		if err != nil {
			return err
		}
		defer rt.Close()

		orchestrator, err := newOrchestrator(rt)
		if err != nil {
			return err
		}
		if len(ids) == 1 {
			return orchestrator.ReindexRow(ctx, ids[0])
		}
		return orchestrator.ReindexRows(ctx, ids)
	},
}
