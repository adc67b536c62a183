package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/storekit/priceindex/internal/ops"
	"github.com/storekit/priceindex/internal/watcher"
	"github.com/storekit/priceindex/pkg/redis"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the changelog and keep the index current",
	Long: `watch polls the product changelog and turns accumulated changes into
partial reindex runs. A Redis lock keeps concurrent instances from
interleaving writes. The process also serves /healthz and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx, "priceindex-watch")
		if err != nil {
			return err
		}
		defer rt.Close()

		redisClient, err := redis.New(ctx, rt.cfg.Redis, rt.logg)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		orchestrator, err := newOrchestrator(rt)
		if err != nil {
			return err
		}

		lock, err := watcher.NewRedisLock(redisClient, redisClient.LockKey("reindex"), rt.cfg.Watcher.LockTTL)
		if err != nil {
			return err
		}
		service, err := watcher.NewService(watcher.ServiceParams{
			Logger:       rt.logg,
			Changelog:    watcher.NewRepository(rt.client.DB()),
			Runner:       orchestrator,
			Lock:         lock,
			PollInterval: rt.cfg.Watcher.PollInterval,
		})
		if err != nil {
			return err
		}

		opsServer, err := ops.NewServer(ops.ServerParams{
			Logger: rt.logg,
			DB:     rt.client,
			Redis:  redisClient,
			Port:   rt.cfg.Ops.Port,
		})
		if err != nil {
			return err
		}

		errCh := make(chan error, 2)
		go func() { errCh <- opsServer.Run(ctx) }()
		go func() { errCh <- service.Run(ctx) }()

		err = <-errCh
		stop()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
