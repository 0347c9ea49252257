package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reviewflow/reviewflow/internal/agents"
	"github.com/reviewflow/reviewflow/internal/config"
	"github.com/reviewflow/reviewflow/internal/models"
	"github.com/reviewflow/reviewflow/internal/pipeline"
	"github.com/reviewflow/reviewflow/internal/ratelimit"
	"github.com/reviewflow/reviewflow/internal/web"
)

var (
	flagHost string
	flagPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the review API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagHost != "" {
			cfg.Host = flagHost
		}
		if flagPort > 0 {
			cfg.Port = flagPort
		}

		log := newLogger(logLevel(cfg))
		defer log.Sync() //nolint:errcheck

		catalog := models.NewCatalog()
		engine := pipeline.NewEngine(catalog, log, nil)
		dispatcher := agents.NewDispatcher(catalog, log, nil)
		limiter := ratelimit.New(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)

		srv := web.NewServer(engine, dispatcher, catalog, limiter, log, nil)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go limiter.PruneLoop(ctx, time.Minute)

		return srv.ListenAndServe(ctx, cfg.Host, cfg.Port)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagHost, "host", "", "Listen host (default from config)")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "Listen port (default from config)")
}
