package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guimove/scenequery/internal/server"
	"github.com/guimove/scenequery/internal/targets"
	"github.com/guimove/scenequery/pkg/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve target generation over HTTP",
	Long: `Serve starts the REST API:

  POST /api/v1/targets                 generate the targets of one metric
  GET  /api/v1/scenes                  list scenes
  GET  /api/v1/scenes/:scene/metrics   list the metrics of a scene
  GET  /metrics                        Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b := targets.NewBuilder(cfg.Targets.API, cfg.Targets.Interval)
		log.Info("starting server", "addr", cfg.Server.Addr, "version", version.Version)
		return server.Serve(ctx, cfg.Server.Addr, server.NewRouter(b))
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "host:port address to listen on")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}
