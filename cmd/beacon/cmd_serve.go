package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/banshee-data/coverage.report/internal/api"
	"github.com/banshee-data/coverage.report/internal/sensor"
	"github.com/banshee-data/coverage.report/internal/timeutil"
	"github.com/banshee-data/coverage.report/internal/version"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve [report]",
		Short: "Serve the coverage API over HTTP",
		Long: `Serve the coverage API over HTTP. Each request carries its own sensor
report in the body. When a report file is given it is also loaded for the
/debug/ pages.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var preloaded *sensor.Set
			if len(args) > 0 {
				var err error
				if preloaded, err = readSensors(cmd, args); err != nil {
					return err
				}
			}
			addr := g.cfg.GetListen()
			if cmd.Flags().Changed("listen") {
				addr = listen
			}

			server := api.NewServer(g.cfg, timeutil.RealClock{})
			var admin func(*http.ServeMux)
			if preloaded != nil {
				admin = func(mux *http.ServeMux) { api.AttachAdminRoutes(mux, preloaded) }
			}
			return server.Run(cmd.Context(), addr, admin)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "HTTP listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}
