package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/threatwatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve category search over HTTP",
	Long: `Serve exposes the search over HTTP:

  GET /categories                               category list (JSON)
  GET /search?category=C&keyword=K[&format=F]   results as a CSV attachment,
                                                JSON, or YAML
  GET /healthz                                  liveness

An empty keyword returns 204. Provider and network failures still return 200,
with an "error" field in JSON or an X-Threatwatch-Error header otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := newSource(cfg)
		if err != nil {
			return err
		}
		return server.New(cfg, src, logger).ListenAndServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
