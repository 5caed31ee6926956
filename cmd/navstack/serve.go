package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/navstack/internal/cli"
	"github.com/aretw0/navstack/internal/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the headless HTTP surface",
	Long:  `Starts the engine behind a JSON API, an SSE stream of stack changes and a Prometheus endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := runOptions(cmd)
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			os.Setenv(config.EnvHTTPAddr, addr)
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		if err := cli.Serve(ctx, opts); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
		if sig := ctx.Signal(); sig != nil {
			fmt.Printf("Stopped. Signal: %v\n", sig)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides config)")
}
