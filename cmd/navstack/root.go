package main

import (
	"fmt"
	"os"

	"github.com/aretw0/navstack/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "navstack",
	Short: "navstack keeps a navigation stack and its screens in sync",
	Long:  `navstack drives a demo set of screens through the navigation engine, either in the terminal or over HTTP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runOptions(cmd *cobra.Command) cli.RunOptions {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.RunOptions{ConfigPath: path, Debug: debug}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
