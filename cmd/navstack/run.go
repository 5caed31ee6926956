package main

import (
	"fmt"
	"os"

	"github.com/aretw0/navstack/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive terminal demo",
	Long:  `Starts the engine with the demo screens and drives it from the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.RunInteractive(runOptions(cmd), os.Stdin, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	// No subcommand behaves like 'run'.
	rootCmd.Run = runCmd.Run
}
