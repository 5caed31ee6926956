package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/navstack"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of navstack",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("navstack version %s\n", strings.TrimSpace(navstack.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
