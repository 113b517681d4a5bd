// Public domain.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const versionString = "gammastat version 0.1 Go source."
const copyrightString = "Public domain."

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "display version and copyright",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
