// Public domain.

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var fluxCmd = &cobra.Command{
	Use:   "flux",
	Short: "run the full pipeline: reduce, fit, flux points",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProg()
		if err != nil {
			return err
		}
		return p.Run(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(fluxCmd)
}
