// Public domain.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "jointly fit the spectral model over all observations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProg()
		if err != nil {
			return err
		}
		specs, err := p.Reduce()
		if err != nil {
			return err
		}
		r, _, err := p.Fit(specs)
		if err != nil {
			return err
		}
		fmt.Print(r.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)
}
