// Public domain.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var simOut string

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "replace observed counts with a Poisson realization of the model",
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
		sim, err := p.Simulate(specs)
		if err != nil {
			return err
		}
		fmt.Printf("%-10s %8s %8s\n", "obs", "n_on", "n_off")
		for _, s := range sim {
			var non, noff float64
			for i := range s.OnCounts {
				non += s.OnCounts[i]
				noff += s.OffCounts[i]
			}
			fmt.Printf("%-10s %8.0f %8.0f\n", s.Name, non, noff)
			if simOut != "" {
				fn := filepath.Join(simOut, s.Name+".sim.dataset")
				if err := s.WriteFile(fn); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVarP(&simOut, "out", "o", "",
		"directory for simulated dataset files")
	rootCmd.AddCommand(simulateCmd)
}
