// Public domain.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var reduceOut string

var reduceCmd = &cobra.Command{
	Use:   "reduce",
	Short: "reduce observations to ON/OFF spectrum datasets",
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
		fmt.Printf("%-10s %8s %8s %8s\n", "obs", "n_on", "n_off", "alpha")
		for _, s := range specs {
			var non, noff float64
			for i := range s.OnCounts {
				non += s.OnCounts[i]
				noff += s.OffCounts[i]
			}
			fmt.Printf("%-10s %8.0f %8.0f %8.4f", s.Name, non, noff, s.Alpha)
			if s.Incomplete {
				fmt.Print(" incomplete")
			}
			fmt.Println()
			if reduceOut != "" {
				fn := filepath.Join(reduceOut, s.Name+".dataset")
				if err := s.WriteFile(fn); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	reduceCmd.Flags().StringVarP(&reduceOut, "out", "o", "",
		"directory for dataset files")
	rootCmd.AddCommand(reduceCmd)
}
