package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ninjabillcos/pathways/loader"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check pathway definition files for structural errors",
		Long:  "Parses each definition file and checks its graph invariants: a start\nstate exists, every transition targets a defined state, and branching\nstates carry at most one unguarded fallback edge.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				p, err := loader.LoadFile(path)
				if err != nil {
					cmd.Printf("%s: %v\n", path, err)
					failed++
					continue
				}
				cmd.Printf("%s: ok (%s, %d states)\n", path, p.Name, len(p.States))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d definitions failed validation", failed, len(args))
			}
			return nil
		},
	}
}
