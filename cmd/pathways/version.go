package main

import (
	"github.com/spf13/cobra"

	"github.com/Ninjabillcos/pathways"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pathways version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("pathways", pathways.Version)
		},
	}
}
