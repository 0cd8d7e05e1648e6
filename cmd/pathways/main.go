// Command pathways evaluates clinical care pathways against patient FHIR
// records from the command line.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pathways",
		Short:         "Evaluate clinical care pathways against patient FHIR records",
		Long:          "Pathways walks care pathway definitions against a patient record bundle,\nreports where the patient currently stands and what comes next, and ranks\ncandidate pathways by how well their criteria match the patient.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
