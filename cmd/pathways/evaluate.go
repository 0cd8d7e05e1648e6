package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ninjabillcos/pathways"
	"github.com/Ninjabillcos/pathways/engine"
	"github.com/Ninjabillcos/pathways/fhir"
	"github.com/Ninjabillcos/pathways/loader"
	"github.com/Ninjabillcos/pathways/service"
	"github.com/Ninjabillcos/pathways/specs"
)

func evaluateCmd() *cobra.Command {
	var (
		recordsPath  string
		pathwayDir   string
		libraryDir   string
		evaluatorURL string
		pathwayName  string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate pathways against a patient record bundle",
		Long:  "Evaluates every candidate pathway against the given patient record\nbundle and prints the results ranked by criteria match count. Without\n--pathways the embedded sample definitions are used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if pathwayDir == "" {
				pathwayDir = cfg.PathwayDir
			}
			if libraryDir == "" {
				libraryDir = cfg.LibraryDir
			}
			if evaluatorURL == "" {
				evaluatorURL = cfg.EvaluatorURL
			}

			data, err := os.ReadFile(recordsPath)
			if err != nil {
				return fmt.Errorf("reading patient records: %w", err)
			}
			bundle, err := fhir.ParseBundle(data)
			if err != nil {
				return fmt.Errorf("parsing patient records: %w", err)
			}

			candidates, err := loadPathways(pathwayDir)
			if err != nil {
				return err
			}
			libraries, err := librarySource(libraryDir)
			if err != nil {
				return err
			}

			eng, err := engine.New(cmd.Context(),
				pathways.WithWorkerCount(cfg.Workers),
				pathways.WithLogger(cfg.logger()),
			)
			if err != nil {
				return err
			}
			defer eng.Close()

			if evaluatorURL != "" {
				eng.SetEvaluator(service.NewRemoteEvaluator(evaluatorURL))
			} else {
				eng.SetEvaluator(service.NewFHIRPathEvaluator())
			}
			eng.SetLibrarySource(libraries)
			eng.SetPatientRecords(bundle)

			if pathwayName != "" {
				candidates = filterByName(candidates, pathwayName)
				if len(candidates) == 0 {
					return fmt.Errorf("no pathway named %q", pathwayName)
				}
			}

			ranked, err := eng.EvaluateAll(cmd.Context(), candidates)
			if err != nil && len(ranked) == 0 {
				return err
			}
			if err != nil {
				cmd.PrintErrln("Warning:", err)
			}

			if asJSON {
				return printJSON(cmd, ranked)
			}
			printRanked(cmd, ranked)
			return nil
		},
	}

	cmd.Flags().StringVarP(&recordsPath, "records", "r", "", "patient record bundle JSON file (required)")
	cmd.Flags().StringVarP(&pathwayDir, "pathways", "p", "", "directory of pathway definitions (default: embedded samples)")
	cmd.Flags().StringVarP(&libraryDir, "libraries", "l", "", "directory of query libraries (default: embedded samples)")
	cmd.Flags().StringVarP(&evaluatorURL, "evaluator", "e", "", "remote query evaluator endpoint (default: built-in FHIRPath)")
	cmd.Flags().StringVarP(&pathwayName, "name", "n", "", "evaluate only the named pathway")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.MarkFlagRequired("records")

	return cmd
}

// loadPathways reads the candidate definitions from dir, falling back to
// the embedded samples when no directory is configured.
func loadPathways(dir string) ([]*pathways.Pathway, error) {
	if dir == "" {
		return specs.SamplePathways()
	}
	return loader.LoadDir(dir)
}

// librarySource builds the library lookup chain: an on-disk directory when
// configured, with the embedded samples as fallback.
func librarySource(dir string) (service.LibrarySource, error) {
	embedded, err := specs.LibrarySource()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return embedded, nil
	}
	return service.NewLibraryChain(service.NewFileLibrarySource(dir), embedded), nil
}

func filterByName(candidates []*pathways.Pathway, name string) []*pathways.Pathway {
	filtered := candidates[:0]
	for _, p := range candidates {
		if p.Name == name {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func printJSON(cmd *cobra.Command, ranked []*engine.Evaluation) error {
	out, err := json.MarshalIndent(ranked, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}

func printRanked(cmd *cobra.Command, ranked []*engine.Evaluation) {
	if len(ranked) == 0 {
		cmd.Println("No pathways evaluated.")
		return
	}

	for i, eval := range ranked {
		r := eval.Results
		cmd.Printf("%d. %s  (%d/%d criteria)\n", i+1, eval.PathwayName,
			eval.Criteria.Matches, len(eval.Criteria.Items))
		cmd.Printf("   patient:  %s\n", r.PatientID)
		cmd.Printf("   path:     %s\n", strings.Join(r.Path, " > "))
		cmd.Printf("   current:  %s", r.CurrentState)
		if r.CurrentStatus != "" {
			cmd.Printf(" [%s]", r.CurrentStatus)
		}
		cmd.Println()
		cmd.Printf("   next:     %s\n", recommendationText(r.NextRecommendation))
	}
}

func recommendationText(rec pathways.Recommendation) string {
	switch rec.Kind {
	case pathways.RecommendationDirect:
		return rec.Next
	case pathways.RecommendationBranch:
		options := make([]string, 0, len(rec.Branches))
		for _, b := range rec.Branches {
			options = append(options, fmt.Sprintf("%s (if %s)", b.State, b.ConditionDescription))
		}
		return strings.Join(options, ", ")
	default:
		return pathways.TerminalRecommendation
	}
}
