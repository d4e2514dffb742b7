package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vjranagit/queryeditor/pkg/catalog"
	"github.com/vjranagit/queryeditor/pkg/types"
)

var scenariosJSON bool

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the scenarios of the configured catalog",
	Args:  cobra.NoArgs,
	RunE:  listScenarios,
}

var seedCmd = &cobra.Command{
	Use:   "seed [file.json]",
	Short: "Replace the stored catalog with the builtin scenarios or a JSON file",
	Long: `Writes scenarios into the BadgerDB catalog store.

Without an argument the builtin scenarios are stored. A file argument must
contain a JSON array of {"id", "name", "stringInput", "description"} objects.`,
	Args: cobra.MaximumNArgs(1),
	RunE: seedCatalog,
}

func init() {
	scenariosCmd.Flags().BoolVar(&scenariosJSON, "json", false, "print JSON instead of a table")
}

func listScenarios(cmd *cobra.Command, args []string) error {
	lister, cleanup, err := openCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	scenarios, err := lister.ListScenarios(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list scenarios: %w", err)
	}

	out := cmd.OutOrStdout()
	if scenariosJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(scenarios)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTRING INPUT")
	for _, s := range scenarios {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Name, s.StringInput)
	}
	return tw.Flush()
}

func seedCatalog(cmd *cobra.Command, args []string) error {
	scenarios := catalog.Builtin()
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		var fromFile []types.Scenario
		if err := json.Unmarshal(data, &fromFile); err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}
		scenarios = fromFile
	}

	store, err := catalog.Open(cfg.ToCatalogConfig(), logger.Named("catalog"))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	if err := store.Replace(cmd.Context(), scenarios); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "stored %d scenarios\n", len(scenarios))
	return nil
}
