package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fundmatch/internal/crm"
	"fundmatch/internal/scoring"
)

var (
	recordKind string
	recordInfo string
)

// recordCmd resolves a company or person name to one CRM record.
var recordCmd = &cobra.Command{
	Use:   "record [name]",
	Short: "Look up a CRM record by name",
	Long: `Resolves a name to a single CRM record. Candidate records matching the
name are fetched from the CRM and the configured model picks the best
match, weighting interaction recency and any additional info provided.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordKind, "kind", "companies", "record kind: companies or people")
	recordCmd.Flags().StringVar(&recordInfo, "info", "", "additional info to disambiguate same-name records")
}

func runRecord(cmd *cobra.Command, args []string) error {
	kind := crm.Kind(recordKind)
	if kind != crm.KindCompanies && kind != crm.KindPeople {
		return fmt.Errorf("kind must be companies or people, got %q", recordKind)
	}
	if cfg.CRM.APIKey == "" {
		return fmt.Errorf("CRM API key not configured (crm.api_key or ATTIO_API_KEY)")
	}

	llm, err := scoring.NewClient(cfg.LLM)
	if err != nil {
		return err
	}
	timeout, err := cfg.CRM.TimeoutDuration()
	if err != nil {
		return err
	}

	client := crm.NewClient(cfg.CRM.BaseURL, cfg.CRM.APIKey, timeout, llm)
	match, err := client.FindRecord(cmd.Context(), strings.Join(args, " "), kind, recordInfo)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(match, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render match: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
