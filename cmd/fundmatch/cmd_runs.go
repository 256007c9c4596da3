package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fundmatch/internal/pipeline"
	"fundmatch/internal/store"
)

var runsMinScore float64

// runsCmd lists and shows persisted scoring runs.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List persisted scoring runs",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the scores of a persisted run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsShowCmd.Flags().Float64Var(&runsMinScore, "min-score", 0, "only show funds at or above this score")
	runsCmd.AddCommand(runsShowCmd)
}

func openStore() (*store.Store, error) {
	if cfg.Store.DatabasePath == "" {
		return nil, fmt.Errorf("result persistence is disabled (store.database_path is empty)")
	}
	return store.Open(cfg.Store.DatabasePath)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No saved runs.")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %s  (%d funds)\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Company, r.Funds)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	scores, err := st.LoadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if runsMinScore > 0 {
		scores = pipeline.FilterByMinScore(scores, runsMinScore)
	}
	for i, s := range scores {
		fmt.Printf("%d. %s: %.1f - %s\n", i+1, s.FundName, s.Score, s.Reason)
	}
	return nil
}
