package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fundmatch/internal/fund"
	"fundmatch/internal/pipeline"
	"fundmatch/internal/scoring"
	"fundmatch/internal/source"
	"fundmatch/internal/store"
)

var (
	scoreCompany     string
	scoreCompanyDesc string
	scorePersonDesc  string
	scoreRoundSize   float64
	scoreRoundType   string
	scoreCommitment  float64
	scorePosition    string
	scoreIndustry    string
	scoreCloseness   string
	scoreQuality     string
	scoreObs         string

	scoreBatchSize int
	scoreSurviving float64
	scoreWorkers   int
	scoreUseDoc    bool
	scoreDocID     string
	scoreNoSave    bool
)

// scoreCmd runs the full scoring pipeline for one request.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score and rank candidate funds for a startup",
	Long: `Runs the full pipeline for one startup profile:
  1. Load the fund table
  2. Filter on investment range, posture, quality, and proximity
  3. Score batches in parallel through the configured model
  4. Normalize raw scores to 0-100 and keep the top fraction`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&scoreCompany, "company", "", "company name (required)")
	f.StringVar(&scoreCompanyDesc, "company-desc", "", "company description")
	f.StringVar(&scorePersonDesc, "person-desc", "", "representative description")
	f.Float64Var(&scoreRoundSize, "round-size", 0, "round size in millions of USD (required)")
	f.StringVar(&scoreRoundType, "round-type", "", "funding type, e.g. 'Series A'")
	f.Float64Var(&scoreCommitment, "commitment", 0, "already committed amount in millions of USD")
	f.StringVar(&scorePosition, "position", "both", "desired fund posture: leader, follower, or both")
	f.StringVar(&scoreIndustry, "industry", "", "company industry tags")
	f.StringVar(&scoreCloseness, "closeness", "Irrelevant", "fund proximity: Close, Distant, or Irrelevant")
	f.StringVar(&scoreQuality, "quality", "Any", "fund quality tier: High, Medium, Low, or Any")
	f.StringVar(&scoreObs, "observations", "", "additional observations for the scorer")

	f.IntVar(&scoreBatchSize, "batch-size", 0, "funds per scoring call (overrides config)")
	f.Float64Var(&scoreSurviving, "surviving", 0, "top fraction to keep in (0,1] (overrides config)")
	f.IntVar(&scoreWorkers, "workers", 0, "max concurrent scoring calls (overrides config)")
	f.BoolVar(&scoreUseDoc, "use-doc", false, "include the supplementary document")
	f.StringVar(&scoreDocID, "doc-id", "", "supplementary document ID")
	f.BoolVar(&scoreNoSave, "no-save", false, "skip persisting the run")

	_ = scoreCmd.MarkFlagRequired("company")
	_ = scoreCmd.MarkFlagRequired("round-size")
}

func runScore(cmd *cobra.Command, args []string) error {
	// Flag overrides win over the config file.
	if scoreBatchSize > 0 {
		cfg.Pipeline.BatchSize = scoreBatchSize
	}
	if scoreSurviving > 0 {
		cfg.Pipeline.SurvivingPercentage = scoreSurviving
	}
	if scoreWorkers > 0 {
		cfg.Pipeline.MaxWorkers = scoreWorkers
	}
	if scoreUseDoc {
		cfg.Pipeline.UseDoc = true
	}
	if scoreDocID != "" {
		cfg.Pipeline.DocID = scoreDocID
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	req := fund.Request{
		Company:            scoreCompany,
		CompanyDescription: scoreCompanyDesc,
		PersonDescription:  scorePersonDesc,
		Round:              fund.Round{Size: scoreRoundSize, Funding: scoreRoundType},
		RoundCommitment:    scoreCommitment,
		Position:           fund.Position(scorePosition),
		Industry:           scoreIndustry,
		FundQuality:        fund.QualityTier(scoreQuality),
		FundCloseness:      fund.Closeness(scoreCloseness),
		Observations:       scoreObs,
	}

	srcTimeout, err := cfg.Source.TimeoutDuration()
	if err != nil {
		return err
	}
	loader := source.NewCSVLoader(cfg.Source.Path, cfg.Source.URL, srcTimeout)

	var docs pipeline.DocFetcher
	if cfg.Pipeline.UseDoc {
		docs = source.NewHTTPDocFetcher(cfg.Source.DocBaseURL, srcTimeout)
	}

	// Each worker builds its own client; clients are never shared.
	newScorer := func() (pipeline.BatchScorer, error) {
		client, err := scoring.NewClient(cfg.LLM)
		if err != nil {
			return nil, err
		}
		return scoring.NewLLMScorer(client, logger), nil
	}

	result, err := pipeline.Run(cmd.Context(), pipeline.Deps{
		Loader:    loader,
		Docs:      docs,
		NewScorer: newScorer,
		Log:       logger,
	}, req, pipeline.Options{
		BatchSize:           cfg.Pipeline.BatchSize,
		SurvivingPercentage: cfg.Pipeline.SurvivingPercentage,
		MaxWorkers:          cfg.Pipeline.MaxWorkers,
		UseDoc:              cfg.Pipeline.UseDoc,
		DocID:               cfg.Pipeline.DocID,
	})
	if err != nil {
		return err
	}

	fmt.Print(pipeline.FormatForDisplay(result.TopFunds, req.Company, 0))
	if result.FailedBatches > 0 {
		fmt.Printf("\nWarning: %d batch(es) failed to score; the ranking covers %d of %d filtered funds.\n",
			result.FailedBatches, result.Scored, result.Filtered)
	}

	if !scoreNoSave && cfg.Store.DatabasePath != "" {
		st, err := store.Open(cfg.Store.DatabasePath)
		if err != nil {
			logger.Warn("could not open results store", zap.Error(err))
			return nil
		}
		defer st.Close()

		runID, err := st.SaveRun(cmd.Context(), req.Company, result.TopFunds)
		if err != nil {
			logger.Warn("could not persist run", zap.Error(err))
			return nil
		}
		fmt.Printf("\nSaved run %s\n", runID)
	}
	return nil
}
