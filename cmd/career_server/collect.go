package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/techcareer-analyzer/internal/collector"
	"github.com/jonathan/techcareer-analyzer/internal/db"
	"github.com/jonathan/techcareer-analyzer/internal/extract"
	"github.com/jonathan/techcareer-analyzer/internal/llm"
	"github.com/jonathan/techcareer-analyzer/internal/registry"
)

var (
	collectQuery    string
	collectLocation string
	collectPages    int
	collectLLM      bool
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect job postings from the Adzuna API",
	Long: `Fetch postings matching a search query from Adzuna, tag their
skills, and store them in the database. Requires ADZUNA_APP_ID and
ADZUNA_API_KEY.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringVar(&collectQuery, "query", "", "Search query, e.g. \"software engineer\" (required)")
	collectCmd.Flags().StringVar(&collectLocation, "location", "", "Location filter")
	collectCmd.Flags().IntVar(&collectPages, "pages", 2, "Maximum result pages to fetch")
	collectCmd.Flags().BoolVar(&collectLLM, "llm", false, "Tag skills with the LLM extractor (requires GEMINI_API_KEY)")
	_ = collectCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(collectCmd)
}

func runCollect(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	collectorCfg, err := collector.LoadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	reg := registry.Default()

	var extractor extract.Extractor = extract.NewRuleBased(reg)
	if collectLLM {
		apiKey := os.Getenv("GEMINI_API_KEY")
		client, err := llm.NewGeminiClient(ctx, apiKey, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
		extractor = extract.NewLLM(client, reg)
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.InitSchema(ctx); err != nil {
		return err
	}

	client := collector.New(collectorCfg, extractor)
	postings, err := client.Collect(ctx, collectQuery, collectLocation, collectPages)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	inserted, err := database.InsertPostings(ctx, postings)
	if err != nil {
		return err
	}
	fmt.Printf("Collected %d postings, inserted %d (%d duplicates skipped)\n",
		len(postings), inserted, len(postings)-inserted)
	return nil
}
