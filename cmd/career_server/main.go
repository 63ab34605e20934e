// Package main provides the entry point for the TechCareer Analyzer server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "career_server",
	Short: "TechCareer Analyzer HTTP API Server",
	Long:  "TechCareer Analyzer computes role matches, skill gaps, demand forecasts and salary estimates from a corpus of job postings, exposed via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
