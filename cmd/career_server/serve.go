package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/techcareer-analyzer/internal/config"
	"github.com/jonathan/techcareer-analyzer/internal/logger"
	"github.com/jonathan/techcareer-analyzer/internal/server"
)

var (
	servePort     int
	serveConfig   string
	serveJSONLogs bool
	serveDebug    bool
	serveLLM      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the trends, career, skills and salary endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to JSON config file")
	serveCmd.Flags().BoolVar(&serveJSONLogs, "json-logs", false, "Emit JSON logs")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().BoolVar(&serveLLM, "llm", false, "Use the LLM-backed skill extractor")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Defaults()
	if serveConfig != "" {
		loaded, err := config.LoadConfig(serveConfig)
		if err != nil {
			return err
		}
		cfg = loaded.MergeWithDefaults(cfg)
	}
	cfg.FillFromEnv()

	// CLI flags win over config file and environment.
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveJSONLogs {
		cfg.JSONLogs = true
	}
	if serveDebug {
		cfg.Debug = true
	}
	if serveLLM {
		cfg.UseLLMExtractor = true
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.New(server.Config{
		Port:            cfg.Port,
		DatabaseURL:     cfg.DatabaseURL,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GeminiModel:     cfg.GeminiModel,
		UseLLMExtractor: cfg.UseLLMExtractor,
		RefreshInterval: cfg.RefreshIntervalDuration(),
		CacheTTL:        cfg.CacheTTLDuration(),
		Logger:          log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
