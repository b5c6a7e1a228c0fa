package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-simulator/internal/agent"
	"github.com/jonathan/interview-simulator/internal/config"
	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/interview"
	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/logging"
	"github.com/jonathan/interview-simulator/internal/questions"
	"github.com/jonathan/interview-simulator/internal/server"
	"github.com/jonathan/interview-simulator/internal/transcribe"
)

var (
	servePort    int
	serveConfig  string
	serveVerbose bool
	serveLogJSON bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running mock interviews.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to JSON config file")
	serveCmd.Flags().BoolVar(&serveVerbose, "verbose", false, "Enable debug logging")
	serveCmd.Flags().BoolVar(&serveLogJSON, "log-json", false, "Use JSON log encoding")
	rootCmd.AddCommand(serveCmd)
}

func loadServeConfig() (config.Config, error) {
	var fileCfg config.Config
	if serveConfig != "" {
		loaded, err := config.LoadConfig(serveConfig)
		if err != nil {
			return config.Config{}, err
		}
		fileCfg = *loaded
	}

	cfg := config.Config{
		Port:               servePort,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		APIKey:             os.Getenv("GEMINI_API_KEY"),
		TranscriberBaseURL: os.Getenv("TRANSCRIBER_BASE_URL"),
		TranscriberAPIKey:  os.Getenv("TRANSCRIBER_API_KEY"),
		TranscriberModel:   os.Getenv("TRANSCRIBER_MODEL"),
		Verbose:            serveVerbose,
		LogJSON:            serveLogJSON,
	}
	cfg = cfg.MergeWithDefaults(fileCfg)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.DatabaseURL == "" {
		return config.Config{}, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.APIKey == "" {
		return config.Config{}, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	return cfg, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogJSON, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	transcriber := transcribe.New(cfg.TranscriberBaseURL, cfg.TranscriberAPIKey, cfg.TranscriberModel, logger)

	interviews := interview.NewService(interview.Options{
		Profiles:      database,
		Store:         database,
		Factory:       agent.NewFactory(client, logger),
		Generator:     questions.NewGenerator(client, cfg.MaxQuestions, logger),
		Reporter:      questions.NewFinalFeedbackGenerator(client, logger),
		Transcriber:   transcriber,
		Detector:      interview.NewLLMDetector(client),
		Logger:        logger,
		TriggerPhrase: cfg.TriggerPhrase,
		TriggerReply:  cfg.TriggerReply,
	})

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		Database:    database,
		Interviews:  interviews,
		Transcriber: transcriber,
		Logger:      logger,
	})
	if err != nil {
		database.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
