package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/logging"
	"github.com/jonathan/interview-simulator/internal/questions"
)

var (
	genResumeID   string
	genCorpID     string
	genJobID      string
	genDifficulty int
	genCount      int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interview questions for stored profiles",
	Long:  `Generate a prepared question set from a stored resume, corporate profile, and job profile, and print the questions without starting an interview.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genResumeID, "resume", "", "Resume ID (required)")
	generateCmd.Flags().StringVar(&genCorpID, "corporate", "", "Corporate profile ID (required)")
	generateCmd.Flags().StringVar(&genJobID, "job", "", "Job profile ID (required)")
	generateCmd.Flags().IntVar(&genDifficulty, "difficulty", 2, "Difficulty level (1-3)")
	generateCmd.Flags().IntVar(&genCount, "count", 10, "Number of questions")
	_ = generateCmd.MarkFlagRequired("resume")
	_ = generateCmd.MarkFlagRequired("corporate")
	_ = generateCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	resumeID, err := uuid.Parse(genResumeID)
	if err != nil {
		return fmt.Errorf("invalid resume ID: %w", err)
	}
	corpID, err := uuid.Parse(genCorpID)
	if err != nil {
		return fmt.Errorf("invalid corporate profile ID: %w", err)
	}
	jobID, err := uuid.Parse(genJobID)
	if err != nil {
		return fmt.Errorf("invalid job profile ID: %w", err)
	}
	if genDifficulty < 1 || genDifficulty > 3 {
		return fmt.Errorf("difficulty must be between 1 and 3, got %d", genDifficulty)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	logger, err := logging.New(false, false)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	resume, err := database.GetResume(ctx, resumeID)
	if err != nil {
		return err
	}
	if resume == nil {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	corp, err := database.GetCorporateProfile(ctx, corpID)
	if err != nil {
		return err
	}
	if corp == nil {
		return fmt.Errorf("corporate profile not found: %s", corpID)
	}
	job, err := database.GetJobProfile(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job profile not found: %s", jobID)
	}

	generator := questions.NewGenerator(client, genCount, logger)
	set, err := generator.Generate(ctx, questions.Materials{
		Resume:      resume.Content,
		Corporate:   corp.Content,
		Recruitment: job.Recruitment,
		Job:         job.Content,
	}, genDifficulty)
	if err != nil {
		return fmt.Errorf("question generation failed: %w", err)
	}

	for i, q := range set {
		fmt.Printf("%2d. %s\n", i+1, q)
	}
	return nil
}
