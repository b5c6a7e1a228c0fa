// Package main provides the entry point for the interview simulator HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interview_agent",
	Short: "Mock Interview Simulator HTTP API Server",
	Long:  "Interview Agent runs turn-by-turn mock job interviews: it prepares questions from a resume, a company profile, and a job posting, evaluates each answer, and writes an overall evaluation when the interview ends.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
