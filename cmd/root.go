// Package cmd implements the lodestone CLI.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lodestone",
	Short: "Lodestone - OpenAI-compatible RAG backend",
	Long: `Lodestone serves an OpenAI-compatible API backed by PostgreSQL:
assistants, threads, runs, file uploads, and vector stores with
retrieval-augmented generation over pgvector.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
