// Package main provides the jobforge CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobforge",
	Short: "Tailored CV and cover letter generation pipeline",
	Long:  "jobforge stages LaTeX CV and cover letter templates into per-company job folders, injects per-application content, and drives the LaTeX toolchain to produce PDFs.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
