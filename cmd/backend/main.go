package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is the application version (set during build).
	Version = "dev"

	// Commit is the git commit hash (set during build).
	Commit = "unknown"

	// BuildDate is the build date (set during build).
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "backend",
	Short: "TSP Test Case Platform Backend Server",
	Long:  `A Go backend server for managing TSP telematics test points and test cases, with step editing and AI-assisted case generation.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
