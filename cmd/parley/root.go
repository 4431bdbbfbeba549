package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/parley/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley - bilingual chat proxy for a watsonx-style model service",
	Long: `Parley answers chat messages in English or Hinglish by forwarding them to a
watsonx-style model service.

Each request exchanges the API key for a bearer token, tries the chat endpoint,
then the generation endpoint, and for Granite chat models the matching instruct
model, before replying with a fixed fallback message.

Required settings (environment or .env):
  API_KEY      model service API key
  PROJECT_ID   model service project id
  URL          regional model service URL

Optional: MODEL_ID, PORT, and PARLEY_* overrides for every config.yaml field.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code matching its error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path (optional)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
}
