package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/parley/pkg/cli"
	"mercator-hq/parley/pkg/config"
)

var validateOutput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and report missing settings",
	Long: `Load the configuration exactly as "parley run" would (config file, .env,
environment) and report validation errors and missing required settings.

Exit status is 0 when the server would be ready to answer chat requests and 2
otherwise.

Examples:
  # Check the default config.yaml and .env
  parley validate

  # Machine-readable report
  parley validate --output json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "text", "output format: text, json")
}

type validationReport struct {
	ConfigFile string   `json:"config_file"`
	Valid      bool     `json:"valid"`
	Ready      bool     `json:"ready"`
	Missing    []string `json:"missing"`
	Errors     []string `json:"errors,omitempty"`
}

func (r validationReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Configuration: %s\n", r.ConfigFile)
	if r.Valid {
		sb.WriteString("✓ Configuration valid\n")
	} else {
		sb.WriteString("✗ Configuration invalid\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&sb, "  - %s\n", e)
		}
	}
	if r.Ready {
		sb.WriteString("✓ Required settings present\n")
	} else if len(r.Missing) > 0 {
		fmt.Fprintf(&sb, "✗ Missing required settings: %s\n", strings.Join(r.Missing, ", "))
	}
	return sb.String()
}

func validateConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateOutput)
	if err != nil {
		return err
	}

	report, err := buildValidationReport(cfgFile)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	switch {
	case !report.Valid:
		return cli.NewConfigError("", fmt.Sprintf("%d validation error(s)", len(report.Errors)))
	case !report.Ready:
		return &cli.MissingKeysError{Keys: report.Missing}
	}
	return nil
}

// buildValidationReport loads the configuration without touching the global
// instance. Only errors that are not validation failures are returned.
func buildValidationReport(path string) (validationReport, error) {
	config.DotEnvFile = envFile
	report := validationReport{ConfigFile: path, Missing: []string{}}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		var verr config.ValidationError
		if !errors.As(err, &verr) {
			return report, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
		}
		for _, fe := range verr.Errors {
			report.Errors = append(report.Errors, fe.Error())
		}
		return report, nil
	}

	report.Valid = true
	if missing := cfg.Upstream.Missing(); len(missing) > 0 {
		report.Missing = missing
	} else {
		report.Ready = true
	}
	return report, nil
}
