package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/listening-insights/internal/analysis"
)

var reportFormat string
var reportNumber int

var reportCmd = &cobra.Command{
	Use:   "report [from (optional)] [to (optional)]",
	Short: "Generates a comprehensive music taste report",
	Long:  `Analyzes your listening history to generate a detailed YAML or JSON report of your music taste, history, and drift.`,
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runReport(os.Stdout, viper.GetString("database"), args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "yaml", "Output format: yaml or json")
	reportCmd.Flags().IntVarP(&reportNumber, "number", "n", 10, "number of entries in each ranking")
}

func runReport(out io.Writer, dbPath string, args []string) error {
	in, err := loadAnalysisInput(dbPath, args)
	if err != nil {
		return err
	}

	report := analysis.GenerateReport(in.Events, in.Window, reportNumber, time.Now())
	return encodeAs(out, reportFormat, report)
}

// encodeAs writes v as yaml or json.
func encodeAs(out io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return encoder.Close()

	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
