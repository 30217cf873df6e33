/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listening-insights/internal/analysis"
	"github.com/ademuri/listening-insights/internal/history"
	"github.com/ademuri/listening-insights/internal/logging"
	"github.com/ademuri/listening-insights/internal/store"
)

type ImportConfig struct {
	DbPath      string
	Paths       []string
	ClearWindow bool
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Loads a streaming history export",
	Long: `Reads Streaming_History_Audio_*.json files, directories containing them, or the
export zip archive, and stores the plays in a local SQLite database. Each import
replaces the previously stored history.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := ImportConfig{
			DbPath:      viper.GetString("database"),
			Paths:       args,
			ClearWindow: viper.GetBool("clear-window"),
		}

		err := importHistory(os.Stdout, config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	var clearWindow bool
	importCmd.Flags().BoolVar(&clearWindow, "clear-window", false, "Reset the saved date window to the whole history")
	viper.BindPFlag("clear-window", importCmd.Flags().Lookup("clear-window"))
}

func importHistory(out io.Writer, config ImportConfig) error {
	log := logging.Component("import")

	start := time.Now()
	result, err := history.LoadPaths(config.Paths)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(result.Files) == 0 {
		return fmt.Errorf("no streaming history files found in %v", config.Paths)
	}
	log.Debug().Int("files", len(result.Files)).Int("events", len(result.Events)).Dur("took", time.Since(start)).Msg("loaded export")
	if result.Skipped > 0 {
		log.Warn().Int("skipped", result.Skipped).Msg("dropped records with unparseable timestamps")
	}

	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	batch, err := db.ReplaceEvents(result.Events, result.Files, result.Skipped)
	if err != nil {
		return fmt.Errorf("storing history: %w", err)
	}

	if config.ClearWindow {
		if err := db.SaveWindow(analysis.DateWindow{}); err != nil {
			return err
		}
	}
	window, err := db.LoadWindow()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %s plays from %s files", humanize.Comma(int64(batch.EventCount)), humanize.Comma(int64(len(batch.Files))))
	if batch.SkippedCount > 0 {
		fmt.Fprintf(out, " (%s records skipped)", humanize.Comma(int64(batch.SkippedCount)))
	}
	fmt.Fprintln(out)

	first, last, err := db.PlaySpan()
	if err == nil {
		fmt.Fprintf(out, "History runs from %s to %s\n", first.Format("2006-01-02"), last.Format("2006-01-02"))
	}
	if !window.IsUnbounded() {
		fmt.Fprintf(out, "Saved window %s still applies\n", window)
	}
	return nil
}
