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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listening-insights/internal/analysis"
	"github.com/ademuri/listening-insights/internal/store"
)

var windowClear bool

var windowCmd = &cobra.Command{
	Use:   "window [from (optional)] [to (optional)]",
	Short: "Shows or sets the saved date window",
	Long: `With no arguments, prints the saved window and the last import. With dates,
saves them as the window used by the analysis commands when they are run without
dates. Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or a relative '6m'.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runWindow(os.Stdout, viper.GetString("database"), args, windowClear)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(windowCmd)

	windowCmd.Flags().BoolVar(&windowClear, "clear", false, "Clear the saved window so the whole history is used")
}

func runWindow(out io.Writer, dbPath string, args []string, clear bool) error {
	if clear && len(args) > 0 {
		return fmt.Errorf("--clear does not take dates")
	}

	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case clear:
		if err := db.SaveWindow(analysis.DateWindow{}); err != nil {
			return err
		}

	case len(args) > 0:
		w, err := parseDateRangeFromArgs(args)
		if err != nil {
			return err
		}
		if err := db.SaveWindow(w); err != nil {
			return err
		}
	}

	w, err := db.LoadWindow()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Window: %s\n", w)

	batch, err := db.LastImport()
	if errors.Is(err, store.ErrNoData) {
		fmt.Fprintln(out, "Nothing imported yet")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Last import: %s plays from %d files, %s\n",
		humanize.Comma(int64(batch.EventCount)), len(batch.Files), humanize.Time(batch.ImportedAt))
	return nil
}
