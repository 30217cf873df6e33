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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listening-insights/internal/analysis"
	"github.com/ademuri/listening-insights/internal/logging"
	"github.com/ademuri/listening-insights/internal/session"
)

type ScrubConfig struct {
	DbPath   string
	Debounce time.Duration
	Throttle time.Duration
	Quiet    bool
}

var scrubCmd = &cobra.Command{
	Use:   "scrub",
	Short: "Adjusts the saved window from a stream of date ranges",
	Long: `Reads one date range per line from stdin, for example '2019 2021-06', or
'clear' for the whole history. Ranges that arrive faster than the debounce
interval are coalesced and only the last one is computed. The settled window is
saved and summarised when input ends.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := ScrubConfig{
			DbPath:   viper.GetString("database"),
			Debounce: viper.GetDuration("debounce"),
			Throttle: viper.GetDuration("throttle"),
			Quiet:    viper.GetBool("quiet"),
		}
		err := runScrub(os.Stdin, os.Stdout, config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(scrubCmd)

	var debounce, throttle time.Duration
	scrubCmd.Flags().DurationVar(&debounce, "debounce", session.DefaultDebounce, "Quiet period before a requested window is computed")
	viper.BindPFlag("debounce", scrubCmd.Flags().Lookup("debounce"))
	scrubCmd.Flags().DurationVar(&throttle, "throttle", 0, "Also compute at most once per interval while ranges keep arriving, 0 disables")
	viper.BindPFlag("throttle", scrubCmd.Flags().Lookup("throttle"))

	var quiet bool
	scrubCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the settled window")
	viper.BindPFlag("quiet", scrubCmd.Flags().Lookup("quiet"))
}

func parseScrubLine(line string) (analysis.DateWindow, error) {
	fields := strings.Fields(line)
	if len(fields) == 1 && fields[0] == "clear" {
		return analysis.DateWindow{}, nil
	}
	return parseDateRangeFromArgs(fields)
}

func runScrub(in io.Reader, out io.Writer, config ScrubConfig) error {
	log := logging.Component("scrub")

	db, err := openStore(config.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	history, err := loadLog(db)
	if err != nil {
		return err
	}
	initial, err := db.LoadWindow()
	if err != nil {
		return err
	}
	if first, last := history.Span(); !config.Quiet {
		fmt.Fprintf(out, "History runs from %s to %s\n", first.Format("2006-01-02"), last.Format("2006-01-02"))
	}

	// OnChange runs after the window is saved, so the last notified window is
	// the one on disk.
	var mu sync.Mutex
	var notified *analysis.DateWindow
	published := make(chan struct{}, 1)
	sess := session.New(history, session.Options{
		Window:   initial,
		Debounce: config.Debounce,
		Throttle: config.Throttle,
		Saver:    db,
		OnChange: func(st session.State) {
			mu.Lock()
			if !config.Quiet {
				fmt.Fprintf(out, "%s: %s tracks\n", st.Window, formatCount(len(st.Aggregates)))
			}
			notified = &st.Window
			mu.Unlock()
			select {
			case published <- struct{}{}:
			default:
			}
		},
	})
	defer sess.Close()

	target := initial
	requested := false
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		w, err := parseScrubLine(line)
		if err != nil {
			log.Warn().Err(err).Str("line", line).Msg("ignoring range")
			continue
		}
		target = w
		requested = true
		sess.RequestWindow(w)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading ranges: %w", err)
	}

	settled := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return notified != nil && notified.Equal(target)
	}
	if requested {
		timeout := time.After(config.Debounce + 10*time.Second)
		for !settled() {
			select {
			case <-published:
			case <-timeout:
				return fmt.Errorf("window %s did not settle", target)
			}
		}
	}
	sess.Close()

	mu.Lock()
	defer mu.Unlock()
	st := sess.State()
	summary := analysis.Summarize(st.Aggregates)
	fmt.Fprintf(out, "Window: %s\n", st.Window)
	fmt.Fprintf(out, "%s tracks, %s plays, %s listened\n",
		formatCount(summary.UniqueTracks), formatCount(summary.Plays), analysis.FormatDaysHoursMinutes(summary.TotalPlayedMs))
	return nil
}
