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
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listening-insights/internal/analysis"
)

var statsCmd = &cobra.Command{
	Use:   "stats [from (optional)] [to (optional)]",
	Short: "Summarises listening in the window",
	Long:  `Prints total listening time, play counts, and per-year skip and manual-start rates.`,
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runAnalyser(os.Stdout, viper.GetString("database"), args, StatsAnalyzer{})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

type StatsAnalyzer struct{}

func (s StatsAnalyzer) GetName() string {
	return "Listening stats"
}

func (s StatsAnalyzer) GetResults(in AnalysisInput) (result Analysis) {
	events := in.windowEvents()
	skips := analysis.ComputeSkipProfile(events)
	context := analysis.ComputeContextProfile(events)

	manualByYear := make(map[int]analysis.YearManualAuto)
	for _, y := range context.ManualVsAutoByYear {
		manualByYear[y.Year] = y
	}

	result.results = [][]string{{"Year", "Plays", "Skip rate", "Manual", "Auto"}}
	for _, y := range skips.SkipRateByYear {
		split := manualByYear[y.Year]
		result.results = append(result.results, []string{
			strconv.Itoa(y.Year),
			formatCount(y.Total),
			formatPercent(y.SkipRate),
			formatCount(split.Manual),
			formatCount(split.Auto),
		})
	}

	summary := analysis.Summarize(in.Aggregates)
	result.summary = fmt.Sprintf("%s listened over %s plays of %s tracks by %s artists from %s\n",
		analysis.FormatDaysHoursMinutes(summary.TotalPlayedMs), formatCount(len(events)),
		formatCount(summary.UniqueTracks), formatCount(summary.UniqueArtists), in.Window)
	return
}
