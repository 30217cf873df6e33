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

var topTracksNumber int
var topTracksCmd = &cobra.Command{
	Use:   "top-tracks [from (optional)] [to (optional)]",
	Short: "Gets the most listened tracks",
	Long: `Ranks tracks by total time played. Uses the specified date or date range, or the
saved window when no dates are given. Date strings look like 'yyyy', 'yyyy-mm',
'yyyy-mm-dd', or a relative '30d', '12w', '6m', '2y'.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopTracks(viper.GetString("database"), args, topTracksNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topTracksCmd)

	topTracksCmd.Flags().IntVarP(&topTracksNumber, "number", "n", 10, "number of results to return")
}

func printTopTracks(dbPath string, args []string, numToReturn int) error {
	return runAnalyser(os.Stdout, dbPath, args, TopTracksAnalyzer{}.SetConfig(AnalyserConfig{NumToReturn: numToReturn}))
}

type TopTracksAnalyzer struct {
	Config AnalyserConfig
}

func (t TopTracksAnalyzer) SetConfig(config AnalyserConfig) TopTracksAnalyzer {
	t.Config = config
	return t
}

func (t TopTracksAnalyzer) GetName() string {
	return "Top tracks"
}

func (t TopTracksAnalyzer) GetResults(in AnalysisInput) (result Analysis) {
	result.results = [][]string{{"Track", "Artist", "Time", "Plays"}}
	for _, a := range analysis.TopTracks(in.Aggregates, t.Config.NumToReturn) {
		result.results = append(result.results, []string{
			orUnknown(a.TrackName, "track"),
			orUnknown(a.ArtistName, "artist"),
			analysis.FormatHoursMinutes(a.TotalPlayedMs),
			strconv.Itoa(a.EventCount),
		})
	}

	summary := analysis.Summarize(in.Aggregates)
	result.summary = fmt.Sprintf("Found %s tracks and %s plays (%s) from %s\n",
		formatCount(summary.UniqueTracks), formatCount(summary.Plays),
		analysis.FormatHoursMinutes(summary.TotalPlayedMs), in.Window)
	return
}
