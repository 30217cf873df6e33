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

var topArtistsNumber int
var topArtistsCmd = &cobra.Command{
	Use:   "top-artists [from (optional)] [to (optional)]",
	Short: "Gets the most listened artists",
	Long:  `Uses the specified date or date range, or the saved window. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopArtists(viper.GetString("database"), args, topArtistsNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)

	topArtistsCmd.Flags().IntVarP(&topArtistsNumber, "number", "n", 10, "number of results to return")
}

func printTopArtists(dbPath string, args []string, numToReturn int) error {
	return runAnalyser(os.Stdout, dbPath, args, TopArtistsAnalyzer{}.SetConfig(AnalyserConfig{NumToReturn: numToReturn}))
}

type TopArtistsAnalyzer struct {
	Config AnalyserConfig
}

func (t TopArtistsAnalyzer) SetConfig(config AnalyserConfig) TopArtistsAnalyzer {
	t.Config = config
	return t
}

func (t TopArtistsAnalyzer) GetName() string {
	return "Top artists"
}

func (t TopArtistsAnalyzer) GetResults(in AnalysisInput) (result Analysis) {
	all := analysis.TopArtists(in.Aggregates, 0)

	result.results = [][]string{{"Artist", "Time", "Tracks"}}
	for i, a := range all {
		if t.Config.NumToReturn > 0 && i >= t.Config.NumToReturn {
			break
		}
		result.results = append(result.results, []string{
			orUnknown(a.Artist, "artist"),
			analysis.FormatHoursMinutes(a.TotalPlayedMs),
			strconv.Itoa(a.Tracks),
		})
	}

	summary := analysis.Summarize(in.Aggregates)
	result.summary = fmt.Sprintf("Found %s artists and %s plays from %s\n",
		formatCount(len(all)), formatCount(summary.Plays), in.Window)
	return
}
