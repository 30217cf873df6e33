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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listening-insights/internal/analysis"
)

var topAlbumsNumber int
var topAlbumsCmd = &cobra.Command{
	Use:   "top-albums [from (optional)] [to (optional)]",
	Short: "Gets the most listened albums",
	Long:  `Uses the specified date or date range, or the saved window. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopAlbums(viper.GetString("database"), args, topAlbumsNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topAlbumsCmd)

	topAlbumsCmd.Flags().IntVarP(&topAlbumsNumber, "number", "n", 10, "number of results to return")
}

func printTopAlbums(dbPath string, args []string, numToReturn int) error {
	return runAnalyser(os.Stdout, dbPath, args, TopAlbumsAnalyzer{}.SetConfig(AnalyserConfig{NumToReturn: numToReturn}))
}

type TopAlbumsAnalyzer struct {
	Config AnalyserConfig
}

func (t TopAlbumsAnalyzer) SetConfig(config AnalyserConfig) TopAlbumsAnalyzer {
	t.Config = config
	return t
}

func (t TopAlbumsAnalyzer) GetName() string {
	return "Top albums"
}

func (t TopAlbumsAnalyzer) GetResults(in AnalysisInput) (result Analysis) {
	all := analysis.TopAlbums(in.Aggregates, 0)

	result.results = [][]string{{"Artist", "Album", "Time"}}
	for i, a := range all {
		if t.Config.NumToReturn > 0 && i >= t.Config.NumToReturn {
			break
		}
		result.results = append(result.results, []string{
			orUnknown(a.Artist, "artist"),
			a.Album,
			analysis.FormatHoursMinutes(a.TotalPlayedMs),
		})
	}
	result.summary = fmt.Sprintf("Found %s albums from %s\n", formatCount(len(all)), in.Window)
	return
}
