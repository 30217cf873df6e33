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

var newAlbumsNumber int
var newAlbumsCmd = &cobra.Command{
	Use:   "new-albums [from] [to (optional)]",
	Short: "Gets new albums for the given time period",
	Long:  `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runAnalyser(os.Stdout, viper.GetString("database"), args,
			NewAlbumsAnalyzer{Config: AnalyserConfig{NumToReturn: newAlbumsNumber}})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

type NewAlbumsAnalyzer struct {
	Config AnalyserConfig
}

func init() {
	rootCmd.AddCommand(newAlbumsCmd)

	newAlbumsCmd.Flags().IntVarP(&newAlbumsNumber, "number", "n", 0, "number of results to return")
}

func (t NewAlbumsAnalyzer) GetName() string {
	return "New albums"
}

func (t NewAlbumsAnalyzer) GetResults(in AnalysisInput) (result Analysis) {
	found := analysis.NewAlbums(in.Events, in.Window, t.Config.NumToReturn)

	result.results = [][]string{{"Artist", "Album", "Plays", "First played"}}
	for _, a := range found {
		result.results = append(result.results, []string{
			orUnknown(a.Artist, "artist"),
			a.Album,
			strconv.Itoa(a.Plays),
			a.FirstInWindow,
		})
	}
	result.summary = fmt.Sprintf("Found %d new albums from %s\n", len(found), in.Window)
	return
}
