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

var oneHitWondersNumber int
var oneHitWondersCmd = &cobra.Command{
	Use:   "one-hit-wonders [from (optional)] [to (optional)]",
	Short: "Lists artists you only ever played one track by",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runAnalyser(os.Stdout, viper.GetString("database"), args,
			OneHitWondersAnalyzer{Config: AnalyserConfig{NumToReturn: oneHitWondersNumber}})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(oneHitWondersCmd)

	oneHitWondersCmd.Flags().IntVarP(&oneHitWondersNumber, "number", "n", 10, "number of results to return")
}

type OneHitWondersAnalyzer struct {
	Config AnalyserConfig
}

func (o OneHitWondersAnalyzer) GetName() string {
	return "One-hit wonders"
}

func (o OneHitWondersAnalyzer) GetResults(in AnalysisInput) (result Analysis) {
	all := analysis.OneHitWonders(in.Aggregates, 0)

	result.results = [][]string{{"Artist", "Track", "Plays", "Time"}}
	for _, a := range all {
		if o.Config.NumToReturn > 0 && len(result.results) > o.Config.NumToReturn {
			break
		}
		result.results = append(result.results, []string{
			a.ArtistName,
			orUnknown(a.TrackName, "track"),
			strconv.Itoa(a.EventCount),
			analysis.FormatHoursMinutes(a.TotalPlayedMs),
		})
	}
	result.summary = fmt.Sprintf("%s artists with a single track from %s\n", formatCount(len(all)), in.Window)
	return
}
