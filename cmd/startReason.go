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

var startReasonNumber int
var startReasonCmd = &cobra.Command{
	Use:   "start-reason <reason> [from (optional)] [to (optional)]",
	Short: "Ranks tracks by how often they started for a reason",
	Long: `Counts the plays of each track that started with the given reason, for
example 'clickrow', 'trackdone' or 'fwdbtn'. Run without a reason to list the
start reasons in the window.`,
	Args: cobra.MaximumNArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		var a Analyser = StartReasonsAnalyzer{}
		if len(args) > 0 {
			a = StartReasonAnalyzer{Reason: args[0], Config: AnalyserConfig{NumToReturn: startReasonNumber}}
			args = args[1:]
		}
		err := runAnalyser(os.Stdout, viper.GetString("database"), args, a)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(startReasonCmd)

	startReasonCmd.Flags().IntVarP(&startReasonNumber, "number", "n", 10, "number of results to return")
}

type StartReasonAnalyzer struct {
	Reason string
	Config AnalyserConfig
}

func (s StartReasonAnalyzer) GetName() string {
	return fmt.Sprintf("Started by %s", s.Reason)
}

func (s StartReasonAnalyzer) GetResults(in AnalysisInput) (result Analysis) {
	tracks := analysis.TracksByStartReason(in.Events, in.Window, s.Reason, s.Config.NumToReturn)

	result.results = [][]string{{"Track", "Artist", "Count"}}
	for _, t := range tracks {
		result.results = append(result.results, []string{
			orUnknown(t.TrackName, "track"),
			orUnknown(t.ArtistName, "artist"),
			strconv.Itoa(t.Count),
		})
	}
	result.summary = fmt.Sprintf("Tracks started by %q from %s\n", s.Reason, in.Window)
	return
}

// StartReasonsAnalyzer breaks the window's plays down by start reason.
type StartReasonsAnalyzer struct{}

func (s StartReasonsAnalyzer) GetName() string {
	return "Start reasons"
}

func (s StartReasonsAnalyzer) GetResults(in AnalysisInput) (result Analysis) {
	profile := analysis.ComputeContextProfile(in.windowEvents())

	result.results = [][]string{{"Reason", "Plays", "Share"}}
	for _, r := range profile.StartReasons {
		result.results = append(result.results, []string{
			r.Value,
			formatCount(r.Count),
			formatPercent(float64(r.Count) / float64(profile.TotalPlays)),
		})
	}
	result.summary = fmt.Sprintf("%s plays, %s shuffled, %s started manually, from %s\n",
		formatCount(profile.TotalPlays), formatPercent(profile.ShuffleRatio), formatPercent(profile.ManualRatio), in.Window)
	return
}
