package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listening-insights/internal/analysis"
)

var skippedNumber int
var skippedCmd = &cobra.Command{
	Use:   "skipped [from (optional)] [to (optional)]",
	Short: "Lists the most skipped tracks",
	Long: `A play shorter than ten seconds counts as a skip. Tracks are ranked by how many
times they were skipped in the window.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runAnalyser(os.Stdout, viper.GetString("database"), args,
			SkippedAnalyzer{Config: AnalyserConfig{NumToReturn: skippedNumber}})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(skippedCmd)

	skippedCmd.Flags().IntVarP(&skippedNumber, "number", "n", 10, "number of results to return")
}

type SkippedAnalyzer struct {
	Config AnalyserConfig
}

func (s SkippedAnalyzer) GetName() string {
	return "Most skipped"
}

func (s SkippedAnalyzer) GetResults(in AnalysisInput) (result Analysis) {
	result.results = [][]string{{"Track", "Artist", "Skips", "Plays", "Skip rate"}}
	for _, t := range analysis.MostSkipped(in.Events, in.Window, s.Config.NumToReturn) {
		result.results = append(result.results, []string{
			t.TrackName,
			orUnknown(t.ArtistName, "artist"),
			strconv.Itoa(t.SkipCount),
			strconv.Itoa(t.TotalPlays),
			formatPercent(t.SkipRate()),
		})
	}

	profile := analysis.ComputeSkipProfile(in.windowEvents())
	result.summary = fmt.Sprintf("Skipped %s of %s plays (%s) from %s\n",
		formatCount(profile.SkipCount), formatCount(profile.TotalPlays), formatPercent(profile.SkipRate), in.Window)
	return
}
