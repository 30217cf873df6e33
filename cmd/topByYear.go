package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listening-insights/internal/analysis"
)

var topByYearCmd = &cobra.Command{
	Use:   "top-by-year [from (optional)] [to (optional)]",
	Short: "Gets the most listened track of every year",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runAnalyser(os.Stdout, viper.GetString("database"), args, TopByYearAnalyzer{})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topByYearCmd)
}

type TopByYearAnalyzer struct{}

func (t TopByYearAnalyzer) GetName() string {
	return "Top track by year"
}

func (t TopByYearAnalyzer) GetResults(in AnalysisInput) (result Analysis) {
	years := analysis.TopTrackByYear(in.Events, in.Window)

	result.results = [][]string{{"Year", "Track", "Artist", "Time"}}
	for _, y := range years {
		result.results = append(result.results, []string{
			strconv.Itoa(y.Year),
			orUnknown(y.Track.TrackName, "track"),
			orUnknown(y.Track.ArtistName, "artist"),
			analysis.FormatHoursMinutes(y.Track.TotalPlayedMs),
		})
	}
	result.summary = fmt.Sprintf("%d years from %s\n", len(years), in.Window)
	return
}
