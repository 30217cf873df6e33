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
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listening-insights/internal/analysis"
)

var (
	limitArtists int
	limitAlbums  int
	limitTracks  int
	limitSkipped int
)

var topNCmd = &cobra.Command{
	Use:   "top-n [from (optional)] [to (optional)]",
	Short: "Generates a textual summary of music taste",
	Long:  `Generates a plain text summary of top artists, albums, tracks and skips over a period.`,
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopN(os.Stdout, viper.GetString("database"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topNCmd)
	topNCmd.Flags().IntVar(&limitArtists, "artists", 10, "Number of top artists to show")
	topNCmd.Flags().IntVar(&limitAlbums, "albums", 10, "Number of top albums to show")
	topNCmd.Flags().IntVar(&limitTracks, "tracks", 10, "Number of top tracks to show")
	topNCmd.Flags().IntVar(&limitSkipped, "skipped", 5, "Number of most skipped tracks to show")
}

func printTopN(out io.Writer, dbPath string, args []string) error {
	in, err := loadAnalysisInput(dbPath, args)
	if err != nil {
		return err
	}

	summary := analysis.Summarize(in.Aggregates)
	fmt.Fprintf(out, "Listening Summary\n")
	fmt.Fprintf(out, "Period: %s\n", in.Window)
	fmt.Fprintf(out, "Total Plays: %s\n", formatCount(summary.Plays))
	fmt.Fprintf(out, "Total Listening: %s\n\n", analysis.FormatDaysHoursMinutes(summary.TotalPlayedMs))

	if limitArtists > 0 {
		fmt.Fprintf(out, "## Top %d Artists\n", limitArtists)
		for i, a := range analysis.TopArtists(in.Aggregates, limitArtists) {
			fmt.Fprintf(out, "%d. %s (%s)\n", i+1, orUnknown(a.Artist, "artist"), analysis.FormatHoursMinutes(a.TotalPlayedMs))
		}
		fmt.Fprintln(out)
	}

	if limitAlbums > 0 {
		fmt.Fprintf(out, "## Top %d Albums\n", limitAlbums)
		for i, a := range analysis.TopAlbums(in.Aggregates, limitAlbums) {
			fmt.Fprintf(out, "%d. %s - %s (%s)\n", i+1, a.Album, orUnknown(a.Artist, "artist"), analysis.FormatHoursMinutes(a.TotalPlayedMs))
		}
		fmt.Fprintln(out)
	}

	if limitTracks > 0 {
		fmt.Fprintf(out, "## Top %d Tracks\n", limitTracks)
		for i, t := range analysis.TopTracks(in.Aggregates, limitTracks) {
			fmt.Fprintf(out, "%d. %s - %s (%d)\n", i+1, orUnknown(t.TrackName, "track"), orUnknown(t.ArtistName, "artist"), t.EventCount)
		}
		fmt.Fprintln(out)
	}

	if limitSkipped > 0 {
		fmt.Fprintf(out, "## Most Skipped\n")
		for i, t := range analysis.MostSkipped(in.Events, in.Window, limitSkipped) {
			fmt.Fprintf(out, "%d. %s - %s (%d of %d)\n", i+1, t.TrackName, orUnknown(t.ArtistName, "artist"), t.SkipCount, t.TotalPlays)
		}
		fmt.Fprintln(out)
	}

	return nil
}
