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
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listening-insights/internal/analysis"
	"github.com/ademuri/listening-insights/internal/session"
)

const trackURIPrefix = "spotify:track:"

var trackFormat string
var trackMaxPoints int

var trackCmd = &cobra.Command{
	Use:   "track <uri or name>",
	Short: "Shows skip, context and lifetime insights for one track",
	Long: `Takes a track URI like 'spotify:track:...', or part of a track name, in which
case the most played matching track is used. Insights always cover the track's
whole history.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTrack(os.Stdout, viper.GetString("database"), args[0], trackFormat)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().StringVarP(&trackFormat, "format", "f", "table", "Output format: table, yaml or json")
	trackCmd.Flags().IntVar(&trackMaxPoints, "max-points", 200, "Thin the lifetime curve to about this many points, 0 keeps all")
}

// resolveTrack maps a name fragment to the URI of the most played matching
// track. URIs are returned as is.
func resolveTrack(aggs []analysis.TrackAggregate, query string) (string, error) {
	if strings.HasPrefix(query, trackURIPrefix) {
		return query, nil
	}

	needle := strings.ToLower(query)
	matches := lo.Filter(aggs, func(a analysis.TrackAggregate, _ int) bool {
		return strings.Contains(strings.ToLower(a.TrackName), needle)
	})
	if len(matches) == 0 {
		return "", fmt.Errorf("no track matching %q", query)
	}
	return analysis.TopTracks(matches, 1)[0].TrackURI, nil
}

func printTrack(out io.Writer, dbPath, query, format string) error {
	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	log, err := loadLog(db)
	if err != nil {
		return err
	}

	sess := session.New(log, session.Options{})
	defer sess.Close()

	uri, err := resolveTrack(sess.State().Aggregates, query)
	if err != nil {
		return err
	}
	insights, ok := sess.Insights(uri)
	if !ok {
		return fmt.Errorf("no plays of %s", uri)
	}
	insights.Lifetime.Curve = analysis.SubsampleCurve(insights.Lifetime.Curve, trackMaxPoints)

	if format != "table" {
		return encodeAs(out, format, insights)
	}
	_, err = io.WriteString(out, formatInsights(insights))
	return err
}

func formatInsights(in session.Insights) string {
	out := new(bytes.Buffer)
	t := in.Track
	fmt.Fprintf(out, "%s - %s\n", orUnknown(t.TrackName, "track"), orUnknown(t.ArtistName, "artist"))
	if t.AlbumName != "" {
		fmt.Fprintf(out, "Album: %s\n", t.AlbumName)
	}
	fmt.Fprintf(out, "%s plays, %s listened\n", formatCount(t.EventCount), analysis.FormatHoursMinutes(t.TotalPlayedMs))

	lt := in.Lifetime
	if lt.FirstPlay != nil {
		fmt.Fprintf(out, "First played %s, last played %s\n", *lt.FirstPlay, *lt.LastPlay)
	}
	if lt.PeakYear != nil {
		fmt.Fprintf(out, "Peak year: %d\n", *lt.PeakYear)
	}
	fmt.Fprintf(out, "Milestones: 25%% %s, 50%% %s, 75%% %s\n",
		orDash(lt.Milestones.P25), orDash(lt.Milestones.P50), orDash(lt.Milestones.P75))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Skipped %s of %s plays (%s)\n", formatCount(in.Skips.SkipCount), formatCount(in.Skips.TotalPlays), formatPercent(in.Skips.SkipRate))
	fmt.Fprintf(out, "Average listen: %.1fs skipped, %.1fs otherwise\n", in.Skips.AvgSkippedMs/1000, in.Skips.AvgNotSkippedMs/1000)
	fmt.Fprintf(out, "Shuffle: %s, started manually: %s\n\n", formatPercent(in.Context.ShuffleRatio), formatPercent(in.Context.ManualRatio))

	manualByYear := make(map[int]analysis.YearManualAuto)
	for _, y := range in.Context.ManualVsAutoByYear {
		manualByYear[y.Year] = y
	}
	rows := [][]string{{"Year", "Plays", "Skip rate", "Manual", "Auto"}}
	for _, y := range in.Skips.SkipRateByYear {
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Total),
			formatPercent(y.SkipRate),
			strconv.Itoa(manualByYear[y.Year].Manual),
			strconv.Itoa(manualByYear[y.Year].Auto),
		})
	}
	writeTable(out, rows)

	rows = [][]string{{"Start reason", "Plays"}}
	for _, r := range in.Context.StartReasons {
		rows = append(rows, []string{r.Value, strconv.Itoa(r.Count)})
	}
	writeTable(out, rows)

	rows = [][]string{{"End reason", "Plays"}}
	for _, r := range in.Skips.EndReasons {
		rows = append(rows, []string{r.Value, strconv.Itoa(r.Count)})
	}
	writeTable(out, rows)

	rows = [][]string{{"Platform", "Plays"}}
	for _, r := range in.Context.Platforms {
		rows = append(rows, []string{r.Value, strconv.Itoa(r.Count)})
	}
	writeTable(out, rows)

	rows = [][]string{{"Month", "Cumulative"}}
	for _, p := range lt.Curve {
		rows = append(rows, []string{p.Month, strconv.FormatFloat(p.CumulativeHours, 'f', 1, 64) + "h"})
	}
	writeTable(out, rows)

	return out.String()
}

func writeTable(out io.Writer, rows [][]string) {
	fmt.Fprint(out, Analysis{results: rows})
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
