package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listening-insights/internal/analysis"
)

var (
	minArtistPlays    int
	minAlbumPlays     int
	resultsPerBand    int
	sortBy            string
	lastPlayBeforeStr string
)

var forgottenCmd = &cobra.Command{
	Use:   "forgotten",
	Short: "Surfaces artists and albums heavily listened to in the past but not recently",
	Long:  `Identifies music that has fallen out of rotation based on dormancy and historical play counts. Skipped plays are not counted.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := printForgotten(os.Stdout, viper.GetString("database"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(forgottenCmd)

	forgottenCmd.Flags().IntVar(&minArtistPlays, "min-artist", 10, "Minimum plays for artist inclusion")
	forgottenCmd.Flags().IntVar(&minAlbumPlays, "min-album", 5, "Minimum plays for album inclusion")
	forgottenCmd.Flags().IntVar(&resultsPerBand, "results", 10, "Max results shown per interest band")
	forgottenCmd.Flags().StringVar(&sortBy, "sort", "dormancy", "Sort order: 'dormancy' or 'plays'")
	forgottenCmd.Flags().StringVar(&lastPlayBeforeStr, "last_play_before", "90d", "Only include entities last played before this date (YYYY-MM-DD or duration like 90d)")
}

func forgottenConfig() (analysis.ForgottenConfig, error) {
	config := analysis.ForgottenConfig{
		MinArtistPlays: minArtistPlays,
		MinAlbumPlays:  minAlbumPlays,
		ResultsPerBand: resultsPerBand,
		SortBy:         sortBy,
	}
	if sortBy != "dormancy" && sortBy != "plays" {
		return config, fmt.Errorf("invalid sort %q: expected 'dormancy' or 'plays'", sortBy)
	}
	if lastPlayBeforeStr != "" {
		pd, err := parseSingleDatestring(lastPlayBeforeStr)
		if err != nil {
			return config, fmt.Errorf("invalid last_play_before date: %w", err)
		}
		config.LastPlayBefore = pd.Date
	}
	return config, nil
}

func printForgotten(out io.Writer, dbPath string) error {
	config, err := forgottenConfig()
	if err != nil {
		return err
	}

	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	log, err := loadLog(db)
	if err != nil {
		return err
	}
	events := log.Events()

	now := time.Now()

	artists := analysis.GetForgottenArtists(events, config, now)
	fmt.Fprintln(out, "## Forgotten Artists")
	for _, band := range analysis.Bands {
		if err := printArtistBand(out, artists, band); err != nil {
			return err
		}
	}
	fmt.Fprintln(out)

	albums := analysis.GetForgottenAlbums(events, config, now)
	fmt.Fprintln(out, "## Forgotten Albums")
	for _, band := range analysis.Bands {
		if err := printAlbumBand(out, albums, band); err != nil {
			return err
		}
	}

	return nil
}

func printArtistBand(out io.Writer, results map[string][]analysis.ForgottenArtist, band string) error {
	items, ok := results[band]
	if !ok || len(items) == 0 {
		return nil
	}

	fmt.Fprintf(out, "\n### %s Interest (%d+ plays)\n", band, analysis.GetThreshold(band, true))

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Artist", "Plays", "Last Play", "Days Since"})

	var errs []error
	for _, a := range items {
		errs = append(errs, table.Append([]string{
			a.Artist,
			strconv.Itoa(a.Plays),
			a.LastPlay.Format("2006-01-02"),
			strconv.Itoa(a.DaysSinceLast),
		}))
	}
	errs = append(errs, table.Render())
	return errors.Join(errs...)
}

func printAlbumBand(out io.Writer, results map[string][]analysis.ForgottenAlbum, band string) error {
	items, ok := results[band]
	if !ok || len(items) == 0 {
		return nil
	}

	fmt.Fprintf(out, "\n### %s Interest (%d+ plays)\n", band, analysis.GetThreshold(band, false))

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Artist", "Album", "Plays", "Last Play"})

	var errs []error
	for _, a := range items {
		errs = append(errs, table.Append([]string{
			a.Artist,
			a.Album,
			strconv.Itoa(a.Plays),
			a.LastPlay.Format("2006-01-02"),
		}))
	}
	errs = append(errs, table.Render())
	return errors.Join(errs...)
}
