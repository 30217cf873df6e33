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

var newArtistsNumber int
var newArtistsMin int
var newArtistsCmd = &cobra.Command{
	Use:   "new-artists [from] [to (optional)]",
	Short: "Gets new artists for the given time period",
	Long: `An artist is new if it was played more than five times in the period and fewer
than five times before it. Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd',
or a relative '6m'.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printNewArtists(viper.GetString("database"), newArtistsNumber, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(newArtistsCmd)

	newArtistsCmd.Flags().IntVarP(&newArtistsNumber, "number", "n", 0, "number of results to return")
	newArtistsCmd.Flags().IntVar(&newArtistsMin, "min", 0, "only show artists with more plays than this")
}

func printNewArtists(dbPath string, numToReturn int, args []string) error {
	config := AnalyserConfig{NumToReturn: numToReturn, FilterThreshold: newArtistsMin}
	return runAnalyser(os.Stdout, dbPath, args, (&NewArtistsAnalyzer{}).SetConfig(config))
}

type NewArtistsAnalyzer struct {
	Config AnalyserConfig
}

func (t *NewArtistsAnalyzer) SetConfig(config AnalyserConfig) *NewArtistsAnalyzer {
	t.Config = config
	return t
}

func (t *NewArtistsAnalyzer) GetName() string {
	return "New artists"
}

func (t *NewArtistsAnalyzer) GetResults(in AnalysisInput) (result Analysis) {
	found := analysis.NewArtists(in.Events, in.Window, 0)

	result.results = append(result.results, []string{"Artist", "Plays", "Before", "First played"})
	numPlays := 0
	for _, a := range found {
		numPlays += a.Plays
		if t.Config.FilterThreshold > 0 && a.Plays <= t.Config.FilterThreshold {
			continue
		}
		if t.Config.NumToReturn > 0 && len(result.results) > t.Config.NumToReturn {
			continue
		}
		result.results = append(result.results, []string{
			a.Artist,
			strconv.Itoa(a.Plays),
			strconv.Itoa(a.PriorPlays),
			a.FirstInWindow,
		})
	}
	result.summary = fmt.Sprintf("Found %s new artists with %s plays from %s\n",
		formatCount(len(found)), formatCount(numPlays), in.Window)

	return
}
