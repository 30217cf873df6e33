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
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/ademuri/listening-insights/internal/analysis"
	"github.com/ademuri/listening-insights/internal/history"
	"github.com/ademuri/listening-insights/internal/session"
	"github.com/ademuri/listening-insights/internal/store"
)

type Analysis struct {
	results [][]string
	summary string
}

type AnalyserConfig struct {
	// Number of results to return, default is all results.
	NumToReturn int

	// Rows at or below this play count are dropped, default keeps everything.
	FilterThreshold int
}

// AnalysisInput is the history an analyser runs over: every event, the
// window, and the aggregates already computed for that window.
type AnalysisInput struct {
	Events     []history.PlayEvent
	Window     analysis.DateWindow
	Aggregates []analysis.TrackAggregate
}

func (in AnalysisInput) windowEvents() []history.PlayEvent {
	return lo.Filter(in.Events, func(e history.PlayEvent, _ int) bool {
		return in.Window.Contains(e.Timestamp)
	})
}

type Analyser interface {
	GetResults(in AnalysisInput) Analysis

	GetName() string
}

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	table := tablewriter.NewWriter(out)
	table.Header(a.results[0])
	for _, row := range a.results[1:] {
		if err := table.Append(row); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Sprintf("Error rendering table: %v", err)
	}
	fmt.Fprintf(out, "%s\n", a.summary)
	return out.String()
}

// loadAnalysisInput reads the stored history. With date arguments the window
// comes from them, otherwise from the saved window.
func loadAnalysisInput(dbPath string, args []string) (AnalysisInput, error) {
	var window analysis.DateWindow
	if len(args) > 0 {
		var err error
		window, err = parseDateRangeFromArgs(args)
		if err != nil {
			return AnalysisInput{}, err
		}
	}

	db, err := openStore(dbPath)
	if err != nil {
		return AnalysisInput{}, err
	}
	defer db.Close()

	log, err := loadLog(db)
	if err != nil {
		return AnalysisInput{}, err
	}

	if len(args) == 0 {
		window, err = db.LoadWindow()
		if err != nil {
			return AnalysisInput{}, err
		}
	}

	sess := session.New(log, session.Options{Window: window})
	defer sess.Close()
	state := sess.State()

	return AnalysisInput{
		Events:     log.Events(),
		Window:     state.Window,
		Aggregates: state.Aggregates,
	}, nil
}

func loadLog(db *store.Store) (*history.Log, error) {
	log, err := db.LoadLog()
	if errors.Is(err, store.ErrNoData) {
		return nil, fmt.Errorf("%w - run import first", err)
	}
	return log, err
}

func runAnalyser(out io.Writer, dbPath string, args []string, a Analyser) error {
	in, err := loadAnalysisInput(dbPath, args)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, a.GetResults(in))
	return nil
}

func orUnknown(s, what string) string {
	if s == "" {
		return "Unknown " + what
	}
	return s
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
