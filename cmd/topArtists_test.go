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
	"path/filepath"
	"strings"
	"testing"

	"github.com/ademuri/listening-insights/internal/store"
)

func TestPrintTopArtistsDatabaseDoesntExist(t *testing.T) {
	err := printTopArtists(filepath.Join(t.TempDir(), "listening.db"), []string{"2020-05"}, 10)
	if err == nil {
		t.Fatalf("printTopArtists should have errored with no database")
	}
	if !strings.Contains(err.Error(), "doesn't exist") {
		t.Fatalf("printTopArtists should have said the db doesn't exist: %v", err)
	}
}

func TestPrintTopArtistsInvalidDateString(t *testing.T) {
	dbPath := createTestDb(t)

	err := printTopArtists(dbPath, []string{"derp"}, 10)
	if err == nil {
		t.Fatalf("printTopArtists should have errored with an invalid date string")
	}

	err = printTopArtists(dbPath, []string{"2021", "2020"}, 10)
	if err == nil {
		t.Fatalf("printTopArtists should have errored with an end before the start")
	}
}

func TestPrintTopArtistsEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "listening.db")
	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("creating database: %v", err)
	}
	db.Close()

	err = printTopArtists(dbPath, nil, 10)
	if err == nil || !strings.Contains(err.Error(), "run import first") {
		t.Fatalf("expected a 'run import first' error, got %v", err)
	}
}

func TestTopArtistsAnalyzer(t *testing.T) {
	in := testInput(t)
	got := TopArtistsAnalyzer{}.SetConfig(AnalyserConfig{NumToReturn: 2}).GetResults(in)

	assertRows(t, got, [][]string{
		{"Artist", "Time", "Tracks"},
		{"The Beatles", "0h 13m", "2"},
		{"Radiohead", "0h 12m", "1"},
	})
	if !strings.Contains(got.summary, "Found 3 artists and 8 plays") {
		t.Errorf("unexpected summary: %q", got.summary)
	}
}

func TestTopArtistsAnalyzerWindow(t *testing.T) {
	in := testInput(t, "2021")
	got := TopArtistsAnalyzer{}.GetResults(in)

	assertRows(t, got, [][]string{
		{"Artist", "Time", "Tracks"},
		{"Radiohead", "0h 12m", "1"},
		{"Solo Act", "0h 01m", "1"},
	})
	if !strings.Contains(got.summary, "2021-01-01 to 2021-12-31") {
		t.Errorf("summary should name the window: %q", got.summary)
	}
}
