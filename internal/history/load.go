package history

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zip"
)

const (
	historyFilePrefix = "Streaming_History_Audio_"
	historyFileSuffix = ".json"
)

// LoadResult is the outcome of reading one or more export sources.
type LoadResult struct {
	Events []PlayEvent
	// Files lists every export file read, archive entries as "archive.zip:entry".
	Files []string
	// Skipped counts records dropped because their timestamp could not be parsed.
	Skipped int
}

// exportRecord mirrors one entry of an extended streaming history file. Null
// strings decode to "".
type exportRecord struct {
	Ts          string `json:"ts"`
	Platform    string `json:"platform"`
	MsPlayed    int64  `json:"ms_played"`
	TrackName   string `json:"master_metadata_track_name"`
	ArtistName  string `json:"master_metadata_album_artist_name"`
	AlbumName   string `json:"master_metadata_album_album_name"`
	TrackURI    string `json:"spotify_track_uri"`
	ReasonStart string `json:"reason_start"`
	ReasonEnd   string `json:"reason_end"`
	Shuffle     bool   `json:"shuffle"`
}

// LoadPaths reads export files, directories and zip archives in the order
// given. Directories are searched recursively and archives are scanned for
// Streaming_History_Audio_*.json files; explicitly named .json files are
// always read.
func LoadPaths(paths []string) (LoadResult, error) {
	var result LoadResult
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return result, fmt.Errorf("reading %q: %w", p, err)
		}

		switch {
		case info.IsDir():
			err = loadDir(&result, p)
		case strings.EqualFold(filepath.Ext(p), ".zip"):
			err = loadArchive(&result, p)
		case strings.EqualFold(filepath.Ext(p), ".json"):
			err = loadFile(&result, p)
		default:
			err = fmt.Errorf("unsupported file type %q", p)
		}
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// IsHistoryFile reports whether name looks like an audio streaming history
// file from an export.
func IsHistoryFile(name string) bool {
	base := path.Base(filepath.ToSlash(name))
	return strings.HasPrefix(base, historyFilePrefix) && strings.HasSuffix(base, historyFileSuffix)
}

func loadDir(result *LoadResult, dir string) error {
	var files, archives []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(p), ".zip") {
			archives = append(archives, p)
		} else if IsHistoryFile(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %q: %w", dir, err)
	}

	sort.Strings(files)
	sort.Strings(archives)
	for _, f := range files {
		if err := loadFile(result, f); err != nil {
			return err
		}
	}
	for _, a := range archives {
		if err := loadArchive(result, a); err != nil {
			return err
		}
	}
	return nil
}

func loadFile(result *LoadResult, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("opening %q: %w", name, err)
	}
	defer f.Close()

	events, skipped, err := Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %q: %w", name, err)
	}
	result.Events = append(result.Events, events...)
	result.Files = append(result.Files, name)
	result.Skipped += skipped
	return nil
}

func loadArchive(result *LoadResult, name string) error {
	archive, err := zip.OpenReader(name)
	if err != nil {
		return fmt.Errorf("opening archive %q: %w", name, err)
	}
	defer archive.Close()

	entries := make([]*zip.File, 0, len(archive.File))
	for _, entry := range archive.File {
		if entry.FileInfo().IsDir() || !IsHistoryFile(entry.Name) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	// One entry at a time keeps memory bounded by the largest file.
	for _, entry := range entries {
		if err := loadArchiveEntry(result, name, entry); err != nil {
			return err
		}
	}
	return nil
}

func loadArchiveEntry(result *LoadResult, archiveName string, entry *zip.File) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("opening %s:%s: %w", archiveName, entry.Name, err)
	}
	defer rc.Close()

	events, skipped, err := Decode(rc)
	if err != nil {
		return fmt.Errorf("decoding %s:%s: %w", archiveName, entry.Name, err)
	}
	result.Events = append(result.Events, events...)
	result.Files = append(result.Files, archiveName+":"+entry.Name)
	result.Skipped += skipped
	return nil
}

// Decode reads one export file (a JSON array of records). Records whose
// timestamp does not parse are dropped and counted in skipped.
func Decode(r io.Reader) (events []PlayEvent, skipped int, err error) {
	var records []exportRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, 0, err
	}

	events = make([]PlayEvent, 0, len(records))
	for _, rec := range records {
		ts, err := time.Parse(time.RFC3339, rec.Ts)
		if err != nil {
			skipped++
			continue
		}
		played := rec.MsPlayed
		if played < 0 {
			played = 0
		}
		events = append(events, PlayEvent{
			Timestamp:   ts.UTC(),
			PlayedMs:    played,
			TrackURI:    rec.TrackURI,
			TrackName:   rec.TrackName,
			ArtistName:  rec.ArtistName,
			AlbumName:   rec.AlbumName,
			Platform:    rec.Platform,
			ReasonStart: rec.ReasonStart,
			ReasonEnd:   rec.ReasonEnd,
			Shuffle:     rec.Shuffle,
		})
	}
	return events, skipped, nil
}
