package analysis

// Report is the top-level structure of the listening report.
type Report struct {
	Metadata          ReportMetadata    `json:"metadata" yaml:"metadata"`
	Summary           Summary           `json:"summary" yaml:"summary"`
	TopTracks         []TrackAggregate  `json:"top_tracks" yaml:"top_tracks"`
	TopArtists        []ArtistStat      `json:"top_artists" yaml:"top_artists"`
	TopAlbums         []AlbumTime       `json:"top_albums" yaml:"top_albums"`
	OneHitWonders     []TrackAggregate  `json:"one_hit_wonders" yaml:"one_hit_wonders"`
	MostSkipped       []SkippedTrack    `json:"most_skipped" yaml:"most_skipped"`
	TopTrackByYear    []YearTopTrack    `json:"top_track_by_year" yaml:"top_track_by_year"`
	Skips             SkipProfile       `json:"skips" yaml:"skips"`
	Context           ContextProfile    `json:"context" yaml:"context"`
	ArtistDrift       ArtistDrift       `json:"artist_drift" yaml:"artist_drift"`
	ListeningPatterns ListeningPatterns `json:"listening_patterns" yaml:"listening_patterns"`
}

type ReportMetadata struct {
	GeneratedDate    string `json:"generated_date" yaml:"generated_date"`
	Window           string `json:"window" yaml:"window"`
	TotalListening   string `json:"total_listening" yaml:"total_listening"`
	ListeningStyle   string `json:"listening_style" yaml:"listening_style"`
	CurrentPeriod    string `json:"current_period,omitempty" yaml:"current_period,omitempty"`
	HistoricalPeriod string `json:"historical_period,omitempty" yaml:"historical_period,omitempty"`
}

type ArtistStat struct {
	Name          string   `json:"name" yaml:"name"`
	TotalPlayedMs int64    `json:"total_played_ms" yaml:"total_played_ms"`
	Plays         int      `json:"plays" yaml:"plays"`
	PeakYears     string   `json:"peak_years,omitempty" yaml:"peak_years,omitempty"`
	TopAlbums     []string `json:"top_albums,omitempty" yaml:"top_albums,omitempty"`
}

// ArtistDrift lists artists that left or entered the top of the listener's
// rotation between the historical and current periods.
type ArtistDrift struct {
	Declined []DriftArtist `json:"declined" yaml:"declined"`
	Emerged  []DriftArtist `json:"emerged" yaml:"emerged"`
}

type DriftArtist struct {
	Artist       string `json:"artist" yaml:"artist"`
	HistoricalMs int64  `json:"historical_ms" yaml:"historical_ms"`
	CurrentMs    int64  `json:"current_ms" yaml:"current_ms"`
}

type ListeningPatterns struct {
	AlbumsPerArtistMedian    float64 `json:"albums_per_artist_median" yaml:"albums_per_artist_median"`
	AlbumsPerArtistAverage   float64 `json:"albums_per_artist_average" yaml:"albums_per_artist_average"`
	NewArtistsInLast12Months int     `json:"new_artists_in_last_12_months" yaml:"new_artists_in_last_12_months"`
	RepeatListeningRatio     float64 `json:"repeat_listening_ratio" yaml:"repeat_listening_ratio"`
}
