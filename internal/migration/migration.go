// Package migration holds the SQLite schema.
package migration

// Version is stored in user_version after Create has run.
const Version = 1

// Create builds every table. Statements are idempotent so it may be run on an
// existing database.
const Create = `
CREATE TABLE IF NOT EXISTS ImportBatch (
  id TEXT PRIMARY KEY,
  imported_at DATETIME NOT NULL,
  file_count INTEGER NOT NULL,
  event_count INTEGER NOT NULL,
  skipped_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS ImportFile (
  batch TEXT NOT NULL,
  position INTEGER NOT NULL,
  path TEXT NOT NULL,
  FOREIGN KEY (batch) REFERENCES ImportBatch(id) ON DELETE CASCADE,
  PRIMARY KEY (batch, position)
);

-- seq preserves the order events were read in; aggregation metadata depends
-- on it.
CREATE TABLE IF NOT EXISTS PlayEvent (
  seq INTEGER PRIMARY KEY,
  batch TEXT NOT NULL,
  ts INTEGER NOT NULL,
  ms_played INTEGER NOT NULL,
  track_uri TEXT NOT NULL DEFAULT '',
  track_name TEXT NOT NULL DEFAULT '',
  artist_name TEXT NOT NULL DEFAULT '',
  album_name TEXT NOT NULL DEFAULT '',
  platform TEXT NOT NULL DEFAULT '',
  reason_start TEXT NOT NULL DEFAULT '',
  reason_end TEXT NOT NULL DEFAULT '',
  shuffle INTEGER NOT NULL DEFAULT 0,
  FOREIGN KEY (batch) REFERENCES ImportBatch(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS PlayEventTrack ON PlayEvent(track_uri);
CREATE INDEX IF NOT EXISTS PlayEventTime ON PlayEvent(ts);

CREATE TABLE IF NOT EXISTS Setting (
  name TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
