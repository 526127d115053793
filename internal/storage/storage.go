// Package storage persists finished runs. SQLite is the default back end;
// a postgres:// DSN selects PostgreSQL.
package storage

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("storage: not found")

// Run is one finished play-through.
type Run struct {
	ID         string // UUID, assigned on save when empty
	GameID     string
	LevelID    string
	Player     string // SSH user or empty for local play
	Score      int
	Coins      int
	MaxCombo   int
	Completed  bool
	DeathCause string
	DurationMs int64
	Seed       int64
	CreatedAt  time.Time
}

// LevelStats aggregates runs of one level.
type LevelStats struct {
	GameID      string
	LevelID     string
	Runs        int
	Completions int
	BestScore   int
	AvgScore    float64
	LastPlayed  time.Time
}

// Store is a run repository.
type Store interface {
	SaveRun(run Run) (Run, error)
	Run(id string) (Run, error)
	TopRuns(gameID, levelID string, limit int) ([]Run, error)
	HighScore(gameID, levelID string) (int, error)
	Stats() ([]LevelStats, error)
	ClearRuns(gameID string) error
	Close() error
}

// Open opens the store named by dsn: a postgres:// or postgresql:// URL
// selects PostgreSQL, anything else is a SQLite file path.
func Open(dsn string) (Store, error) {
	if IsPostgresDSN(dsn) {
		return OpenPostgres(dsn)
	}
	return OpenSQLite(dsn)
}

// IsPostgresDSN reports whether dsn addresses a PostgreSQL server.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
