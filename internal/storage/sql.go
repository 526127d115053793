package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// dialect holds the per-driver differences.
type dialect struct {
	name        string
	schema      string
	dollarBinds bool // $1, $2 instead of ?
}

// sqlStore implements Store on database/sql.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

func newSQLStore(db *sql.DB, d dialect) (*sqlStore, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to %s: %w", d.name, err)
	}
	s := &sqlStore{db: db, dialect: d}
	if _, err := db.Exec(d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return s, nil
}

// rebind rewrites ? placeholders for drivers that number them.
func rebind(query string, dollar bool) string {
	if !dollar {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (s *sqlStore) q(query string) string {
	return rebind(query, s.dialect.dollarBinds)
}

// Close closes the database connection.
func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const runColumns = `id, game_id, level_id, player, score, coins, max_combo, completed,
	death_cause, duration_ms, seed, created_at`

// SaveRun records a run, filling in its ID and timestamp when missing.
func (s *sqlStore) SaveRun(run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	_, err := s.db.Exec(s.q(`INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.GameID, run.LevelID, run.Player, run.Score, run.Coins, run.MaxCombo,
		run.Completed, run.DeathCause, run.DurationMs, run.Seed, run.CreatedAt,
	)
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot save run: %w", err)
	}
	return run, nil
}

// Run loads one run by ID.
func (s *sqlStore) Run(id string) (Run, error) {
	row := s.db.QueryRow(s.q(`SELECT `+runColumns+` FROM runs WHERE id = ?`), id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("storage: run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return run, nil
}

// TopRuns returns the best runs of a game, optionally limited to one level.
func (s *sqlStore) TopRuns(gameID, levelID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(s.q(`SELECT `+runColumns+`
		FROM runs
		WHERE game_id = ? AND (? = '' OR level_id = ?)
		ORDER BY score DESC, created_at ASC
		LIMIT ?`),
		gameID, levelID, levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// HighScore returns the best score for a game and level, 0 when none exist.
func (s *sqlStore) HighScore(gameID, levelID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(s.q(`SELECT MAX(score) FROM runs WHERE game_id = ? AND (? = '' OR level_id = ?)`),
		gameID, levelID, levelID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Stats aggregates runs per game and level, ordered by game then level.
func (s *sqlStore) Stats() ([]LevelStats, error) {
	rows, err := s.db.Query(`SELECT game_id, level_id, COUNT(*),
		SUM(CASE WHEN completed THEN 1 ELSE 0 END), MAX(score), AVG(score), MAX(created_at)
		FROM runs
		GROUP BY game_id, level_id
		ORDER BY game_id, level_id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	var stats []LevelStats
	for rows.Next() {
		var st LevelStats
		var last any
		if err := rows.Scan(&st.GameID, &st.LevelID, &st.Runs, &st.Completions, &st.BestScore, &st.AvgScore, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(last)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearRuns deletes every run of a game.
func (s *sqlStore) ClearRuns(gameID string) error {
	if _, err := s.db.Exec(s.q("DELETE FROM runs WHERE game_id = ?"), gameID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var created any
	err := sc.Scan(&run.ID, &run.GameID, &run.LevelID, &run.Player, &run.Score, &run.Coins,
		&run.MaxCombo, &run.Completed, &run.DeathCause, &run.DurationMs, &run.Seed, &created)
	if err != nil {
		return Run{}, err
	}
	run.CreatedAt = parseTime(created)
	return run, nil
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// parseTime accepts the timestamp shapes drivers hand back.
func parseTime(v any) time.Time {
	var s string
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
