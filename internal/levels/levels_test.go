package levels

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/skybeat/internal/config"
)

func validLevel() Level {
	return Level{
		ID:          "t",
		PlayerStart: Point{X: 185, Y: 16},
		GoalY:       200,
		Platforms: []PlatformConfig{
			{X: 0, Y: 0, Width: 400, Height: 16, Type: "solid"},
			{X: 250, Y: 120, Width: 100, Height: 16, Type: "solid"},
		},
	}
}

func TestValidateAcceptsWellFormedLevel(t *testing.T) {
	require.NoError(t, Validate(validLevel()))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Level)
		code   string
	}{
		{"goal below start", func(l *Level) { l.GoalY = 10 }, "NO_GOAL"},
		{"no platforms", func(l *Level) { l.Platforms = nil }, "NO_PLATFORMS"},
		{"unknown type", func(l *Level) { l.Platforms[1].Type = "trampoline" }, "UNKNOWN_TYPE"},
		{"zero width", func(l *Level) { l.Platforms[1].Width = 0 }, "BAD_SIZE"},
		{"nan start", func(l *Level) { l.PlayerStart.X = math.NaN() }, "NOT_FINITE"},
		{"moving without path", func(l *Level) { l.Platforms[1].Type = "moving" }, "NO_PATH"},
		{"bad motion kind", func(l *Level) {
			l.Platforms[1].MovePattern = &MovePattern{Kind: "zigzag", Distance: 10, Speed: 1}
		}, "UNKNOWN_MOTION"},
		{"bad power-up", func(l *Level) {
			l.PowerUps = []PowerUpConfig{{X: 1, Y: 1, Type: "laser"}}
		}, "UNKNOWN_POWERUP"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := validLevel()
			tc.mutate(&l)

			err := Validate(l)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidLevel), "error should match ErrInvalidLevel")

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.code, ve.Code)
		})
	}
}

func TestLintCleanLevel(t *testing.T) {
	assert.Empty(t, Lint(validLevel(), config.DefaultConfig()))
}

func TestLintFindsDegenerateContent(t *testing.T) {
	cfg := config.DefaultConfig()
	l := validLevel()
	l.GoalY = 5000
	l.Platforms = append(l.Platforms,
		PlatformConfig{X: 260, Y: 125, Width: 30, Height: 16, Type: "spike"},
		PlatformConfig{X: 380, Y: 300, Width: 60, Height: 16, Type: "solid"},
		PlatformConfig{X: 250, Y: 120, Width: 100, Height: 16, Type: "solid"},
	)

	codes := map[string]bool{}
	for _, w := range Lint(l, cfg) {
		codes[w.Code] = true
	}
	for _, want := range []string{"HAZARD_OVERLAP", "OUT_OF_BOUNDS", "DUPLICATE", "UNREACHABLE"} {
		assert.True(t, codes[want], "expected %s warning", want)
	}
}

func TestLintStartPosition(t *testing.T) {
	cfg := config.DefaultConfig()
	l := validLevel()
	l.PlayerStart = Point{X: 185, Y: 60}

	codes := map[string]bool{}
	for _, w := range Lint(l, cfg) {
		codes[w.Code] = true
	}
	assert.True(t, codes["NO_START_SUPPORT"])
}

func TestBuiltinLevels(t *testing.T) {
	cfg := config.DefaultConfig()
	loader := NewBuiltinLoader()

	results, err := loader.Scan()
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		require.NoError(t, r.Err, r.Path)
		assert.Empty(t, Lint(r.Level, cfg), "builtin level %s should lint clean", r.Level.ID)
		if i > 0 {
			assert.Less(t, results[i-1].Level.ID, r.Level.ID, "levels should be sorted by ID")
		}
	}

	sky, err := loader.LoadByID("04-skyline")
	require.NoError(t, err)
	assert.Equal(t, "Skyline", sky.Name)
	require.Len(t, sky.Platforms, 7)
	require.NotNil(t, sky.Platforms[1].MovePattern)
	assert.Equal(t, "vertical", sky.Platforms[1].MovePattern.Kind)
	assert.Equal(t, 700.0, sky.Platforms[3].PhaseOffset)
	require.Len(t, sky.PowerUps, 1)
	assert.Equal(t, "shield", sky.PowerUps[0].Type)
}

func TestLoaderDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	write("b.yaml", "id: b\nplayerStart: {x: 10, y: 16}\ngoalY: 100\nplatforms:\n  - {x: 0, y: 0, width: 100, height: 16, type: solid}\n")
	write("a.toml", "goalY = 50.0\n[playerStart]\nx = 1.0\ny = 16.0\n[[platforms]]\nx = 0.0\ny = 0.0\nwidth = 50.0\nheight = 16.0\ntype = \"ice\"\n")
	write("broken.yaml", "id: broken\ngoalY: 100\nplatforms: []\n")
	write("typo.yaml", "id: typo\ngoalz: 100\n")
	write("notes.txt", "ignored")

	loader := NewLoader(dir)
	ids, err := loader.ListIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids, "invalid files are skipped and IDs default to the file name")

	results, err := loader.Scan()
	require.NoError(t, err)
	assert.Len(t, results, 4)

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
		}
	}
	assert.Equal(t, 2, failures)

	_, err = loader.LoadByID("missing")
	assert.Error(t, err)
}

func TestReadFileRejectsUnknownTOMLKeys(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.toml")
	require.NoError(t, os.WriteFile(p, []byte("goalY = 50.0\nspeedd = 3\n"), 0o600))

	_, err := ReadFile(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speedd")
}
