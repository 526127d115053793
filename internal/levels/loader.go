package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/vovakirdan/skybeat/internal/levels/formats"
)

//go:embed builtin
var builtinFS embed.FS

// Loader handles loading levels from a directory tree.
type Loader struct {
	Root string
	fsys fs.FS
}

// NewLoader creates a loader for a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, fsys: os.DirFS(root)}
}

// NewBuiltinLoader creates a loader for the levels compiled into the binary.
func NewBuiltinLoader() *Loader {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("levels: builtin directory missing: %v", err))
	}
	return &Loader{Root: "builtin", fsys: sub}
}

// LoadAll recursively scans and loads all valid level files.
// Invalid files are skipped; use Scan to see them.
// Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	results, err := l.Scan()
	if err != nil {
		return nil, err
	}

	levels := make([]Level, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			levels = append(levels, r.Level)
		}
	}
	return levels, nil
}

// Result is the outcome of loading one file during a scan.
type Result struct {
	Path  string
	Level Level
	Err   error
}

// Scan loads every supported file and reports per-file errors.
// Results are sorted by level ID, then path.
func (l *Loader) Scan() ([]Result, error) {
	var results []Result

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !formats.IsSupported(path.Ext(p)) {
			return nil
		}

		level, err := l.LoadFile(p)
		results = append(results, Result{Path: l.display(p), Level: level, Err: err})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Level.ID != results[j].Level.ID {
			return results[i].Level.ID < results[j].Level.ID
		}
		return results[i].Path < results[j].Path
	})
	return results, nil
}

// LoadFile loads and validates a single level file relative to the loader root.
// A file without an id takes its base name as ID.
func (l *Loader) LoadFile(name string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", l.display(name), err)
	}
	return parseLevel(data, name, l.display(name))
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

func (l *Loader) display(name string) string {
	return filepath.Join(l.Root, filepath.FromSlash(name))
}

// ReadFile loads and validates a level file from anywhere on disk.
func ReadFile(p string) (Level, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}
	return parseLevel(data, p, p)
}

func parseLevel(data []byte, name, display string) (Level, error) {
	var lvl Level
	if err := formats.Decode(path.Ext(name), data, &lvl); err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", display, err)
	}
	if lvl.ID == "" {
		base := path.Base(filepath.ToSlash(name))
		lvl.ID = base[:len(base)-len(path.Ext(base))]
	}
	lvl.FilePath = display
	if err := Validate(lvl); err != nil {
		return Level{}, fmt.Errorf("level %s: %w", lvl.ID, err)
	}
	return lvl, nil
}
