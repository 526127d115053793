// Package registry provides a global registry for game mode factories.
// Modes register themselves in init() functions, so hosts can discover and
// instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skybeat/internal/config"
	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/levels"
)

// Game is the interface every playable mode implements.
// Modes contain no Bubble Tea code; the host maps input, drives timing and
// displays the screen buffer.
type Game interface {
	// ID returns a unique identifier used by the CLI and score storage.
	ID() string

	// Title returns a human-readable name for menus.
	Title() string

	// Reset starts or restarts a run.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one host tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into a pre-cleared screen buffer.
	Render(dst *core.Screen)

	// State returns the current host-facing state.
	State() core.GameState
}

// Env carries the shared dependencies a mode is built with.
type Env struct {
	Config config.GameConfig
	Levels *levels.Loader
	Logger *log.Logger
}

// DefaultEnv returns an environment with default config, the built-in
// levels and a discarding logger.
func DefaultEnv() Env {
	return Env{
		Config: config.DefaultConfig(),
		Levels: levels.NewBuiltinLoader(),
		Logger: log.New(io.Discard),
	}
}

// GameInfo contains metadata about a registered mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of a mode.
type Factory func(env Env) Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a mode factory. Panics on a duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = f(DefaultEnv()).Title()
}

// List returns all registered modes sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a mode by ID. A zero Env field falls back to its default.
func Create(id string, env Env) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	def := DefaultEnv()
	if env.Levels == nil {
		env.Levels = def.Levels
	}
	if env.Logger == nil {
		env.Logger = def.Logger
	}
	if env.Config == (config.GameConfig{}) {
		env.Config = def.Config
	}
	return f(env), nil
}

// Exists checks if a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
