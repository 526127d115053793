// Package levels provides level definitions, validation, linting and loading.
// Levels are plain configuration records; the engine turns them into entities.
package levels

// Point is a world-space position.
type Point struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// MovePattern describes an oscillating platform path.
type MovePattern struct {
	Kind        string  `yaml:"kind" toml:"kind"` // horizontal, vertical or circular
	Distance    float64 `yaml:"distance" toml:"distance"`
	Speed       float64 `yaml:"speed" toml:"speed"` // Radians per second
	StartOffset float64 `yaml:"startOffset,omitempty" toml:"startOffset"`
}

// PlatformConfig is one platform as authored.
type PlatformConfig struct {
	X             float64      `yaml:"x" toml:"x"`
	Y             float64      `yaml:"y" toml:"y"`
	Width         float64      `yaml:"width" toml:"width"`
	Height        float64      `yaml:"height" toml:"height"`
	Type          string       `yaml:"type" toml:"type"`
	MovePattern   *MovePattern `yaml:"movePattern,omitempty" toml:"movePattern,omitempty"`
	ConveyorSpeed float64      `yaml:"conveyorSpeed,omitempty" toml:"conveyorSpeed,omitempty"` // 0 uses the configured default
	PhaseOffset   float64      `yaml:"phaseOffset,omitempty" toml:"phaseOffset,omitempty"`     // Milliseconds
}

// PowerUpConfig is one power-up pickup.
type PowerUpConfig struct {
	X    float64 `yaml:"x" toml:"x"`
	Y    float64 `yaml:"y" toml:"y"`
	Type string  `yaml:"type" toml:"type"`
}

// Level represents a complete level definition.
type Level struct {
	ID          string           `yaml:"id" toml:"id"`
	Name        string           `yaml:"name" toml:"name"`
	BPM         float64          `yaml:"bpm,omitempty" toml:"bpm,omitempty"`
	Background  string           `yaml:"background,omitempty" toml:"background,omitempty"`
	Accent      string           `yaml:"accent,omitempty" toml:"accent,omitempty"`
	PlayerStart Point            `yaml:"playerStart" toml:"playerStart"`
	GoalY       float64          `yaml:"goalY" toml:"goalY"`
	Platforms   []PlatformConfig `yaml:"platforms" toml:"platforms"`
	Coins       []Point          `yaml:"coins,omitempty" toml:"coins,omitempty"`
	PowerUps    []PowerUpConfig  `yaml:"powerUps,omitempty" toml:"powerUps,omitempty"`

	FilePath string `yaml:"-" toml:"-"`
}

// Title returns the display name, falling back to the ID.
func (l Level) Title() string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}
