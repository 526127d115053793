// Package config provides YAML-based game configuration loading and
// difficulty management for skybeat.
package config

// GameConfig contains every tunable of the simulation.
// Rates are per second; durations carry an Ms suffix and are milliseconds.
type GameConfig struct {
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Player     PlayerConfig     `yaml:"player"`
	Dash       DashConfig       `yaml:"dash"`
	Platforms  PlatformsConfig  `yaml:"platforms"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	PowerUps   PowerUpsConfig   `yaml:"powerups"`
	Camera     CameraConfig     `yaml:"camera"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig defines the playfield.
type WorldConfig struct {
	Width         float64 `yaml:"width"`
	Margin        float64 `yaml:"margin"`         // Keep-out band on both sides for generated platforms
	MaxDeltaMs    float64 `yaml:"max_delta_ms"`   // Upper bound on a single step
	PruneDistance float64 `yaml:"prune_distance"` // Entities this far below the camera are dropped
}

// PhysicsConfig defines the player's integration constants.
type PhysicsConfig struct {
	Gravity              float64 `yaml:"gravity"`
	JumpForce            float64 `yaml:"jump_force"`
	AirJumpMultiplier    float64 `yaml:"air_jump_multiplier"`
	MaxFallSpeed         float64 `yaml:"max_fall_speed"`
	AutoScrollSpeed      float64 `yaml:"auto_scroll_speed"`
	BounceMultiplier     float64 `yaml:"bounce_multiplier"`
	JumpCutMultiplier    float64 `yaml:"jump_cut_multiplier"` // Extra gravity while rising without jump held
	GravityBoost         float64 `yaml:"gravity_boost"`
	StickyJumpMultiplier float64 `yaml:"sticky_jump_multiplier"`
	GroundFriction       float64 `yaml:"ground_friction"` // Horizontal decay rates, 1/s
	IceFriction          float64 `yaml:"ice_friction"`
	AirFriction          float64 `yaml:"air_friction"`
	RestEpsilon          float64 `yaml:"rest_epsilon"`
	ShieldRescueVelocity float64 `yaml:"shield_rescue_velocity"`
	ShieldGraceMs        float64 `yaml:"shield_grace_ms"` // Lethal contacts are ignored this long after a rescue
	FallDeathMargin      float64 `yaml:"fall_death_margin"`
}

// PlayerConfig defines the player's body and cosmetic trail.
type PlayerConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	MaxAirJumps     int     `yaml:"max_air_jumps"`
	RotationSpeed   float64 `yaml:"rotation_speed"` // Degrees per second while airborne
	TrailLength     int     `yaml:"trail_length"`
	TrailLifetimeMs float64 `yaml:"trail_lifetime_ms"`
}

// DashConfig defines the horizontal dash ability.
type DashConfig struct {
	Speed         float64 `yaml:"speed"`
	DurationMs    float64 `yaml:"duration_ms"`
	CooldownMs    float64 `yaml:"cooldown_ms"`
	CarryFraction float64 `yaml:"carry_fraction"` // Share of dash speed kept as sliding velocity
	AfterimageMs  float64 `yaml:"afterimage_ms"`
}

// PlatformsConfig defines per-type platform timings.
type PlatformsConfig struct {
	CrumbleDelayMs       float64 `yaml:"crumble_delay_ms"`
	CrumbleDurationMs    float64 `yaml:"crumble_duration_ms"`
	PhaseOnMs            float64 `yaml:"phase_on_ms"`
	PhaseOffMs           float64 `yaml:"phase_off_ms"`
	GlassHits            int     `yaml:"glass_hits"`
	LavaPulseSpeed       float64 `yaml:"lava_pulse_speed"` // Radians per second
	ConveyorSpeed        float64 `yaml:"conveyor_speed"`   // Used when a level omits one
	SecretRevealDistance float64 `yaml:"secret_reveal_distance"`
}

// ScoringConfig defines points and combo rules.
type ScoringConfig struct {
	LandingPoints int     `yaml:"landing_points"`
	CoinPoints    int     `yaml:"coin_points"`
	SecretPoints  int     `yaml:"secret_points"`
	ComboStep     int     `yaml:"combo_step"` // Landings per multiplier step
	MaxMultiplier int     `yaml:"max_multiplier"`
	ComboWindowMs float64 `yaml:"combo_window_ms"`
}

// PowerUpsConfig defines power-up durations and strengths.
type PowerUpsConfig struct {
	MagnetMs       float64 `yaml:"magnet_ms"`
	SlowmoMs       float64 `yaml:"slowmo_ms"`
	DoublePointsMs float64 `yaml:"double_points_ms"`
	MagnetRadius   float64 `yaml:"magnet_radius"`
	MagnetPull     float64 `yaml:"magnet_pull"` // Units per second
	SlowmoFactor   float64 `yaml:"slowmo_factor"`
	CollectAnimMs  float64 `yaml:"collect_anim_ms"`
}

// CameraConfig defines the follow camera and the visible window.
type CameraConfig struct {
	Offset         float64 `yaml:"offset"` // Distance kept between camera bottom and player
	ViewportHeight float64 `yaml:"viewport_height"`
	VisibleMargin  float64 `yaml:"visible_margin"`
}

// GeneratorConfig defines endless-mode placement rules.
type GeneratorConfig struct {
	Lookahead          float64 `yaml:"lookahead"`
	PlatformsPerLevel  int     `yaml:"platforms_per_level"`
	MaxDifficulty      int     `yaml:"max_difficulty"`
	PlatformHeight     float64 `yaml:"platform_height"`
	MinWidth           float64 `yaml:"min_width"`
	MaxWidth           float64 `yaml:"max_width"`
	MinGap             float64 `yaml:"min_gap"`
	MaxGap             float64 `yaml:"max_gap"`
	GapGrowth          float64 `yaml:"gap_growth"` // Added to both gap bounds at max difficulty
	MaxShift           float64 `yaml:"max_shift"`
	ShiftGrowth        float64 `yaml:"shift_growth"`
	CoinChance         float64 `yaml:"coin_chance"`
	CoinLift           float64 `yaml:"coin_lift"` // Height of a coin above its platform
	CoinSize           float64 `yaml:"coin_size"`
	SpikeChance        float64 `yaml:"spike_chance"`
	SpikeMinDifficulty int     `yaml:"spike_min_difficulty"`
	SpikeWidth         float64 `yaml:"spike_width"`
	MoveDistance       float64 `yaml:"move_distance"`
	MoveSpeed          float64 `yaml:"move_speed"`
}

// DifficultyConfig defines the endless difficulty progression.
type DifficultyConfig struct {
	Enabled      bool `yaml:"enabled"`       // false keeps the initial level forever
	InitialLevel int  `yaml:"initial_level"` // 0 = easy, MaxDifficulty = hardest
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the starting generator difficulty for a preset.
func InitialLevelForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 0
	case DifficultyNormal:
		return 2
	case DifficultyHard:
		return 5
	default:
		return 0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset validates a preset name; empty selects normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch DifficultyPreset(s) {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s), true
	default:
		return "", false
	}
}
