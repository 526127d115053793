package config

import (
	_ "embed"
)

//go:embed defaults/skybeat.yaml
var defaultSkybeatYAML []byte

// DefaultConfig returns the built-in skybeat configuration.
// It mirrors defaults/skybeat.yaml and is the last fallback of Load.
func DefaultConfig() GameConfig {
	return GameConfig{
		World: WorldConfig{
			Width:         400,
			Margin:        20,
			MaxDeltaMs:    32,
			PruneDistance: 600,
		},
		Physics: PhysicsConfig{
			Gravity:              1800,
			JumpForce:            700,
			AirJumpMultiplier:    0.85,
			MaxFallSpeed:         900,
			AutoScrollSpeed:      90,
			BounceMultiplier:     1.5,
			JumpCutMultiplier:    1.6,
			GravityBoost:         1.5,
			StickyJumpMultiplier: 0.65,
			GroundFriction:       10,
			IceFriction:          0.8,
			AirFriction:          3,
			RestEpsilon:          2,
			ShieldRescueVelocity: 800,
			ShieldGraceMs:        600,
			FallDeathMargin:      150,
		},
		Player: PlayerConfig{
			Width:           30,
			Height:          30,
			MaxAirJumps:     1,
			RotationSpeed:   360,
			TrailLength:     12,
			TrailLifetimeMs: 200,
		},
		Dash: DashConfig{
			Speed:         600,
			DurationMs:    150,
			CooldownMs:    600,
			CarryFraction: 0.3,
			AfterimageMs:  30,
		},
		Platforms: PlatformsConfig{
			CrumbleDelayMs:       500,
			CrumbleDurationMs:    300,
			PhaseOnMs:            1500,
			PhaseOffMs:           1000,
			GlassHits:            3,
			LavaPulseSpeed:       3,
			ConveyorSpeed:        80,
			SecretRevealDistance: 120,
		},
		Scoring: ScoringConfig{
			LandingPoints: 10,
			CoinPoints:    25,
			SecretPoints:  100,
			ComboStep:     5,
			MaxMultiplier: 5,
			ComboWindowMs: 3000,
		},
		PowerUps: PowerUpsConfig{
			MagnetMs:       8000,
			SlowmoMs:       3000,
			DoublePointsMs: 10000,
			MagnetRadius:   150,
			MagnetPull:     400,
			SlowmoFactor:   0.5,
			CollectAnimMs:  300,
		},
		Camera: CameraConfig{
			Offset:         200,
			ViewportHeight: 600,
			VisibleMargin:  100,
		},
		Generator: GeneratorConfig{
			Lookahead:          800,
			PlatformsPerLevel:  15,
			MaxDifficulty:      10,
			PlatformHeight:     16,
			MinWidth:           60,
			MaxWidth:           120,
			MinGap:             60,
			MaxGap:             100,
			GapGrowth:          30,
			MaxShift:           120,
			ShiftGrowth:        60,
			CoinChance:         0.3,
			CoinLift:           40,
			CoinSize:           16,
			SpikeChance:        0.2,
			SpikeMinDifficulty: 3,
			SpikeWidth:         30,
			MoveDistance:       60,
			MoveSpeed:          1.5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0,
		},
	}
}
