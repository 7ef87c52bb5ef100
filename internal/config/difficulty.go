package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. An empty name yields "" and no error.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q (easy, normal, hard, fixed)", ErrInvalid, name)
	}
}

// BaseMsForPreset returns the starting tick interval for a preset.
func BaseMsForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 150
	case DifficultyHard:
		return 90
	default:
		return 120
	}
}

// IsFixedPreset returns true if the preset disables the speed ramp.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the speed section based on a difficulty preset.
// An empty preset leaves the config untouched.
func ApplyPreset(cfg *SnakeConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if IsFixedPreset(preset) {
		cfg.Speed.StepMs = 0
		return
	}

	cfg.Speed.BaseMs = BaseMsForPreset(preset)
	if cfg.Speed.MinMs > cfg.Speed.BaseMs {
		cfg.Speed.MinMs = cfg.Speed.BaseMs
	}
}
