// Package integration provides runtime presets for the light client node.
// Presets bundle database and history tuning into named profiles so operators
// can pick one with --preset instead of setting each flag.
//
// Usage:
//
//	cfg := integration.LitePreset()    // for development
//	cfg := integration.FullPreset()    // for production relayers
//	cfg := integration.ArchivePreset() // for nodes serving many history queries
package integration

import "fmt"

// PresetConfig captures the tunable parameters that vary across profiles.
// Consensus-relevant values (retention period, blocks per epoch) are not
// here: they belong to the network rules.
type PresetConfig struct {
	Name    string // human-readable identifier (e.g., "lite", "full")
	CacheMB int    // memory allocated to the database cache
	Handles int    // open file handles allowed to the database
	// MaxEvictPerAppend bounds the stale history entries cleared per accepted
	// update; 0 clears all of them at once.
	MaxEvictPerAppend uint64
	EnableMetrics     bool // whether to collect light client metrics
}

func DefaultPreset() PresetConfig {
	return PresetConfig{
		Name:              "default",
		CacheMB:           64,    // history entries are small, the working set is tiny
		Handles:           128,   // leveldb handles
		MaxEvictPerAppend: 8,     // amortized eviction
		EnableMetrics:     false, // metrics disabled by default
	}
}

// LitePreset returns a minimal configuration for development and CI.
func LitePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "lite"
	cfg.CacheMB = 16
	cfg.Handles = 32
	cfg.MaxEvictPerAppend = 4
	cfg.EnableMetrics = true // helps diagnose issues during development
	return cfg
}

// FullPreset returns a production configuration for relayers that submit
// updates.
func FullPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "full"
	cfg.CacheMB = 256
	cfg.Handles = 512
	cfg.MaxEvictPerAppend = 16
	cfg.EnableMetrics = true
	return cfg
}

// ArchivePreset returns a configuration for nodes serving history queries.
// Stale entries are cleared in one go so the retained window stays exact.
func ArchivePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "archive"
	cfg.CacheMB = 1024
	cfg.Handles = 1024
	cfg.MaxEvictPerAppend = 0
	cfg.EnableMetrics = true
	return cfg
}

// GetPresetByName looks up a preset by its identifier.
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "lite":
		return LitePreset(), nil
	case "full":
		return FullPreset(), nil
	case "archive":
		return ArchivePreset(), nil
	case "default":
		return DefaultPreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: lite, full, archive, default)", name)
	}
}

// ApplyPreset merges a preset into target. Positive sizes override, the
// eviction bound and the metrics switch are always applied.
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	if preset.CacheMB > 0 {
		target.CacheMB = preset.CacheMB
	}
	if preset.Handles > 0 {
		target.Handles = preset.Handles
	}
	target.MaxEvictPerAppend = preset.MaxEvictPerAppend
	target.EnableMetrics = preset.EnableMetrics
	if preset.Name != "" {
		target.Name = preset.Name
	}
}
