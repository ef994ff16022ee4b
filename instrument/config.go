package instrument

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Thresholds holds every tunable constant of the scoring heuristics. The
// zero value is usable: unset fields take defaults. Load overrides from a
// YAML file with LoadThresholds.
type Thresholds struct {
	// Render scoring. A metric at or under its acceptable value scores 100;
	// past it the score falls linearly, reaching 0 at twice the value.
	AcceptableRenderTime  time.Duration `yaml:"acceptable_render_time"`
	AcceptableMemoryDelta int64         `yaml:"acceptable_memory_delta"`

	// SettleDelay is the pause between performance iterations.
	SettleDelay time.Duration `yaml:"settle_delay"`

	// Leak scoring: each exceeded threshold adds its weight to the leak
	// score, capped at 100. Leaking is flagged above LeakScoreLimit.
	LeakMemoryPerSample   float64 `yaml:"leak_memory_per_sample"`   // bytes per snapshot
	LeakElementsPerSample float64 `yaml:"leak_elements_per_sample"` // elements per snapshot
	LeakTotalMemory       int64   `yaml:"leak_total_memory"`        // bytes over the run
	LeakMemoryWeight      int     `yaml:"leak_memory_weight"`
	LeakElementsWeight    int     `yaml:"leak_elements_weight"`
	LeakTotalWeight       int     `yaml:"leak_total_weight"`
	LeakScoreLimit        int     `yaml:"leak_score_limit"`
}

// DefaultThresholds returns the built-in tuning.
func DefaultThresholds() Thresholds {
	var t Thresholds
	t.applyDefaults()
	return t
}

func (t *Thresholds) applyDefaults() {
	if t.AcceptableRenderTime <= 0 {
		t.AcceptableRenderTime = 100 * time.Millisecond
	}
	if t.AcceptableMemoryDelta <= 0 {
		t.AcceptableMemoryDelta = 1 << 20 // 1 MiB
	}
	if t.SettleDelay <= 0 {
		t.SettleDelay = 50 * time.Millisecond
	}
	if t.LeakMemoryPerSample <= 0 {
		t.LeakMemoryPerSample = 100 << 10 // 100 KiB
	}
	if t.LeakElementsPerSample <= 0 {
		t.LeakElementsPerSample = 10
	}
	if t.LeakTotalMemory <= 0 {
		t.LeakTotalMemory = 5 << 20 // 5 MiB
	}
	if t.LeakMemoryWeight <= 0 {
		t.LeakMemoryWeight = 40
	}
	if t.LeakElementsWeight <= 0 {
		t.LeakElementsWeight = 30
	}
	if t.LeakTotalWeight <= 0 {
		t.LeakTotalWeight = 30
	}
	if t.LeakScoreLimit <= 0 {
		t.LeakScoreLimit = 50
	}
}

// LoadThresholds reads threshold overrides from a YAML file. Unset fields
// keep their defaults.
func LoadThresholds(path string) (Thresholds, error) {
	var t Thresholds
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("instrument: read thresholds: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("instrument: parse thresholds: %w", err)
	}
	t.applyDefaults()
	return t, nil
}
