package experiments

import (
	"fmt"
	"sort"
	"time"

	"snipehunt/experiments/metrics"
	"snipehunt/meta"
)

// Preset is a named experiment: the agents involved and who plays whom.
type Preset struct {
	Configs  []metrics.AgentConfig
	MatchUps []MatchUp
}

const TimeBudget = 10 * time.Millisecond

// Presets are the experiments the CLI knows by name.
func Presets() map[string]Preset {
	random := metrics.AgentConfig{ID: 0}
	baseline := metrics.AgentConfig{ID: 1, Rollouts: meta.ROLLOUTS, Cutoff: meta.WITH_CUTOFF}

	// Same config on both sides for similar game lengths
	throughput := []metrics.AgentConfig{
		{ID: 1, Duration: TimeBudget},
		{ID: 2, Duration: 2 * TimeBudget},
		{ID: 3, Duration: 4 * TimeBudget},
		{ID: 4, Duration: 8 * TimeBudget},
	}
	var throughputMatchUps []MatchUp
	for _, config := range throughput {
		throughputMatchUps = append(throughputMatchUps, MatchUp{config, config})
	}

	cutoffs := []metrics.AgentConfig{
		{ID: 2, Rollouts: meta.ROLLOUTS, Cutoff: 10},
		{ID: 3, Rollouts: meta.ROLLOUTS, Cutoff: 50},
		{ID: 4, Rollouts: meta.ROLLOUTS, Cutoff: 200},
	}
	var cutoffMatchUps []MatchUp
	for _, config := range cutoffs {
		cutoffMatchUps = append(cutoffMatchUps, MatchUp{baseline, config})
	}

	sampling := metrics.AgentConfig{ID: 2, Rollouts: meta.ROLLOUTS, Cutoff: meta.WITH_CUTOFF, Temperature: 1}

	return map[string]Preset{
		"throughput": {Configs: throughput, MatchUps: throughputMatchUps},
		"cutoff":     {Configs: append([]metrics.AgentConfig{baseline}, cutoffs...), MatchUps: cutoffMatchUps},
		"baseline": {
			Configs:  []metrics.AgentConfig{random, baseline},
			MatchUps: []MatchUp{{random, baseline}},
		},
		"sampling": {
			Configs:  []metrics.AgentConfig{baseline, sampling},
			MatchUps: []MatchUp{{baseline, sampling}},
		},
	}
}

// RunPreset runs the named preset.
func RunPreset(name string, settings Settings) (metrics.Summary, error) {
	preset, ok := Presets()[name]
	if !ok {
		return metrics.Summary{}, fmt.Errorf("unknown experiment %q, known: %v", name, PresetNames())
	}
	return Run(name, preset.Configs, preset.MatchUps, settings)
}

func PresetNames() []string {
	var names []string
	for name := range Presets() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
