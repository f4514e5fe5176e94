package meta

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config gathers the tunables of every command. Fields left out of a YAML
// file keep their defaults.
type Config struct {
	LogLevel string `yaml:"log_level"`
	Seed     uint64 `yaml:"seed"`

	Search struct {
		Rollouts int           `yaml:"rollouts"`
		Duration time.Duration `yaml:"duration"`
		Cutoff   int           `yaml:"cutoff"`
		Capacity int           `yaml:"capacity"`
	} `yaml:"search"`

	Worker struct {
		BatchSize            int           `yaml:"batch_size"`
		PostInterval         time.Duration `yaml:"post_interval"`
		UncertaintyThreshold float64       `yaml:"uncertainty_threshold"`
		TerminalMinRollouts  int           `yaml:"terminal_min_rollouts"`
		ThinkingTime         time.Duration `yaml:"thinking_time"`
	} `yaml:"worker"`

	Engine struct {
		MaxTurns int `yaml:"max_turns"`
	} `yaml:"engine"`

	Experiment struct {
		Name      string `yaml:"name"`
		Games     int    `yaml:"games"`
		OutputDir string `yaml:"output_dir"`
	} `yaml:"experiment"`

	Server struct {
		Addr     string `yaml:"addr"`
		SavePath string `yaml:"save_path"`
	} `yaml:"server"`
}

func Default() Config {
	var c Config
	c.LogLevel = "info"
	c.Search.Rollouts = ROLLOUTS
	c.Search.Cutoff = WITH_CUTOFF
	c.Worker.BatchSize = ROLLOUT_BATCH_SIZE
	c.Worker.PostInterval = POST_INTERVAL
	c.Worker.UncertaintyThreshold = UNCERTAINTY_THRESHOLD
	c.Worker.TerminalMinRollouts = TERMINAL_MIN_ROLLOUTS
	c.Engine.MaxTurns = MAX_TURNS
	c.Experiment.Name = "baseline"
	c.Experiment.Games = 10
	c.Experiment.OutputDir = "results"
	c.Server.Addr = ":8080"
	c.Server.SavePath = "snipehunt.json"
	return c
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c, nil
}
