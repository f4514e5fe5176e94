package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig describes one participant of an experiment. A zero Rollouts
// and Duration means the uniform random agent.
type AgentConfig struct {
	ID          int
	Rollouts    int
	Duration    time.Duration
	Cutoff      int
	Temperature float64 // Samples from the visit policy when positive
	Seed        uint64
}

func (c AgentConfig) IsRandom() bool {
	return c.Rollouts == 0 && c.Duration == 0
}

type GameRecord struct {
	ID    string // uuid
	Alpha int    // AgentConfig.ID
	Beta  int    // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game string // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped folder for the named experiment under dir.
func NewWriter(dir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Rollouts),
			config.Duration.String(),
			strconv.Itoa(config.Cutoff),
			strconv.FormatFloat(config.Temperature, 'g', -1, 64),
			strconv.FormatUint(config.Seed, 10),
		})
	}
	header := []string{"id", "rollouts", "duration", "cutoff", "temperature", "seed"}
	return w.writeCSV("agent_configs.csv", "agent configs", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.ID,
			strconv.Itoa(record.Alpha),
			strconv.Itoa(record.Beta),
			strconv.Itoa(record.StartingPlayer),
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalAtomics),
			strconv.Itoa(record.TotalPlies),
			strconv.FormatBool(record.HitTurnLimit),
		})
	}
	header := []string{"id", "alpha", "beta", "starting_player", "winner", "start_time", "end_time", "duration",
		"total_atomics", "total_plies", "hit_turn_limit"}
	return w.writeCSV("game_records.csv", "game records", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Game,
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			record.Atomic,
			record.Duration.String(),
			strconv.Itoa(record.Rollouts),
			strconv.Itoa(record.FullPlayouts),
			strconv.Itoa(record.Cutoffs),
			strconv.Itoa(record.Nodes),
			strconv.FormatBool(record.IsTreeReset),
		})
	}
	header := []string{"game", "step", "player", "atomic", "duration", "rollouts", "full_playouts", "cutoffs", "nodes",
		"is_tree_reset"}
	return w.writeCSV("move_records.csv", "move records", header, rows)
}

func (w *Writer) writeCSV(file, what string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, file))
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", what, err)
	}
	return nil
}
