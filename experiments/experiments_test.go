package experiments

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"snipehunt/experiments/metrics"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRun(t *testing.T) {
	random := metrics.AgentConfig{ID: 0, Seed: 1}
	mcts := metrics.AgentConfig{ID: 1, Rollouts: 10, Cutoff: 20, Seed: 2}
	settings := Settings{Games: 2, OutputDir: t.TempDir(), MaxTurns: 30, Seed: 3}

	summary, err := Run("smoke", []metrics.AgentConfig{random, mcts}, []MatchUp{{random, mcts}}, settings)
	require.NoError(t, err)

	t.Run("summary", func(t *testing.T) {
		require.Equal(t, 2, summary.Games)
		require.Equal(t, 2, summary.Agents[0].Games)
		require.Equal(t, 2, summary.Agents[1].Games)
		require.LessOrEqual(t, summary.MeanAtomics, 30.0)
		require.InDelta(t, 1.0, summary.AlphaWinRate+summary.BetaWinRate+summary.TurnLimitRate, 1e-9)
	})

	dirs, err := filepath.Glob(filepath.Join(settings.OutputDir, "smoke", "*"))
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	dir := dirs[0]

	t.Run("csv files", func(t *testing.T) {
		configs := readCSV(t, filepath.Join(dir, "agent_configs.csv"))
		require.Len(t, configs, 3)
		require.Equal(t, "id", configs[0][0])

		games := readCSV(t, filepath.Join(dir, "game_records.csv"))
		require.Len(t, games, 3)
		require.Equal(t, []string{"0", "1"}, []string{games[1][1], games[1][2]}, "First game plays the match up as given")
		require.Equal(t, []string{"1", "0"}, []string{games[2][1], games[2][2]}, "Sides swap every other game")

		moves := readCSV(t, filepath.Join(dir, "move_records.csv"))
		require.Greater(t, len(moves), 1)
	})

	t.Run("parquet matches csv", func(t *testing.T) {
		moves := readCSV(t, filepath.Join(dir, "move_records.csv"))
		rows, err := metrics.ReadMoveParquet(filepath.Join(dir, "move_records.parquet"))
		require.NoError(t, err)

		require.Len(t, rows, len(moves)-1)
		for i, row := range rows {
			require.Equal(t, moves[i+1][0], row.Game)
			require.Equal(t, moves[i+1][3], row.Atomic)
		}
	})
}

func TestPresets(t *testing.T) {
	for name, preset := range Presets() {
		t.Run(name, func(t *testing.T) {
			ids := map[int]bool{}
			for _, config := range preset.Configs {
				require.False(t, ids[config.ID], "Duplicate agent id %d", config.ID)
				ids[config.ID] = true
			}
			require.NotEmpty(t, preset.MatchUps)
			for _, matchUp := range preset.MatchUps {
				require.True(t, ids[matchUp[0].ID])
				require.True(t, ids[matchUp[1].ID])
			}
		})
	}

	_, err := RunPreset("unknown", DefaultSettings())
	require.Error(t, err)
}
