package experiments

import (
	"fmt"
	"time"

	"snipehunt/engine"
	"snipehunt/experiments/metrics"
	"snipehunt/game"
	"snipehunt/meta"
	"snipehunt/searcher"
	"snipehunt/searcher/agent"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// MatchUp pairs the agent that first plays alpha with the one that first
// plays beta. Sides swap every other game.
type MatchUp [2]metrics.AgentConfig

type Settings struct {
	Games     int // Per match up
	OutputDir string
	MaxTurns  int
	Seed      uint64 // Seeds the deals
}

func DefaultSettings() Settings {
	return Settings{Games: 30, OutputDir: "experiments", MaxTurns: meta.MAX_TURNS, Seed: 1}
}

// Run plays every match up, stores the records and returns their summary.
func Run(name string, configs []metrics.AgentConfig, matchUps []MatchUp, settings Settings) (metrics.Summary, error) {
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	deals := rand.New(rand.NewSource(settings.Seed))

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchUp := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), matchUp[0], matchUp[1])

		for i := 0; i < settings.Games; i++ {
			alpha, beta := matchUp[0], matchUp[1]
			if i%2 == 1 {
				alpha, beta = beta, alpha
			}
			id := uuid.NewString()
			log.Info().Msgf("starting matchup %d of %d game %d of %d (%s)...", mi+1, len(matchUps), i+1, settings.Games, id)

			winner, gameMetric, moveMetrics := runGame(alpha, beta, game.NewRandom(deals), settings.MaxTurns)
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         id,
				Alpha:      alpha.ID,
				Beta:       beta.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       id,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(matchUps), i+1, winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	if err := store(name, settings.OutputDir, configs, gameRecords, moveRecords); err != nil {
		return metrics.Summary{}, err
	}

	summary := metrics.Summarize(gameRecords)
	log.Info().
		Int("games", summary.Games).
		Float64("mean_atomics", summary.MeanAtomics).
		Float64("stddev_atomics", summary.StdDevAtomics).
		Float64("alpha_win_rate", summary.AlphaWinRate).
		Float64("beta_win_rate", summary.BetaWinRate).
		Float64("turn_limit_rate", summary.TurnLimitRate).
		Msgf("%s summary", name)
	for id, result := range summary.Agents {
		log.Info().Msgf("agent %d won %d of %d games (%.2f)", id, result.Wins, result.Games, result.WinRate)
	}
	return summary, nil
}

func store(name, dir string, configs []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) error {
	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(games); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moves); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	if err := writer.WriteMoveParquet(moves); err != nil {
		return fmt.Errorf("failed to write move parquet: %w", err)
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return nil
}

// runGame executes a single game between two agents and returns the winner
func runGame(alpha, beta metrics.AgentConfig, state *game.State, maxTurns int) (string, metrics.GameMetric, []metrics.MoveMetric) {
	e := engine.NewLocal(createAgent(alpha), createAgent(beta), state)
	if maxTurns > 0 {
		e.MaxTurns = maxTurns
	}
	return e.Run()
}

func createAgent(config metrics.AgentConfig) agent.Agent {
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if config.IsRandom() {
		return agent.NewRandomAgent(seed)
	}
	mcts := createMCTS(config, seed)
	if config.Temperature > 0 {
		return agent.NewSamplingAgent(mcts, config.Temperature, seed)
	}
	return agent.NewEvaluationAgent(mcts)
}

func createMCTS(config metrics.AgentConfig, seed uint64) *searcher.MCTS {
	options := []searcher.Option{searcher.WithSeed(seed)}

	if config.Rollouts > 0 {
		options = append(options, searcher.WithRollouts(config.Rollouts))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(options...)
}
