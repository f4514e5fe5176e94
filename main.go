package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"snipehunt/communication/server"
	"snipehunt/engine"
	"snipehunt/experiments"
	"snipehunt/game"
	"snipehunt/gamemaster"
	"snipehunt/meta"
	"snipehunt/player"
	"snipehunt/searcher"
	"snipehunt/searcher/agent"
	"snipehunt/worker"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

const usage = `usage: snipehunt <command> [flags]

commands:
  selfplay     play games between two agents
  experiment   run a named experiment preset
  analyze      search a position and print the best atomic
  serve        host the interactive session, the search websocket and the agent endpoint
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch command, args := os.Args[1], os.Args[2:]; command {
	case "selfplay":
		err = selfplay(args)
	case "experiment":
		err = experiment(args)
	case "analyze":
		err = analyze(args)
	case "serve":
		err = serve(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

// setup parses the common flags, loads the config and installs the logger.
// Flags set on the command line override the config file.
func setup(fs *flag.FlagSet, args []string) (meta.Config, error) {
	configPath := fs.String("config", "", "YAML config file")
	level := fs.String("log", "", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return meta.Config{}, err
	}

	config := meta.Default()
	if *configPath != "" {
		var err error
		if config, err = meta.Load(*configPath); err != nil {
			return config, err
		}
	}
	if *level != "" {
		config.LogLevel = *level
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	parsed, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return config, fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
	}
	zerolog.SetGlobalLevel(parsed)
	return config, nil
}

func searchOptions(config meta.Config) []searcher.Option {
	options := []searcher.Option{}
	if config.Search.Rollouts > 0 {
		options = append(options, searcher.WithRollouts(config.Search.Rollouts))
	}
	if config.Search.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Search.Duration))
	}
	if config.Search.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Search.Cutoff))
	}
	if config.Search.Capacity > 0 {
		options = append(options, searcher.WithCapacity(config.Search.Capacity))
	}
	if config.Seed != 0 {
		options = append(options, searcher.WithSeed(config.Seed))
	}
	return options
}

func workerConfig(config meta.Config) worker.Config {
	return worker.Config{
		BatchSize:            config.Worker.BatchSize,
		PostInterval:         config.Worker.PostInterval,
		UncertaintyThreshold: config.Worker.UncertaintyThreshold,
		TerminalMinRollouts:  config.Worker.TerminalMinRollouts,
	}
}

func newAgent(kind string, config meta.Config, seed uint64) (agent.Agent, error) {
	switch kind {
	case "random":
		return agent.NewRandomAgent(seed), nil
	case "mcts":
		return agent.NewEvaluationAgent(searcher.NewMCTS(append(searchOptions(config), searcher.WithMetrics())...)), nil
	case "sampling":
		return agent.NewSamplingAgent(searcher.NewMCTS(searchOptions(config)...), 1.0, seed), nil
	}
	if strings.HasPrefix(kind, "http://") || strings.HasPrefix(kind, "https://") {
		return engine.NewRemoteAgent(kind), nil
	}
	return nil, fmt.Errorf("unknown agent %q, want random, mcts, sampling or an agent URL", kind)
}

func seedOrNow(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}

func selfplay(args []string) error {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	alphaKind := fs.String("alpha", "mcts", "alpha agent: random, mcts, sampling or an agent URL")
	betaKind := fs.String("beta", "mcts", "beta agent: random, mcts, sampling or an agent URL")
	games := fs.Int("games", 1, "number of games")
	config, err := setup(fs, args)
	if err != nil {
		return err
	}

	seed := seedOrNow(config.Seed)
	deals := rand.New(rand.NewSource(seed))
	wins := map[string]int{}
	for i := 0; i < *games; i++ {
		alpha, err := newAgent(*alphaKind, config, seed+uint64(2*i))
		if err != nil {
			return err
		}
		beta, err := newAgent(*betaKind, config, seed+uint64(2*i+1))
		if err != nil {
			return err
		}
		e := engine.NewLocal(alpha, beta, game.NewRandom(deals))
		e.MaxTurns = config.Engine.MaxTurns

		winner, gameMetric, _ := e.Run()
		if winner == "" {
			winner = "none"
		}
		wins[winner]++
		log.Info().Msgf("game %d of %d over after %d atomics in %s! Winner: %s", i+1, *games, gameMetric.TotalAtomics, gameMetric.Duration, winner)
	}
	log.Info().Msgf("wins: alpha %d, beta %d, undecided %d", wins["alpha"], wins["beta"], wins["none"])
	return nil
}

func experiment(args []string) error {
	fs := flag.NewFlagSet("experiment", flag.ExitOnError)
	name := fs.String("name", "", "preset: "+strings.Join(experiments.PresetNames(), ", "))
	games := fs.Int("games", 0, "games per match up")
	out := fs.String("out", "", "output directory")
	config, err := setup(fs, args)
	if err != nil {
		return err
	}

	settings := experiments.DefaultSettings()
	settings.Games = config.Experiment.Games
	settings.OutputDir = config.Experiment.OutputDir
	settings.MaxTurns = config.Engine.MaxTurns
	settings.Seed = seedOrNow(config.Seed)
	preset := config.Experiment.Name
	if *name != "" {
		preset = *name
	}
	if *games > 0 {
		settings.Games = *games
	}
	if *out != "" {
		settings.OutputDir = *out
	}

	_, err = experiments.RunPreset(preset, settings)
	return err
}

func analyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	stateArg := fs.String("state", "", "serialized state, or @file to read it from a file; a random deal when empty")
	dotPath := fs.String("dot", "", "write the search tree as Graphviz DOT to this file")
	depth := fs.Int("depth", 2, "depth of the DOT tree")
	config, err := setup(fs, args)
	if err != nil {
		return err
	}

	state, err := loadState(*stateArg, config.Seed)
	if err != nil {
		return err
	}
	if state.IsGameOver() {
		return errors.New("game is over")
	}

	mcts := searcher.NewMCTS(append(searchOptions(config), searcher.WithMetrics())...)
	policy, metric := mcts.Simulate(state)
	best, _ := mcts.BestAtomic()
	snapshot, _ := mcts.Snapshot()
	log.Info().Msgf("searched %d rollouts over %d nodes in %s", metric.Rollouts, metric.Nodes, metric.Duration)

	type share struct {
		Atomic string  `json:"atomic"`
		Share  float64 `json:"share"`
	}
	shares := make([]share, 0, len(policy))
	for _, a := range state.LegalAtomics() {
		shares = append(shares, share{Atomic: a.String(), Share: policy[a]})
	}
	out, err := json.MarshalIndent(struct {
		Best     string            `json:"best"`
		Snapshot searcher.Snapshot `json:"snapshot"`
		Policy   []share           `json:"policy"`
	}{Best: best.String(), Snapshot: snapshot, Policy: shares}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if *dotPath == "" {
		return nil
	}
	f, err := os.Create(*dotPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := mcts.WriteDOT(f, *depth); err != nil {
		return err
	}
	log.Info().Msgf("wrote search tree to %s", *dotPath)
	return nil
}

func loadState(arg string, seed uint64) (*game.State, error) {
	if arg == "" {
		return game.NewRandom(rand.New(rand.NewSource(seedOrNow(seed)))), nil
	}
	text := arg
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(string(data))
	}
	state, ok := game.Deserialize(text)
	if !ok {
		return nil, errors.New("invalid state")
	}
	return state, nil
}

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "listen address")
	save := fs.String("save", "", "session file")
	opponent := fs.String("opponent", "", "let an agent play this side of the session: alpha or beta")
	config, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *addr != "" {
		config.Server.Addr = *addr
	}
	if *save != "" {
		config.Server.SavePath = *save
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := gamemaster.NewSession(gamemaster.NewFileSaver(config.Server.SavePath))
	analyzer := worker.New(workerConfig(config), searchOptions(config)...)
	evaluator := agent.NewEvaluationAgent(searcher.NewMCTS(searchOptions(config)...))

	mux := http.NewServeMux()
	mux.Handle("/ws", server.NewServerCommunicator(workerConfig(config), searchOptions(config)...))
	mux.Handle("/findatomic", agent.NewHandler(evaluator))
	mux.Handle("/session", gamemaster.NewHandler(session))
	mux.Handle("/session/", gamemaster.NewHandler(session))
	srv := &http.Server{
		Addr:        config.Server.Addr,
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return analyzer.Run(ctx) })
	g.Go(func() error {
		return gamemaster.Analyze(ctx, session, analyzer, config.Worker.ThinkingTime)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case n := <-analyzer.Notifications():
				if n.Snapshot != nil {
					log.Debug().Str("best", n.Snapshot.Best.String()).Int("rollouts", n.Snapshot.Rollouts).
						Float64("mean", n.Snapshot.Mean()).Msg("analysis")
				}
			}
		}
	})
	if *opponent != "" {
		side := game.Alpha
		if *opponent == "beta" {
			side = game.Beta
		}
		bot := agent.NewEvaluationAgent(searcher.NewMCTS(searchOptions(config)...))
		g.Go(func() error { return player.NewPlayer(side, bot).Play(ctx, session) })
	}
	g.Go(func() error {
		log.Info().Msgf("serving on %s", config.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	return g.Wait()
}
