// Command playtest runs one Flomanji simulation and prints its transcript.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/config"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/engine"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/llm"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/narration"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/store"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/training"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/tui"
)

type options struct {
	configPath   string
	rulesPath    string
	trainingPath string
	noSave       bool
	browse       bool
	quiet        bool

	scenario string
	rounds   int
	players  int
	heat     int
	seed     int64
	voice    string
	critic   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "simulation config YAML file")
	flag.StringVar(&opts.rulesPath, "rules", "", "rule text file (default: PLAYTEST_RULES or the built-in summary)")
	flag.StringVar(&opts.trainingPath, "training", "", "write the training bundle to this YAML file")
	flag.BoolVar(&opts.noSave, "no-save", false, "do not persist the result")
	flag.BoolVar(&opts.browse, "tui", false, "open the transcript browser after the run")
	flag.BoolVar(&opts.quiet, "q", false, "print only the summary, not the transcript")
	flag.StringVar(&opts.scenario, "scenario", "", "scenario name")
	flag.IntVar(&opts.rounds, "rounds", 0, "number of rounds")
	flag.IntVar(&opts.players, "players", 0, "number of players")
	flag.IntVar(&opts.heat, "heat", 0, "starting heat")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed for reproducibility (0 = random)")
	flag.StringVar(&opts.voice, "voice", "", "narrator voice (classic, noir, gonzo, nature-doc)")
	flag.BoolVar(&opts.critic, "critic", false, "ask for a critic review at the end")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger := config.Logger(cfg.LogLevel, os.Stderr)

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error().Err(err).Msg("Playtest failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, logger zerolog.Logger) error {
	sim, err := simulationConfig(opts)
	if err != nil {
		return err
	}
	rulesPath := opts.rulesPath
	if rulesPath == "" {
		rulesPath = cfg.RulesPath
	}
	rules, err := config.LoadRules(rulesPath)
	if err != nil {
		return err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	composer, err := narration.NewComposer(nil)
	if err != nil {
		return err
	}

	client, err := llm.New(ctx, cfg.LLMOptions())
	if err != nil {
		return fmt.Errorf("creating %s client: %w", cfg.Provider, err)
	}
	defer llm.Close(client)

	st, err := cfg.OpenStore()
	if err != nil {
		return err
	}
	defer st.Close()

	eng := engine.New(client, cat, composer, logger)

	fmt.Println("--- Running simulation ---")
	res, err := eng.Run(ctx, sim, rules)
	if err != nil {
		return err
	}

	if !opts.quiet {
		fmt.Println()
		fmt.Print(narration.Transcript(res.Log, res.FinalState.Characters))
	}
	printSummary(res)

	if opts.trainingPath != "" {
		res.Training = training.Generate(res, training.WithRuleText(rules))
		if err := writeYAML(opts.trainingPath, res.Training); err != nil {
			return fmt.Errorf("writing training bundle: %w", err)
		}
		fmt.Printf("Training bundle: %d examples written to %s\n", len(res.Training.Examples), opts.trainingPath)
	}

	if !opts.noSave {
		// persistence is best effort; the transcript is already printed
		if err := st.Save(ctx, res); err != nil {
			logger.Error().Err(err).Str("run_id", res.ID).Msg("Failed to save simulation result")
		} else {
			fmt.Printf("Saved as %s (%s store)\n", res.ID, storeName(cfg))
		}
	}

	if opts.browse {
		return tui.Run(st, eng, sim, rules)
	}
	return nil
}

// simulationConfig loads the config file, if any, and applies flags the
// user set explicitly on top of it.
func simulationConfig(opts options) (models.SimulationConfig, error) {
	var sim models.SimulationConfig
	if opts.configPath != "" {
		loaded, err := config.LoadSimulation(opts.configPath)
		if err != nil {
			return sim, err
		}
		sim = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scenario":
			sim.Scenario = opts.scenario
		case "rounds":
			sim.Rounds = opts.rounds
		case "players":
			sim.Players = opts.players
		case "heat":
			sim.StartingHeat = opts.heat
		case "seed":
			sim.Seed = opts.seed
		case "voice":
			sim.Voice = opts.voice
		case "critic":
			sim.Critic = opts.critic
		}
	})
	return sim, nil
}

func printSummary(res *models.SimulationResult) {
	s := res.FinalState
	fmt.Println()
	fmt.Println("--- Summary ---")
	fmt.Printf("Outcome: %s", res.Outcome)
	if res.Reason != "" {
		fmt.Printf(" (%s)", res.Reason)
	}
	fmt.Println()
	fmt.Printf("Rounds completed: %d of %d\n", s.RoundsCompleted, res.Config.Rounds)
	fmt.Printf("Heat: %d/%d\n", s.Heat, s.MaxHeat)
	fmt.Printf("Objectives: %d of %d completed\n", len(s.CompletedObjectives), len(s.Objectives))
	for i, ch := range s.Characters {
		inv := s.Inventories[i]
		fmt.Printf("%s: Health=%d, Weirdness=%d, Luck=%d, Gear=%v, Treasures=%v\n",
			ch.Name, inv.Health, inv.Weirdness, inv.Luck, inv.Gear, inv.Treasures)
	}
	for _, e := range res.KeyEvents {
		fmt.Printf("Round %d: %s\n", e.Round+1, e.Summary)
	}
	if res.CriticFeedback != "" {
		fmt.Printf("\n--- Critic ---\n%s\n", res.CriticFeedback)
	}
}

func storeName(cfg *config.Config) string {
	if cfg.StoreDriver == "" {
		return store.DriverMemory
	}
	return cfg.StoreDriver
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
