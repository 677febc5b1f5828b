package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/config"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/engine"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/llm"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/narration"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/tui"
)

func main() {
	if err := start(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// start opens the transcript browser. Without a usable model the browser
// still lists and annotates stored runs.
func start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	st, err := cfg.OpenStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return err
	}

	var runner tui.Runner
	if client, err := llm.New(context.Background(), cfg.LLMOptions()); err == nil {
		defer llm.Close(client)
		cat, err := cfg.Catalog()
		if err != nil {
			return err
		}
		composer, err := narration.NewComposer(nil)
		if err != nil {
			return err
		}
		// the browser owns the terminal, so engine logs are discarded
		logger := config.Logger("disabled", os.Stderr)
		runner = engine.New(client, cat, composer, logger)
	}

	return tui.Run(st, runner, models.SimulationConfig{}, rules)
}
