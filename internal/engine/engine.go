// Package engine runs a playtest session: one GM agent and N player agents
// taking turns over a shared game state.
package engine

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/catalog"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/dice"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/llm"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/metrics"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/narration"
)

// ErrNoPlayers is returned when a configuration resolves to zero players.
var ErrNoPlayers = errors.New("no players resolved")

// RunError carries the run context of a failure escaping Run.
type RunError struct {
	RunID string
	Round int
	Phase models.Phase
	Err   error
}

func (e *RunError) Error() string {
	if e.Phase == "" {
		return fmt.Sprintf("run %s: %v", e.RunID, e.Err)
	}
	return fmt.Sprintf("run %s: round %d, %s: %v", e.RunID, e.Round+1, e.Phase, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Engine runs simulations. It holds no per-run state and may run several
// simulations concurrently as long as the client allows it.
type Engine struct {
	client   llm.Client
	catalog  *catalog.Catalog
	composer *narration.Composer
	logger   zerolog.Logger

	now   func() time.Time
	newID func() string
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock replaces the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDs replaces the run identifier generator.
func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func New(client llm.Client, cat *catalog.Catalog, composer *narration.Composer, logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		client:   client,
		catalog:  cat,
		composer: composer,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run plays a full session and returns its result. Any generation failure
// aborts the run and is returned as a *RunError; no partial result is produced.
func (e *Engine) Run(ctx context.Context, cfg models.SimulationConfig, ruleText string) (*models.SimulationResult, error) {
	id := e.newID()
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, &RunError{RunID: id, Err: err}
	}
	if cfg.Seed == 0 {
		cfg.Seed = randomSeed()
	}
	if ruleText == "" {
		ruleText = catalog.RuleSummary
	}

	r := &run{
		e:       e,
		id:      id,
		cfg:     cfg,
		rules:   ruleText,
		rng:     dice.NewSource(cfg.Seed),
		started: e.now().UTC(),
		logger:  e.logger.With().Str("run_id", id).Logger(),
	}

	r.logger.Info().Int("rounds", cfg.Rounds).Int("players", cfg.Players).Int64("seed", cfg.Seed).Msg("Starting simulation")
	res, err := r.play(ctx)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		r.logger.Error().Err(err).Int("round", r.round).Str("phase", string(r.phase)).Msg("Simulation aborted")
		return nil, &RunError{RunID: id, Round: r.round, Phase: r.phase, Err: err}
	}
	metrics.RunsTotal.WithLabelValues(string(res.Outcome)).Inc()
	r.logger.Info().Str("outcome", string(res.Outcome)).Str("reason", res.Reason).
		Int("rounds_completed", res.FinalState.RoundsCompleted).Int("messages", len(res.Log)).Msg("Simulation finished")
	return res, nil
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	seed := int64(binary.BigEndian.Uint64(b[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// run is the state of one simulation. It is owned by a single goroutine.
type run struct {
	e       *Engine
	id      string
	cfg     models.SimulationConfig
	rules   string
	rng     *rand.Rand
	started time.Time
	logger  zerolog.Logger

	state      *models.GameState
	mission    models.Mission
	transcript []models.AgentMessage
	personas   personas

	round      int
	phase      models.Phase
	progress   bool
	heatSeries []int
	verdict    Verdict
}

// personas are the system instructions for each agent seat.
type personas struct {
	GM      string
	Players []string
}

func (r *run) play(ctx context.Context) (*models.SimulationResult, error) {
	state, mission, err := r.e.setup(r.cfg, r.rng, r.logger)
	if err != nil {
		return nil, err
	}
	r.state, r.mission = state, mission

	if err := r.buildPersonas(); err != nil {
		return nil, err
	}

	r.phase = models.PhaseIntroduction
	prompt, err := r.e.composer.Introduction(r.state, r.cfg.Verbosity)
	if err != nil {
		return nil, err
	}
	if _, err := r.narrate(ctx, models.PhaseIntroduction, "", prompt); err != nil {
		return nil, err
	}

	over := r.checkGameOver()
	started := 0
	for round := 0; !over && round < r.cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		started++
		over, err = r.playRound(ctx, round)
		if err != nil {
			return nil, err
		}
	}
	// A verdict inside an unfinished round still records the heat that ended it.
	if started > r.state.RoundsCompleted {
		r.heatSeries = append(r.heatSeries, r.state.Heat)
	}

	if err := r.conclude(ctx); err != nil {
		return nil, err
	}
	if r.cfg.Critic {
		if err := r.critique(ctx); err != nil {
			return nil, err
		}
	}
	return r.result(), nil
}

func (r *run) buildPersonas() error {
	gm, err := r.e.composer.GMPersona(narration.PersonaInput{
		RuleText: r.rules,
		Config:   r.cfg,
		State:    r.state,
		Mission:  r.mission.Name,
	})
	if err != nil {
		return err
	}
	r.personas.GM = gm
	r.personas.Players = make([]string, len(r.state.Characters))
	for i, ch := range r.state.Characters {
		p, err := r.e.composer.PlayerPersona(r.rules, r.cfg, ch, i)
		if err != nil {
			return err
		}
		r.personas.Players[i] = p
	}
	return nil
}

// complete calls the client and strips any echoed speaker label.
func (r *run) complete(ctx context.Context, system string, messages []llm.Message) (string, error) {
	reply, err := r.e.client.Complete(ctx, system, messages)
	if err != nil {
		if !errors.Is(err, llm.ErrGenerationFailed) {
			err = fmt.Errorf("%w: %w", llm.ErrGenerationFailed, err)
		}
		return "", err
	}
	return narration.CleanReply(reply), nil
}

// narrate asks the GM agent to respond to prompt with the full cleaned
// history as context, and appends the reply.
func (r *run) narrate(ctx context.Context, phase models.Phase, card, prompt string) (string, error) {
	r.phase = phase
	history := narration.ForGM(r.transcript, r.state.Characters)
	reply, err := r.complete(ctx, r.personas.GM, narration.WithPrompt(history, prompt))
	if err != nil {
		return "", err
	}
	meta := r.meta(phase)
	meta.Card = card
	r.appendMessage(models.RoleGM, nil, reply, meta)
	return reply, nil
}

// notice appends a GM system notice without calling the client.
func (r *run) notice(phase models.Phase, text string, edit func(*models.MessageMetadata)) {
	r.phase = phase
	meta := r.meta(phase)
	if edit != nil {
		edit(&meta)
	}
	r.appendMessage(models.RoleGM, nil, text, meta)
}

func (r *run) meta(phase models.Phase) models.MessageMetadata {
	return models.MessageMetadata{Round: r.round, Phase: phase}
}

// appendMessage stamps the entry with the current heat and a snapshot of
// the state. Entries are never modified afterwards.
func (r *run) appendMessage(role models.Role, player *int, content string, meta models.MessageMetadata) {
	meta.Heat = r.state.Heat
	meta.Snapshot = r.state.Clone()
	r.transcript = append(r.transcript, models.AgentMessage{
		Role:      role,
		Content:   content,
		Player:    player,
		Timestamp: r.e.now().UTC(),
		Metadata:  meta,
	})
}

// adjustHeat applies delta clamped to [0, MaxHeat] and returns the applied change.
func (r *run) adjustHeat(delta int) int {
	before := r.state.Heat
	r.state.Heat = clamp(before+delta, 0, r.state.MaxHeat)
	r.state.Mood = narration.MoodFor(r.state.Heat)
	return r.state.Heat - before
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// checkGameOver evaluates the end conditions and, on the first positive
// verdict, appends the game-over notice.
func (r *run) checkGameOver() bool {
	if r.verdict.Over {
		return true
	}
	v := Evaluate(r.state)
	if !v.Over {
		return false
	}
	r.verdict = v
	r.logger.Info().Int("round", r.round).Str("outcome", string(v.Outcome)).Str("reason", v.Reason).Msg("Game over")
	r.notice(models.PhaseGameOver, fmt.Sprintf("Game over: %s (%s).", v.Outcome, v.Reason), func(m *models.MessageMetadata) {
		m.Reason = v.Reason
	})
	return true
}

// outcome is the verdict's outcome, or pending while no verdict has fired.
func (r *run) outcome() models.MissionOutcome {
	if r.verdict.Over {
		return r.verdict.Outcome
	}
	return models.MissionPending
}

func (r *run) conclude(ctx context.Context) error {
	r.phase = models.PhaseConclusion
	prompt, err := r.e.composer.Conclusion(r.state, r.outcome(), r.verdict.Reason, r.cfg.Verbosity)
	if err != nil {
		return err
	}
	_, err = r.narrate(ctx, models.PhaseConclusion, "", prompt)
	return err
}

func (r *run) result() *models.SimulationResult {
	res := &models.SimulationResult{
		ID:         r.id,
		Timestamp:  r.started,
		Config:     r.cfg,
		FinalState: *r.state.Clone(),
		Log:        r.transcript,
		KeyEvents:  KeyEvents(r.transcript, r.state.Characters),
		Outcome:    r.outcome(),
		Reason:     r.verdict.Reason,
	}
	for _, m := range r.transcript {
		if m.Role == models.RoleCritic {
			res.CriticFeedback = m.Content
		}
	}
	return res
}
