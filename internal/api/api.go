// Package api serves simulation runs and stored results over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/engine"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/llm"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/metrics"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/store"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/training"
)

// Runner plays one simulation.
type Runner interface {
	Run(ctx context.Context, cfg models.SimulationConfig, ruleText string) (*models.SimulationResult, error)
}

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest       = "bad_request"
	CodeNotFound         = "not_found"
	CodeNoPlayers        = "no_players"
	CodeGenerationFailed = "generation_failed"
	CodeInternal         = "internal_error"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Summary is one entry of the result listing.
type Summary struct {
	ID              string                `json:"id"`
	Timestamp       time.Time             `json:"timestamp"`
	Scenario        string                `json:"scenario"`
	Players         int                   `json:"players"`
	RoundsCompleted int                   `json:"roundsCompleted"`
	Heat            int                   `json:"heat"`
	Outcome         models.MissionOutcome `json:"outcome"`
	Reason          string                `json:"reason,omitempty"`
	Annotated       bool                  `json:"annotated"`
}

type annotationsRequest struct {
	Annotations string `json:"annotations"`
}

// Handler holds the dependencies of the HTTP surface.
type Handler struct {
	runner Runner
	store  store.Store
	rules  string
	logger zerolog.Logger
}

func NewHandler(runner Runner, st store.Store, rules string, logger zerolog.Logger) *Handler {
	return &Handler{runner: runner, store: st, rules: rules, logger: logger}
}

// Router returns a gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	sims := r.Group("/api/simulations")
	sims.POST("", h.createSimulation)
	sims.GET("", h.listSimulations)
	sims.GET("/:id", h.getSimulation)
	sims.PUT("/:id/annotations", h.updateAnnotations)
	sims.GET("/:id/training", h.getTraining)
	return r
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		evt := h.logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			evt = h.logger.Error()
		case status >= http.StatusBadRequest:
			evt = h.logger.Warn()
		}
		evt.Str("method", c.Request.Method).Str("path", c.Request.URL.Path).
			Int("status", status).Dur("dur", time.Since(start)).Msg("http")
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// createSimulation runs a simulation synchronously. With ?training=true the
// training bundle is attached to the result. Persistence is best effort.
func (h *Handler) createSimulation(c *gin.Context) {
	var cfg models.SimulationConfig
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&cfg); err != nil {
			h.abort(c, http.StatusBadRequest, CodeBadRequest, err.Error())
			return
		}
	}

	res, err := h.runner.Run(c.Request.Context(), cfg, h.rules)
	if err != nil {
		h.handleRunError(c, err)
		return
	}
	if withTraining, _ := strconv.ParseBool(c.Query("training")); withTraining {
		res.Training = training.Generate(res, training.WithRuleText(h.rules))
	}
	if err := h.store.Save(c.Request.Context(), res); err != nil {
		h.logger.Error().Err(err).Str("run_id", res.ID).Msg("Failed to save simulation result")
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) listSimulations(c *gin.Context) {
	results, err := h.store.List(c.Request.Context())
	if err != nil {
		h.internal(c, err)
		return
	}
	out := make([]Summary, 0, len(results))
	for _, res := range results {
		out = append(out, summarize(res))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getSimulation(c *gin.Context) {
	res, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) updateAnnotations(c *gin.Context) {
	var req annotationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abort(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	err := h.store.UpdateAnnotations(c.Request.Context(), c.Param("id"), req.Annotations)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.abort(c, http.StatusNotFound, CodeNotFound, "simulation not found")
	case err != nil:
		h.internal(c, err)
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *Handler) getTraining(c *gin.Context) {
	res, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, training.Generate(res, training.WithRuleText(h.rules)))
}

func (h *Handler) load(c *gin.Context) (*models.SimulationResult, bool) {
	res, err := h.store.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.abort(c, http.StatusNotFound, CodeNotFound, "simulation not found")
		return nil, false
	case err != nil:
		h.internal(c, err)
		return nil, false
	}
	return res, true
}

func (h *Handler) handleRunError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidConfig):
		h.abort(c, http.StatusBadRequest, CodeBadRequest, err.Error())
	case errors.Is(err, engine.ErrNoPlayers):
		h.abort(c, http.StatusUnprocessableEntity, CodeNoPlayers, err.Error())
	case errors.Is(err, llm.ErrGenerationFailed):
		h.logger.Warn().Err(err).Msg("Simulation aborted by generation failure")
		h.abort(c, http.StatusBadGateway, CodeGenerationFailed, err.Error())
	default:
		h.internal(c, err)
	}
}

func (h *Handler) internal(c *gin.Context, err error) {
	h.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled internal error")
	h.abort(c, http.StatusInternalServerError, CodeInternal, "an unexpected internal error occurred")
}

func (h *Handler) abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message})
}

func summarize(res *models.SimulationResult) Summary {
	return Summary{
		ID:              res.ID,
		Timestamp:       res.Timestamp,
		Scenario:        res.Config.Scenario,
		Players:         len(res.FinalState.Characters),
		RoundsCompleted: res.FinalState.RoundsCompleted,
		Heat:            res.FinalState.Heat,
		Outcome:         res.Outcome,
		Reason:          res.Reason,
		Annotated:       res.Annotations != "",
	}
}
