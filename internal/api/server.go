// Package api exposes the engine over HTTP for the browser components. Every
// route is a pure request/response computation; stochastic routes take an
// explicit seed so a lesson can regenerate the same picture.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"statbook/internal"
	"statbook/internal/config"
	"statbook/internal/errors"
)

// Server wires the engine routes onto a gin router.
type Server struct {
	router *gin.Engine
	cfg    *config.Config
	log    *internal.Logger

	// simSem bounds concurrent simulation-heavy requests (bootstrap batches,
	// sequential trials) so interactive routes stay responsive.
	simSem *semaphore.Weighted
}

// NewServer creates the server and registers all routes.
func NewServer(cfg *config.Config, logger *internal.Logger) *Server {
	gin.SetMode(cfg.Server.GinMode)
	s := &Server{
		router: gin.New(),
		cfg:    cfg,
		log:    logger.WithComponent("api"),
		simSem: semaphore.NewWeighted(cfg.Sim.MaxConcurrent),
	}
	s.router.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/samples/normal", s.handleGenerateNormal)
		v1.POST("/descriptive/summary", s.handleDescriptiveSummary)
		v1.POST("/descriptive/groups", s.handleGroupStatistics)
		v1.POST("/export/xlsx", s.handleExportXLSX)

		v1.POST("/regression/simple", s.handleSimpleRegression)
		v1.POST("/regression/two-predictor", s.handleTwoPredictorRegression)
		v1.POST("/regression/moderated", s.handleModeratedRegression)
		v1.POST("/regression/spotlight", s.handleSpotlight)
		v1.POST("/regression/johnson-neyman", s.handleJohnsonNeyman)

		v1.POST("/tests/welch", s.handleWelch)
		v1.POST("/tests/student", s.handleStudent)
		v1.POST("/tests/anova", s.handleANOVA)
		v1.POST("/tests/rm-anova", s.handleRMANOVA)
		v1.POST("/tests/sobel", s.handleSobel)

		v1.POST("/contrasts/estimate", s.handleContrastEstimate)
		v1.POST("/contrasts/f-test", s.handleContrastFTest)
		v1.POST("/contrasts/orthogonality", s.handleOrthogonality)
		v1.POST("/outliers/within", s.handleOutliersWithin)
		v1.POST("/outliers/across", s.handleOutliersAcross)

		v1.POST("/bootstrap/mediation", s.handleBootstrapMediation)
		v1.POST("/simulate/product", s.handleProductSimulation)
		v1.POST("/simulate/sequential", s.handleSequentialTrial)
		v1.POST("/simulate/peeking", s.handlePeeking)
		v1.GET("/sequential/thresholds", s.handleThresholds)
		v1.POST("/power", s.handlePower)
		v1.POST("/power/sample-size", s.handleSampleSize)

		v1.POST("/distributions/histogram", s.handleHistogram)
	}
}

// Run starts serving on the configured port.
func (s *Server) Run() error {
	addr := ":" + s.cfg.Server.Port
	s.log.Info("listening on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the underlying router for tests.
func (s *Server) Router() *gin.Engine { return s.router }

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respond wraps a result record with a request id so the browser can match
// async responses to the action that triggered them.
func (s *Server) respond(c *gin.Context, result interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"request_id": uuid.NewString(),
		"result":     result,
	})
}

// fail maps engine error codes onto HTTP statuses; degenerate and invalid
// inputs are the caller's problem, singular fits are reported as
// unprocessable so the UI can show its "not enough variance" state.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeDegenerateInput, errors.CodeInvalidInput, errors.CodeInvalidConfig:
		status = http.StatusBadRequest
	case errors.CodeSingularMatrix:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed: %v", err)
	} else {
		s.log.Debug("request rejected: %v", err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func (s *Server) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.fail(c, errors.Wrap(errors.InvalidInput("malformed request body"), err.Error()))
		return false
	}
	return true
}

// seedOrDefault fills in the configured default seed when a request omits
// one.
func (s *Server) seedOrDefault(seed *int64) int64 {
	if seed == nil {
		return s.cfg.Engine.DefaultSeed
	}
	return *seed
}
