package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"statbook/engine/resample"
	"statbook/engine/sequential"
	"statbook/internal/errors"
)

// withSimSlot runs fn while holding a simulation slot so heavy routes cannot
// starve the interactive ones. The engine call itself stays synchronous.
func (s *Server) withSimSlot(c *gin.Context, fn func()) {
	if err := s.simSem.Acquire(c.Request.Context(), 1); err != nil {
		s.fail(c, errors.Wrap(err, "simulation capacity wait cancelled"))
		return
	}
	defer s.simSem.Release(1)
	fn()
}

type bootstrapRequest struct {
	X          []float64 `json:"x" binding:"required"`
	M          []float64 `json:"m" binding:"required"`
	Y          []float64 `json:"y" binding:"required"`
	Replicates int       `json:"replicates"`
	Level      float64   `json:"level"`
	Seed       *int64    `json:"seed"`
}

// handleBootstrapMediation runs a bounded batch of bootstrap replicates and
// returns the distribution with its percentile CI. The route is stateless:
// the browser accumulates by re-requesting with a larger replicate count.
func (s *Server) handleBootstrapMediation(c *gin.Context) {
	var req bootstrapRequest
	if !s.bind(c, &req) {
		return
	}
	if req.Replicates <= 0 {
		req.Replicates = s.cfg.Engine.BootstrapBatch
	}
	if req.Replicates > s.cfg.Sim.MaxTrials {
		s.fail(c, errors.InvalidConfig("replicate count exceeds the configured maximum"))
		return
	}
	if req.Level == 0 {
		req.Level = 0.95
	}
	s.withSimSlot(c, func() {
		boot, err := resample.NewBootstrap(resample.MediationData{X: req.X, M: req.M, Y: req.Y}, s.seedOrDefault(req.Seed))
		if err != nil {
			s.fail(c, err)
			return
		}
		if _, err := boot.Run(req.Replicates); err != nil {
			s.fail(c, err)
			return
		}
		observed, err := resample.IndirectEffect(resample.MediationData{X: req.X, M: req.M, Y: req.Y})
		if err != nil {
			s.fail(c, err)
			return
		}
		ci, err := boot.CI(req.Level)
		if err != nil {
			s.fail(c, err)
			return
		}
		s.respond(c, gin.H{
			"observed_indirect_effect": observed,
			"replicates":               boot.Replicates(),
			"skipped":                  boot.Skipped(),
			"ci":                       ci,
		})
	})
}

type productSimulationRequest struct {
	A     float64 `json:"a"`
	SEA   float64 `json:"se_a"`
	B     float64 `json:"b"`
	SEB   float64 `json:"se_b"`
	Draws int     `json:"draws"`
	Seed  *int64  `json:"seed"`
}

func (s *Server) handleProductSimulation(c *gin.Context) {
	var req productSimulationRequest
	if !s.bind(c, &req) {
		return
	}
	if req.Draws <= 0 {
		req.Draws = 1000
	}
	if req.Draws > s.cfg.Sim.MaxTrials {
		s.fail(c, errors.InvalidConfig("draw count exceeds the configured maximum"))
		return
	}
	s.withSimSlot(c, func() {
		draws, err := resample.SimulateProduct(req.A, req.SEA, req.B, req.SEB, req.Draws, s.seedOrDefault(req.Seed))
		if err != nil {
			s.fail(c, err)
			return
		}
		s.respond(c, gin.H{"draws": draws})
	})
}

type sequentialTrialRequest struct {
	StageN     int       `json:"stage_n" binding:"required"`
	Thresholds []float64 `json:"thresholds"`
	Schedule   string    `json:"schedule"` // "pocock" or "obrien-fleming", with Stages
	Stages     int       `json:"stages"`
	MeanDiff   float64   `json:"mean_diff"`
	SD         float64   `json:"sd"`
	Seed       *int64    `json:"seed"`
}

func (s *Server) scheduleThresholds(req *sequentialTrialRequest) ([]float64, error) {
	if len(req.Thresholds) > 0 {
		return req.Thresholds, nil
	}
	switch req.Schedule {
	case "pocock":
		return sequential.PocockThresholds(req.Stages)
	case "obrien-fleming":
		return sequential.OBrienFlemingThresholds(req.Stages)
	case "":
		return nil, errors.InvalidConfig("either thresholds or a named schedule is required")
	default:
		return nil, errors.InvalidConfig("unknown threshold schedule")
	}
}

func (s *Server) handleSequentialTrial(c *gin.Context) {
	var req sequentialTrialRequest
	if !s.bind(c, &req) {
		return
	}
	thresholds, err := s.scheduleThresholds(&req)
	if err != nil {
		s.fail(c, err)
		return
	}
	if req.SD == 0 {
		req.SD = 1
	}
	s.withSimSlot(c, func() {
		result, err := sequential.RunTrial(sequential.TrialConfig{
			StageN:     req.StageN,
			Thresholds: thresholds,
			MeanDiff:   req.MeanDiff,
			SD:         req.SD,
			Seed:       s.seedOrDefault(req.Seed),
		})
		if err != nil {
			s.fail(c, err)
			return
		}
		s.respond(c, result)
	})
}

type peekingRequest struct {
	Looks     int     `json:"looks" binding:"required"`
	PerStageN int     `json:"per_stage_n"`
	Alpha     float64 `json:"alpha"`
	Trials    int     `json:"trials"`
	Seed      *int64  `json:"seed"`
}

func (s *Server) handlePeeking(c *gin.Context) {
	var req peekingRequest
	if !s.bind(c, &req) {
		return
	}
	if req.PerStageN == 0 {
		req.PerStageN = 20
	}
	if req.Alpha == 0 {
		req.Alpha = 0.05
	}
	if req.Trials == 0 {
		req.Trials = 2000
	}
	if req.Trials > s.cfg.Sim.MaxTrials {
		s.fail(c, errors.InvalidConfig("trial count exceeds the configured maximum"))
		return
	}
	s.withSimSlot(c, func() {
		simulated, err := sequential.PeekingErrorRate(req.Looks, req.PerStageN, req.Alpha, req.Trials, s.seedOrDefault(req.Seed))
		if err != nil {
			s.fail(c, err)
			return
		}
		s.respond(c, gin.H{
			"simulated":         simulated,
			"independent_bound": sequential.IndependentTestsErrorRate(req.Looks, req.Alpha),
		})
	})
}

func (s *Server) handleThresholds(c *gin.Context) {
	stages, err := strconv.Atoi(c.Query("stages"))
	if err != nil {
		s.fail(c, errors.InvalidConfig("stages query parameter is required"))
		return
	}
	pocock, err := sequential.PocockThresholds(stages)
	if err != nil {
		s.fail(c, err)
		return
	}
	obf, err := sequential.OBrienFlemingThresholds(stages)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, gin.H{"pocock": pocock, "obrien_fleming": obf})
}

type powerRequest struct {
	EffectSize float64 `json:"effect_size"`
	N          int     `json:"n"`
	Alpha      float64 `json:"alpha"`
	Tails      int     `json:"tails"`
	Power      float64 `json:"power"` // target, for sample-size requests
}

func (s *Server) handlePower(c *gin.Context) {
	var req powerRequest
	if !s.bind(c, &req) {
		return
	}
	if req.Alpha == 0 {
		req.Alpha = 0.05
	}
	if req.Tails == 0 {
		req.Tails = 2
	}
	power, err := sequential.Power(req.EffectSize, req.N, req.Alpha, req.Tails)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, gin.H{"power": power})
}

func (s *Server) handleSampleSize(c *gin.Context) {
	var req powerRequest
	if !s.bind(c, &req) {
		return
	}
	if req.Alpha == 0 {
		req.Alpha = 0.05
	}
	if req.Tails == 0 {
		req.Tails = 2
	}
	if req.Power == 0 {
		req.Power = 0.8
	}
	n, err := sequential.RequiredSampleSize(req.EffectSize, req.Power, req.Alpha, req.Tails)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, gin.H{"required_n_per_group": n})
}
