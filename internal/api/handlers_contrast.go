package api

import (
	"github.com/gin-gonic/gin"

	"statbook/engine/contrast"
	"statbook/engine/descriptive"
	"statbook/internal/errors"
)

type contrastEstimateRequest struct {
	Weights []float64   `json:"weights" binding:"required"`
	Means   []float64   `json:"means"`
	Groups  [][]float64 `json:"groups"`
}

// handleContrastEstimate accepts either explicit group means or raw groups.
// The validation record is always returned so the UI can display the weight
// sum even when it is non-zero.
func (s *Server) handleContrastEstimate(c *gin.Context) {
	var req contrastEstimateRequest
	if !s.bind(c, &req) {
		return
	}
	means := req.Means
	if means == nil {
		gs, err := descriptive.CalculateGroupStatistics(req.Groups)
		if err != nil {
			s.fail(c, err)
			return
		}
		means = gs.Means
	}
	validation := contrast.ValidateWeights(req.Weights)
	estimate, err := contrast.Compute(req.Weights, means)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, gin.H{"estimate": estimate, "validation": validation})
}

type contrastFTestRequest struct {
	Weights []float64   `json:"weights" binding:"required"`
	Groups  [][]float64 `json:"groups" binding:"required"`
}

func (s *Server) handleContrastFTest(c *gin.Context) {
	var req contrastFTestRequest
	if !s.bind(c, &req) {
		return
	}
	result, err := contrast.FTest(req.Weights, req.Groups)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, result)
}

type orthogonalityRequest struct {
	Contrast1 []float64 `json:"contrast1" binding:"required"`
	Contrast2 []float64 `json:"contrast2" binding:"required"`
	Sizes     []int     `json:"sizes"`
}

func (s *Server) handleOrthogonality(c *gin.Context) {
	var req orthogonalityRequest
	if !s.bind(c, &req) {
		return
	}
	orthogonal, err := contrast.AreOrthogonal(req.Contrast1, req.Contrast2, req.Sizes)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, gin.H{"orthogonal": orthogonal})
}

type outlierRequest struct {
	Groups     [][]float64 `json:"groups" binding:"required"`
	Multiplier float64     `json:"multiplier"`
	Method     string      `json:"method"`
}

func (r *outlierRequest) method() (contrast.BoundsMethod, float64, error) {
	method := contrast.BoundsMethod(r.Method)
	if r.Method == "" {
		method = contrast.MethodSD
	}
	if method != contrast.MethodSD && method != contrast.MethodIQR {
		return "", 0, errors.InvalidConfig("method must be sd or iqr")
	}
	multiplier := r.Multiplier
	if multiplier == 0 {
		if method == contrast.MethodIQR {
			multiplier = 1.5
		} else {
			multiplier = 3
		}
	}
	return method, multiplier, nil
}

func (s *Server) handleOutliersWithin(c *gin.Context) {
	var req outlierRequest
	if !s.bind(c, &req) {
		return
	}
	method, multiplier, err := req.method()
	if err != nil {
		s.fail(c, err)
		return
	}
	result, err := contrast.WithinConditionBounds(req.Groups, multiplier, method)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, gin.H{"bounds": result})
}

func (s *Server) handleOutliersAcross(c *gin.Context) {
	var req outlierRequest
	if !s.bind(c, &req) {
		return
	}
	method, multiplier, err := req.method()
	if err != nil {
		s.fail(c, err)
		return
	}
	result, err := contrast.AcrossConditionBounds(req.Groups, multiplier, method)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, result)
}
