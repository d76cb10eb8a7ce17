package api

import (
	"github.com/gin-gonic/gin"

	"statbook/engine/regress"
	"statbook/engine/tests"
)

type simpleRegressionRequest struct {
	X []float64 `json:"x" binding:"required"`
	Y []float64 `json:"y" binding:"required"`
}

func (s *Server) handleSimpleRegression(c *gin.Context) {
	var req simpleRegressionRequest
	if !s.bind(c, &req) {
		return
	}
	fit, err := regress.FitSimple(req.X, req.Y)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, fit)
}

type twoPredictorRequest struct {
	X1 []float64 `json:"x1" binding:"required"`
	X2 []float64 `json:"x2" binding:"required"`
	Y  []float64 `json:"y" binding:"required"`
}

func (s *Server) handleTwoPredictorRegression(c *gin.Context) {
	var req twoPredictorRequest
	if !s.bind(c, &req) {
		return
	}
	fit, err := regress.FitTwoPredictor(req.X1, req.X2, req.Y)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, fit)
}

type moderatedRequest struct {
	Z []float64 `json:"z" binding:"required"`
	X []float64 `json:"x" binding:"required"`
	Y []float64 `json:"y" binding:"required"`
}

func (s *Server) handleModeratedRegression(c *gin.Context) {
	var req moderatedRequest
	if !s.bind(c, &req) {
		return
	}
	fit, err := regress.FitModerated(req.Z, req.X, req.Y)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, fit)
}

type spotlightRequest struct {
	Z              []float64 `json:"z" binding:"required"`
	X              []float64 `json:"x" binding:"required"`
	Y              []float64 `json:"y" binding:"required"`
	ModeratorValue float64   `json:"moderator_value"`
}

func (s *Server) handleSpotlight(c *gin.Context) {
	var req spotlightRequest
	if !s.bind(c, &req) {
		return
	}
	fit, err := regress.FitModerated(req.Z, req.X, req.Y)
	if err != nil {
		s.fail(c, err)
		return
	}
	result, err := tests.Spotlight(fit, req.ModeratorValue)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, result)
}

type johnsonNeymanRequest struct {
	Z     []float64 `json:"z" binding:"required"`
	X     []float64 `json:"x" binding:"required"`
	Y     []float64 `json:"y" binding:"required"`
	Alpha float64   `json:"alpha"`
}

func (s *Server) handleJohnsonNeyman(c *gin.Context) {
	var req johnsonNeymanRequest
	if !s.bind(c, &req) {
		return
	}
	if req.Alpha == 0 {
		req.Alpha = 0.05
	}
	fit, err := regress.FitModerated(req.Z, req.X, req.Y)
	if err != nil {
		s.fail(c, err)
		return
	}
	result, err := tests.JohnsonNeyman(fit, req.Alpha)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, result)
}

type twoGroupRequest struct {
	Group1 []float64 `json:"group1" binding:"required"`
	Group2 []float64 `json:"group2" binding:"required"`
}

func (s *Server) handleWelch(c *gin.Context) {
	var req twoGroupRequest
	if !s.bind(c, &req) {
		return
	}
	result, err := tests.WelchTTest(req.Group1, req.Group2)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, result)
}

func (s *Server) handleStudent(c *gin.Context) {
	var req twoGroupRequest
	if !s.bind(c, &req) {
		return
	}
	result, err := tests.StudentTTest(req.Group1, req.Group2)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, result)
}

func (s *Server) handleANOVA(c *gin.Context) {
	var req groupsRequest
	if !s.bind(c, &req) {
		return
	}
	result, err := tests.OneWayANOVA(req.Groups)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, result)
}

type rmANOVARequest struct {
	// Data is subject-major: Data[subject][condition].
	Data [][]float64 `json:"data" binding:"required"`
}

func (s *Server) handleRMANOVA(c *gin.Context) {
	var req rmANOVARequest
	if !s.bind(c, &req) {
		return
	}
	result, err := tests.RepeatedMeasuresANOVA(req.Data)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, result)
}

type sobelRequest struct {
	A   float64 `json:"a"`
	SEA float64 `json:"se_a"`
	B   float64 `json:"b"`
	SEB float64 `json:"se_b"`
}

func (s *Server) handleSobel(c *gin.Context) {
	var req sobelRequest
	if !s.bind(c, &req) {
		return
	}
	result, err := tests.SobelTest(req.A, req.SEA, req.B, req.SEB)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, result)
}
