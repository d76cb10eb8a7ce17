package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"statbook/adapters/excel"
	"statbook/engine/descriptive"
	"statbook/engine/resample"
	"statbook/engine/rng"
	"statbook/internal/errors"
)

type generateNormalRequest struct {
	N    int     `json:"n" binding:"required"`
	Mean float64 `json:"mean"`
	SD   float64 `json:"sd" binding:"required"`
	Seed *int64  `json:"seed"`
}

func (s *Server) handleGenerateNormal(c *gin.Context) {
	var req generateNormalRequest
	if !s.bind(c, &req) {
		return
	}
	if req.N < 1 || req.N > s.cfg.Engine.MaxSampleSize {
		s.fail(c, errors.InvalidConfig("sample size out of range"))
		return
	}
	if req.SD <= 0 {
		s.fail(c, errors.InvalidConfig("sd must be positive"))
		return
	}
	seed := s.seedOrDefault(req.Seed)
	s.respond(c, gin.H{
		"seed":   seed,
		"sample": rng.NormalSample(req.N, req.Mean, req.SD, seed),
	})
}

type sampleRequest struct {
	Sample           []float64 `json:"sample" binding:"required"`
	SampleCorrection bool      `json:"sample_correction"`
}

func (s *Server) handleDescriptiveSummary(c *gin.Context) {
	var req sampleRequest
	if !s.bind(c, &req) {
		return
	}
	summary, err := descriptive.Summary(req.Sample)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, gin.H{
		"mean":    descriptive.Mean(req.Sample),
		"sd":      descriptive.StandardDeviation(req.Sample, req.SampleCorrection),
		"n":       len(req.Sample),
		"summary": summary,
	})
}

type groupsRequest struct {
	Groups [][]float64 `json:"groups" binding:"required"`
}

func (s *Server) handleGroupStatistics(c *gin.Context) {
	var req groupsRequest
	if !s.bind(c, &req) {
		return
	}
	gs, err := descriptive.CalculateGroupStatistics(req.Groups)
	if err != nil {
		s.fail(c, err)
		return
	}
	ss, err := descriptive.ComputeSumOfSquares(req.Groups)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, gin.H{"groups": gs, "sum_of_squares": ss})
}

type exportRequest struct {
	Name   string      `json:"name"`
	Labels []string    `json:"labels" binding:"required"`
	Groups [][]float64 `json:"groups" binding:"required"`
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	var req exportRequest
	if !s.bind(c, &req) {
		return
	}
	data, err := excel.NewWriter("Data").Write(excel.LabeledGroups{Labels: req.Labels, Groups: req.Groups})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+excel.Filename(req.Name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

type histogramRequest struct {
	Values []float64 `json:"values" binding:"required"`
	Bins   int       `json:"bins" binding:"required"`
	Min    *float64  `json:"min"`
	Max    *float64  `json:"max"`
}

func (s *Server) handleHistogram(c *gin.Context) {
	var req histogramRequest
	if !s.bind(c, &req) {
		return
	}
	var (
		bins []resample.HistogramBin
		err  error
	)
	if req.Min != nil && req.Max != nil {
		bins, err = resample.HistogramRange(req.Values, req.Bins, *req.Min, *req.Max)
	} else {
		bins, err = resample.Histogram(req.Values, req.Bins)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, gin.H{"bins": bins})
}
