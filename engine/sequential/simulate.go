package sequential

import (
	"math"

	"statbook/engine/rng"
	"statbook/engine/tests"
	"statbook/internal/errors"
)

// TrialConfig describes one simulated sequential experiment comparing two
// groups. MeanDiff is the true difference between group means (0 simulates
// the null); SD is the common within-group standard deviation.
type TrialConfig struct {
	StageN     int       `json:"stage_n"` // per-group observations added per stage
	Thresholds []float64 `json:"thresholds"`
	MeanDiff   float64   `json:"mean_diff"`
	SD         float64   `json:"sd"`
	Seed       int64     `json:"seed"`
}

// TrialResult reports where a sequential trial stopped and why.
type TrialResult struct {
	StoppedAtStage int       `json:"stopped_at_stage"` // 1-based
	TotalN         int       `json:"total_n"`          // per group at stopping
	Rejected       bool      `json:"rejected"`
	StagePValues   []float64 `json:"stage_p_values"` // one per look taken
}

func (c TrialConfig) validate() error {
	if c.StageN < 2 {
		return errors.InvalidConfig("sequential trial requires at least 2 observations per group per stage")
	}
	if len(c.Thresholds) == 0 {
		return errors.InvalidConfig("sequential trial requires a threshold schedule")
	}
	for _, t := range c.Thresholds {
		if t <= 0 || t >= 1 {
			return errors.InvalidConfig("thresholds must be in (0, 1)")
		}
	}
	if c.SD <= 0 {
		return errors.InvalidConfig("sd must be positive")
	}
	return nil
}

// RunTrial simulates one sequential experiment: per stage, generate StageN
// new observations per group, accumulate, run a Welch test on everything so
// far, and stop as soon as the stage p-value falls below that stage's
// threshold. A trial that survives every look fails to reject.
func RunTrial(cfg TrialConfig) (*TrialResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	gen := rng.New(cfg.Seed)
	return runTrialWith(gen, cfg), nil
}

func runTrialWith(gen *rng.Generator, cfg TrialConfig) *TrialResult {
	stages := len(cfg.Thresholds)
	result := &TrialResult{}
	var group1, group2 []float64
	for stage := 0; stage < stages; stage++ {
		group1 = append(group1, gen.NormalSample(cfg.StageN, 0, cfg.SD)...)
		group2 = append(group2, gen.NormalSample(cfg.StageN, cfg.MeanDiff, cfg.SD)...)

		result.StoppedAtStage = stage + 1
		result.TotalN = len(group1)

		tt, err := tests.WelchTTest(group1, group2)
		if err != nil {
			// Zero-variance stages are possible only in theory; record a
			// non-significant look and continue accumulating.
			result.StagePValues = append(result.StagePValues, 1)
			continue
		}
		result.StagePValues = append(result.StagePValues, tt.P)
		if tt.P < cfg.Thresholds[stage] {
			result.Rejected = true
			return result
		}
	}
	return result
}

// ErrorRateResult summarizes many simulated null-true trials.
type ErrorRateResult struct {
	Trials        int     `json:"trials"`
	Rejections    int     `json:"rejections"`
	FalsePositive float64 `json:"false_positive_rate"`
}

// SimulateErrorRate runs trials independent null-true sequential experiments
// under the given schedule and reports the observed overall false-positive
// rate. With a valid alpha-spending schedule this converges to the target
// alpha; with a flat nominal-alpha schedule it shows the peeking inflation.
func SimulateErrorRate(cfg TrialConfig, trials int) (*ErrorRateResult, error) {
	if trials <= 0 {
		return nil, errors.InvalidConfig("trial count must be positive")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	nullCfg := cfg
	nullCfg.MeanDiff = 0
	gen := rng.New(cfg.Seed)
	rejections := 0
	for i := 0; i < trials; i++ {
		if runTrialWith(gen, nullCfg).Rejected {
			rejections++
		}
	}
	return &ErrorRateResult{
		Trials:        trials,
		Rejections:    rejections,
		FalsePositive: float64(rejections) / float64(trials),
	}, nil
}

// PeekingErrorRate estimates by simulation the cumulative Type-I error of
// peeking at accumulating data k times, testing at nominal alpha each look
// with no correction. Equals alpha at k = 1 and grows with k (about 14% by
// the fifth look at alpha = .05).
func PeekingErrorRate(looks, perStageN int, alpha float64, trials int, seed int64) (*ErrorRateResult, error) {
	if looks < 1 {
		return nil, errors.InvalidConfig("peeking requires at least 1 look")
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, errors.InvalidConfig("alpha must be in (0, 1)")
	}
	thresholds := make([]float64, looks)
	for i := range thresholds {
		thresholds[i] = alpha
	}
	return SimulateErrorRate(TrialConfig{
		StageN:     perStageN,
		Thresholds: thresholds,
		MeanDiff:   0,
		SD:         1,
		Seed:       seed,
	}, trials)
}

// IndependentTestsErrorRate is the closed-form probability that at least one
// of k fully independent tests at nominal alpha falsely rejects:
// 1 - (1-alpha)^k. Accumulating-data looks are positively correlated, so the
// simulated peeking rate sits below this bound.
func IndependentTestsErrorRate(k int, alpha float64) float64 {
	if k < 1 || alpha <= 0 || alpha >= 1 {
		return math.NaN()
	}
	return 1 - math.Pow(1-alpha, float64(k))
}
