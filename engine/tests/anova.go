package tests

import (
	"statbook/engine/descriptive"
	"statbook/engine/dist"
	"statbook/internal/errors"
)

// ANOVAResult is the one-way ANOVA table as a flat record.
type ANOVAResult struct {
	SSBetween  float64   `json:"ss_between"`
	SSWithin   float64   `json:"ss_within"`
	SSTotal    float64   `json:"ss_total"`
	DFBetween  int       `json:"df_between"`
	DFWithin   int       `json:"df_within"`
	MSBetween  float64   `json:"ms_between"`
	MSWithin   float64   `json:"ms_within"`
	F          float64   `json:"f"`
	P          float64   `json:"p"`
	GroupMeans []float64 `json:"group_means"`
	GrandMean  float64   `json:"grand_mean"`
}

// OneWayANOVA tests whether k group means differ. Requires at least two
// groups and at least one residual degree of freedom. With k = 2 the F
// statistic equals the squared pooled t statistic on the same data.
func OneWayANOVA(groups [][]float64) (*ANOVAResult, error) {
	k := len(groups)
	if k < 2 {
		return nil, errors.DegenerateInput("one-way ANOVA requires at least 2 groups")
	}
	gs, err := descriptive.CalculateGroupStatistics(groups)
	if err != nil {
		return nil, err
	}
	dfWithin := gs.TotalN - k
	if dfWithin < 1 {
		return nil, errors.DegenerateInput("one-way ANOVA requires more observations than groups")
	}
	ss, err := descriptive.ComputeSumOfSquares(groups)
	if err != nil {
		return nil, err
	}

	dfBetween := k - 1
	msBetween := ss.Between / float64(dfBetween)
	msWithin := ss.Within / float64(dfWithin)
	if msWithin == 0 {
		return nil, errors.DegenerateInput("one-way ANOVA is undefined with zero within-group variance")
	}
	f := msBetween / msWithin

	return &ANOVAResult{
		SSBetween:  ss.Between,
		SSWithin:   ss.Within,
		SSTotal:    ss.Total,
		DFBetween:  dfBetween,
		DFWithin:   dfWithin,
		MSBetween:  msBetween,
		MSWithin:   msWithin,
		F:          f,
		P:          dist.FPValue(f, float64(dfBetween), float64(dfWithin)),
		GroupMeans: gs.Means,
		GrandMean:  gs.GrandMean,
	}, nil
}

// RMANOVAResult is the repeated-measures (subject x condition) ANOVA table.
// Subject effects are partialled out but never tested; the residual
// (subject x condition interaction) is the error term.
type RMANOVAResult struct {
	SSCondition float64 `json:"ss_condition"`
	SSSubject   float64 `json:"ss_subject"`
	SSResidual  float64 `json:"ss_residual"`
	SSTotal     float64 `json:"ss_total"`
	DFCondition int     `json:"df_condition"`
	DFSubject   int     `json:"df_subject"`
	DFResidual  int     `json:"df_residual"`
	MSCondition float64 `json:"ms_condition"`
	MSSubject   float64 `json:"ms_subject"`
	MSResidual  float64 `json:"ms_residual"`
	F           float64 `json:"f"`
	P           float64 `json:"p"`
}

// RepeatedMeasuresANOVA decomposes a complete subject x condition table
// (data[subject][condition], no replication). Requires at least 2 subjects
// and 2 conditions, with every subject measured under every condition.
func RepeatedMeasuresANOVA(data [][]float64) (*RMANOVAResult, error) {
	n := len(data) // subjects
	if n < 2 {
		return nil, errors.DegenerateInput("repeated-measures ANOVA requires at least 2 subjects")
	}
	k := len(data[0]) // conditions
	if k < 2 {
		return nil, errors.DegenerateInput("repeated-measures ANOVA requires at least 2 conditions")
	}
	for _, row := range data {
		if len(row) != k {
			return nil, errors.InvalidInput("every subject must be measured under every condition")
		}
	}

	grand := 0.0
	condMeans := make([]float64, k)
	subjMeans := make([]float64, n)
	for i, row := range data {
		for j, v := range row {
			grand += v
			condMeans[j] += v
			subjMeans[i] += v
		}
	}
	total := float64(n * k)
	grand /= total
	for j := range condMeans {
		condMeans[j] /= float64(n)
	}
	for i := range subjMeans {
		subjMeans[i] /= float64(k)
	}

	var ssTotal, ssCond, ssSubj, ssRes float64
	for j := range condMeans {
		d := condMeans[j] - grand
		ssCond += float64(n) * d * d
	}
	for i := range subjMeans {
		d := subjMeans[i] - grand
		ssSubj += float64(k) * d * d
	}
	// Residual accumulated cellwise as the interaction deviation, not by
	// subtraction.
	for i, row := range data {
		for j, v := range row {
			dt := v - grand
			ssTotal += dt * dt
			dr := v - condMeans[j] - subjMeans[i] + grand
			ssRes += dr * dr
		}
	}

	dfCond := k - 1
	dfSubj := n - 1
	dfRes := dfCond * dfSubj
	msCond := ssCond / float64(dfCond)
	msSubj := ssSubj / float64(dfSubj)
	msRes := ssRes / float64(dfRes)
	if msRes == 0 {
		return nil, errors.DegenerateInput("repeated-measures ANOVA is undefined with zero residual variance")
	}
	f := msCond / msRes

	return &RMANOVAResult{
		SSCondition: ssCond,
		SSSubject:   ssSubj,
		SSResidual:  ssRes,
		SSTotal:     ssTotal,
		DFCondition: dfCond,
		DFSubject:   dfSubj,
		DFResidual:  dfRes,
		MSCondition: msCond,
		MSSubject:   msSubj,
		MSResidual:  msRes,
		F:           f,
		P:           dist.FPValue(f, float64(dfCond), float64(dfRes)),
	}, nil
}
