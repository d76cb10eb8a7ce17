package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statbook/engine/rng"
	"statbook/internal/errors"
)

func TestOneWayANOVA_Additivity(t *testing.T) {
	groups := [][]float64{
		rng.NormalSample(20, 10, 2, 1),
		rng.NormalSample(25, 12, 2, 2),
		rng.NormalSample(15, 14, 2, 3),
	}
	result, err := OneWayANOVA(groups)
	require.NoError(t, err)

	assert.InDelta(t, result.SSTotal, result.SSBetween+result.SSWithin, 1e-6*result.SSTotal)
	assert.Equal(t, 2, result.DFBetween)
	assert.Equal(t, 57, result.DFWithin) // 60 - 3
	assert.Less(t, result.P, 0.001)
	assert.Len(t, result.GroupMeans, 3)
}

func TestOneWayANOVA_TableArithmetic(t *testing.T) {
	groups := [][]float64{
		{85, 86, 88, 75, 78},
		{78, 79, 80, 81, 77},
		{60, 64, 70, 72, 68},
	}
	result, err := OneWayANOVA(groups)
	require.NoError(t, err)

	assert.InDelta(t, result.SSBetween/float64(result.DFBetween), result.MSBetween, 1e-12)
	assert.InDelta(t, result.SSWithin/float64(result.DFWithin), result.MSWithin, 1e-12)
	assert.InDelta(t, result.MSBetween/result.MSWithin, result.F, 1e-12)
}

func TestOneWayANOVA_Degenerate(t *testing.T) {
	_, err := OneWayANOVA([][]float64{{1, 2, 3}})
	require.Error(t, err)
	assert.Equal(t, errors.CodeDegenerateInput, errors.GetCode(err))

	_, err = OneWayANOVA([][]float64{{1}, {2}})
	require.Error(t, err)

	_, err = OneWayANOVA([][]float64{{5, 5}, {5, 5}})
	require.Error(t, err)
}

func TestRepeatedMeasuresANOVA_Additivity(t *testing.T) {
	// 6 subjects x 3 conditions with a per-subject offset baked in.
	gen := rng.New(42)
	data := make([][]float64, 6)
	for s := range data {
		subjectOffset := gen.Norm() * 2
		data[s] = []float64{
			10 + subjectOffset + gen.Norm(),
			12 + subjectOffset + gen.Norm(),
			15 + subjectOffset + gen.Norm(),
		}
	}
	result, err := RepeatedMeasuresANOVA(data)
	require.NoError(t, err)

	sum := result.SSCondition + result.SSSubject + result.SSResidual
	assert.InDelta(t, result.SSTotal, sum, 1e-6*result.SSTotal)
	assert.Equal(t, 2, result.DFCondition)
	assert.Equal(t, 5, result.DFSubject)
	assert.Equal(t, 10, result.DFResidual)
	assert.Less(t, result.P, 0.05)
}

func TestRepeatedMeasuresANOVA_SubjectVarianceAbsorbed(t *testing.T) {
	// Large stable subject differences should land in SSSubject, leaving
	// the condition test sharp.
	data := [][]float64{
		{100, 102.1, 104},
		{50, 52, 54.2},
		{75.1, 77, 79},
		{20, 22.2, 24},
	}
	result, err := RepeatedMeasuresANOVA(data)
	require.NoError(t, err)

	assert.Greater(t, result.SSSubject, result.SSCondition)
	assert.Less(t, result.SSResidual, result.SSSubject)
	assert.Less(t, result.P, 0.001)
}

func TestRepeatedMeasuresANOVA_Shape(t *testing.T) {
	_, err := RepeatedMeasuresANOVA([][]float64{{1, 2}})
	require.Error(t, err)

	_, err = RepeatedMeasuresANOVA([][]float64{{1, 2}, {3}})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = RepeatedMeasuresANOVA([][]float64{{1}, {2}})
	require.Error(t, err)
}
