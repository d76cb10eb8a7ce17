package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram_CountsAndEdges(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}
	bins, err := Histogram(values, 5)
	require.NoError(t, err)
	require.Len(t, bins, 5)

	total := 0
	for i, b := range bins {
		total += b.Count
		assert.Less(t, b.Left, b.Right, "bin %d", i)
		if i > 0 {
			assert.InDelta(t, bins[i-1].Right, b.Left, 1e-12, "bins must tile the range")
		}
	}
	assert.Equal(t, len(values), total)
	assert.InDelta(t, 0.0, bins[0].Left, 1e-12)
	assert.InDelta(t, 10.0, bins[4].Right, 1e-12)
}

func TestHistogram_EmptyInput(t *testing.T) {
	bins, err := Histogram(nil, 10)
	require.NoError(t, err)
	assert.Empty(t, bins)
}

func TestHistogram_SingleValue(t *testing.T) {
	bins, err := Histogram([]float64{3, 3, 3}, 4)
	require.NoError(t, err)
	require.Len(t, bins, 4)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 3, total)
}

func TestHistogramRange_FixedRangeDropsOutliers(t *testing.T) {
	bins, err := HistogramRange([]float64{-5, 0.5, 1.5, 9}, 2, 0, 2)
	require.NoError(t, err)
	require.Len(t, bins, 2)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 1, bins[1].Count)
}

func TestHistogramRange_MaxValueLandsInLastBin(t *testing.T) {
	bins, err := HistogramRange([]float64{2}, 4, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, bins[3].Count)
}

func TestHistogram_InvalidConfig(t *testing.T) {
	_, err := Histogram([]float64{1}, 0)
	assert.Error(t, err)
	_, err = HistogramRange([]float64{1}, 3, 5, 5)
	assert.Error(t, err)
}
