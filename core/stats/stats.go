// Package stats provides the descriptive statistics and significance tests used by the study.
package stats

import (
	"errors"

	mstats "github.com/montanaflynn/stats"
)

var (
	// ErrEmptySample is returned when a statistic is requested for no observations.
	ErrEmptySample = errors.New("empty sample")

	// ErrTooFewSamples is returned when a sample standard deviation has fewer than two observations.
	ErrTooFewSamples = errors.New("at least two samples are required")
)

// Mean returns the arithmetic mean of data.
func Mean(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, ErrEmptySample
	}
	return mstats.Mean(data)
}

// Median returns the median of data.
func Median(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, ErrEmptySample
	}
	return mstats.Median(data)
}

// SampleStdDev returns the sample (n-1) standard deviation of data.
func SampleStdDev(data []float64) (float64, error) {
	if len(data) < 2 {
		return 0, ErrTooFewSamples
	}
	return mstats.StandardDeviationSample(data)
}

// MeanStdDev returns both the mean and sample standard deviation of data.
func MeanStdDev(data []float64) (mean float64, std float64, err error) {
	if mean, err = Mean(data); err != nil {
		return 0, 0, err
	}
	if std, err = SampleStdDev(data); err != nil {
		return 0, 0, err
	}
	return mean, std, nil
}

// Ints converts integer counts to float64 observations.
func Ints(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
