package fsrs

import (
	"fmt"
	"time"
)

// DefaultParameters are the FSRS-6 default weights.
var DefaultParameters = [21]float64{
	0.212, 1.2931, 2.3065, 8.2956,
	6.4133, 0.8334, 3.0194, 0.001,
	1.8722, 0.1666, 0.796, 1.4835,
	0.0614, 0.2629, 1.6483, 0.6014,
	1.8729, 0.5425, 0.0912, 0.0658,
	0.1542,
}

var lowerBounds = [21]float64{
	0.001, 0.001, 0.001, 0.001,
	1.0, 0.001, 0.001, 0.001,
	0.0, 0.0, 0.001, 0.001,
	0.001, 0.001, 0.0, 0.0,
	1.0, 0.0, 0.0, 0.0,
	0.1,
}

var upperBounds = [21]float64{
	100.0, 100.0, 100.0, 100.0,
	10.0, 4.0, 4.0, 0.75,
	4.5, 0.8, 3.5, 5.0,
	0.25, 0.9, 4.0, 1.0,
	6.0, 2.0, 2.0, 0.8,
	0.8,
}

func validateParameters(p [21]float64) error {
	for i := range p {
		if p[i] < lowerBounds[i] || p[i] > upperBounds[i] {
			return fmt.Errorf("%w: w[%d] = %f, bounds [%f, %f]",
				ErrInvalidParameters, i, p[i], lowerBounds[i], upperBounds[i])
		}
	}
	return nil
}

// Config configures a Scheduler. Zero values fall back to defaults.
type Config struct {
	Parameters       [21]float64
	DesiredRetention float64 // 0 means 0.9
	// LearningSteps nil means [1m, 10m]; an empty slice disables learning steps.
	LearningSteps []time.Duration
	// RelearningSteps nil means [10m]; an empty slice disables relearning steps.
	RelearningSteps []time.Duration
	MaximumInterval int // days, 0 means 36500
	EnableFuzz      bool
	// Seed is mixed into every fuzz draw so deployments can spread differently.
	Seed int64
}
