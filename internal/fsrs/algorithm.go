package fsrs

import "math"

// model holds the weights plus the decay constants derived from them.
type model struct {
	w      [21]float64
	decay  float64
	factor float64
}

func newModel(w [21]float64) model {
	decay := -w[20]
	return model{
		w:      w,
		decay:  decay,
		factor: math.Pow(0.9, 1.0/decay) - 1.0,
	}
}

// retrievability is R(t, S) = (1 + factor*t/S)^decay.
func (m *model) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+m.factor*elapsedDays/stability, m.decay)
}

func (m *model) initStability(r Rating) float64 {
	return clampStability(m.w[r-1])
}

// initDifficulty is D0(G) = w4 - e^(w5*(G-1)) + 1.
func (m *model) initDifficulty(r Rating, clamp bool) float64 {
	d := m.w[4] - math.Exp(m.w[5]*float64(r-1)) + 1
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// nextInterval returns whole days until recall probability falls to desiredRetention,
// bounded to [1, maxInterval].
func (m *model) nextInterval(stability, desiredRetention float64, maxInterval int) int {
	interval := stability / m.factor * (math.Pow(desiredRetention, 1.0/m.decay) - 1)
	days := int(math.Round(interval))
	return min(max(days, 1), maxInterval)
}

// shortTermStability applies a same-day review.
func (m *model) shortTermStability(stability float64, r Rating) float64 {
	inc := math.Exp(m.w[17]*(float64(r)-3+m.w[18])) * math.Pow(stability, -m.w[19])
	if r >= Good {
		inc = math.Max(inc, 1.0)
	}
	return clampStability(stability * inc)
}

// nextDifficulty damps the rating delta linearly and reverts toward D0(Easy).
func (m *model) nextDifficulty(difficulty float64, r Rating) float64 {
	delta := -m.w[6] * (float64(r) - 3)
	damped := difficulty + (10-difficulty)*delta/9
	reverted := m.w[7]*m.initDifficulty(Easy, false) + (1-m.w[7])*damped
	return clampDifficulty(reverted)
}

func (m *model) nextStability(difficulty, stability, retrievability float64, r Rating) float64 {
	if r == Again {
		return m.nextForgetStability(difficulty, stability, retrievability)
	}
	return m.nextRecallStability(difficulty, stability, retrievability, r)
}

func (m *model) nextRecallStability(d, s, r float64, rating Rating) float64 {
	hardPenalty := 1.0
	if rating == Hard {
		hardPenalty = m.w[15]
	}
	easyBonus := 1.0
	if rating == Easy {
		easyBonus = m.w[16]
	}
	return clampStability(s * (1 + math.Exp(m.w[8])*
		(11-d)*
		math.Pow(s, -m.w[9])*
		(math.Exp((1-r)*m.w[10])-1)*
		hardPenalty*easyBonus))
}

func (m *model) nextForgetStability(d, s, r float64) float64 {
	long := m.w[11] *
		math.Pow(d, -m.w[12]) *
		(math.Pow(s+1, m.w[13]) - 1) *
		math.Exp((1-r)*m.w[14])
	short := s / math.Exp(m.w[17]*m.w[18])
	return clampStability(math.Min(long, short))
}

func clampStability(s float64) float64 {
	return math.Max(s, 0.001)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}
