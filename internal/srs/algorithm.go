package srs

import "math"

const (
	minStability  = 0.001
	minDifficulty = 1.0
	maxDifficulty = 10.0
)

// algo holds the weights together with the curve constants derived from w[20].
type algo struct {
	w      [21]float64
	decay  float64 // -w[20]
	factor float64 // 0.9^(1/decay) - 1
}

func newAlgo(p [21]float64) algo {
	decay := -p[20]
	return algo{
		w:      p,
		decay:  decay,
		factor: math.Pow(0.9, 1.0/decay) - 1.0,
	}
}

// retrievability is the power-law forgetting curve R(t, S) = (1 + factor*t/S)^decay.
func (a *algo) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+a.factor*elapsedDays/stability, a.decay)
}

func (a *algo) initStability(r Rating) float64 {
	return clampS(a.w[r-1])
}

// initDifficulty is D0(G) = w4 - e^(w5*(G-1)) + 1.
func (a *algo) initDifficulty(r Rating, clamp bool) float64 {
	d := a.w[4] - math.Exp(a.w[5]*float64(r-1)) + 1
	if clamp {
		return clampD(d)
	}
	return d
}

// nextInterval returns whole days until R decays to desiredRetention, within [1, maxIvl].
func (a *algo) nextInterval(stability, desiredRetention float64, maxIvl int) int {
	ivl := stability / a.factor * (math.Pow(desiredRetention, 1.0/a.decay) - 1)
	days := int(math.Round(ivl))
	return max(1, min(days, maxIvl))
}

// shortTermStability applies to reviews less than a day apart.
func (a *algo) shortTermStability(stability float64, r Rating) float64 {
	inc := math.Exp(a.w[17]*(float64(r)-3+a.w[18])) * math.Pow(stability, -a.w[19])
	if r == Good || r == Easy {
		inc = math.Max(inc, 1.0)
	}
	return clampS(stability * inc)
}

// nextDifficulty applies linear damping and mean reversion towards D0(Easy).
func (a *algo) nextDifficulty(difficulty float64, r Rating) float64 {
	delta := -a.w[6] * (float64(r) - 3)
	damped := difficulty + (10-difficulty)*delta/9
	return clampD(a.w[7]*a.initDifficulty(Easy, false) + (1-a.w[7])*damped)
}

func (a *algo) nextStability(d, s, r float64, rating Rating) float64 {
	if rating == Again {
		return clampS(a.nextForgetStability(d, s, r))
	}
	return clampS(a.nextRecallStability(d, s, r, rating))
}

func (a *algo) nextRecallStability(d, s, r float64, rating Rating) float64 {
	hardPenalty := 1.0
	if rating == Hard {
		hardPenalty = a.w[15]
	}
	easyBonus := 1.0
	if rating == Easy {
		easyBonus = a.w[16]
	}
	return s * (1 + math.Exp(a.w[8])*
		(11-d)*
		math.Pow(s, -a.w[9])*
		(math.Exp((1-r)*a.w[10])-1)*
		hardPenalty*easyBonus)
}

// nextForgetStability is capped by the short-term forgetting bound so a lapse never raises S.
func (a *algo) nextForgetStability(d, s, r float64) float64 {
	long := a.w[11] *
		math.Pow(d, -a.w[12]) *
		(math.Pow(s+1, a.w[13]) - 1) *
		math.Exp((1-r)*a.w[14])
	short := s / math.Exp(a.w[17]*a.w[18])
	return math.Min(long, short)
}

func clampS(s float64) float64 {
	return math.Max(s, minStability)
}

func clampD(d float64) float64 {
	return math.Min(math.Max(d, minDifficulty), maxDifficulty)
}
