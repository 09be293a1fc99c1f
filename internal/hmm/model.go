// Package hmm implements a character-level hidden Markov model for spelling
// correction: a trainer that estimates letter transition and emission tables
// from (correct word, typo) records, and a Viterbi decoder over those tables.
package hmm

import "math"

// Smoothing floors substituted for pairs never observed during training.
// Emission mismatches are penalized harder than unlikely letter sequences.
const (
	TransitionFloor = 1e-6
	EmissionFloor   = 1e-8
)

// Model is a trained pair of transition and emission tables. It is immutable
// once returned by Train and safe for concurrent use.
type Model struct {
	trans     [numSources][numDests]float64
	emit      [numSymbols][numSymbols]float64
	transSeen [numSources]bool
	emitSeen  [numSymbols]bool

	logTrans [numSources][numDests]float64
	logEmit  [numSymbols][numSymbols]float64

	stats TrainStats
}

// smoothed is the only place the floors are applied. Zero marks a pair that was
// never observed; trained probabilities are always positive.
func smoothed(p, floor float64) float64 {
	if p > 0 {
		return p
	}
	return floor
}

func (m *Model) precompute() {
	for s := range m.trans {
		for d := range m.trans[s] {
			m.logTrans[s][d] = math.Log(smoothed(m.trans[s][d], TransitionFloor))
		}
	}
	for h := range m.emit {
		for o := range m.emit[h] {
			m.logEmit[h][o] = math.Log(smoothed(m.emit[h][o], EmissionFloor))
		}
	}
}

// untrained returns a model trained on nothing. Every lookup falls back to the
// floors, so decoding still works but carries no information.
func untrained() *Model {
	m := &Model{}
	m.precompute()
	return m
}

// Transition returns the trained probability of src -> dst and whether the pair
// was observed. Use Start as src for the first letter and End as dst after the
// last one.
func (m *Model) Transition(src, dst int) (float64, bool) {
	p := m.trans[src][dst]
	return p, p > 0
}

// Emission returns the trained probability that hidden is typed as observed.
func (m *Model) Emission(hidden, observed int) (float64, bool) {
	p := m.emit[hidden][observed]
	return p, p > 0
}

// SmoothedTransition is Transition with TransitionFloor applied.
func (m *Model) SmoothedTransition(src, dst int) float64 {
	return smoothed(m.trans[src][dst], TransitionFloor)
}

// SmoothedEmission is Emission with EmissionFloor applied.
func (m *Model) SmoothedEmission(hidden, observed int) float64 {
	return smoothed(m.emit[hidden][observed], EmissionFloor)
}

// HasTransitionRow reports whether src was ever a transition source.
func (m *Model) HasTransitionRow(src int) bool { return m.transSeen[src] }

// HasEmissionRow reports whether hidden was ever an emission source.
func (m *Model) HasEmissionRow(hidden int) bool { return m.emitSeen[hidden] }

// TransitionRow returns a copy of the probabilities out of src, indexed by
// destination (letters, Other, End).
func (m *Model) TransitionRow(src int) []float64 {
	row := m.trans[src]
	return row[:]
}

// EmissionRow returns a copy of the probabilities out of hidden, indexed by
// observed symbol (letters, Other).
func (m *Model) EmissionRow(hidden int) []float64 {
	row := m.emit[hidden]
	return row[:]
}

// Stats describes the corpus the model was trained on.
func (m *Model) Stats() TrainStats { return m.stats }
