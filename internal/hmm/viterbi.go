package hmm

import (
	"errors"
	"math"
	"strings"
)

// ErrEmptyWord is returned when Decode is asked to correct an empty string.
var ErrEmptyWord = errors.New("hmm: empty word")

// Decode returns the most probable intended spelling of word. The result has
// exactly as many runes as word and uses only the letters a..z. Runes outside
// a..z are treated as an unknown observed symbol.
//
// A model trained on nothing yields "a" repeated, since every path scores the
// same and ties go to the alphabetically first letter.
func (m *Model) Decode(word string) (string, error) {
	decoded, _, err := m.DecodeWithScore(word)
	return decoded, err
}

// Score returns the log-probability of the best hidden path for word, including
// the Start and End transitions.
func (m *Model) Score(word string) (float64, error) {
	_, score, err := m.viterbi(word)
	return score, err
}

// DecodeWithScore returns Decode and Score from a single Viterbi pass.
func (m *Model) DecodeWithScore(word string) (string, float64, error) {
	path, score, err := m.viterbi(word)
	if err != nil {
		return "", score, err
	}
	out := make([]rune, len(path))
	for i, s := range path {
		out[i] = letter(int(s))
	}
	return string(out), score, nil
}

func (m *Model) viterbi(word string) ([]byte, float64, error) {
	obs := []rune(strings.ToLower(word))
	n := len(obs)
	if n == 0 {
		return nil, math.Inf(-1), ErrEmptyWord
	}

	// Two rolling score rows, plus one predecessor row per position after the first.
	var prev, curr [NumLetters]float64
	back := make([][NumLetters]byte, n)

	o := index(obs[0])
	for l := 0; l < NumLetters; l++ {
		prev[l] = m.logTrans[Start][l] + m.logEmit[l][o]
	}

	for i := 1; i < n; i++ {
		o = index(obs[i])
		for l := 0; l < NumLetters; l++ {
			best := math.Inf(-1)
			var bestPrev byte
			for p := 0; p < NumLetters; p++ {
				if s := prev[p] + m.logTrans[p][l]; s > best {
					best = s
					bestPrev = byte(p)
				}
			}
			curr[l] = best + m.logEmit[l][o]
			back[i][l] = bestPrev
		}
		prev = curr
	}

	best := math.Inf(-1)
	var last byte
	for l := 0; l < NumLetters; l++ {
		if s := prev[l] + m.logTrans[l][End]; s > best {
			best = s
			last = byte(l)
		}
	}

	path := make([]byte, n)
	path[n-1] = last
	for i := n - 1; i > 0; i-- {
		path[i-1] = back[i][path[i]]
	}
	return path, best, nil
}
