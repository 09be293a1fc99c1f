package hmm

import (
	"iter"
	"strings"
)

// Record is one training line: a correct word and the typos observed for it.
type Record struct {
	Correct string
	Typos   []string
}

// TrainStats summarizes a training pass.
type TrainStats struct {
	Records int `json:"records"`
	Skipped int `json:"skipped"`
	Typos   int `json:"typos"`
}

type counts struct {
	trans     [numSources][numDests]int
	emit      [numSymbols][numSymbols]int
	transRows [numSources]int
	emitRows  [numSymbols]int
}

func (c *counts) transition(src, dst int) {
	c.trans[src][dst]++
	c.transRows[src]++
}

func (c *counts) emission(hidden, observed int) {
	c.emit[hidden][observed]++
	c.emitRows[hidden]++
}

// Train builds a Model from records in a single pass. Records without a correct
// word are skipped. Typos are aligned position by position against the correct
// word; runes past the shorter of the two are ignored.
func Train(records iter.Seq[Record]) (*Model, TrainStats) {
	var (
		c     counts
		stats TrainStats
	)
	for rec := range records {
		correct := []rune(strings.ToLower(rec.Correct))
		if len(correct) == 0 {
			stats.Skipped++
			continue
		}
		stats.Records++

		hidden := make([]int, len(correct))
		for i, r := range correct {
			hidden[i] = index(r)
		}

		c.transition(Start, hidden[0])
		for i := 0; i+1 < len(hidden); i++ {
			c.transition(hidden[i], hidden[i+1])
		}
		c.transition(hidden[len(hidden)-1], End)

		for _, typo := range rec.Typos {
			observed := []rune(strings.ToLower(typo))
			if len(observed) == 0 {
				continue
			}
			stats.Typos++
			n := min(len(hidden), len(observed))
			for i := 0; i < n; i++ {
				c.emission(hidden[i], index(observed[i]))
			}
		}

		// Most letters are typed correctly even without an explicit example.
		for _, h := range hidden {
			c.emission(h, h)
		}
	}

	m := &Model{stats: stats}
	for s, total := range c.transRows {
		if total == 0 {
			continue
		}
		m.transSeen[s] = true
		for d, n := range c.trans[s] {
			m.trans[s][d] = float64(n) / float64(total)
		}
	}
	for h, total := range c.emitRows {
		if total == 0 {
			continue
		}
		m.emitSeen[h] = true
		for o, n := range c.emit[h] {
			m.emit[h][o] = float64(n) / float64(total)
		}
	}
	m.precompute()
	return m, stats
}
