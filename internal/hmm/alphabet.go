package hmm

// State indices. Letters occupy 0..25 in alphabetical order, which is also the
// decoder's iteration order and therefore its tie-break order.
const (
	NumLetters = 26

	// Other collects every rune outside a..z. It takes part in training so rows
	// normalize over everything observed, but it is never a decode candidate.
	Other = NumLetters

	// Start and End share the slot after Other: Start only appears as a
	// transition source and End only as a transition destination.
	Start = Other + 1
	End   = Other + 1

	numSymbols = Other + 1 // letters + Other
	numSources = Start + 1 // letters + Other + Start
	numDests   = End + 1   // letters + Other + End
)

// index maps a lowercase rune to its state index.
func index(r rune) int {
	if r >= 'a' && r <= 'z' {
		return int(r - 'a')
	}
	return Other
}

func letter(i int) rune { return rune('a' + i) }

// StateName renders a transition source or destination for debugging.
func StateName(i int, source bool) string {
	switch {
	case i < NumLetters:
		return string(letter(i))
	case i == Other:
		return "OTHER"
	case source:
		return "START"
	default:
		return "END"
	}
}
