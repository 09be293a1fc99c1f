package corrector

// TokenCorrection describes what happened to one whitespace-separated token.
type TokenCorrection struct {
	Original  string  `json:"original"`
	Stripped  string  `json:"stripped"`
	Corrected string  `json:"corrected"`
	Edits     int     `json:"edits"`
	Decoded   bool    `json:"decoded"`
	LogProb   float64 `json:"log_prob,omitempty"` // Viterbi path score, zero when not decoded
}

// Changed reports whether the output differs from the input token.
func (tc TokenCorrection) Changed() bool { return tc.Corrected != tc.Original }

type CorrectionResult struct {
	Original  string            `json:"original"`
	Corrected string            `json:"corrected"`
	Tokens    []TokenCorrection `json:"tokens"`
}
