// Package corpus reads training records for the spelling model. Each line holds
// a correct word followed by observed misspellings, separated by whitespace,
// colons or commas:
//
//	receive: recieve, receve
package corpus

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"

	"hmmspell/internal/hmm"
)

var separators = strings.NewReplacer(":", " ", ",", " ")

// ParseLine turns one corpus line into a record. It reports false when the line
// has no tokens at all.
func ParseLine(line string) (hmm.Record, bool) {
	parts := strings.Fields(separators.Replace(line))
	if len(parts) < 1 {
		return hmm.Record{}, false
	}
	rec := hmm.Record{Correct: parts[0]}
	if len(parts) > 1 {
		rec.Typos = parts[1:]
	}
	return rec, true
}

// MaxLineLength bounds a single corpus line. Longer lines are skipped and
// counted in Stats.TooLong.
const MaxLineLength = 1024 * 1024

// Stats counts the lines a Reader has consumed.
type Stats struct {
	Lines   int `json:"lines"`
	Skipped int `json:"skipped"`  // lines without tokens
	TooLong int `json:"too_long"` // lines over MaxLineLength
}

// Reader scans records from an io.Reader, skipping lines without tokens and
// lines longer than MaxLineLength.
type Reader struct {
	br    *bufio.Reader
	buf   []byte
	rec   hmm.Record
	stats Stats
	err   error
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024)}
}

// readLine returns the next line without its terminator and whether it fit
// within MaxLineLength. The overflow of a long line is read and discarded.
func (r *Reader) readLine() ([]byte, bool, error) {
	r.buf = r.buf[:0]
	fits, started := true, false
	for {
		chunk, isPrefix, err := r.br.ReadLine()
		if err != nil {
			if err == io.EOF && started {
				return r.buf, fits, nil
			}
			return nil, false, err
		}
		started = true
		if fits {
			if len(r.buf)+len(chunk) > MaxLineLength {
				fits = false
				r.buf = r.buf[:0]
			} else {
				r.buf = append(r.buf, chunk...)
			}
		}
		if !isPrefix {
			return r.buf, fits, nil
		}
	}
}

// Next advances to the next record.
func (r *Reader) Next() bool {
	for r.err == nil {
		line, fits, err := r.readLine()
		if err != nil {
			if err != io.EOF {
				r.err = err
			}
			return false
		}
		r.stats.Lines++
		if !fits {
			r.stats.TooLong++
			continue
		}
		rec, ok := ParseLine(string(line))
		if !ok {
			r.stats.Skipped++
			continue
		}
		r.rec = rec
		return true
	}
	return false
}

// Record returns the record read by the last call to Next.
func (r *Reader) Record() hmm.Record { return r.rec }

// Err returns the first non-EOF error encountered.
func (r *Reader) Err() error { return r.err }

// Stats returns the line counts so far.
func (r *Reader) Stats() Stats { return r.stats }

// Records exposes the remaining records as a sequence. Check Err afterwards.
func (r *Reader) Records() iter.Seq[hmm.Record] {
	return func(yield func(hmm.Record) bool) {
		for r.Next() {
			if !yield(r.rec) {
				return
			}
		}
	}
}

// ReadAll collects every record from r.
func ReadAll(r io.Reader) ([]hmm.Record, Stats, error) {
	cr := NewReader(r)
	var out []hmm.Record
	for cr.Next() {
		out = append(out, cr.Record())
	}
	if err := cr.Err(); err != nil {
		return nil, cr.Stats(), fmt.Errorf("read corpus: %w", err)
	}
	return out, cr.Stats(), nil
}

// ReadFile memory-maps path read-only and parses every record in it.
func ReadFile(path string) ([]hmm.Record, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("stat corpus: %w", err)
	}
	if fi.Size() == 0 {
		return nil, Stats{}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("mmap corpus: %w", err)
	}
	defer m.Unmap()

	// Records copy their strings out of the mapping, so unmapping afterwards is safe.
	return ReadAll(bytes.NewReader(m))
}
