package corrector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RunREPL reads lines from in and writes corrections to out until it sees
// "quit" (any case) or EOF. Lines of any length are accepted.
func (sc *SpellCorrector) RunREPL(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Spelling corrector ready")
	fmt.Fprint(out, "Type 'quit' to exit\n\n")

	br := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "Enter text: ")
		line, err := br.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		text := strings.TrimSpace(line)
		if strings.EqualFold(text, "quit") {
			return nil
		}
		res, err := sc.CorrectText(ctx, text)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Original:  %s\n", text)
		fmt.Fprintf(out, "Corrected: %s\n\n", res.Corrected)
	}
}
