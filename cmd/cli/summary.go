package cli

import (
	"fmt"
	"io"

	"walletprobe.com/internal/domain/entity"
)

// printSummary writes the end-of-run check report
func printSummary(w io.Writer, summary entity.Summary) {
	var passes, fails int64

	for _, c := range summary.Checks {
		passes += c.Passes
		fails += c.Fails

		if c.Fails == 0 {
			_, _ = fmt.Fprintf(w, "  ✓ %s\n", c.Name)
			continue
		}
		_, _ = fmt.Fprintf(w, "  ✗ %s\n", c.Name)
		_, _ = fmt.Fprintf(w, "   ↳  %s%% : ✓ %d / ✗ %d\n", c.PassRate(), c.Passes, c.Fails)
	}

	total := entity.CheckTally{Passes: passes, Fails: fails}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "  checks.....: %s%% ✓ %d ✗ %d\n", total.PassRate(), passes, fails)
	_, _ = fmt.Fprintf(w, "  iterations.: %d\n", summary.Iterations)
}
