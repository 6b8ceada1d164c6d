package app

import (
	"fmt"
	"text/tabwriter"
	"time"

	"go.trai.ch/zerr"
)

// Status prints the last recorded outcome of every target that was ever built.
func (a *App) Status() error {
	records, err := a.store.List()
	if err != nil {
		return zerr.Wrap(err, "failed to list build records")
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(a.stdout, "no builds recorded")
		return err
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TARGET\tRESULT\tCOMPILED\tFINISHED\tARTIFACT")
	for _, r := range records {
		result := "ok"
		if r.ExitCode != 0 {
			result = fmt.Sprintf("%s failed (%d)", r.Stage, r.ExitCode)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			r.Target, result, r.Compiled, r.Finished.Format(time.DateTime), r.Artifact)
	}
	return w.Flush()
}
