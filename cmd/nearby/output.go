package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/couchcryptid/event-discovery-service/internal/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult writes the summary line followed by one row per event.
func printResult(w io.Writer, result domain.Result) error {
	if _, err := fmt.Fprintln(w, result.Summary); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KM\tWHEN\tCATEGORY\tNAME\tVENUE")
	for _, e := range result.Events {
		fmt.Fprintf(tw, "%.1f\t%s\t%s\t%s\t%s\n",
			result.DistanceKm[e.ID],
			e.StartTime.Format("2006-01-02 15:04"),
			e.Category.DisplayName(),
			e.Name,
			e.Address(),
		)
	}
	return tw.Flush()
}
