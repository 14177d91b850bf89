package main

import (
	"fmt"
	"io"
	"time"

	"coreasm/internal/batch"
)

// printStageTimings prints the per-stage sum over all results.
func printStageTimings(out io.Writer, results []batch.Result) {
	if out == nil {
		return
	}
	for _, stage := range batch.Stages {
		var total time.Duration
		seen := false
		for i := range results {
			t := results[i].Timings
			if t != nil && t.Has(stage) {
				total += t.Duration(stage)
				seen = true
			}
		}
		if seen {
			fmt.Fprintf(out, "%-8s %.1f ms\n", stage, toMillis(total))
		}
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
