// Package eval runs a workflow over a list of sample inputs and reports each
// output with its latency.
package eval

import (
	"context"
	"math"
	"time"
)

// Row is one evaluated input. Idx is 1-based.
type Row[I, O any] struct {
	Idx            int     `json:"idx"`
	Input          I       `json:"input"`
	Output         O       `json:"output"`
	Error          string  `json:"error,omitempty"`
	LatencySeconds float64 `json:"latency_s"`
}

// RunTable calls fn once per input, in order, and never stops early: a failing
// input gets its error recorded on its row and the next input runs. Latency is
// measured on the monotonic clock and rounded to milliseconds.
func RunTable[I, O any](ctx context.Context, inputs []I, fn func(context.Context, I) (O, error)) []Row[I, O] {
	rows := make([]Row[I, O], 0, len(inputs))
	for i, in := range inputs {
		start := time.Now()
		out, err := fn(ctx, in)
		elapsed := time.Since(start)

		row := Row[I, O]{
			Idx:            i + 1,
			Input:          in,
			Output:         out,
			LatencySeconds: roundMillis(elapsed),
		}
		if err != nil {
			row.Error = err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

func roundMillis(d time.Duration) float64 {
	if d < 0 {
		d = 0
	}
	return math.Round(d.Seconds()*1000) / 1000
}
