package bench

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/segmentio/ksuid"
)

type Row struct {
	Transport string        `json:"transport"`
	Iteration int           `json:"iteration"`
	Count     int           `json:"count"`
	Duration  time.Duration `json:"duration_ns"`
	Bytes     int64         `json:"bytes"`
}

type Report struct {
	RunID   ksuid.KSUID `json:"run_id"`
	Started time.Time   `json:"started"`
	Rows    []Row       `json:"rows"`
}

// TotalBytes sums bytes transferred per transport.
func (r *Report) TotalBytes() map[string]int64 {
	out := make(map[string]int64)
	for _, row := range r.Rows {
		out[row.Transport] += row.Bytes
	}
	return out
}

func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "Run %s\n", r.RunID)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Transport",
		"Iteration",
		"Count",
		"Runtime (ms)",
		"Bytes",
	})
	for _, row := range r.Rows {
		table.Append([]string{
			row.Transport,
			strconv.Itoa(row.Iteration),
			strconv.Itoa(row.Count),
			formatMillis(row.Duration),
			strconv.FormatInt(row.Bytes, 10),
		})
	}
	table.Render()

	totals := r.TotalBytes()
	seen := make(map[string]bool)
	for _, row := range r.Rows {
		if seen[row.Transport] {
			continue
		}
		seen[row.Transport] = true
		fmt.Fprintf(w, "%s: %d bytes transferred\n", row.Transport, totals[row.Transport])
	}
}

func formatMillis(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 2, 64)
}
