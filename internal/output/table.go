package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jbweber/crucible/internal/storage"
)

// TableFormatter formats resources as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatMachines formats machines as a table.
func (f *TableFormatter) FormatMachines(machines []MachineStatus) (string, error) {
	if len(machines) == 0 {
		return "No machines found\n", nil
	}

	return f.render("NAME\tID\tSTATE\tPOOL\tAGE", func(w *tabwriter.Writer) {
		for _, m := range machines {
			age := "-"
			if !m.CreatedAt.IsZero() {
				age = formatAge(time.Since(m.CreatedAt))
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				m.Name, orDash(m.ID), orDash(m.State), orDash(m.StoragePool), age)
		}
	}), nil
}

// FormatVolumes formats volumes as a table.
func (f *TableFormatter) FormatVolumes(vols []storage.VolumeInfo) (string, error) {
	if len(vols) == 0 {
		return "No volumes found\n", nil
	}

	return f.render("NAME\tPATH\tCAPACITY\tALLOCATION", func(w *tabwriter.Writer) {
		for _, v := range vols {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				v.Name, v.Path, humanize.IBytes(v.Capacity), humanize.IBytes(v.Allocation))
		}
	}), nil
}

// FormatPools formats pools as a table.
func (f *TableFormatter) FormatPools(pools []storage.PoolInfo) (string, error) {
	if len(pools) == 0 {
		return "No pools found\n", nil
	}

	return f.render("NAME\tTYPE\tSTATE\tPATH\tCAPACITY\tAVAILABLE", func(w *tabwriter.Writer) {
		for _, p := range pools {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				p.Name, orDash(string(p.Type)), orDash(p.State), orDash(p.Path),
				humanize.IBytes(p.Capacity), humanize.IBytes(p.Available))
		}
	}), nil
}

func (f *TableFormatter) render(header string, rows func(w *tabwriter.Writer)) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	// Write header unless NoHeaders is set
	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, header)
	}

	rows(w)

	_ = w.Flush()
	return buf.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatAge formats a duration as a human-readable age string.
// Examples: "5s", "2m", "3h", "4d", "2w", "1y"
func formatAge(d time.Duration) string {
	if d < 0 {
		return "unknown"
	}

	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%dd", days)
	}

	weeks := days / 7
	if weeks < 8 {
		return fmt.Sprintf("%dw", weeks)
	}

	if years := days / 365; years > 0 {
		return fmt.Sprintf("%dy", years)
	}

	return fmt.Sprintf("%dd", days)
}
