package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/five82/timekeep/internal/entry"
	"github.com/five82/timekeep/internal/state"
)

// hoursTarget matches the TUI's daily goal.
const hoursTarget = 8 * time.Hour

// OutputFormatter renders command results as text, JSON or YAML.
type OutputFormatter struct {
	Format   string
	Writer   io.Writer
	Now      func() time.Time
	Location *time.Location
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	f := &OutputFormatter{
		Format:   opts.Format,
		Writer:   cmd.OutOrStdout(),
		Now:      time.Now,
		Location: time.Local,
	}
	if opts.now != nil {
		f.Now = opts.now
	}
	if opts.loc != nil {
		f.Location = opts.loc
	}
	return f
}

// EntryView is the structured form of one entry.
type EntryView struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	StartedAt   time.Time  `json:"startedAt" yaml:"startedAt"`
	StoppedAt   *time.Time `json:"stoppedAt,omitempty" yaml:"stoppedAt,omitempty"`
	Running     bool       `json:"running" yaml:"running"`
	Seconds     int64      `json:"seconds" yaml:"seconds"`
}

// ListView is the structured form of the list command.
type ListView struct {
	Entries      []EntryView `json:"entries" yaml:"entries"`
	TotalSeconds int64       `json:"totalSeconds" yaml:"totalSeconds"`
	Total        string      `json:"total" yaml:"total"`
	Error        string      `json:"error,omitempty" yaml:"error,omitempty"`
}

func (f *OutputFormatter) view(e entry.Entry) EntryView {
	d := e.Duration
	if e.Running() {
		d = e.Elapsed(f.Now())
	}
	return EntryView{
		ID:          string(e.ID),
		Name:        e.Name,
		Description: e.Description,
		StartedAt:   e.StartedAt,
		StoppedAt:   e.StoppedAt,
		Running:     e.Running(),
		Seconds:     int64(d / time.Second),
	}
}

// List renders the store snapshot.
func (f *OutputFormatter) List(snap state.Snapshot) error {
	if f.Format != "text" {
		out := ListView{
			Entries:      make([]EntryView, 0, len(snap.Entries)),
			TotalSeconds: int64(snap.TotalDuration / time.Second),
			Total:        entry.FormatDuration(snap.TotalDuration),
		}
		for _, e := range snap.Entries {
			out.Entries = append(out.Entries, f.view(e))
		}
		if snap.LastError != nil && snap.HasAPIError {
			out.Error = snap.LastError.Error()
		}
		return f.encode(out)
	}

	if len(snap.Entries) == 0 {
		_, err := fmt.Fprintln(f.Writer, "No entries.")
		return err
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTARTED\tDURATION\tSTATE")
	for _, e := range snap.Entries {
		status, d := "stopped", e.Duration
		if e.Running() {
			status, d = "running", e.Elapsed(f.Now())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.Name,
			e.StartedAt.In(f.Location).Format("2006-01-02 15:04"),
			entry.FormatDuration(d),
			status,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	pct := int(100 * float64(snap.TotalDuration) / float64(hoursTarget))
	_, err := fmt.Fprintf(f.Writer, "\nTotal %s of %s (%d%%)\n",
		entry.FormatDuration(snap.TotalDuration), entry.FormatDuration(hoursTarget), pct)
	return err
}

// Entry renders a single entry, or msg in text mode.
func (f *OutputFormatter) Entry(e entry.Entry, msg string) error {
	if f.Format != "text" {
		return f.encode(f.view(e))
	}
	_, err := fmt.Fprintln(f.Writer, msg)
	return err
}

// Deleted reports a removed entry.
func (f *OutputFormatter) Deleted(id entry.ID) error {
	if f.Format != "text" {
		return f.encode(map[string]string{"deleted": string(id)})
	}
	_, err := fmt.Fprintf(f.Writer, "Deleted %s\n", id)
	return err
}

func (f *OutputFormatter) encode(v any) error {
	switch f.Format {
	case "yaml":
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
