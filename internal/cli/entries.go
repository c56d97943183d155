package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/timekeep/internal/entry"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries and the total tracked time",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := wait(cmd.Context(), s.Creators.LoadEntries()); err != nil {
				return fmt.Errorf("list entries: %w", err)
			}
			return newFormatter(rootOpts, cmd).List(s.Store.Snapshot())
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Start a new entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			name := strings.Join(args, " ")
			if err := wait(cmd.Context(), s.Creators.AddEntry(name, description)); err != nil {
				return fmt.Errorf("add entry: %w", err)
			}
			entries := s.Store.AllEntries()
			if len(entries) == 0 {
				return fmt.Errorf("add entry: service returned no entry")
			}
			created := entries[len(entries)-1]
			return newFormatter(rootOpts, cmd).Entry(created, fmt.Sprintf("Started %s [%s]", created.Name, created.ID))
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "entry description")
	return cmd
}

// NewStopCommand creates the stop command.
func NewStopCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop a running entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			// Updates only apply to known entries, so load first.
			if err := wait(cmd.Context(), s.Creators.LoadEntries()); err != nil {
				return fmt.Errorf("stop entry: %w", err)
			}
			id := entry.ID(args[0])
			if err := wait(cmd.Context(), s.Creators.StopEntry(id)); err != nil {
				return fmt.Errorf("stop entry: %w", err)
			}

			stopped, ok := find(s.Store.AllEntries(), id)
			if !ok {
				return fmt.Errorf("stop entry: %s is not in the entry list", id)
			}
			msg := fmt.Sprintf("Stopped %s [%s] after %s", stopped.Name, stopped.ID, entry.FormatDuration(stopped.Duration))
			return newFormatter(rootOpts, cmd).Entry(stopped, msg)
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			id := entry.ID(args[0])
			if err := wait(cmd.Context(), s.Creators.DeleteEntry(id)); err != nil {
				return fmt.Errorf("delete entry: %w", err)
			}
			return newFormatter(rootOpts, cmd).Deleted(id)
		},
	}
}

func find(entries []entry.Entry, id entry.ID) (entry.Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return entry.Entry{}, false
}
