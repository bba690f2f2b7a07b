package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dangvu008/wattendo/internal/clock"
	"github.com/dangvu008/wattendo/internal/notes"
)

func newNoteCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage work notes",
	}
	cmd.AddCommand(
		newNoteAddCommand(opts),
		newNoteListCommand(opts),
		newNoteSearchCommand(opts),
		newNoteDeleteCommand(opts),
	)
	return cmd
}

func newNoteAddCommand(opts *RootOptions) *cobra.Command {
	var (
		title   string
		content string
		remind  string
		days    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a work note with a daily reminder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			h, m, err := clock.ParseHHMM(remind)
			if err != nil {
				return fmt.Errorf("invalid reminder time: %w", err)
			}
			applied, err := parseDays(days)
			if err != nil {
				return err
			}
			created, err := app.Notes.Add(cmd.Context(), notes.Note{
				Title:        title,
				Content:      content,
				ReminderTime: clock.At(app.Clock.Now(), h, m),
				ReminderDays: applied,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created note %s (%s).\n", created.Title, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&content, "content", "", "note body")
	cmd.Flags().StringVar(&remind, "remind", "08:00", "reminder time, HH:mm")
	cmd.Flags().StringVar(&days, "days", "1,2,3,4,5", "reminder weekdays, 1=Mon .. 7=Sun")
	return cmd
}

func newNoteListCommand(opts *RootOptions) *cobra.Command {
	var (
		recent int
		today  bool
		week   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, most recently touched first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			var list []notes.Note
			switch {
			case today:
				list = app.Notes.ForToday()
			case week:
				list = app.Notes.ForThisWeek()
			case recent > 0:
				list = app.Notes.Recent(recent)
			default:
				list = app.Notes.List()
			}
			printNotes(cmd.OutOrStdout(), list)
			return nil
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 0, "show only the N most recently touched notes")
	cmd.Flags().BoolVar(&today, "today", false, "show only notes that remind today")
	cmd.Flags().BoolVar(&week, "week", false, "show only notes touched this week")
	return cmd
}

func newNoteSearchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search note titles and bodies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			found := app.Notes.Search(args[0])
			if len(found) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching notes.")
				return nil
			}
			printNotes(cmd.OutOrStdout(), found)
			return nil
		},
	}
}

func newNoteDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Notes.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	}
}

func printNotes(out io.Writer, list []notes.Note) {
	for _, n := range list {
		body := n.Content
		if r := []rune(body); len(r) > 60 {
			body = string(r[:57]) + "..."
		}
		fmt.Fprintf(out, "%-36s %s  %s days %s\n   %s\n",
			n.ID, n.Title, n.ReminderTime.Format("15:04"), formatDays(n.ReminderDays),
			strings.ReplaceAll(body, "\n", " "))
	}
}
