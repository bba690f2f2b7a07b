package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dangvu008/wattendo/internal/attendance"
	"github.com/dangvu008/wattendo/internal/clock"
)

func newStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's attendance record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			rec := app.Attendance.Today()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date:   %s\n", clock.DateKey(app.Clock.Now()))
			fmt.Fprintf(out, "Status: %s\n", rec.Status)
			printStamps(out, rec)

			if active := app.Shifts.ActiveForToday(); active != nil {
				fmt.Fprintf(out, "Shift:  %s (%s - %s)\n", active.Name, active.StartTime, active.EndTime)
			} else {
				fmt.Fprintln(out, "Shift:  none scheduled today")
			}
			return nil
		},
	}
}

func newAdvanceCommand(opts *RootOptions) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Press the attendance button, moving today's record one step forward",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			var res attendance.Result
			if confirm {
				res, err = app.Attendance.ForceAdvance(cmd.Context())
			} else {
				res, err = app.Attendance.Advance(cmd.Context())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case res.OK:
				fmt.Fprintf(out, "%s -> %s\n", res.From, res.To)
			case res.NeedsConfirmation:
				fmt.Fprintf(out, "%s -> %s held: %s\n", res.From, res.To, describeReason(res.Reason))
				fmt.Fprintln(out, "Re-run with --yes to record it anyway.")
			default:
				fmt.Fprintf(out, "Nothing to do: the day is already %s.\n", res.From)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "confirm a held transition")
	return cmd
}

func newResetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [date]",
		Short: "Clear the attendance record for today or the given day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			day, err := parseDay(app.Clock, arg)
			if err != nil {
				return err
			}
			if err := app.Attendance.Reset(cmd.Context(), day); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s.\n", clock.DateKey(day))
			return nil
		},
	}
}

func newMarkCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mark <date> <status>",
		Short: "Set a day's status directly (absent, leave, sick, holiday, ...)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			day, err := parseDay(app.Clock, args[0])
			if err != nil {
				return err
			}
			status := attendance.Status(args[1])
			if err := app.Attendance.SetStatus(cmd.Context(), day, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s marked %s.\n", clock.DateKey(day), status)
			return nil
		},
	}
}

func newWeekCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "week [date]",
		Short: "Show the attendance grid for the week containing the given day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			ref, err := parseDay(app.Clock, arg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			today := clock.DateKey(app.Clock.Now())
			for _, day := range app.Attendance.WeeklyView(ref) {
				marker := " "
				if day.Key == today {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s %-3s  %s\n", marker, day.Key, day.Date.Format("Mon"), day.Record.Status)
			}
			return nil
		},
	}
}

func newHistoryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history [date]",
		Short: "Show the ordered status changes recorded for a day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			day, err := parseDay(app.Clock, arg)
			if err != nil {
				return err
			}

			entries := app.Attendance.History(day)
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No activity recorded on %s.\n", clock.DateKey(day))
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s\n", e.Time.Format("15:04:05"), e.Status)
			}
			return nil
		},
	}
}

func printStamps(out io.Writer, rec attendance.Record) {
	stamp := func(label string, t *time.Time) {
		if t == nil {
			return
		}
		fmt.Fprintf(out, "%s %s\n", label, t.Format("15:04:05"))
	}
	stamp("Left home:  ", rec.GoWorkTime)
	stamp("Checked in: ", rec.CheckInTime)
	stamp("Checked out:", rec.CheckOutTime)
	stamp("Completed:  ", rec.CompleteTime)
}

func describeReason(reason string) string {
	switch reason {
	case attendance.ReasonCheckInHold:
		return "check-in pressed very soon after leaving home"
	case attendance.ReasonCheckOutHold:
		return "check-out pressed soon after check-in"
	default:
		return strings.ReplaceAll(reason, "_", " ")
	}
}
