package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dangvu008/wattendo/internal/shift"
)

func newShiftCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Manage work shifts",
	}
	cmd.AddCommand(
		newShiftListCommand(opts),
		newShiftAddCommand(opts),
		newShiftDeleteCommand(opts),
		newShiftUseCommand(opts),
	)
	return cmd
}

func newShiftListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all shifts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			active := app.Shifts.Active()
			out := cmd.OutOrStdout()
			for _, s := range app.Shifts.Shifts() {
				marker := " "
				if active != nil && active.ID == s.ID {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-36s %-20s %s-%s  days %s\n",
					marker, s.ID, s.Name, s.StartTime, s.EndTime, formatDays(s.DaysApplied))
			}
			return nil
		},
	}
}

func newShiftAddCommand(opts *RootOptions) *cobra.Command {
	var (
		name      string
		departure string
		start     string
		end       string
		before    int
		after     int
		sign      bool
		days      string
		activate  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			applied, err := parseDays(days)
			if err != nil {
				return err
			}
			created, err := app.Shifts.Add(cmd.Context(), shift.Shift{
				Name:           name,
				DepartureTime:  departure,
				StartTime:      start,
				EndTime:        end,
				ReminderBefore: before,
				ReminderAfter:  after,
				ShowSignButton: sign,
				DaysApplied:    applied,
			})
			if err != nil {
				return err
			}
			if activate {
				if err := app.Shifts.SetActive(cmd.Context(), created.ID); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created shift %s (%s).\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "shift name")
	cmd.Flags().StringVar(&departure, "departure", "", "departure time, HH:mm")
	cmd.Flags().StringVar(&start, "start", "", "start time, HH:mm")
	cmd.Flags().StringVar(&end, "end", "", "end time, HH:mm (before start means overnight)")
	cmd.Flags().IntVar(&before, "remind-before", 30, "departure reminder lead, minutes")
	cmd.Flags().IntVar(&after, "remind-after", 15, "end-of-shift reminder delay, minutes")
	cmd.Flags().BoolVar(&sign, "sign", false, "show the sign button for this shift")
	cmd.Flags().StringVar(&days, "days", "1,2,3,4,5", "applicable weekdays, 1=Mon .. 7=Sun")
	cmd.Flags().BoolVar(&activate, "use", false, "make the new shift active")
	return cmd
}

func newShiftDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Shifts.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Deleted.")
			if active := app.Shifts.Active(); active != nil {
				fmt.Fprintf(out, "Active shift is now %s.\n", active.Name)
			}
			return nil
		},
	}
}

func newShiftUseCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Make a shift the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Shifts.SetActive(cmd.Context(), args[0]); err != nil {
				return err
			}
			active := app.Shifts.Active()
			fmt.Fprintf(cmd.OutOrStdout(), "Active shift: %s.\n", active.Name)
			return nil
		},
	}
}

func parseDays(arg string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		days = append(days, d)
	}
	return days, nil
}

func formatDays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}
