package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions carries the flags shared by every subcommand.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand builds the wattendo command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "wattendo",
		Short:         "Personal attendance and shift tracker",
		Long:          "wattendo tracks your daily attendance cycle, work shifts and work notes from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "path to the configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newStatusCommand(opts),
		newAdvanceCommand(opts),
		newResetCommand(opts),
		newMarkCommand(opts),
		newWeekCommand(opts),
		newHistoryCommand(opts),
		newShiftCommand(opts),
		newNoteCommand(opts),
		newSettingsCommand(opts),
		newExportCommand(opts),
		newDaemonCommand(opts),
	)

	return cmd
}
