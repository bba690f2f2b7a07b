package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change app settings",
	}
	cmd.AddCommand(
		newLocaleCommand(opts),
		newThemeCommand(opts),
	)
	return cmd
}

func newLocaleCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "locale [code]",
		Short: "Show or set the UI locale (vi, en)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), app.Settings.Locale())
				return nil
			}
			if err := app.Settings.SetLocale(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Locale set to %s.\n", args[0])
			return nil
		},
	}
}

func newThemeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [dark|light]",
		Short: "Show or set the color theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				if app.Settings.DarkMode() {
					fmt.Fprintln(out, "dark")
				} else {
					fmt.Fprintln(out, "light")
				}
				return nil
			}

			switch args[0] {
			case "dark":
				err = app.Settings.SetDarkMode(cmd.Context(), true)
			case "light":
				err = app.Settings.SetDarkMode(cmd.Context(), false)
			default:
				return fmt.Errorf("unknown theme %q, want dark or light", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Theme set to %s.\n", args[0])
			return nil
		},
	}
}
