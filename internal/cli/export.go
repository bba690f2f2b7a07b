package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dangvu008/wattendo/internal/export"
)

func newExportCommand(opts *RootOptions) *cobra.Command {
	var (
		month string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a month's attendance records to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			ref := app.Clock.Now()
			if month != "" {
				ref, err = time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid month %q, want yyyy-MM: %w", month, err)
				}
			}
			if out == "" {
				out = fmt.Sprintf("attendance-%s.xlsx", ref.Format("2006-01"))
			}

			exporter := export.NewExporter(app.Attendance)
			if err := exporter.SaveMonth(out, ref.Year(), ref.Month()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to export, yyyy-MM (default: current)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file path")
	return cmd
}
