// Package export writes attendance history to xlsx files for sharing
// or manual archiving.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dangvu008/wattendo/internal/attendance"
	"github.com/dangvu008/wattendo/internal/clock"
)

// AttendanceSource supplies the record map to export.
type AttendanceSource interface {
	Records() map[string]attendance.Record
}

// Exporter renders attendance records into spreadsheets.
type Exporter struct {
	source AttendanceSource
}

// NewExporter creates an exporter over the given record source.
func NewExporter(source AttendanceSource) *Exporter {
	return &Exporter{source: source}
}

var header = []string{"Date", "Status", "Go to work", "Check in", "Check out", "Complete"}

// MonthReport builds a one-sheet workbook covering every day of the
// given month, with a row per day. Days without a stored record show
// not_started.
func (e *Exporter) MonthReport(year int, month time.Month) (*excelize.File, error) {
	file := excelize.NewFile()
	sheet := fmt.Sprintf("%04d-%02d", year, int(month))
	file.SetSheetName("Sheet1", sheet)

	for i, col := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return nil, err
		}
	}

	if style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = file.SetCellStyle(sheet, startCell, endCell, style)
	}

	records := e.source.Records()
	day := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	row := 2
	for day.Month() == month {
		key := clock.DateKey(day)
		rec, ok := records[key]
		if !ok {
			rec = attendance.NewRecord()
		}

		values := []any{
			key,
			string(rec.Status),
			formatStamp(rec.GoWorkTime),
			formatStamp(rec.CheckInTime),
			formatStamp(rec.CheckOutTime),
			formatStamp(rec.CompleteTime),
		}
		for i, val := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(sheet, cell, val); err != nil {
				return nil, err
			}
		}

		day = day.AddDate(0, 0, 1)
		row++
	}

	return file, nil
}

// SaveMonth writes the month report to disk.
func (e *Exporter) SaveMonth(path string, year int, month time.Month) error {
	file, err := e.MonthReport(year, month)
	if err != nil {
		return fmt.Errorf("build month report: %w", err)
	}
	defer file.Close()

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}
