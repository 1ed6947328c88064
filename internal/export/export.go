// Package export is the one shared implementation of the download flow that
// the dashboards previously copy-pasted: fetch a binary artifact with the
// session credential, fail loudly on a non-success status, and name the file
// deterministically.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"aquasafi-monitor/internal/backend"
	"aquasafi-monitor/internal/domain"
	"aquasafi-monitor/internal/monitoring"
)

// Resources the backend can export as spreadsheets.
var exportableResources = map[string]struct{}{
	"water_points":      {},
	"quality_checks":    {},
	"maintenance_tasks": {},
}

var reportFormats = map[string]struct{}{
	"pdf": {},
	"csv": {},
}

// ResourceFilename is `{resource}_export_{YYYY-MM-DD}.xlsx`.
func ResourceFilename(resource string, t time.Time) string {
	return fmt.Sprintf("%s_export_%s.xlsx", resource, t.UTC().Format("2006-01-02"))
}

// ReportFilename is `report_{id}.{format}`.
func ReportFilename(id int, format string) string {
	return fmt.Sprintf("report_%d.%s", id, format)
}

type Downloader struct {
	api backend.API
	dir string
	now func() time.Time
	log zerolog.Logger
}

func NewDownloader(api backend.API, dir string, log zerolog.Logger) *Downloader {
	return &Downloader{
		api: api,
		dir: dir,
		now: func() time.Time { return time.Now().UTC() },
		log: log,
	}
}

// ExportResource fetches the backend spreadsheet for resource and returns
// its deterministic filename together with the payload.
func (d *Downloader) ExportResource(ctx context.Context, resource string) (string, []byte, error) {
	if _, ok := exportableResources[resource]; !ok {
		return "", nil, fmt.Errorf("resource %q is not exportable", resource)
	}
	payload, err := d.api.ExportResource(ctx, resource)
	if err != nil {
		return "", nil, fmt.Errorf("export %s: %w", resource, err)
	}
	return ResourceFilename(resource, d.now()), payload, nil
}

// DownloadReport fetches a generated report artifact in the given format.
func (d *Downloader) DownloadReport(ctx context.Context, id int, format string) (string, []byte, error) {
	if _, ok := reportFormats[format]; !ok {
		return "", nil, fmt.Errorf("format %q is not supported", format)
	}
	payload, err := d.api.DownloadReport(ctx, id, format)
	if err != nil {
		return "", nil, fmt.Errorf("download report %d: %w", id, err)
	}
	return ReportFilename(id, format), payload, nil
}

// Save writes a downloaded artifact into the export directory.
func (d *Downloader) Save(filename string, payload []byte) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(d.dir, filename)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

var waterPointHeader = []string{
	"ID", "Name", "Region", "Location", "Status", "Overall Status",
	"Signal", "Battery %", "Sensors",
}

var alertHeader = []string{
	"ID", "Priority", "Status", "Title", "Water Point", "Created At",
}

// SnapshotWorkbook renders the current monitoring snapshot as a spreadsheet
// locally, so a view-model export needs no backend round trip.
func SnapshotWorkbook(snap monitoring.Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	pointSheet := "Water Points"
	index, err := f.NewSheet(pointSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	writeRow(f, pointSheet, 1, toCells(waterPointHeader))
	if err := styleRow(f, pointSheet, 1, len(waterPointHeader), headerStyle); err != nil {
		return nil, err
	}
	for i, wp := range snap.WaterPoints {
		writeRow(f, pointSheet, i+2, []any{
			wp.ID, wp.Name, wp.Region, wp.Location, wp.Status, wp.OverallStatus,
			wp.Connectivity.SignalStrength, wp.PowerStatus.BatteryLevel, sensorSummary(wp),
		})
	}

	alertSheet := "Active Alerts"
	if _, err := f.NewSheet(alertSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	writeRow(f, alertSheet, 1, toCells(alertHeader))
	if err := styleRow(f, alertSheet, 1, len(alertHeader), headerStyle); err != nil {
		return nil, err
	}
	for i, a := range snap.ActiveAlerts {
		created := ""
		if !a.CreatedAt.IsZero() {
			created = a.CreatedAt.Format(time.RFC3339)
		}
		writeRow(f, alertSheet, i+2, []any{
			a.ID, a.Priority, a.Status, a.Title, a.WaterPointName, created,
		})
	}

	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func styleRow(f *excelize.File, sheet string, row, width, style int) error {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(width, row)
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	return nil
}

func toCells(header []string) []any {
	out := make([]any, len(header))
	for i, h := range header {
		out[i] = h
	}
	return out
}

func sensorSummary(wp domain.WaterPoint) string {
	kinds := make([]string, 0, len(wp.Sensors))
	for kind := range wp.Sensors {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	summary := ""
	for i, kind := range kinds {
		if i > 0 {
			summary += ", "
		}
		s := wp.Sensors[kind]
		summary += fmt.Sprintf("%s=%.2f%s (%s)", kind, s.Value, s.Unit, s.Status)
	}
	return summary
}
