package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"aquasafi-monitor/internal/backend"
	"aquasafi-monitor/internal/domain"
	"aquasafi-monitor/internal/monitoring"
)

type stubAPI struct {
	backend.API
	exportPayload []byte
	exportErr     error
	lastResource  string
	lastFormat    string
}

func (s *stubAPI) ExportResource(ctx context.Context, resource string) ([]byte, error) {
	s.lastResource = resource
	return s.exportPayload, s.exportErr
}

func (s *stubAPI) DownloadReport(ctx context.Context, id int, format string) ([]byte, error) {
	s.lastFormat = format
	return s.exportPayload, s.exportErr
}

func fixedClock() func() time.Time {
	at := time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestResourceFilenameIsDeterministic(t *testing.T) {
	at := time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC)
	require.Equal(t, "water_points_export_2024-01-15.xlsx", ResourceFilename("water_points", at))

	// Same UTC instant expressed in another zone must not shift the date.
	nairobi := time.FixedZone("EAT", 3*3600)
	require.Equal(t, "water_points_export_2024-01-15.xlsx", ResourceFilename("water_points", at.In(nairobi)))
}

func TestReportFilename(t *testing.T) {
	require.Equal(t, "report_7.pdf", ReportFilename(7, "pdf"))
	require.Equal(t, "report_12.csv", ReportFilename(12, "csv"))
}

func TestExportResource(t *testing.T) {
	api := &stubAPI{exportPayload: []byte("xlsx-bytes")}
	d := NewDownloader(api, t.TempDir(), zerolog.Nop())
	d.now = fixedClock()

	filename, payload, err := d.ExportResource(context.Background(), "water_points")
	require.NoError(t, err)
	require.Equal(t, "water_points_export_2024-01-15.xlsx", filename)
	require.Equal(t, []byte("xlsx-bytes"), payload)
	require.Equal(t, "water_points", api.lastResource)
}

func TestExportResourceRejectsUnknownResource(t *testing.T) {
	api := &stubAPI{}
	d := NewDownloader(api, t.TempDir(), zerolog.Nop())

	_, _, err := d.ExportResource(context.Background(), "users")
	require.Error(t, err)
	require.Empty(t, api.lastResource, "unknown resources never reach the backend")
}

func TestDownloadReportFormats(t *testing.T) {
	api := &stubAPI{exportPayload: []byte("report-bytes")}
	d := NewDownloader(api, t.TempDir(), zerolog.Nop())

	filename, payload, err := d.DownloadReport(context.Background(), 3, "csv")
	require.NoError(t, err)
	require.Equal(t, "report_3.csv", filename)
	require.Equal(t, []byte("report-bytes"), payload)
	require.Equal(t, "csv", api.lastFormat)

	_, _, err = d.DownloadReport(context.Background(), 3, "docx")
	require.Error(t, err)
}

func TestDownloadErrorPassesThrough(t *testing.T) {
	api := &stubAPI{exportErr: &backend.APIError{StatusCode: 404, Message: "Report not found"}}
	d := NewDownloader(api, t.TempDir(), zerolog.Nop())

	_, _, err := d.DownloadReport(context.Background(), 3, "pdf")
	require.ErrorContains(t, err, "Report not found")
}

func TestSaveWritesIntoExportDir(t *testing.T) {
	dir := t.TempDir()
	d := NewDownloader(&stubAPI{}, filepath.Join(dir, "exports"), zerolog.Nop())

	path, err := d.Save("report_1.pdf", []byte("pdf"))
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("pdf"), raw)
}

func TestSnapshotWorkbookContents(t *testing.T) {
	snap := monitoring.Snapshot{
		WaterPoints: []domain.WaterPoint{
			{
				ID: 1, Name: "Garissa Main Borehole", Region: "Garissa Township",
				Location: "Garissa Town", Status: domain.StatusActive, OverallStatus: "good",
				Connectivity: domain.Connectivity{SignalStrength: 87},
				PowerStatus:  domain.PowerStatus{BatteryLevel: 92},
				Sensors: map[string]domain.Sensor{
					"ph":   {Value: 7.2, Unit: "", Status: "normal"},
					"flow": {Value: 45.5, Unit: "L/min", Status: "normal"},
				},
			},
		},
		ActiveAlerts: []domain.Alert{
			{
				ID: 11, Priority: "high", Status: domain.AlertActive,
				Title: "Low water pressure", WaterPointName: "Garissa Main Borehole",
				CreatedAt: time.Date(2024, 1, 14, 8, 0, 0, 0, time.UTC),
			},
		},
	}

	payload, err := SnapshotWorkbook(snap)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	require.ElementsMatch(t, []string{"Water Points", "Active Alerts"}, f.GetSheetList())

	name, err := f.GetCellValue("Water Points", "B2")
	require.NoError(t, err)
	require.Equal(t, "Garissa Main Borehole", name)

	sensors, err := f.GetCellValue("Water Points", "I2")
	require.NoError(t, err)
	require.Equal(t, "flow=45.50L/min (normal), ph=7.20 (normal)", sensors,
		"sensor summary lists kinds alphabetically")

	title, err := f.GetCellValue("Active Alerts", "D2")
	require.NoError(t, err)
	require.Equal(t, "Low water pressure", title)

	created, err := f.GetCellValue("Active Alerts", "F2")
	require.NoError(t, err)
	require.Equal(t, "2024-01-14T08:00:00Z", created)
}
