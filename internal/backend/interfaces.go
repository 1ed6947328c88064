package backend

import "context"

// TokenSource supplies the bearer credential attached to every request.
// Implemented by session.Store.
type TokenSource interface {
	Token() (string, bool)
}

// API is the full surface the console consumes. *Client talks to the real
// backend; demo.Source provides the same surface from in-memory fixtures.
type API interface {
	// Monitoring dashboard slices.
	MonitoringDashboard(ctx context.Context) (DashboardSummary, error)
	WaterPointStatuses(ctx context.Context) ([]WaterPointStatus, error)
	ActiveAlerts(ctx context.Context) ([]AlertRecord, error)
	SystemHealth(ctx context.Context) (HealthReport, error)
	Notifications(ctx context.Context) ([]NotificationRecord, error)

	// Admin dashboard slices.
	AdminOverview(ctx context.Context) (OverviewStatsRecord, error)
	RegionalData(ctx context.Context) ([]RegionRecord, error)
	RecentActivities(ctx context.Context) ([]ActivityRecord, error)
	SystemAlerts(ctx context.Context) ([]SystemAlertRecord, error)

	// Water point management.
	ListWaterPoints(ctx context.Context) ([]WaterPointRecord, error)
	CreateWaterPoint(ctx context.Context, in WaterPointInput) (WaterPointRecord, error)
	UpdateWaterPoint(ctx context.Context, id int, in WaterPointInput) (WaterPointRecord, error)
	DeleteWaterPoint(ctx context.Context, id int) error
	ArchiveWaterPoint(ctx context.Context, id int) error

	// Alert transitions.
	AcknowledgeAlert(ctx context.Context, id int) error
	ResolveAlert(ctx context.Context, id int) error

	// Reports and exports.
	GenerateReport(ctx context.Context, req ReportRequest) (ReportRecord, error)
	ListReports(ctx context.Context) ([]ReportRecord, error)
	DeleteReport(ctx context.Context, id int) error
	DownloadReport(ctx context.Context, id int, format string) ([]byte, error)
	ExportResource(ctx context.Context, resource string) ([]byte, error)

	// Authentication.
	Login(ctx context.Context, email, password string) (AuthResult, error)
	AdminLogin(ctx context.Context, email, password string) (AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
}
