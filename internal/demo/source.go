// Package demo is the explicitly configured offline mode: a stateful
// in-memory implementation of the backend API with Garissa-county fixtures.
// Mutations really transition state here, so the whole console including
// acknowledge/resolve flows works without a backend. It is only ever enabled
// through configuration, never substituted silently on a failed fetch.
package demo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"aquasafi-monitor/internal/backend"
)

type Source struct {
	mu      sync.Mutex
	points  []backend.WaterPointStatus
	records []backend.WaterPointRecord
	alerts  []backend.AlertRecord
	reports []backend.ReportRecord

	nextAlertID  int
	nextPointID  int
	nextReportID int
	now          func() time.Time
}

func NewSource() *Source {
	s := &Source{
		now: func() time.Time { return time.Now().UTC() },
	}
	s.seed()
	return s
}

func (s *Source) seed() {
	base := s.now().Add(-6 * time.Hour).Format("2006-01-02T15:04:05")

	fixtures := []struct {
		name, location, region, pointType, status string
		capacity, level, quality                  float64
	}{
		{"Garissa Main Borehole", "Garissa Town Center", "Garissa Town", "borehole", "active", 50000, 38000, 88},
		{"Dadaab Community Well", "Dadaab Settlement B", "Dadaab", "well", "active", 20000, 15500, 79},
		{"Ijara Water Tower", "Ijara Market", "Ijara", "tower", "maintenance", 80000, 41000, 72},
		{"Sankuri Pump Station", "Sankuri East", "Sankuri", "pump", "offline", 35000, 0, 0},
	}

	for i, fx := range fixtures {
		id := i + 1
		s.points = append(s.points, backend.WaterPointStatus{
			ID:            id,
			Name:          fx.name,
			Location:      fx.location,
			Region:        fx.region,
			Status:        fx.status,
			OverallStatus: overallFor(fx.status),
			Sensors:       sensorsFor(fx.status),
			LastUpdated:   base,
			Connectivity:  connectivityFor(fx.status),
			PowerStatus:   backend.PowerReading{BatteryLevel: 92 - i*7, Charging: i%2 == 0, Voltage: 12.4},
		})
		s.records = append(s.records, backend.WaterPointRecord{
			ID:               id,
			Name:             fx.name,
			Type:             fx.pointType,
			Region:           fx.region,
			Location:         fx.location,
			Status:           fx.status,
			Capacity:         fx.capacity,
			CurrentLevel:     fx.level,
			QualityScore:     fx.quality,
			PopulationServed: 1200 * (i + 1),
			CreatedAt:        base,
		})
	}
	s.nextPointID = len(s.points) + 1

	s.alerts = []backend.AlertRecord{
		{
			ID: 1, Type: "sensor", Title: "Low chlorine level",
			Description: "Chlorine reading below safe threshold",
			WaterPointID: 2, Priority: "critical", Status: "active",
			CreatedAt:      base,
			WaterPointName: "Dadaab Community Well", WaterPointRegion: "Dadaab",
			WaterPointLocation: "Dadaab Settlement B",
		},
		{
			ID: 2, Type: "connectivity", Title: "Station unreachable",
			Description: "No telemetry received for 45 minutes",
			WaterPointID: 4, Priority: "high", Status: "active",
			CreatedAt:      base,
			WaterPointName: "Sankuri Pump Station", WaterPointRegion: "Sankuri",
			WaterPointLocation: "Sankuri East",
		},
		{
			ID: 3, Type: "maintenance", Title: "Filter change due",
			Description: "Scheduled filter replacement window open",
			WaterPointID: 3, Priority: "medium", Status: "acknowledged",
			CreatedAt:      base,
			WaterPointName: "Ijara Water Tower", WaterPointRegion: "Ijara",
			WaterPointLocation: "Ijara Market",
		},
	}
	s.nextAlertID = 4
	s.nextReportID = 1
}

func sensorsFor(status string) map[string]backend.SensorReading {
	if status == "offline" {
		out := make(map[string]backend.SensorReading, 6)
		for _, kind := range []string{"flow", "temperature", "ph", "pressure", "turbidity", "chlorine"} {
			out[kind] = backend.SensorReading{Value: 0, Unit: unitFor(kind), Status: "offline", LastUpdate: "45m ago"}
		}
		return out
	}
	return map[string]backend.SensorReading{
		"flow":        {Value: 45.2, Unit: "L/min", Status: "normal", LastUpdate: "3s ago"},
		"temperature": {Value: 24.5, Unit: "C", Status: "normal", LastUpdate: "3s ago"},
		"ph":          {Value: 7.2, Unit: "pH", Status: "normal", LastUpdate: "5s ago"},
		"pressure":    {Value: 2.8, Unit: "bar", Status: "normal", LastUpdate: "4s ago"},
		"turbidity":   {Value: 2.1, Unit: "NTU", Status: "normal", LastUpdate: "6s ago"},
		"chlorine":    {Value: 0.3, Unit: "ppm", Status: "warning", LastUpdate: "6s ago"},
	}
}

func unitFor(kind string) string {
	switch kind {
	case "flow":
		return "L/min"
	case "temperature":
		return "C"
	case "ph":
		return "pH"
	case "pressure":
		return "bar"
	case "turbidity":
		return "NTU"
	default:
		return "ppm"
	}
}

func overallFor(status string) string {
	switch status {
	case "offline":
		return "offline"
	case "maintenance":
		return "warning"
	default:
		return "normal"
	}
}

func connectivityFor(status string) backend.ConnectivityStatus {
	if status == "offline" {
		return backend.ConnectivityStatus{SignalStrength: 0, Status: "offline", Protocol: "N/A"}
	}
	return backend.ConnectivityStatus{SignalStrength: 85, Status: "excellent", Protocol: "4G"}
}

// Monitoring dashboard slices.

func (s *Source) MonitoringDashboard(_ context.Context) (backend.DashboardSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out backend.DashboardSummary
	out.SystemStatus.TotalWaterPoints = len(s.points)
	for _, p := range s.points {
		switch p.Status {
		case "active":
			out.SystemStatus.ActiveWaterPoints++
		case "offline":
			out.SystemStatus.OfflineWaterPoints++
		}
	}
	for _, a := range s.alerts {
		if a.Status != "active" {
			continue
		}
		switch a.Priority {
		case "critical":
			out.AlertsSummary.Critical++
		case "high":
			out.AlertsSummary.High++
		default:
			out.AlertsSummary.Medium++
		}
	}
	out.AlertsSummary.Total = out.AlertsSummary.Critical + out.AlertsSummary.High + out.AlertsSummary.Medium

	activePct := float64(out.SystemStatus.ActiveWaterPoints) / float64(max(out.SystemStatus.TotalWaterPoints, 1)) * 100
	penalty := float64(out.AlertsSummary.Critical*10 + out.AlertsSummary.High*5 + out.AlertsSummary.Medium*2)
	out.SystemStatus.SystemHealth = max(activePct-min(penalty, 50), 0)
	out.SystemStatus.DataTransmission = 98.5
	out.SystemStatus.NetworkLatency = 23
	out.SystemStatus.LastUpdate = s.now().Format("2006-01-02T15:04:05")
	return out, nil
}

func (s *Source) WaterPointStatuses(_ context.Context) ([]backend.WaterPointStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.WaterPointStatus, len(s.points))
	copy(out, s.points)
	return out, nil
}

func (s *Source) ActiveAlerts(_ context.Context) ([]backend.AlertRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.AlertRecord, 0, len(s.alerts))
	for _, a := range s.alerts {
		if a.Status == "active" {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Source) SystemHealth(_ context.Context) (backend.HealthReport, error) {
	summary, _ := s.MonitoringDashboard(context.Background())

	var report backend.HealthReport
	availability := float64(summary.SystemStatus.ActiveWaterPoints) / float64(max(summary.SystemStatus.TotalWaterPoints, 1)) * 100
	quality := 79.7
	maintenance := 90.0
	alertScore := max(100-float64(summary.AlertsSummary.Critical*20), 0)

	report.Components = map[string]backend.HealthComponentScore{
		"availability": {Score: availability, Status: statusFor(availability)},
		"quality":      {Score: quality, Status: statusFor(quality)},
		"maintenance":  {Score: maintenance, Status: statusFor(maintenance)},
		"alerts":       {Score: alertScore, Status: statusFor(alertScore)},
	}
	report.OverallHealth = availability*0.3 + quality*0.3 + maintenance*0.2 + alertScore*0.2
	report.Metrics.ActiveWaterPoints = summary.SystemStatus.ActiveWaterPoints
	report.Metrics.TotalWaterPoints = summary.SystemStatus.TotalWaterPoints
	report.Metrics.AvgQualityScore = quality
	report.Metrics.CriticalAlerts = summary.AlertsSummary.Critical
	report.Metrics.DataUptime = 99.8
	report.Metrics.ResponseTime = "2.1s"
	report.LastUpdated = s.now().Format("2006-01-02T15:04:05")
	return report, nil
}

func statusFor(score float64) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 70:
		return "good"
	default:
		return "warning"
	}
}

func (s *Source) Notifications(_ context.Context) ([]backend.NotificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.NotificationRecord, 0, len(s.alerts))
	for _, a := range s.alerts {
		out = append(out, backend.NotificationRecord{
			ID:             fmt.Sprintf("alert_%d", a.ID),
			Type:           "alert",
			Priority:       a.Priority,
			Title:          a.Title,
			Message:        a.Description + " at " + a.WaterPointName,
			Timestamp:      a.CreatedAt,
			ActionRequired: a.Status == "active",
		})
	}
	return out, nil
}

// Admin dashboard slices.

func (s *Source) AdminOverview(_ context.Context) (backend.OverviewStatsRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := backend.OverviewStatsRecord{
		TotalUsers:           128,
		ActiveUsers:          117,
		AdministrativeStaff:  4,
		FieldTechnicians:     11,
		MonthlyRevenue:       432000,
		OperationalCosts:     118500,
		CustomerSatisfaction: 94.2,
		ReportsProcessed:     len(s.reports),
	}
	out.TotalWaterPoints = len(s.points)
	for _, p := range s.points {
		switch p.Status {
		case "active":
			out.ActivePoints++
		case "maintenance":
			out.MaintenancePoints++
		case "offline":
			out.OfflinePoints++
		}
	}
	for _, a := range s.alerts {
		if a.Status == "active" {
			out.AlertsToday++
		}
	}
	if out.TotalWaterPoints > 0 {
		out.SystemEfficiency = float64(out.ActivePoints) / float64(out.TotalWaterPoints) * 100
	}
	return out, nil
}

func (s *Source) RegionalData(_ context.Context) ([]backend.RegionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type agg struct {
		points     int
		population int
		quality    float64
	}
	byRegion := map[string]*agg{}
	order := []string{}
	for _, r := range s.records {
		a, ok := byRegion[r.Region]
		if !ok {
			a = &agg{}
			byRegion[r.Region] = a
			order = append(order, r.Region)
		}
		a.points++
		a.population += r.PopulationServed
		a.quality += r.QualityScore
	}

	out := make([]backend.RegionRecord, 0, len(order))
	for i, region := range order {
		a := byRegion[region]
		quality := a.quality / float64(a.points)
		status := "needs-attention"
		if quality > 90 {
			status = "excellent"
		} else if quality > 80 {
			status = "good"
		}
		out = append(out, backend.RegionRecord{
			ID:           i + 1,
			Region:       region,
			WaterPoints:  a.points,
			Population:   a.population,
			Coverage:     74.5,
			QualityScore: quality,
			Revenue:      float64(a.population) * 12,
			Status:       status,
		})
	}
	return out, nil
}

func (s *Source) RecentActivities(_ context.Context) ([]backend.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.ActivityRecord, 0, 4)
	for _, a := range s.alerts {
		out = append(out, backend.ActivityRecord{
			ID:        a.ID,
			Type:      "alert",
			Title:     a.Title,
			Location:  a.WaterPointName,
			User:      "System Monitor",
			Timestamp: s.now().Format("2006-01-02 15:04:05"),
			Priority:  a.Priority,
			Status:    a.Status,
		})
		if len(out) == 4 {
			break
		}
	}
	return out, nil
}

func (s *Source) SystemAlerts(_ context.Context) ([]backend.SystemAlertRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.SystemAlertRecord, 0, len(s.alerts))
	for _, a := range s.alerts {
		out = append(out, backend.SystemAlertRecord{
			ID:           a.ID,
			Type:         a.Type,
			Title:        a.Title,
			Description:  a.Description,
			Timestamp:    s.now().Format("2006-01-02 15:04:05"),
			Acknowledged: a.Status == "acknowledged",
		})
	}
	return out, nil
}

// Water point management.

func (s *Source) ListWaterPoints(_ context.Context) ([]backend.WaterPointRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.WaterPointRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Source) CreateWaterPoint(_ context.Context, in backend.WaterPointInput) (backend.WaterPointRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := in.Status
	if status == "" {
		status = "active"
	}
	rec := backend.WaterPointRecord{
		ID:               s.nextPointID,
		Name:             in.Name,
		Type:             in.Type,
		Region:           in.Region,
		Location:         in.Location,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		Status:           status,
		Capacity:         in.Capacity,
		PopulationServed: in.PopulationServed,
		CreatedAt:        s.now().Format("2006-01-02T15:04:05"),
	}
	s.nextPointID++
	s.records = append(s.records, rec)
	s.points = append(s.points, backend.WaterPointStatus{
		ID:            rec.ID,
		Name:          rec.Name,
		Location:      rec.Location,
		Region:        rec.Region,
		Status:        status,
		OverallStatus: overallFor(status),
		Sensors:       sensorsFor(status),
		LastUpdated:   rec.CreatedAt,
		Connectivity:  connectivityFor(status),
		PowerStatus:   backend.PowerReading{BatteryLevel: 100, Charging: true, Voltage: 12.6},
	})
	return rec, nil
}

func (s *Source) UpdateWaterPoint(_ context.Context, id int, in backend.WaterPointInput) (backend.WaterPointRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		s.records[i].Name = in.Name
		s.records[i].Type = in.Type
		s.records[i].Region = in.Region
		s.records[i].Location = in.Location
		if in.Status != "" {
			s.records[i].Status = in.Status
		}
		s.records[i].Capacity = in.Capacity
		s.records[i].PopulationServed = in.PopulationServed
		for j := range s.points {
			if s.points[j].ID == id {
				s.points[j].Name = in.Name
				s.points[j].Region = in.Region
				s.points[j].Location = in.Location
				if in.Status != "" {
					s.points[j].Status = in.Status
					s.points[j].OverallStatus = overallFor(in.Status)
				}
			}
		}
		return s.records[i], nil
	}
	return backend.WaterPointRecord{}, &backend.APIError{StatusCode: 404, Message: "Water point not found"}
}

func (s *Source) DeleteWaterPoint(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			for j := range s.points {
				if s.points[j].ID == id {
					s.points = append(s.points[:j], s.points[j+1:]...)
					break
				}
			}
			return nil
		}
	}
	return &backend.APIError{StatusCode: 404, Message: "Water point not found"}
}

func (s *Source) ArchiveWaterPoint(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Status = "archived"
			for j := range s.points {
				if s.points[j].ID == id {
					s.points[j].Status = "offline"
					s.points[j].OverallStatus = "offline"
				}
			}
			return nil
		}
	}
	return &backend.APIError{StatusCode: 404, Message: "Water point not found"}
}

// Alert transitions.

func (s *Source) AcknowledgeAlert(_ context.Context, id int) error {
	return s.transitionAlert(id, "active", "acknowledged")
}

func (s *Source) ResolveAlert(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			if s.alerts[i].Status == "resolved" {
				return &backend.APIError{StatusCode: 400, Message: "Alert already resolved"}
			}
			s.alerts[i].Status = "resolved"
			return nil
		}
	}
	return &backend.APIError{StatusCode: 404, Message: "Alert not found"}
}

func (s *Source) transitionAlert(id int, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			if s.alerts[i].Status != from {
				return &backend.APIError{StatusCode: 400, Message: fmt.Sprintf("Alert is %s, not %s", s.alerts[i].Status, from)}
			}
			s.alerts[i].Status = to
			return nil
		}
	}
	return &backend.APIError{StatusCode: 404, Message: "Alert not found"}
}

// Reports and exports.

func (s *Source) GenerateReport(_ context.Context, req backend.ReportRequest) (backend.ReportRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := backend.ReportRecord{
		ID:          s.nextReportID,
		Title:       req.Title,
		Type:        req.Type,
		Description: fmt.Sprintf("Report generated for period %s to %s", req.PeriodStart, req.PeriodEnd),
		Status:      "completed",
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		CreatedAt:   s.now().Format("2006-01-02T15:04:05"),
	}
	s.nextReportID++
	s.reports = append(s.reports, rec)
	return rec, nil
}

func (s *Source) ListReports(_ context.Context) ([]backend.ReportRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.ReportRecord, len(s.reports))
	copy(out, s.reports)
	return out, nil
}

func (s *Source) DeleteReport(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID == id {
			s.reports = append(s.reports[:i], s.reports[i+1:]...)
			return nil
		}
	}
	return &backend.APIError{StatusCode: 404, Message: "Report not found"}
}

func (s *Source) DownloadReport(_ context.Context, id int, format string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.ID != id {
			continue
		}
		if format == "csv" {
			return []byte(fmt.Sprintf("id,title,type,status\n%d,%s,%s,%s\n", r.ID, r.Title, r.Type, r.Status)), nil
		}
		return []byte("%PDF-1.4\n% demo report " + r.Title + "\n"), nil
	}
	return nil, &backend.APIError{StatusCode: 404, Message: "Report not found"}
}

func (s *Source) ExportResource(_ context.Context, resource string) ([]byte, error) {
	s.mu.Lock()
	var header []string
	var rows [][]any
	switch resource {
	case "water_points":
		header = []string{"ID", "Name", "Region", "Status"}
		for _, r := range s.records {
			rows = append(rows, []any{r.ID, r.Name, r.Region, r.Status})
		}
	case "quality_checks":
		header = []string{"ID", "Water Point", "pH", "Turbidity (NTU)", "Chlorine (ppm)", "Result"}
		id := 1
		for _, p := range s.points {
			result := "safe"
			if p.Status == "offline" || p.Sensors["chlorine"].Status != "normal" {
				result = "needs-attention"
			}
			rows = append(rows, []any{
				id, p.Name,
				p.Sensors["ph"].Value, p.Sensors["turbidity"].Value, p.Sensors["chlorine"].Value,
				result,
			})
			id++
		}
	case "maintenance_tasks":
		header = []string{"ID", "Water Point", "Task", "Status", "Priority"}
		id := 1
		for _, a := range s.alerts {
			if a.Type != "maintenance" {
				continue
			}
			state := "pending"
			switch a.Status {
			case "acknowledged":
				state = "in_progress"
			case "resolved":
				state = "completed"
			}
			rows = append(rows, []any{id, a.WaterPointName, a.Title, state, a.Priority})
			id++
		}
		for _, p := range s.points {
			if p.Status != "maintenance" {
				continue
			}
			rows = append(rows, []any{id, p.Name, "Scheduled service visit", "in_progress", "medium"})
			id++
		}
	default:
		s.mu.Unlock()
		return nil, &backend.APIError{StatusCode: 400, Message: "Unknown export resource: " + resource}
	}
	s.mu.Unlock()

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"
	for col, h := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", resource, err)
	}
	return buf.Bytes(), nil
}

// Authentication. Any well-formed credential pair works in demo mode.

func (s *Source) Login(_ context.Context, email, password string) (backend.AuthResult, error) {
	if email == "" || password == "" {
		return backend.AuthResult{}, &backend.APIError{StatusCode: 400, Message: "Email and password are required"}
	}
	return backend.AuthResult{
		Message: "Login successful",
		Success: true,
		Token:   "demo-" + strings.SplitN(email, "@", 2)[0],
		User:    backend.AccountInfo{ID: 1, Email: email, FullName: "Demo User", Role: "user"},
	}, nil
}

func (s *Source) AdminLogin(_ context.Context, email, password string) (backend.AuthResult, error) {
	if email == "" || password == "" {
		return backend.AuthResult{}, &backend.APIError{StatusCode: 400, Message: "Email and password are required"}
	}
	return backend.AuthResult{
		Message: "Admin login successful",
		Success: true,
		Token:   "demo-admin-" + strings.SplitN(email, "@", 2)[0],
		Admin:   backend.AccountInfo{ID: 1, Email: email, Name: "Demo Admin", Role: "admin"},
	}, nil
}

func (s *Source) Register(_ context.Context, in backend.RegisterInput) (backend.AuthResult, error) {
	if in.Email == "" || in.Password == "" {
		return backend.AuthResult{}, &backend.APIError{StatusCode: 400, Message: "Email and password are required"}
	}
	return backend.AuthResult{
		Message: "Registration successful",
		Success: true,
		Token:   "demo-" + strings.SplitN(in.Email, "@", 2)[0],
		User:    backend.AccountInfo{ID: 2, Email: in.Email, FullName: in.FullName, Role: "user"},
	}, nil
}

var _ backend.API = (*Source)(nil)
