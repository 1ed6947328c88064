// Package monitoring assembles the user-facing real-time dashboard snapshot
// from the backend's monitoring endpoints.
package monitoring

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aquasafi-monitor/internal/backend"
	"aquasafi-monitor/internal/domain"
	"aquasafi-monitor/internal/refresh"
)

// Snapshot is the normalized view-model for the real-time monitoring
// dashboard. Each field is one slice, replaced only when its fetch succeeds.
type Snapshot struct {
	SystemStatus  domain.SystemStatus   `json:"system_status"`
	WaterPoints   []domain.WaterPoint   `json:"water_points"`
	ActiveAlerts  []domain.Alert        `json:"active_alerts"`
	Health        domain.SystemHealth   `json:"health"`
	Notifications []domain.Notification `json:"notifications"`
}

type Service struct {
	api  backend.API
	ctrl *refresh.Controller[Snapshot]
	log  zerolog.Logger
}

func NewService(api backend.API, log zerolog.Logger) *Service {
	s := &Service{api: api, log: log}
	s.ctrl = refresh.NewController(s.fetchAll, log)
	return s
}

func (s *Service) Controller() *refresh.Controller[Snapshot] { return s.ctrl }

func (s *Service) Snapshot() (Snapshot, refresh.Status) { return s.ctrl.Snapshot() }

func (s *Service) fetchAll(ctx context.Context, prev Snapshot) (Snapshot, map[string]error) {
	next := prev
	tasks := []refresh.Task{
		{Name: "dashboard", Run: func(ctx context.Context) error {
			summary, err := s.api.MonitoringDashboard(ctx)
			if err != nil {
				return err
			}
			next.SystemStatus = normalizeSystemStatus(summary)
			return nil
		}},
		{Name: "water_points", Run: func(ctx context.Context) error {
			points, err := s.api.WaterPointStatuses(ctx)
			if err != nil {
				return err
			}
			next.WaterPoints = normalizeWaterPoints(points)
			return nil
		}},
		{Name: "alerts", Run: func(ctx context.Context) error {
			alerts, err := s.api.ActiveAlerts(ctx)
			if err != nil {
				return err
			}
			next.ActiveAlerts = normalizeAlerts(alerts)
			return nil
		}},
		{Name: "health", Run: func(ctx context.Context) error {
			report, err := s.api.SystemHealth(ctx)
			if err != nil {
				return err
			}
			next.Health = normalizeHealth(report)
			return nil
		}},
		{Name: "notifications", Run: func(ctx context.Context) error {
			items, err := s.api.Notifications(ctx)
			if err != nil {
				return err
			}
			next.Notifications = normalizeNotifications(items)
			return nil
		}},
	}
	return next, refresh.RunAll(ctx, tasks)
}

func normalizeSystemStatus(d backend.DashboardSummary) domain.SystemStatus {
	st := d.SystemStatus
	return domain.SystemStatus{
		TotalWaterPoints:   st.TotalWaterPoints,
		ActiveWaterPoints:  st.ActiveWaterPoints,
		OfflineWaterPoints: st.OfflineWaterPoints,
		TotalSensors:       st.TotalWaterPoints * domain.SensorsPerPoint,
		ActiveSensors:      st.ActiveWaterPoints * domain.SensorsPerPoint,
		AlertSensors:       d.AlertsSummary.Total,
		OfflineSensors:     st.OfflineWaterPoints * domain.SensorsPerPoint,
		SystemHealth:       st.SystemHealth,
		NetworkLatency:     st.NetworkLatency,
		DataTransmission:   st.DataTransmission,
		LastUpdate:         parseTime(st.LastUpdate),
	}
}

func normalizeWaterPoints(points []backend.WaterPointStatus) []domain.WaterPoint {
	out := make([]domain.WaterPoint, 0, len(points))
	for _, p := range points {
		wp := domain.WaterPoint{
			ID:            p.ID,
			Name:          p.Name,
			Location:      p.Location,
			Region:        p.Region,
			Status:        p.Status,
			OverallStatus: p.OverallStatus,
			Connectivity: domain.Connectivity{
				SignalStrength: p.Connectivity.SignalStrength,
				Status:         p.Connectivity.Status,
				Protocol:       p.Connectivity.Protocol,
			},
			PowerStatus: domain.PowerStatus{
				BatteryLevel: p.PowerStatus.BatteryLevel,
				Charging:     p.PowerStatus.Charging,
				Voltage:      p.PowerStatus.Voltage,
			},
			LastUpdated: parseTime(p.LastUpdated),
		}
		if len(p.Sensors) > 0 {
			wp.Sensors = make(map[string]domain.Sensor, len(p.Sensors))
			for kind, reading := range p.Sensors {
				wp.Sensors[kind] = domain.Sensor{
					Value:      reading.Value,
					Unit:       reading.Unit,
					Status:     reading.Status,
					LastUpdate: reading.LastUpdate,
				}
			}
		}
		out = append(out, wp)
	}
	return out
}

func normalizeAlerts(alerts []backend.AlertRecord) []domain.Alert {
	out := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, domain.Alert{
			ID:                 a.ID,
			Type:               a.Type,
			Title:              a.Title,
			Description:        a.Description,
			Priority:           a.Priority,
			Status:             a.Status,
			WaterPointID:       a.WaterPointID,
			WaterPointName:     a.WaterPointName,
			WaterPointLocation: a.WaterPointLocation,
			WaterPointRegion:   a.WaterPointRegion,
			CreatedAt:          parseTime(a.CreatedAt),
		})
	}
	return out
}

func normalizeHealth(r backend.HealthReport) domain.SystemHealth {
	health := domain.SystemHealth{
		OverallHealth: r.OverallHealth,
		Metrics: domain.HealthMetrics{
			ActiveWaterPoints:  r.Metrics.ActiveWaterPoints,
			TotalWaterPoints:   r.Metrics.TotalWaterPoints,
			AvgQualityScore:    r.Metrics.AvgQualityScore,
			OverdueMaintenance: r.Metrics.OverdueMaintenance,
			CriticalAlerts:     r.Metrics.CriticalAlerts,
			DataUptime:         r.Metrics.DataUptime,
			ResponseTime:       r.Metrics.ResponseTime,
		},
		LastUpdated: parseTime(r.LastUpdated),
	}
	if len(r.Components) > 0 {
		health.Components = make(map[string]domain.HealthComponent, len(r.Components))
		for name, comp := range r.Components {
			health.Components[name] = domain.HealthComponent{Score: comp.Score, Status: comp.Status}
		}
	}
	return health
}

func normalizeNotifications(items []backend.NotificationRecord) []domain.Notification {
	out := make([]domain.Notification, 0, len(items))
	for _, n := range items {
		out = append(out, domain.Notification{
			ID:             n.ID,
			Type:           n.Type,
			Priority:       n.Priority,
			Title:          n.Title,
			Message:        n.Message,
			Timestamp:      parseTime(n.Timestamp),
			ActionRequired: n.ActionRequired,
		})
	}
	return out
}

// parseTime handles the timestamp formats the backend mixes: RFC 3339 with
// and without zone, and "YYYY-MM-DD HH:MM:SS". Zoneless values are UTC.
func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, format := range formats {
		if parsed, err := time.Parse(format, value); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
