// Package admin assembles the administrative dashboard snapshot: fleet
// overview, regional breakdown, recent activity feed and system alerts.
package admin

import (
	"context"

	"github.com/rs/zerolog"

	"aquasafi-monitor/internal/backend"
	"aquasafi-monitor/internal/domain"
	"aquasafi-monitor/internal/refresh"
)

type Snapshot struct {
	Overview     domain.OverviewStats `json:"overview"`
	Regional     []domain.RegionStat  `json:"regional"`
	Activities   []domain.Activity    `json:"activities"`
	SystemAlerts []domain.SystemAlert `json:"system_alerts"`
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
		{Name: "overview", Run: func(ctx context.Context) error {
			stats, err := s.api.AdminOverview(ctx)
			if err != nil {
				return err
			}
			next.Overview = normalizeOverview(stats)
			return nil
		}},
		{Name: "regional", Run: func(ctx context.Context) error {
			regions, err := s.api.RegionalData(ctx)
			if err != nil {
				return err
			}
			next.Regional = normalizeRegions(regions)
			return nil
		}},
		{Name: "activities", Run: func(ctx context.Context) error {
			items, err := s.api.RecentActivities(ctx)
			if err != nil {
				return err
			}
			next.Activities = normalizeActivities(items)
			return nil
		}},
		{Name: "system_alerts", Run: func(ctx context.Context) error {
			alerts, err := s.api.SystemAlerts(ctx)
			if err != nil {
				return err
			}
			next.SystemAlerts = normalizeSystemAlerts(alerts)
			return nil
		}},
	}
	return next, refresh.RunAll(ctx, tasks)
}

func normalizeOverview(r backend.OverviewStatsRecord) domain.OverviewStats {
	return domain.OverviewStats{
		TotalWaterPoints:     r.TotalWaterPoints,
		ActivePoints:         r.ActivePoints,
		MaintenancePoints:    r.MaintenancePoints,
		OfflinePoints:        r.OfflinePoints,
		TotalUsers:           r.TotalUsers,
		ActiveUsers:          r.ActiveUsers,
		MonthlyRevenue:       r.MonthlyRevenue,
		OperationalCosts:     r.OperationalCosts,
		SystemEfficiency:     r.SystemEfficiency,
		AlertsToday:          r.AlertsToday,
		ReportsProcessed:     r.ReportsProcessed,
		MaintenanceCompleted: r.MaintenanceCompleted,
		NewRegistrations:     r.NewRegistrations,
	}
}

func normalizeRegions(records []backend.RegionRecord) []domain.RegionStat {
	out := make([]domain.RegionStat, 0, len(records))
	for _, r := range records {
		out = append(out, domain.RegionStat{
			ID:           r.ID,
			Region:       r.Region,
			WaterPoints:  r.WaterPoints,
			Population:   r.Population,
			Coverage:     r.Coverage,
			QualityScore: r.QualityScore,
			Revenue:      r.Revenue,
			Status:       r.Status,
		})
	}
	return out
}

func normalizeActivities(records []backend.ActivityRecord) []domain.Activity {
	out := make([]domain.Activity, 0, len(records))
	for _, r := range records {
		out = append(out, domain.Activity{
			ID:        r.ID,
			Type:      r.Type,
			Title:     r.Title,
			Location:  r.Location,
			User:      r.User,
			Timestamp: r.Timestamp,
			Priority:  r.Priority,
			Status:    r.Status,
		})
	}
	return out
}

func normalizeSystemAlerts(records []backend.SystemAlertRecord) []domain.SystemAlert {
	out := make([]domain.SystemAlert, 0, len(records))
	for _, r := range records {
		out = append(out, domain.SystemAlert{
			ID:           r.ID,
			Type:         r.Type,
			Title:        r.Title,
			Description:  r.Description,
			Timestamp:    r.Timestamp,
			Acknowledged: r.Acknowledged,
		})
	}
	return out
}
