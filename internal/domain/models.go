package domain

import "time"

// Water point lifecycle states as reported by the backend.
const (
	StatusActive      = "active"
	StatusMaintenance = "maintenance"
	StatusAlert       = "alert"
	StatusOffline     = "offline"
)

// Alert lifecycle states. Transitions are active -> acknowledged -> resolved
// and only ever happen through a confirmed backend round trip.
const (
	AlertActive       = "active"
	AlertAcknowledged = "acknowledged"
	AlertResolved     = "resolved"
)

// SensorKinds is the fixed set of sensor keys a water point may carry.
// A missing key means the point has no such sensor, not a zero reading.
var SensorKinds = []string{"flow", "temperature", "ph", "pressure", "turbidity", "chlorine"}

// SensorsPerPoint is used when deriving fleet-wide sensor counts.
const SensorsPerPoint = 6

type Sensor struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Status     string  `json:"status"`
	LastUpdate string  `json:"last_update"`
}

type Connectivity struct {
	SignalStrength int    `json:"signal_strength"`
	Status         string `json:"status"`
	Protocol       string `json:"protocol"`
}

type PowerStatus struct {
	BatteryLevel int     `json:"battery_level"`
	Charging     bool    `json:"charging"`
	Voltage      float64 `json:"voltage"`
}

type WaterPoint struct {
	ID            int               `json:"id"`
	Name          string            `json:"name"`
	Location      string            `json:"location"`
	Region        string            `json:"region"`
	Type          string            `json:"type"`
	Status        string            `json:"status"`
	OverallStatus string            `json:"overall_status"`
	Capacity      float64           `json:"capacity"`
	CurrentLevel  float64           `json:"current_level"`
	QualityScore  float64           `json:"quality_score"`
	Sensors       map[string]Sensor `json:"sensors"`
	Connectivity  Connectivity      `json:"connectivity"`
	PowerStatus   PowerStatus       `json:"power_status"`
	LastUpdated   time.Time         `json:"last_updated"`
}

type Alert struct {
	ID                 int       `json:"id"`
	Type               string    `json:"type"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Priority           string    `json:"priority"`
	Status             string    `json:"status"`
	WaterPointID       int       `json:"water_point_id"`
	WaterPointName     string    `json:"water_point_name,omitempty"`
	WaterPointLocation string    `json:"water_point_location,omitempty"`
	WaterPointRegion   string    `json:"water_point_region,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// SystemStatus is derived wholesale from the dashboard summary slice each
// poll cycle; there is no incremental update rule.
type SystemStatus struct {
	TotalWaterPoints   int       `json:"total_water_points"`
	ActiveWaterPoints  int       `json:"active_water_points"`
	OfflineWaterPoints int       `json:"offline_water_points"`
	TotalSensors       int       `json:"total_sensors"`
	ActiveSensors      int       `json:"active_sensors"`
	AlertSensors       int       `json:"alert_sensors"`
	OfflineSensors     int       `json:"offline_sensors"`
	SystemHealth       float64   `json:"system_health"`
	NetworkLatency     float64   `json:"network_latency"`
	DataTransmission   float64   `json:"data_transmission"`
	LastUpdate         time.Time `json:"last_update"`
}

type HealthComponent struct {
	Score  float64 `json:"score"`
	Status string  `json:"status"`
}

type SystemHealth struct {
	OverallHealth float64                    `json:"overall_health"`
	Components    map[string]HealthComponent `json:"components"`
	Metrics       HealthMetrics              `json:"metrics"`
	LastUpdated   time.Time                  `json:"last_updated"`
}

type HealthMetrics struct {
	ActiveWaterPoints  int     `json:"active_water_points"`
	TotalWaterPoints   int     `json:"total_water_points"`
	AvgQualityScore    float64 `json:"avg_quality_score"`
	OverdueMaintenance int     `json:"overdue_maintenance"`
	CriticalAlerts     int     `json:"critical_alerts"`
	DataUptime         float64 `json:"data_uptime"`
	ResponseTime       string  `json:"response_time"`
}

type Notification struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Priority       string    `json:"priority"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
	ActionRequired bool      `json:"action_required"`
}

// Admin dashboard entities.

type OverviewStats struct {
	TotalWaterPoints     int     `json:"total_water_points"`
	ActivePoints         int     `json:"active_points"`
	MaintenancePoints    int     `json:"maintenance_points"`
	OfflinePoints        int     `json:"offline_points"`
	TotalUsers           int     `json:"total_users"`
	ActiveUsers          int     `json:"active_users"`
	MonthlyRevenue       float64 `json:"monthly_revenue"`
	OperationalCosts     float64 `json:"operational_costs"`
	SystemEfficiency     float64 `json:"system_efficiency"`
	AlertsToday          int     `json:"alerts_today"`
	ReportsProcessed     int     `json:"reports_processed"`
	MaintenanceCompleted int     `json:"maintenance_completed"`
	NewRegistrations     int     `json:"new_registrations"`
}

type RegionStat struct {
	ID           int     `json:"id"`
	Region       string  `json:"region"`
	WaterPoints  int     `json:"water_points"`
	Population   int     `json:"population"`
	Coverage     float64 `json:"coverage"`
	QualityScore float64 `json:"quality_score"`
	Revenue      float64 `json:"revenue"`
	Status       string  `json:"status"`
}

type Activity struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
}

type SystemAlert struct {
	ID           int    `json:"id"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	Title        string `json:"title"`
	Timestamp    string `json:"timestamp"`
	Acknowledged bool   `json:"acknowledged"`
}

type Report struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	CreatedAt   time.Time `json:"created_at"`
}

type User struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
