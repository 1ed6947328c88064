package backend

// Wire payloads as the AquaSafi backend actually serializes them. The key
// casing is inconsistent across endpoints (camelCase entity dicts, snake_case
// aggregates); these structs mirror the wire, normalization into view-models
// happens in the dashboard services.

type DashboardSummary struct {
	SystemStatus struct {
		TotalWaterPoints   int     `json:"total_water_points"`
		ActiveWaterPoints  int     `json:"active_water_points"`
		OfflineWaterPoints int     `json:"offline_water_points"`
		SystemHealth       float64 `json:"system_health"`
		LastUpdate         string  `json:"last_update"`
		DataTransmission   float64 `json:"data_transmission"`
		NetworkLatency     float64 `json:"network_latency"`
	} `json:"system_status"`
	AlertsSummary struct {
		Critical int `json:"critical"`
		High     int `json:"high"`
		Medium   int `json:"medium"`
		Total    int `json:"total"`
	} `json:"alerts_summary"`
	MaintenanceSummary struct {
		Pending        int `json:"pending"`
		InProgress     int `json:"in_progress"`
		CompletedToday int `json:"completed_today"`
	} `json:"maintenance_summary"`
	QualitySummary struct {
		ChecksToday     int `json:"checks_today"`
		SafeWaterPoints int `json:"safe_water_points"`
		NeedsAttention  int `json:"needs_attention"`
	} `json:"quality_summary"`
}

type SensorReading struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Status     string  `json:"status"`
	LastUpdate string  `json:"last_update"`
}

type ConnectivityStatus struct {
	SignalStrength int    `json:"signal_strength"`
	Status         string `json:"status"`
	Protocol       string `json:"protocol"`
}

type PowerReading struct {
	BatteryLevel int     `json:"battery_level"`
	Charging     bool    `json:"charging"`
	Voltage      float64 `json:"voltage"`
}

type WaterPointStatus struct {
	ID            int                      `json:"id"`
	Name          string                   `json:"name"`
	Location      string                   `json:"location"`
	Region        string                   `json:"region"`
	Status        string                   `json:"status"`
	OverallStatus string                   `json:"overall_status"`
	Sensors       map[string]SensorReading `json:"sensors"`
	LastUpdated   string                   `json:"last_updated"`
	Connectivity  ConnectivityStatus       `json:"connectivity"`
	PowerStatus   PowerReading             `json:"power_status"`
}

type waterPointStatusEnvelope struct {
	WaterPoints []WaterPointStatus `json:"water_points"`
}

// AlertRecord is the entity dict (camelCase) plus the snake_case water point
// enrichment the active-alerts endpoint bolts on.
type AlertRecord struct {
	ID                 int    `json:"id"`
	Type               string `json:"type"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	WaterPointID       int    `json:"waterPointId"`
	Priority           string `json:"priority"`
	Status             string `json:"status"`
	CreatedAt          string `json:"createdAt"`
	WaterPointName     string `json:"water_point_name"`
	WaterPointLocation string `json:"water_point_location"`
	WaterPointRegion   string `json:"water_point_region"`
}

type activeAlertsEnvelope struct {
	Alerts      []AlertRecord `json:"alerts"`
	Total       int           `json:"total"`
	Pages       int           `json:"pages"`
	CurrentPage int           `json:"current_page"`
}

type HealthComponentScore struct {
	Score  float64 `json:"score"`
	Status string  `json:"status"`
}

type HealthReport struct {
	OverallHealth float64                         `json:"overall_health"`
	Components    map[string]HealthComponentScore `json:"components"`
	Metrics       struct {
		ActiveWaterPoints  int     `json:"active_water_points"`
		TotalWaterPoints   int     `json:"total_water_points"`
		AvgQualityScore    float64 `json:"avg_quality_score"`
		OverdueMaintenance int     `json:"overdue_maintenance"`
		CriticalAlerts     int     `json:"critical_alerts"`
		DataUptime         float64 `json:"data_uptime"`
		ResponseTime       string  `json:"response_time"`
	} `json:"metrics"`
	LastUpdated string `json:"last_updated"`
}

type NotificationRecord struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Priority       string `json:"priority"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Timestamp      string `json:"timestamp"`
	Read           bool   `json:"read"`
	ActionRequired bool   `json:"action_required"`
}

type notificationsEnvelope struct {
	Notifications []NotificationRecord `json:"notifications"`
}

type OverviewStatsRecord struct {
	TotalWaterPoints     int     `json:"totalWaterPoints"`
	ActivePoints         int     `json:"activePoints"`
	MaintenancePoints    int     `json:"maintenancePoints"`
	OfflinePoints        int     `json:"offlinePoints"`
	TotalUsers           int     `json:"totalUsers"`
	ActiveUsers          int     `json:"activeUsers"`
	AdministrativeStaff  int     `json:"administrativeStaff"`
	FieldTechnicians     int     `json:"fieldTechnicians"`
	MonthlyRevenue       float64 `json:"monthlyRevenue"`
	OperationalCosts     float64 `json:"operationalCosts"`
	SystemEfficiency     float64 `json:"systemEfficiency"`
	CustomerSatisfaction float64 `json:"customerSatisfaction"`
	AlertsToday          int     `json:"alertsToday"`
	ReportsProcessed     int     `json:"reportsProcessed"`
	MaintenanceCompleted int     `json:"maintenanceCompleted"`
	NewRegistrations     int     `json:"newRegistrations"`
}

type overviewEnvelope struct {
	SystemStats OverviewStatsRecord `json:"systemStats"`
}

type RegionRecord struct {
	ID           int     `json:"id"`
	Region       string  `json:"region"`
	WaterPoints  int     `json:"waterPoints"`
	Population   int     `json:"population"`
	Coverage     float64 `json:"coverage"`
	QualityScore float64 `json:"qualityScore"`
	Revenue      float64 `json:"revenue"`
	Status       string  `json:"status"`
}

type ActivityRecord struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
}

type SystemAlertRecord struct {
	ID           int    `json:"id"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Timestamp    string `json:"timestamp"`
	Acknowledged bool   `json:"acknowledged"`
}

type WaterPointRecord struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	Region           string  `json:"region"`
	Location         string  `json:"location"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Status           string  `json:"status"`
	Capacity         float64 `json:"capacity"`
	CurrentLevel     float64 `json:"currentLevel"`
	QualityScore     float64 `json:"qualityScore"`
	Coverage         float64 `json:"coverage"`
	PopulationServed int     `json:"populationServed"`
	CreatedAt        string  `json:"createdAt"`
}

type waterPointsEnvelope struct {
	WaterPoints []WaterPointRecord `json:"water_points"`
}

type WaterPointInput struct {
	Name             string  `json:"name" validate:"required"`
	Type             string  `json:"type" validate:"required"`
	Region           string  `json:"region" validate:"required"`
	Location         string  `json:"location" validate:"required"`
	Latitude         float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude        float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Status           string  `json:"status" validate:"omitempty,oneof=active maintenance alert offline"`
	Capacity         float64 `json:"capacity" validate:"gte=0"`
	PopulationServed int     `json:"population_served" validate:"gte=0"`
}

type ReportRequest struct {
	Title                  string `json:"title" validate:"required"`
	Type                   string `json:"type" validate:"required,oneof=water_quality maintenance usage"`
	PeriodStart            string `json:"period_start" validate:"required"`
	PeriodEnd              string `json:"period_end" validate:"required"`
	WaterPointID           int    `json:"water_point_id,omitempty"`
	IncludeCharts          bool   `json:"include_charts"`
	IncludeRecommendations bool   `json:"include_recommendations"`
}

type ReportRecord struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Status      string `json:"status"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	CreatedAt   string `json:"createdAt"`
}

type reportGenerateEnvelope struct {
	Message string       `json:"message"`
	Report  ReportRecord `json:"report"`
}

type reportsEnvelope struct {
	Reports []ReportRecord `json:"reports"`
}

type AccountInfo struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type AuthResult struct {
	Message string      `json:"message"`
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    AccountInfo `json:"user"`
	Admin   AccountInfo `json:"admin"`
}

type RegisterInput struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone_number"`
	Location string `json:"location"`
	Password string `json:"password" validate:"required,min=8"`
}
