package backend

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
	Retries int
}

// Client is the REST client for the AquaSafi backend. Every request carries
// the session bearer token; transport failures feed a circuit breaker so a
// dead backend fails fast instead of piling up timeouts.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
	log     zerolog.Logger
}

func NewClient(cfg Config, tokens TokenSource, log zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json")

	httpClient.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if tok, ok := tokens.Token(); ok {
			r.SetAuthToken(tok)
		}
		return nil
	})

	breaker := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:    "aquasafi-backend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state change")
		},
	})

	return &Client{http: httpClient, breaker: breaker, log: log}
}

// do runs one request through the breaker. Only transport-level failures
// count against the breaker; HTTP error statuses are the backend answering.
func (c *Client) do(req func() (*resty.Response, error)) (*resty.Response, error) {
	return c.breaker.Execute(req)
}

func (c *Client) check(resp *resty.Response, err error, what string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		if body, ok := resp.Error().(*errorBody); ok && body.text() != "" {
			apiErr.Message = body.text()
		} else if text := strings.TrimSpace(string(resp.Body())); text != "" && !strings.HasPrefix(text, "{") {
			apiErr.Message = text
		}
		return apiErr
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(func() (*resty.Response, error) {
		return c.http.R().SetContext(ctx).SetResult(out).SetError(&errorBody{}).Get(path)
	})
	return c.check(resp, err, "GET "+path)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.do(func() (*resty.Response, error) {
		r := c.http.R().SetContext(ctx).SetError(&errorBody{})
		if body != nil {
			r.SetBody(body)
		}
		if out != nil {
			r.SetResult(out)
		}
		return r.Post(path)
	})
	return c.check(resp, err, "POST "+path)
}

func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.do(func() (*resty.Response, error) {
		return c.http.R().SetContext(ctx).SetBody(body).SetResult(out).SetError(&errorBody{}).Put(path)
	})
	return c.check(resp, err, "PUT "+path)
}

func (c *Client) delete(ctx context.Context, path string) error {
	resp, err := c.do(func() (*resty.Response, error) {
		return c.http.R().SetContext(ctx).SetError(&errorBody{}).Delete(path)
	})
	return c.check(resp, err, "DELETE "+path)
}

func (c *Client) getBinary(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.do(func() (*resty.Response, error) {
		return c.http.R().SetContext(ctx).Get(path)
	})
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: strings.TrimSpace(string(resp.Body()))}
	}
	return resp.Body(), nil
}

// Monitoring dashboard slices.

func (c *Client) MonitoringDashboard(ctx context.Context) (DashboardSummary, error) {
	var out DashboardSummary
	err := c.getJSON(ctx, "/monitoring/dashboard", &out)
	return out, err
}

func (c *Client) WaterPointStatuses(ctx context.Context) ([]WaterPointStatus, error) {
	var out waterPointStatusEnvelope
	if err := c.getJSON(ctx, "/monitoring/water-points/status", &out); err != nil {
		return nil, err
	}
	return out.WaterPoints, nil
}

func (c *Client) ActiveAlerts(ctx context.Context) ([]AlertRecord, error) {
	var out activeAlertsEnvelope
	if err := c.getJSON(ctx, "/monitoring/alerts/active", &out); err != nil {
		return nil, err
	}
	return out.Alerts, nil
}

func (c *Client) SystemHealth(ctx context.Context) (HealthReport, error) {
	var out HealthReport
	err := c.getJSON(ctx, "/monitoring/system-health", &out)
	return out, err
}

func (c *Client) Notifications(ctx context.Context) ([]NotificationRecord, error) {
	var out notificationsEnvelope
	if err := c.getJSON(ctx, "/monitoring/notifications", &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

// Admin dashboard slices.

func (c *Client) AdminOverview(ctx context.Context) (OverviewStatsRecord, error) {
	var out overviewEnvelope
	if err := c.getJSON(ctx, "/admin/dashboard/overview", &out); err != nil {
		return OverviewStatsRecord{}, err
	}
	return out.SystemStats, nil
}

func (c *Client) RegionalData(ctx context.Context) ([]RegionRecord, error) {
	var out []RegionRecord
	err := c.getJSON(ctx, "/admin/dashboard/regional-data", &out)
	return out, err
}

func (c *Client) RecentActivities(ctx context.Context) ([]ActivityRecord, error) {
	var out []ActivityRecord
	err := c.getJSON(ctx, "/admin/dashboard/recent-activities", &out)
	return out, err
}

func (c *Client) SystemAlerts(ctx context.Context) ([]SystemAlertRecord, error) {
	var out []SystemAlertRecord
	err := c.getJSON(ctx, "/admin/dashboard/system-alerts", &out)
	return out, err
}

// Water point management.

func (c *Client) ListWaterPoints(ctx context.Context) ([]WaterPointRecord, error) {
	var out waterPointsEnvelope
	if err := c.getJSON(ctx, "/admin/water-points", &out); err != nil {
		return nil, err
	}
	return out.WaterPoints, nil
}

func (c *Client) CreateWaterPoint(ctx context.Context, in WaterPointInput) (WaterPointRecord, error) {
	var out WaterPointRecord
	err := c.postJSON(ctx, "/admin/water-points", in, &out)
	return out, err
}

func (c *Client) UpdateWaterPoint(ctx context.Context, id int, in WaterPointInput) (WaterPointRecord, error) {
	var out WaterPointRecord
	err := c.putJSON(ctx, "/admin/water-points/"+strconv.Itoa(id), in, &out)
	return out, err
}

func (c *Client) DeleteWaterPoint(ctx context.Context, id int) error {
	return c.delete(ctx, "/admin/water-points/"+strconv.Itoa(id))
}

func (c *Client) ArchiveWaterPoint(ctx context.Context, id int) error {
	return c.postJSON(ctx, "/admin/water-points/"+strconv.Itoa(id)+"/archive", nil, nil)
}

// Alert transitions.

func (c *Client) AcknowledgeAlert(ctx context.Context, id int) error {
	return c.postJSON(ctx, "/alerts/"+strconv.Itoa(id)+"/acknowledge", nil, nil)
}

func (c *Client) ResolveAlert(ctx context.Context, id int) error {
	return c.postJSON(ctx, "/alerts/"+strconv.Itoa(id)+"/resolve", nil, nil)
}

// Reports and exports.

func (c *Client) GenerateReport(ctx context.Context, req ReportRequest) (ReportRecord, error) {
	var out reportGenerateEnvelope
	if err := c.postJSON(ctx, "/reports/generate", req, &out); err != nil {
		return ReportRecord{}, err
	}
	return out.Report, nil
}

func (c *Client) ListReports(ctx context.Context) ([]ReportRecord, error) {
	var out reportsEnvelope
	if err := c.getJSON(ctx, "/reports", &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}

func (c *Client) DeleteReport(ctx context.Context, id int) error {
	return c.delete(ctx, "/reports/"+strconv.Itoa(id))
}

func (c *Client) DownloadReport(ctx context.Context, id int, format string) ([]byte, error) {
	return c.getBinary(ctx, "/reports/"+strconv.Itoa(id)+"/download?format="+format)
}

func (c *Client) ExportResource(ctx context.Context, resource string) ([]byte, error) {
	return c.getBinary(ctx, "/export/"+resource)
}

// Authentication.

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	err := c.postJSON(ctx, "/users/login", body, &out)
	return out, err
}

func (c *Client) AdminLogin(ctx context.Context, email, password string) (AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	err := c.postJSON(ctx, "/users/admin/login", body, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	var out AuthResult
	err := c.postJSON(ctx, "/users/register", in, &out)
	return out, err
}

var _ API = (*Client)(nil)
