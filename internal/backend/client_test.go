package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	ok    bool
}

func (s staticTokens) Token() (string, bool) { return s.token, s.ok }

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(Config{BaseURL: ts.URL, Timeout: 2 * time.Second}, tokens, zerolog.Nop())
}

func TestRequestsCarryBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"system_status":{}}`))
	}, staticTokens{token: "tok-123", ok: true})

	_, err := c.MonitoringDashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNoTokenMeansNoAuthHeader(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}, staticTokens{})

	_, err := c.MonitoringDashboard(context.Background())
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestErrorBodyDecodedFromErrorKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Alert not found"}`))
	}, staticTokens{})

	err := c.AcknowledgeAlert(context.Background(), 42)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "Alert not found", apiErr.Message)
	require.EqualError(t, apiErr, "Alert not found")
}

func TestErrorBodyDecodedFromMessageKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials","success":false}`))
	}, staticTokens{})

	_, err := c.Login(context.Background(), "x@y.z", "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestActiveAlertsUnwrapsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/monitoring/alerts/active", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"alerts":[{"id":5,"title":"Low pressure","waterPointId":2,"priority":"high","status":"active","createdAt":"2024-01-14T08:00:00Z","water_point_name":"Dadaab Community Well"}],"total":1,"pages":1,"current_page":1}`))
	}, staticTokens{})

	alerts, err := c.ActiveAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, 5, alerts[0].ID)
	require.Equal(t, 2, alerts[0].WaterPointID)
	require.Equal(t, "Dadaab Community Well", alerts[0].WaterPointName)
}

func TestAdminOverviewUnwrapsSystemStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/dashboard/overview", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"systemStats":{"totalWaterPoints":12,"activePoints":9,"monthlyRevenue":4500.5}}`))
	}, staticTokens{})

	stats, err := c.AdminOverview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, stats.TotalWaterPoints)
	require.Equal(t, 9, stats.ActivePoints)
	require.InDelta(t, 4500.5, stats.MonthlyRevenue, 0.001)
}

func TestWaterPointMutationPathsAndPayload(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":8,"name":"Ijara Water Tower"}`))
	}, staticTokens{})

	in := WaterPointInput{Name: "Ijara Water Tower", Type: "tower", Region: "Ijara", Location: "Ijara"}
	created, err := c.CreateWaterPoint(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 8, created.ID)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/admin/water-points", gotPath)

	_, err = c.UpdateWaterPoint(context.Background(), 8, in)
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "/admin/water-points/8", gotPath)

	require.NoError(t, c.ArchiveWaterPoint(context.Background(), 8))
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/admin/water-points/8/archive", gotPath)

	require.NoError(t, c.DeleteWaterPoint(context.Background(), 8))
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Equal(t, "/admin/water-points/8", gotPath)
}

func TestDownloadReportBinaryAndFormatQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reports/3/download", r.URL.Path)
		require.Equal(t, "csv", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("id,name\n1,Garissa"))
	}, staticTokens{})

	payload, err := c.DownloadReport(context.Background(), 3, "csv")
	require.NoError(t, err)
	require.Equal(t, "id,name\n1,Garissa", string(payload))
}

func TestBreakerOpensAfterConsecutiveTransportFailures(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: 50 * time.Millisecond}, staticTokens{}, zerolog.Nop())

	for i := 0; i < 5; i++ {
		_, err := c.MonitoringDashboard(context.Background())
		require.Error(t, err)
	}
	_, err := c.MonitoringDashboard(context.Background())
	require.ErrorContains(t, err, "circuit breaker is open")
}

func TestHTTPErrorsDoNotTripBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}, staticTokens{})

	for i := 0; i < 10; i++ {
		err := c.ResolveAlert(context.Background(), 1)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr, "the backend answered; breaker must stay closed")
		require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	}
}
