package actions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"aquasafi-monitor/internal/backend"
)

// stubAPI overrides only the methods a test exercises; calling anything else
// panics through the embedded nil interface, which is what we want.
type stubAPI struct {
	backend.API

	mu       sync.Mutex
	ackErr   error
	ackCalls int
	block    chan struct{}

	created backend.WaterPointInput
	creates int
}

func (s *stubAPI) AcknowledgeAlert(ctx context.Context, id int) error {
	s.mu.Lock()
	s.ackCalls++
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	return s.ackErr
}

func (s *stubAPI) ResolveAlert(ctx context.Context, id int) error { return s.ackErr }

func (s *stubAPI) CreateWaterPoint(ctx context.Context, in backend.WaterPointInput) (backend.WaterPointRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	s.created = in
	return backend.WaterPointRecord{ID: 42, Name: in.Name}, nil
}

func (s *stubAPI) DeleteReport(ctx context.Context, id int) error { return s.ackErr }

type stubRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *stubRefresher) RefreshNow(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

func (r *stubRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func validInput() backend.WaterPointInput {
	return backend.WaterPointInput{
		Name:     "Sankuri Pump Station",
		Type:     "pump_station",
		Region:   "Garissa Township",
		Location: "Sankuri",
		Status:   "active",
	}
}

func TestAcknowledgeAlertRefreshesMonitoringOnly(t *testing.T) {
	api := &stubAPI{}
	mon, adm := &stubRefresher{}, &stubRefresher{}
	g := NewGateway(api, mon, adm, zerolog.Nop())

	require.NoError(t, g.AcknowledgeAlert(context.Background(), 7))
	require.Equal(t, 1, mon.count())
	require.Equal(t, 0, adm.count(), "alert transitions do not touch the admin dashboard")

	notices := g.Notices()
	require.Len(t, notices, 1)
	require.Equal(t, "success", notices[0].Level)
	require.Equal(t, "Alert acknowledged", notices[0].Message)
}

func TestFailureSurfacesBackendMessageVerbatimAndSkipsRefresh(t *testing.T) {
	api := &stubAPI{ackErr: &backend.APIError{StatusCode: 404, Message: "Alert not found"}}
	mon := &stubRefresher{}
	g := NewGateway(api, mon, &stubRefresher{}, zerolog.Nop())

	err := g.ResolveAlert(context.Background(), 99)
	require.EqualError(t, err, "Alert not found")
	require.Equal(t, 0, mon.count(), "no refresh after a failed mutation")

	notices := g.Notices()
	require.Len(t, notices, 1)
	require.Equal(t, "error", notices[0].Level)
	require.Equal(t, "Alert not found", notices[0].Message)
}

func TestConcurrentMutationRejectedWithErrBusy(t *testing.T) {
	api := &stubAPI{block: make(chan struct{})}
	g := NewGateway(api, &stubRefresher{}, &stubRefresher{}, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- g.AcknowledgeAlert(context.Background(), 1) }()

	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.ackCalls == 1
	}, time.Second, 5*time.Millisecond)

	require.ErrorIs(t, g.ResolveAlert(context.Background(), 2), ErrBusy)
	require.ErrorIs(t, g.DeleteReport(context.Background(), 3), ErrBusy)

	close(api.block)
	require.NoError(t, <-done)

	// The guard releases once the first call settles.
	api.block = nil
	require.NoError(t, g.AcknowledgeAlert(context.Background(), 4))
}

func TestCreateWaterPointValidatesBeforeCalling(t *testing.T) {
	api := &stubAPI{}
	mon, adm := &stubRefresher{}, &stubRefresher{}
	g := NewGateway(api, mon, adm, zerolog.Nop())

	in := validInput()
	in.Latitude = 120 // out of range
	_, err := g.CreateWaterPoint(context.Background(), in)

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	require.Equal(t, 0, api.creates, "invalid input must never reach the backend")
	require.Equal(t, 0, mon.count())

	// Validation failures do not trip the busy guard.
	created, err := g.CreateWaterPoint(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, 42, created.ID)
	require.Equal(t, 1, mon.count())
	require.Equal(t, 1, adm.count(), "water point changes refresh both dashboards")
}

func TestRefreshFailureAfterSuccessIsNotAnActionError(t *testing.T) {
	api := &stubAPI{}
	mon := &stubRefresher{err: errors.New("backend flaky")}
	g := NewGateway(api, mon, &stubRefresher{}, zerolog.Nop())

	require.NoError(t, g.AcknowledgeAlert(context.Background(), 1),
		"the mutation succeeded; a flaky follow-up refresh must not fail it")
	require.Equal(t, "success", g.Notices()[0].Level)
}

func TestNoticesNewestFirstAndCapped(t *testing.T) {
	api := &stubAPI{}
	g := NewGateway(api, &stubRefresher{}, &stubRefresher{}, zerolog.Nop())

	for i := 0; i < maxNotices+10; i++ {
		api.ackErr = fmt.Errorf("failure %d", i)
		_ = g.ResolveAlert(context.Background(), i)
	}

	notices := g.Notices()
	require.Len(t, notices, maxNotices)
	require.Equal(t, fmt.Sprintf("failure %d", maxNotices+9), notices[0].Message, "newest first")
	require.NotEmpty(t, notices[0].ID)
}
