// Package actions wraps every state-changing backend call in one uniform
// contract: validate, call, and on success surface a notice and trigger one
// refresh of the affected dashboards. Failures surface the backend's message
// verbatim and leave all local state untouched; there is no optimistic
// update anywhere.
package actions

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"aquasafi-monitor/internal/backend"
)

// ErrBusy rejects a mutation submitted while another is still outstanding.
var ErrBusy = errors.New("another action is still in progress")

// Refresher is the one controller method the gateway needs.
type Refresher interface {
	RefreshNow(ctx context.Context) error
}

type Notice struct {
	ID      string    `json:"id"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

const maxNotices = 50

type Gateway struct {
	api        backend.API
	monitoring Refresher
	admin      Refresher
	validate   *validator.Validate
	log        zerolog.Logger
	now        func() time.Time

	busy atomic.Bool

	mu      sync.Mutex
	notices []Notice
}

func NewGateway(api backend.API, monitoring, admin Refresher, log zerolog.Logger) *Gateway {
	return &Gateway{
		api:        api,
		monitoring: monitoring,
		admin:      admin,
		validate:   validator.New(),
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// run is the uniform mutation wrapper. At most one mutation may be in
// flight; the refreshers run only after a confirmed success.
func (g *Gateway) run(ctx context.Context, success string, refreshers []Refresher, call func(ctx context.Context) error) error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer g.busy.Store(false)

	if err := call(ctx); err != nil {
		g.addNotice("error", err.Error())
		return err
	}
	g.addNotice("success", success)
	for _, r := range refreshers {
		if err := r.RefreshNow(ctx); err != nil {
			g.log.Warn().Err(err).Msg("post-action refresh incomplete")
		}
	}
	return nil
}

func (g *Gateway) AcknowledgeAlert(ctx context.Context, id int) error {
	return g.run(ctx, "Alert acknowledged", []Refresher{g.monitoring}, func(ctx context.Context) error {
		return g.api.AcknowledgeAlert(ctx, id)
	})
}

func (g *Gateway) ResolveAlert(ctx context.Context, id int) error {
	return g.run(ctx, "Alert resolved", []Refresher{g.monitoring}, func(ctx context.Context) error {
		return g.api.ResolveAlert(ctx, id)
	})
}

func (g *Gateway) CreateWaterPoint(ctx context.Context, in backend.WaterPointInput) (backend.WaterPointRecord, error) {
	if err := g.validate.Struct(in); err != nil {
		return backend.WaterPointRecord{}, err
	}
	var created backend.WaterPointRecord
	err := g.run(ctx, "Water point created", []Refresher{g.admin, g.monitoring}, func(ctx context.Context) error {
		var callErr error
		created, callErr = g.api.CreateWaterPoint(ctx, in)
		return callErr
	})
	return created, err
}

func (g *Gateway) UpdateWaterPoint(ctx context.Context, id int, in backend.WaterPointInput) (backend.WaterPointRecord, error) {
	if err := g.validate.Struct(in); err != nil {
		return backend.WaterPointRecord{}, err
	}
	var updated backend.WaterPointRecord
	err := g.run(ctx, "Water point updated", []Refresher{g.admin, g.monitoring}, func(ctx context.Context) error {
		var callErr error
		updated, callErr = g.api.UpdateWaterPoint(ctx, id, in)
		return callErr
	})
	return updated, err
}

func (g *Gateway) DeleteWaterPoint(ctx context.Context, id int) error {
	return g.run(ctx, "Water point deleted", []Refresher{g.admin, g.monitoring}, func(ctx context.Context) error {
		return g.api.DeleteWaterPoint(ctx, id)
	})
}

func (g *Gateway) ArchiveWaterPoint(ctx context.Context, id int) error {
	return g.run(ctx, "Water point archived", []Refresher{g.admin, g.monitoring}, func(ctx context.Context) error {
		return g.api.ArchiveWaterPoint(ctx, id)
	})
}

func (g *Gateway) GenerateReport(ctx context.Context, req backend.ReportRequest) (backend.ReportRecord, error) {
	if err := g.validate.Struct(req); err != nil {
		return backend.ReportRecord{}, err
	}
	var report backend.ReportRecord
	err := g.run(ctx, "Report generated", nil, func(ctx context.Context) error {
		var callErr error
		report, callErr = g.api.GenerateReport(ctx, req)
		return callErr
	})
	return report, err
}

func (g *Gateway) DeleteReport(ctx context.Context, id int) error {
	return g.run(ctx, "Report deleted", nil, func(ctx context.Context) error {
		return g.api.DeleteReport(ctx, id)
	})
}

func (g *Gateway) addNotice(level, message string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notices = append([]Notice{{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		At:      g.now(),
	}}, g.notices...)
	if len(g.notices) > maxNotices {
		g.notices = g.notices[:maxNotices]
	}
}

// Notices returns recent action outcomes, newest first.
func (g *Gateway) Notices() []Notice {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Notice, len(g.notices))
	copy(out, g.notices)
	return out
}
