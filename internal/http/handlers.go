package http

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"aquasafi-monitor/internal/actions"
	"aquasafi-monitor/internal/admin"
	"aquasafi-monitor/internal/backend"
	"aquasafi-monitor/internal/domain"
	"aquasafi-monitor/internal/export"
	"aquasafi-monitor/internal/filter"
	"aquasafi-monitor/internal/monitoring"
	"aquasafi-monitor/internal/session"
)

// pollControl is the controller surface the dashboard control endpoints
// need, independent of the snapshot type.
type pollControl interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
	Running() bool
	SetInterval(d time.Duration)
	RefreshNow(ctx context.Context) error
}

type Deps struct {
	Monitoring *monitoring.Service
	Admin      *admin.Service
	Actions    *actions.Gateway
	Export     *export.Downloader
	Session    *session.Store
	API        backend.API
	Log        zerolog.Logger

	// RunCtx bounds controller lifetimes; resuming a paused dashboard
	// starts its loop under this context.
	RunCtx          context.Context
	PollInterval    time.Duration
	AdminPollEvery  time.Duration
	MinIntervalSecs int
}

func Register(app *fiber.App, d Deps) {
	controls := map[string]pollControl{
		"monitoring": d.Monitoring.Controller(),
		"admin":      d.Admin.Controller(),
	}
	// intervals is shared by the interval and resume handlers, which run on
	// concurrent request goroutines.
	var intervalMu sync.Mutex
	intervals := map[string]time.Duration{
		"monitoring": d.PollInterval,
		"admin":      d.AdminPollEvery,
	}

	// Session lifecycle.
	app.Post("/session/login", func(c *fiber.Ctx) error {
		return handleLogin(c, d, false)
	})
	app.Post("/session/admin-login", func(c *fiber.Ctx) error {
		return handleLogin(c, d, true)
	})
	app.Post("/session/register", func(c *fiber.Ctx) error {
		var in backend.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		result, err := d.API.Register(c.UserContext(), in)
		if err != nil {
			return fail(c, err)
		}
		if err := d.Session.Establish(credsFrom(result, false)); err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": result.User})
	})
	app.Post("/session/logout", func(c *fiber.Ctx) error {
		if err := d.Session.Clear(); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "logged out"})
	})
	app.Get("/session", func(c *fiber.Ctx) error {
		creds, ok := d.Session.Current()
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not logged in"})
		}
		return c.JSON(fiber.Map{"user": creds.User, "admin": creds.Admin})
	})

	// Dashboard snapshots.
	app.Get("/dashboard/monitoring", func(c *fiber.Ctx) error {
		snap, status := d.Monitoring.Snapshot()
		criteria := filter.Criteria{
			Search: c.Query("search"),
			Status: c.Query("status", filter.All),
			Region: c.Query("region", filter.All),
		}
		return c.JSON(fiber.Map{
			"system_status": snap.SystemStatus,
			"water_points":  filter.Apply(snap.WaterPoints, criteria),
			"active_alerts": snap.ActiveAlerts,
			"health":        snap.Health,
			"notifications": snap.Notifications,
			"regions":       filter.Regions(snap.WaterPoints),
			"status":        status,
		})
	})
	app.Get("/dashboard/admin", func(c *fiber.Ctx) error {
		snap, status := d.Admin.Snapshot()
		return c.JSON(fiber.Map{"snapshot": snap, "status": status})
	})

	// Polling controls, shared by both dashboards.
	app.Post("/dashboard/:name/refresh", func(c *fiber.Ctx) error {
		ctrl, ok := controls[c.Params("name")]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown dashboard"})
		}
		if err := ctrl.RefreshNow(c.UserContext()); err != nil {
			// Partial results are applied; report what failed.
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "refreshed"})
	})
	app.Post("/dashboard/:name/pause", func(c *fiber.Ctx) error {
		ctrl, ok := controls[c.Params("name")]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown dashboard"})
		}
		ctrl.Stop()
		return c.JSON(fiber.Map{"running": false})
	})
	app.Post("/dashboard/:name/resume", func(c *fiber.Ctx) error {
		name := c.Params("name")
		ctrl, ok := controls[name]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown dashboard"})
		}
		intervalMu.Lock()
		interval := intervals[name]
		intervalMu.Unlock()
		ctrl.Start(d.RunCtx, interval)
		return c.JSON(fiber.Map{"running": true})
	})
	app.Put("/dashboard/:name/interval", func(c *fiber.Ctx) error {
		name := c.Params("name")
		ctrl, ok := controls[name]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown dashboard"})
		}
		var body struct {
			Seconds int `json:"seconds"`
		}
		if err := c.BodyParser(&body); err != nil || body.Seconds < d.MinIntervalSecs {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "seconds must be a number >= minimum interval"})
		}
		next := time.Duration(body.Seconds) * time.Second
		intervalMu.Lock()
		intervals[name] = next
		intervalMu.Unlock()
		ctrl.SetInterval(next)
		return c.JSON(fiber.Map{"interval_seconds": body.Seconds})
	})

	// Alert transitions.
	app.Post("/alerts/:id/acknowledge", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid alert id"})
		}
		if err := d.Actions.AcknowledgeAlert(c.UserContext(), id); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "alert acknowledged"})
	})
	app.Post("/alerts/:id/resolve", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid alert id"})
		}
		if err := d.Actions.ResolveAlert(c.UserContext(), id); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "alert resolved"})
	})

	// Water point management.
	app.Get("/water-points", func(c *fiber.Ctx) error {
		items, err := d.API.ListWaterPoints(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"water_points": items})
	})
	app.Post("/water-points", func(c *fiber.Ctx) error {
		var in backend.WaterPointInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		created, err := d.Actions.CreateWaterPoint(c.UserContext(), in)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})
	app.Put("/water-points/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid water point id"})
		}
		var in backend.WaterPointInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		updated, err := d.Actions.UpdateWaterPoint(c.UserContext(), id, in)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(updated)
	})
	app.Delete("/water-points/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid water point id"})
		}
		if err := d.Actions.DeleteWaterPoint(c.UserContext(), id); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "water point deleted"})
	})
	app.Post("/water-points/:id/archive", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid water point id"})
		}
		if err := d.Actions.ArchiveWaterPoint(c.UserContext(), id); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "water point archived"})
	})

	// Reports.
	app.Post("/reports/generate", func(c *fiber.Ctx) error {
		var req backend.ReportRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		report, err := d.Actions.GenerateReport(c.UserContext(), req)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"report": report})
	})
	app.Get("/reports", func(c *fiber.Ctx) error {
		items, err := d.API.ListReports(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"reports": items})
	})
	app.Delete("/reports/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid report id"})
		}
		if err := d.Actions.DeleteReport(c.UserContext(), id); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "report deleted"})
	})
	app.Get("/reports/:id/download", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid report id"})
		}
		filename, payload, err := d.Export.DownloadReport(c.UserContext(), id, c.Query("format", "pdf"))
		if err != nil {
			return fail(c, err)
		}
		return sendAttachment(c, filename, payload)
	})

	// Exports.
	app.Get("/export/snapshot", func(c *fiber.Ctx) error {
		snap, _ := d.Monitoring.Snapshot()
		payload, err := export.SnapshotWorkbook(snap)
		if err != nil {
			return fail(c, err)
		}
		return sendAttachment(c, export.ResourceFilename("snapshot", time.Now()), payload)
	})
	app.Get("/export/:resource", func(c *fiber.Ctx) error {
		filename, payload, err := d.Export.ExportResource(c.UserContext(), c.Params("resource"))
		if err != nil {
			return fail(c, err)
		}
		return sendAttachment(c, filename, payload)
	})

	// Recent action outcomes.
	app.Get("/notices", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"notices": d.Actions.Notices()})
	})
}

func handleLogin(c *fiber.Ctx, d Deps, asAdmin bool) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	var result backend.AuthResult
	var err error
	if asAdmin {
		result, err = d.API.AdminLogin(c.UserContext(), body.Email, body.Password)
	} else {
		result, err = d.API.Login(c.UserContext(), body.Email, body.Password)
	}
	if err != nil {
		return fail(c, err)
	}
	if err := d.Session.Establish(credsFrom(result, asAdmin)); err != nil {
		return fail(c, err)
	}
	account := result.User
	if asAdmin {
		account = result.Admin
	}
	return c.JSON(fiber.Map{"message": result.Message, "user": account})
}

func credsFrom(result backend.AuthResult, asAdmin bool) session.Credentials {
	account := result.User
	name := account.FullName
	if asAdmin {
		account = result.Admin
		name = account.Name
	}
	return session.Credentials{
		Token: result.Token,
		Admin: asAdmin,
		User: domain.User{
			ID:       account.ID,
			FullName: name,
			Email:    account.Email,
			Role:     account.Role,
		},
	}
}

func sendAttachment(c *fiber.Ctx, filename string, payload []byte) error {
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderContentType, contentTypeFor(filename))
	return c.Send(payload)
}

func contentTypeFor(filename string) string {
	switch {
	case len(filename) > 5 && filename[len(filename)-5:] == ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case len(filename) > 4 && filename[len(filename)-4:] == ".pdf":
		return "application/pdf"
	case len(filename) > 4 && filename[len(filename)-4:] == ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// fail maps an error onto the response contract: the backend's message is
// passed through verbatim with its original status where known.
func fail(c *fiber.Ctx, err error) error {
	var apiErr *backend.APIError
	var vErrs validator.ValidationErrors
	switch {
	case errors.Is(err, actions.ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status == 0 {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(fiber.Map{"error": apiErr.Error()})
	case errors.As(err, &vErrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
}
