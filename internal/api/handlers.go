package api

import (
	"bytes"
	"errors"
	"time"

	"github.com/bilgisen/chronos/internal/desk"
	"github.com/bilgisen/chronos/internal/logger"
	"github.com/bilgisen/chronos/internal/middleware"
	"github.com/bilgisen/chronos/internal/models"
	"github.com/bilgisen/chronos/internal/view"
	"github.com/gofiber/fiber/v2"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// TopicRequest is the body of PUT /settings/topic
type TopicRequest struct {
	Topic string `json:"topic" validate:"required"`
}

// IntervalRequest is the body of PUT /settings/interval
type IntervalRequest struct {
	Minutes int `json:"minutes" validate:"required,gt=0"`
}

type Handlers struct {
	desk    *desk.Controller
	started time.Time
}

func NewHandlers(d *desk.Controller) *Handlers {
	return &Handlers{desk: d, started: time.Now()}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	snap := h.desk.Snapshot()
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"state":   snap.State,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"time":    time.Now().Format(time.RFC3339),
	})
}

// GetState handles GET /state
func (h *Handlers) GetState(c *fiber.Ctx) error {
	return c.JSON(h.desk.Snapshot())
}

// GetNews handles GET /news
func (h *Handlers) GetNews(c *fiber.Ctx) error {
	snap := h.desk.Snapshot()
	items := snap.History
	if items == nil {
		items = []models.NewsItem{}
	}
	return c.JSON(fiber.Map{
		"total": len(items),
		"items": items,
	})
}

// GetLogs handles GET /logs
func (h *Handlers) GetLogs(c *fiber.Ctx) error {
	snap := h.desk.Snapshot()
	lines := make([]string, len(snap.Log))
	for i, e := range snap.Log {
		lines[i] = e.String()
	}
	return c.JSON(fiber.Map{
		"entries": snap.Log,
		"lines":   lines,
	})
}

// GetOptions handles GET /options
func (h *Handlers) GetOptions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"topics":    models.Topics,
		"intervals": models.Intervals,
	})
}

// GetDashboard handles GET /dashboard
func (h *Handlers) GetDashboard(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := view.Render(&buf, h.desk.Snapshot()); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Send(buf.Bytes())
}

// SetTopic handles PUT /settings/topic
func (h *Handlers) SetTopic(c *fiber.Ctx) error {
	req := middleware.Body[TopicRequest](c)
	if err := h.desk.SetTopic(req.Topic); err != nil {
		return deskError(err)
	}
	return c.JSON(h.desk.Snapshot().Settings)
}

// SetInterval handles PUT /settings/interval
func (h *Handlers) SetInterval(c *fiber.Ctx) error {
	req := middleware.Body[IntervalRequest](c)
	if err := h.desk.SetInterval(req.Minutes); err != nil {
		return deskError(err)
	}
	return c.JSON(h.desk.Snapshot().Settings)
}

// ToggleLocalMode handles POST /settings/local-mode/toggle
func (h *Handlers) ToggleLocalMode(c *fiber.Ctx) error {
	enabled := h.desk.ToggleLocalMode()
	return c.JSON(fiber.Map{"local_mode": enabled})
}

// ToggleAutoPost handles POST /settings/auto-post/toggle
func (h *Handlers) ToggleAutoPost(c *fiber.Ctx) error {
	enabled := h.desk.ToggleAutoPost()
	return c.JSON(fiber.Map{"auto_post_to_x": enabled})
}

// LinkAccount handles POST /account/link. The handshake completes in the background.
func (h *Handlers) LinkAccount(c *fiber.Ctx) error {
	started, err := h.desk.StartLink()
	if err != nil {
		return deskError(err)
	}
	if !started {
		return c.JSON(fiber.Map{"status": "linked"})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "linking"})
}

// UnlinkAccount handles DELETE /account/link
func (h *Handlers) UnlinkAccount(c *fiber.Ctx) error {
	h.desk.UnlinkAccount()
	return c.JSON(fiber.Map{"status": "unlinked"})
}

// Scan handles POST /scan
func (h *Handlers) Scan(c *fiber.Ctx) error {
	if !h.desk.TriggerUpdate() {
		return deskError(desk.ErrCycleInFlight)
	}
	logger.Info().Str("ip", c.IP()).Msg("Manual scan requested")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started"})
}

// PostItem handles POST /news/:id/post
func (h *Handlers) PostItem(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "news id is required")
	}
	if err := h.desk.PostItem(c.UserContext(), id); err != nil {
		return deskError(err)
	}
	return c.JSON(fiber.Map{"status": "posted", "id": id})
}

// deskError maps controller errors to HTTP statuses.
func deskError(err error) error {
	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, desk.ErrItemNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, desk.ErrNotLinked):
		code = fiber.StatusPreconditionFailed
	case errors.Is(err, desk.ErrAlreadyPosted),
		errors.Is(err, desk.ErrPostInFlight),
		errors.Is(err, desk.ErrCycleInFlight),
		errors.Is(err, desk.ErrLinkInFlight):
		code = fiber.StatusConflict
	case errors.Is(err, desk.ErrInvalidTopic),
		errors.Is(err, desk.ErrInvalidInterval):
		code = fiber.StatusUnprocessableEntity
	case errors.Is(err, desk.ErrSyndication):
		code = fiber.StatusBadGateway
	}
	return fiber.NewError(code, err.Error())
}
