package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/minou2442/clinic/internal/service/waitingroom"
)

const streamHeartbeat = 15 * time.Second

type WaitingRoomHandler struct {
	svc       waitingroom.Service
	logger    *slog.Logger
	heartbeat time.Duration
}

func NewWaitingRoomHandler(svc waitingroom.Service, logger *slog.Logger) *WaitingRoomHandler {
	return &WaitingRoomHandler{svc: svc, logger: logger, heartbeat: streamHeartbeat}
}

type callBody struct {
	Patient waitingroom.Patient `json:"patient"`
	Doctor  waitingroom.Doctor  `json:"doctor"`
	Cabinet string              `json:"cabinet"`
}

// POST /api/v1/waiting-room/call
func (h *WaitingRoomHandler) Call(c fiber.Ctx) error {
	var body callBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	call, err := h.svc.CallNext(c.Context(), body.Patient, body.Doctor, body.Cabinet)
	if err != nil {
		return h.mapWaitingRoomError(c, err)
	}
	return created(c, call)
}

// GET /api/v1/waiting-room/current
func (h *WaitingRoomHandler) Current(c fiber.Ctx) error {
	call, found := h.svc.CurrentCall()
	if !found {
		return ok(c, nil)
	}
	return ok(c, call)
}

// DELETE /api/v1/waiting-room/current
func (h *WaitingRoomHandler) Dismiss(c fiber.Ctx) error {
	if !h.svc.Dismiss(c.Context()) {
		return notFound(c, "no active call")
	}
	return noContent(c)
}

// GET /api/v1/waiting-room/history
func (h *WaitingRoomHandler) History(c fiber.Ctx) error {
	return ok(c, h.svc.History())
}

// GET /api/v1/waiting-room/settings
func (h *WaitingRoomHandler) Settings(c fiber.Ctx) error {
	return ok(c, h.svc.Settings())
}

// PATCH /api/v1/waiting-room/settings
func (h *WaitingRoomHandler) UpdateSettings(c fiber.Ctx) error {
	var patch waitingroom.SettingsPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}

	s, err := h.svc.UpdateSettings(c.Context(), patch)
	if err != nil {
		return h.mapWaitingRoomError(c, err)
	}
	return ok(c, s)
}

// POST /api/v1/waiting-room/chime
func (h *WaitingRoomHandler) Chime(c fiber.Ctx) error {
	h.svc.PlayNotification()
	return accepted(c)
}

// GET /api/v1/display
func (h *WaitingRoomHandler) Display(c fiber.Ctx) error {
	return ok(c, h.svc.Display())
}

// GET /api/v1/display/stream
//
// Server-sent events for the waiting-room screens: a "display" event with the
// full view on connect and after every change, "chime" events carrying the
// rendered clips, and a comment line as heartbeat.
func (h *WaitingRoomHandler) Stream(c fiber.Ctx) error {
	events, cancel := h.svc.Subscribe()

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	svc, logger, heartbeat := h.svc, h.logger, h.heartbeat

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		if err := writeSSE(w, "display", svc.Display()); err != nil {
			return
		}

		for {
			select {
			case ev, open := <-events:
				if !open {
					return
				}
				var err error
				if ev.Type == waitingroom.EventChime {
					err = writeSSE(w, "chime", ev.Clip)
				} else {
					err = writeSSE(w, "display", svc.Display())
				}
				if err != nil {
					logger.Debug("display stream closed", "error", err)
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
}

func writeSSE(w *bufio.Writer, event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, raw); err != nil {
		return err
	}
	return w.Flush()
}

func (h *WaitingRoomHandler) mapWaitingRoomError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, waitingroom.ErrInvalidCall),
		errors.Is(err, waitingroom.ErrInvalidSettings):
		return badRequest(c, err.Error())
	case errors.Is(err, waitingroom.ErrPagerClosed):
		return serviceUnavailable(c, err.Error())
	default:
		h.logger.ErrorContext(c.Context(), "waiting room request failed", "path", c.Path(), "error", err)
		return internalError(c)
	}
}
