// Package server exposes the leaderboard and shared results over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/store"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Store is the persistence the API reads and writes.
type Store interface {
	TopResults(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	TopEntry(ctx context.Context) (model.LeaderboardEntry, error)
	SharedResult(ctx context.Context, shortID string) (model.SharedResult, error)
	InsertResult(ctx context.Context, sub model.Submission) (int64, error)
}

type topResponse struct {
	WPM        int     `json:"wpm"`
	PlayerName *string `json:"playerName"`
}

type submitResponse struct {
	ID      int64  `json:"id"`
	ShortID string `json:"shortId,omitempty"`
}

type errorResponse struct {
	Msg string `json:"err"`
}

// New builds the Fiber app.
func New(st Store, validate *validator.Validate, logger *slog.Logger) *fiber.App {
	if logger == nil {
		logger = slog.Default()
	}
	app := fiber.New(fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				logger.Error("request failed", "path", c.Path(), "error", err)
				return c.Status(code).JSON(errorResponse{Msg: "internal error"})
			}
			return c.Status(code).JSON(errorResponse{Msg: err.Error()})
		},
	})

	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		logger.Debug("request", "ip", c.IP(), "method", c.Method(), "path", c.Path(), "status", c.Response().StatusCode())
		return err
	})

	h := &handlers{store: st, validate: validate}
	v1 := app.Group("/api/v1")
	v1.Get("/leaderboard", h.leaderboard)
	v1.Get("/leaderboard/top", h.top)
	v1.Get("/s/:id", h.shared)
	v1.Post("/results", h.submit)
	app.Get("/s/:id", h.shared)
	return app
}

type handlers struct {
	store    Store
	validate *validator.Validate
}

func (h *handlers) leaderboard(c *fiber.Ctx) error {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxLimit)
	}
	entries, err := h.store.TopResults(c.UserContext(), limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	return c.JSON(entries)
}

func (h *handlers) top(c *fiber.Ctx) error {
	entry, err := h.store.TopEntry(c.UserContext())
	if errors.Is(err, store.ErrNotFound) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		return err
	}
	return c.JSON(topResponse{WPM: entry.WPM, PlayerName: entry.PlayerName})
}

func (h *handlers) shared(c *fiber.Ctx) error {
	res, err := h.store.SharedResult(c.UserContext(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "result not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *handlers) submit(c *fiber.Ctx) error {
	var sub model.Submission
	if err := c.BodyParser(&sub); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(sub); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	id, err := h.store.InsertResult(c.UserContext(), sub)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(submitResponse{ID: id, ShortID: sub.ShortID})
}
