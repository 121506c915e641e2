package controller

import (
	"context"

	"ai-carousel-bot/internal/pkg/serverutils"
	"ai-carousel-bot/internal/repository/memory"

	"github.com/gofiber/fiber/v2"
)

// BackgroundReloader re-hosts the bundled background image and returns the
// fresh URL. Implemented by the conversation service.
type BackgroundReloader interface {
	ReloadBackground(ctx context.Context) (string, error)
}

type IOpsController interface {
	RegisterRoutes(r fiber.Router, adminGuard fiber.Handler)
	Health(ctx *fiber.Ctx) error
	GetBackground(ctx *fiber.Ctx) error
	SetBackground(ctx *fiber.Ctx) error
	ReloadBackground(ctx *fiber.Ctx) error
}

// opsController exposes the small operator surface: liveness and the shared
// background reference.
type opsController struct {
	backgrounds *memory.BackgroundStore
	reloader    BackgroundReloader
}

func NewOpsController(backgrounds *memory.BackgroundStore, reloader BackgroundReloader) IOpsController {
	return &opsController{backgrounds: backgrounds, reloader: reloader}
}

func (c *opsController) RegisterRoutes(r fiber.Router, adminGuard fiber.Handler) {
	r.Get("/health", c.Health)

	admin := r.Group("/admin", adminGuard)
	admin.Get("/background", c.GetBackground)
	admin.Put("/background", c.SetBackground)
	admin.Post("/backgrounds/reload", c.ReloadBackground)
}

func (c *opsController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse(fiber.Map{"status": "ok"}))
}

func (c *opsController) GetBackground(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse(fiber.Map{
		"url": c.backgrounds.URL(),
	}))
}

type setBackgroundRequest struct {
	URL string `json:"url"`
}

func (c *opsController) SetBackground(ctx *fiber.Ctx) error {
	var req setBackgroundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if req.URL == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "url is required"))
	}
	if err := c.backgrounds.Set(req.URL); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse(fiber.Map{"url": req.URL}))
}

// ReloadBackground replays the upload flow: re-host the bundled image via
// the chat transport and cache the new URL.
func (c *opsController) ReloadBackground(ctx *fiber.Ctx) error {
	url, err := c.reloader.ReloadBackground(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(502, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse(fiber.Map{"url": url}))
}
