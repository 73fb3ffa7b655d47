package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"adlens/internal/audiences"
)

// AudiencesIndexAction lists active audiences, filtered by search and window.
func AudiencesIndexAction(ctx *cartridge.Context) error {
	start, end, err := parseWindow(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	list, err := audiences.Search(ctx.DB(), ctx.Query("search"), start, end)
	if err != nil {
		ctx.Logger.Error("Failed to list audiences", slog.Any("error", err))
		return internalError(ctx, "Failed to list audiences")
	}
	return ctx.JSON(list)
}

// AudienceShowAction returns a single audience by id.
func AudienceShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid audience id")
	}
	audience, err := audiences.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Audience")
		}
		ctx.Logger.Error("Failed to get audience", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to get audience")
	}
	return ctx.JSON(audience)
}

// AudienceCreateAction creates an audience.
func AudienceCreateAction(ctx *cartridge.Context) error {
	var params struct {
		Title string `json:"title"`
	}
	if err := ctx.BodyParser(&params); err != nil || params.Title == "" {
		return badRequest(ctx, "title is required")
	}
	audience := audiences.Audience{Title: params.Title}
	if err := audiences.Create(ctx.DB(), &audience); err != nil {
		ctx.Logger.Error("Failed to create audience", slog.Any("error", err))
		return internalError(ctx, "Failed to create audience")
	}
	return ctx.Status(fiber.StatusCreated).JSON(audience)
}

// AudienceUpdateAction updates an audience's title.
func AudienceUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid audience id")
	}
	audience, err := audiences.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Audience")
		}
		return internalError(ctx, "Failed to get audience")
	}
	var params struct {
		Title string `json:"title"`
	}
	if err := ctx.BodyParser(&params); err != nil || params.Title == "" {
		return badRequest(ctx, "title is required")
	}
	audience.Title = params.Title
	if err := audiences.Update(ctx.DB(), audience); err != nil {
		ctx.Logger.Error("Failed to update audience", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to update audience")
	}
	return ctx.JSON(audience)
}

// AudienceDeleteAction soft-deletes an audience.
func AudienceDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid audience id")
	}
	audience, err := audiences.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Audience")
		}
		return internalError(ctx, "Failed to get audience")
	}
	if err := audiences.SoftDelete(ctx.DB(), audience); err != nil {
		ctx.Logger.Error("Failed to delete audience", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to delete audience")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
