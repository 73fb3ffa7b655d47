package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/shopspring/decimal"

	"adlens/internal/events"
)

type eventParams struct {
	ClientID uint            `json:"client_id"`
	MetricID uint            `json:"metric_id"`
	Value    decimal.Decimal `json:"value"`
}

// EventsIndexAction lists active events, filtered by search and window.
func EventsIndexAction(ctx *cartridge.Context) error {
	start, end, err := parseWindow(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	list, err := events.Search(ctx.DB(), ctx.Query("search"), start, end)
	if err != nil {
		ctx.Logger.Error("Failed to list events", slog.Any("error", err))
		return internalError(ctx, "Failed to list events")
	}
	return ctx.JSON(list)
}

// EventShowAction returns a single event by id.
func EventShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid event id")
	}
	event, err := events.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Event")
		}
		ctx.Logger.Error("Failed to get event", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to get event")
	}
	return ctx.JSON(event)
}

// EventCreateAction creates an event.
func EventCreateAction(ctx *cartridge.Context) error {
	var params eventParams
	if err := ctx.BodyParser(&params); err != nil || params.ClientID == 0 || params.MetricID == 0 {
		return badRequest(ctx, "client_id and metric_id are required")
	}
	event := events.Event{
		ClientID: params.ClientID,
		MetricID: params.MetricID,
		Value:    params.Value,
	}
	if err := events.Create(ctx.DB(), &event); err != nil {
		ctx.Logger.Error("Failed to create event", slog.Any("error", err))
		return internalError(ctx, "Failed to create event")
	}
	return ctx.Status(fiber.StatusCreated).JSON(event)
}

// EventUpdateAction updates an event.
func EventUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid event id")
	}
	event, err := events.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Event")
		}
		return internalError(ctx, "Failed to get event")
	}
	var params eventParams
	if err := ctx.BodyParser(&params); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if params.ClientID != 0 {
		event.ClientID = params.ClientID
	}
	if params.MetricID != 0 {
		event.MetricID = params.MetricID
	}
	if !params.Value.IsZero() {
		event.Value = params.Value
	}
	if err := events.Update(ctx.DB(), event); err != nil {
		ctx.Logger.Error("Failed to update event", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to update event")
	}
	return ctx.JSON(event)
}

// EventDeleteAction soft-deletes an event.
func EventDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid event id")
	}
	event, err := events.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Event")
		}
		return internalError(ctx, "Failed to get event")
	}
	if err := events.SoftDelete(ctx.DB(), event); err != nil {
		ctx.Logger.Error("Failed to delete event", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to delete event")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
