package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"adlens/internal/clients"
)

type clientParams struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ClientsIndexAction lists active clients, filtered by search and window.
func ClientsIndexAction(ctx *cartridge.Context) error {
	start, end, err := parseWindow(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	list, err := clients.Search(ctx.DB(), ctx.Query("search"), start, end)
	if err != nil {
		ctx.Logger.Error("Failed to list clients", slog.Any("error", err))
		return internalError(ctx, "Failed to list clients")
	}
	return ctx.JSON(list)
}

// ClientShowAction returns a single client by id.
func ClientShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid client id")
	}
	client, err := clients.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Client")
		}
		ctx.Logger.Error("Failed to get client", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to get client")
	}
	return ctx.JSON(client)
}

// ClientCreateAction creates a client.
func ClientCreateAction(ctx *cartridge.Context) error {
	var params clientParams
	if err := ctx.BodyParser(&params); err != nil || params.Name == "" || params.Email == "" {
		return badRequest(ctx, "name and email are required")
	}
	client := clients.Client{Name: params.Name, Email: params.Email}
	if err := clients.Create(ctx.DB(), &client); err != nil {
		ctx.Logger.Error("Failed to create client", slog.Any("error", err))
		return internalError(ctx, "Failed to create client")
	}
	return ctx.Status(fiber.StatusCreated).JSON(client)
}

// ClientUpdateAction updates a client.
func ClientUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid client id")
	}
	client, err := clients.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Client")
		}
		return internalError(ctx, "Failed to get client")
	}
	var params clientParams
	if err := ctx.BodyParser(&params); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if params.Name != "" {
		client.Name = params.Name
	}
	if params.Email != "" {
		client.Email = params.Email
	}
	if err := clients.Update(ctx.DB(), client); err != nil {
		ctx.Logger.Error("Failed to update client", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to update client")
	}
	return ctx.JSON(client)
}

// ClientDeleteAction soft-deletes a client.
func ClientDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid client id")
	}
	client, err := clients.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Client")
		}
		return internalError(ctx, "Failed to get client")
	}
	if err := clients.SoftDelete(ctx.DB(), client); err != nil {
		ctx.Logger.Error("Failed to delete client", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to delete client")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
