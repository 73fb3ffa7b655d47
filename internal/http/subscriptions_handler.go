package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/shopspring/decimal"

	"adlens/internal/subscriptions"
)

type subscriptionParams struct {
	EventID   uint            `json:"event_id"`
	ProductID uint            `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
}

// SubscriptionsIndexAction lists active subscriptions, filtered by search
// and window.
func SubscriptionsIndexAction(ctx *cartridge.Context) error {
	start, end, err := parseWindow(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	list, err := subscriptions.Search(ctx.DB(), ctx.Query("search"), start, end)
	if err != nil {
		ctx.Logger.Error("Failed to list subscriptions", slog.Any("error", err))
		return internalError(ctx, "Failed to list subscriptions")
	}
	return ctx.JSON(list)
}

// SubscriptionShowAction returns a single subscription by id.
func SubscriptionShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid subscription id")
	}
	sub, err := subscriptions.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Subscription")
		}
		ctx.Logger.Error("Failed to get subscription", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to get subscription")
	}
	return ctx.JSON(sub)
}

// SubscriptionCreateAction creates a subscription.
func SubscriptionCreateAction(ctx *cartridge.Context) error {
	var params subscriptionParams
	if err := ctx.BodyParser(&params); err != nil || params.EventID == 0 || params.ProductID == 0 {
		return badRequest(ctx, "event_id and product_id are required")
	}
	sub := subscriptions.Subscription{
		EventID:   params.EventID,
		ProductID: params.ProductID,
		Price:     params.Price,
	}
	if err := subscriptions.Create(ctx.DB(), &sub); err != nil {
		ctx.Logger.Error("Failed to create subscription", slog.Any("error", err))
		return internalError(ctx, "Failed to create subscription")
	}
	return ctx.Status(fiber.StatusCreated).JSON(sub)
}

// SubscriptionUpdateAction updates a subscription.
func SubscriptionUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid subscription id")
	}
	sub, err := subscriptions.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Subscription")
		}
		return internalError(ctx, "Failed to get subscription")
	}
	var params subscriptionParams
	if err := ctx.BodyParser(&params); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if params.EventID != 0 {
		sub.EventID = params.EventID
	}
	if params.ProductID != 0 {
		sub.ProductID = params.ProductID
	}
	if !params.Price.IsZero() {
		sub.Price = params.Price
	}
	if err := subscriptions.Update(ctx.DB(), sub); err != nil {
		ctx.Logger.Error("Failed to update subscription", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to update subscription")
	}
	return ctx.JSON(sub)
}

// SubscriptionDeleteAction cancels and soft-deletes a subscription.
func SubscriptionDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid subscription id")
	}
	sub, err := subscriptions.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Subscription")
		}
		return internalError(ctx, "Failed to get subscription")
	}
	if err := subscriptions.Destroy(ctx.DB(), sub); err != nil {
		ctx.Logger.Error("Failed to delete subscription", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to delete subscription")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
