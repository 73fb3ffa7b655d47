package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/shopspring/decimal"

	"adlens/internal/campaigns"
)

type campaignParams struct {
	Title      string          `json:"title"`
	AudienceID uint            `json:"audience_id"`
	CityID     uint            `json:"city_id"`
	Spend      decimal.Decimal `json:"spend"`
	IsActive   *bool           `json:"is_active"`
}

// CampaignsIndexAction lists active campaigns, filtered by search and window.
func CampaignsIndexAction(ctx *cartridge.Context) error {
	start, end, err := parseWindow(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	list, err := campaigns.Search(ctx.DB(), ctx.Query("search"), start, end)
	if err != nil {
		ctx.Logger.Error("Failed to list campaigns", slog.Any("error", err))
		return internalError(ctx, "Failed to list campaigns")
	}
	return ctx.JSON(list)
}

// CampaignShowAction returns a single campaign by id.
func CampaignShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid campaign id")
	}
	campaign, err := campaigns.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Campaign")
		}
		ctx.Logger.Error("Failed to get campaign", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to get campaign")
	}
	return ctx.JSON(campaign)
}

// CampaignCreateAction creates a campaign.
func CampaignCreateAction(ctx *cartridge.Context) error {
	var params campaignParams
	if err := ctx.BodyParser(&params); err != nil || params.Title == "" ||
		params.AudienceID == 0 || params.CityID == 0 {
		return badRequest(ctx, "title, audience_id and city_id are required")
	}
	campaign := campaigns.Campaign{
		Title:      params.Title,
		AudienceID: params.AudienceID,
		CityID:     params.CityID,
		Spend:      params.Spend,
	}
	if params.IsActive != nil {
		campaign.IsActive = *params.IsActive
	}
	if err := campaigns.Create(ctx.DB(), &campaign); err != nil {
		ctx.Logger.Error("Failed to create campaign", slog.Any("error", err))
		return internalError(ctx, "Failed to create campaign")
	}
	return ctx.Status(fiber.StatusCreated).JSON(campaign)
}

// CampaignUpdateAction updates a campaign.
func CampaignUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid campaign id")
	}
	campaign, err := campaigns.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Campaign")
		}
		return internalError(ctx, "Failed to get campaign")
	}
	var params campaignParams
	if err := ctx.BodyParser(&params); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if params.Title != "" {
		campaign.Title = params.Title
	}
	if params.AudienceID != 0 {
		campaign.AudienceID = params.AudienceID
	}
	if params.CityID != 0 {
		campaign.CityID = params.CityID
	}
	if !params.Spend.IsZero() {
		campaign.Spend = params.Spend
	}
	if params.IsActive != nil {
		campaign.IsActive = *params.IsActive
	}
	if err := campaigns.Update(ctx.DB(), campaign); err != nil {
		ctx.Logger.Error("Failed to update campaign", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to update campaign")
	}
	return ctx.JSON(campaign)
}

// CampaignDeleteAction soft-deletes a campaign.
func CampaignDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid campaign id")
	}
	campaign, err := campaigns.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Campaign")
		}
		return internalError(ctx, "Failed to get campaign")
	}
	if err := campaigns.SoftDelete(ctx.DB(), campaign); err != nil {
		ctx.Logger.Error("Failed to delete campaign", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to delete campaign")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
