package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"adlens/internal/metrics"
)

type metricParams struct {
	Title      string             `json:"title"`
	Type       metrics.MetricType `json:"metric_type"`
	CampaignID uint               `json:"campaign_id"`
	PageID     uint               `json:"page_id"`
}

// MetricsIndexAction lists active metrics, filtered by search and window.
func MetricsIndexAction(ctx *cartridge.Context) error {
	start, end, err := parseWindow(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	list, err := metrics.Search(ctx.DB(), ctx.Query("search"), start, end)
	if err != nil {
		ctx.Logger.Error("Failed to list metrics", slog.Any("error", err))
		return internalError(ctx, "Failed to list metrics")
	}
	return ctx.JSON(list)
}

// MetricShowAction returns a single metric by id.
func MetricShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid metric id")
	}
	metric, err := metrics.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Metric")
		}
		ctx.Logger.Error("Failed to get metric", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to get metric")
	}
	return ctx.JSON(metric)
}

// MetricCreateAction creates a metric.
func MetricCreateAction(ctx *cartridge.Context) error {
	var params metricParams
	if err := ctx.BodyParser(&params); err != nil || params.Title == "" ||
		params.CampaignID == 0 || params.PageID == 0 {
		return badRequest(ctx, "title, campaign_id and page_id are required")
	}
	metric := metrics.Metric{
		Title:      params.Title,
		Type:       params.Type,
		CampaignID: params.CampaignID,
		PageID:     params.PageID,
	}
	if err := metrics.Create(ctx.DB(), &metric); err != nil {
		ctx.Logger.Error("Failed to create metric", slog.Any("error", err))
		return internalError(ctx, "Failed to create metric")
	}
	return ctx.Status(fiber.StatusCreated).JSON(metric)
}

// MetricUpdateAction updates a metric.
func MetricUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid metric id")
	}
	metric, err := metrics.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Metric")
		}
		return internalError(ctx, "Failed to get metric")
	}
	var params metricParams
	if err := ctx.BodyParser(&params); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if params.Title != "" {
		metric.Title = params.Title
	}
	if params.Type != "" {
		if !params.Type.Valid() {
			return badRequest(ctx, "invalid metric type")
		}
		metric.Type = params.Type
	}
	if params.CampaignID != 0 {
		metric.CampaignID = params.CampaignID
	}
	if params.PageID != 0 {
		metric.PageID = params.PageID
	}
	if err := metrics.Update(ctx.DB(), metric); err != nil {
		ctx.Logger.Error("Failed to update metric", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to update metric")
	}
	return ctx.JSON(metric)
}

// MetricDeleteAction soft-deletes a metric.
func MetricDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid metric id")
	}
	metric, err := metrics.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Metric")
		}
		return internalError(ctx, "Failed to get metric")
	}
	if err := metrics.SoftDelete(ctx.DB(), metric); err != nil {
		ctx.Logger.Error("Failed to delete metric", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to delete metric")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
