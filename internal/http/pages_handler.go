package http

import (
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"adlens/internal/config"
	"adlens/internal/pages"
)

type pageParams struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// refreshMetadata re-extracts a page's metadata after a save. Extraction is
// best effort: a fetch or parse failure never fails the API call.
func refreshMetadata(ctx *cartridge.Context, page *pages.Page) {
	cfg := config.GetConfig()
	timeout := time.Duration(cfg.MetadataFetchTimeout) * time.Second
	extractor, err := pages.NewExtractor(ctx.DB(), ctx.Logger, timeout)
	if err != nil {
		ctx.Logger.Error("Failed to build metadata extractor", slog.Any("error", err))
		return
	}
	if _, err := extractor.Refresh(page); err != nil {
		ctx.Logger.Warn("Metadata extraction failed",
			slog.Uint64("pageId", uint64(page.ID)),
			slog.String("url", page.URL),
			slog.Any("error", err))
	}
}

// PagesIndexAction lists active pages, filtered by search and window.
func PagesIndexAction(ctx *cartridge.Context) error {
	start, end, err := parseWindow(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	list, err := pages.Search(ctx.DB(), ctx.Query("search"), start, end)
	if err != nil {
		ctx.Logger.Error("Failed to list pages", slog.Any("error", err))
		return internalError(ctx, "Failed to list pages")
	}
	return ctx.JSON(list)
}

// PageShowAction returns a single page by id.
func PageShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid page id")
	}
	page, err := pages.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Page")
		}
		ctx.Logger.Error("Failed to get page", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to get page")
	}
	return ctx.JSON(page)
}

// PageCreateAction creates a page and extracts its metadata.
func PageCreateAction(ctx *cartridge.Context) error {
	var params pageParams
	if err := ctx.BodyParser(&params); err != nil || params.Title == "" || params.URL == "" {
		return badRequest(ctx, "title and url are required")
	}
	page := pages.Page{Title: params.Title, URL: params.URL}
	if err := pages.Create(ctx.DB(), &page); err != nil {
		ctx.Logger.Error("Failed to create page", slog.Any("error", err))
		return internalError(ctx, "Failed to create page")
	}
	refreshMetadata(ctx, &page)
	return ctx.Status(fiber.StatusCreated).JSON(page)
}

// PageUpdateAction updates a page and re-extracts its metadata.
func PageUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid page id")
	}
	page, err := pages.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Page")
		}
		return internalError(ctx, "Failed to get page")
	}
	var params pageParams
	if err := ctx.BodyParser(&params); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if params.Title != "" {
		page.Title = params.Title
	}
	if params.URL != "" {
		page.URL = params.URL
	}
	if err := pages.Update(ctx.DB(), page); err != nil {
		ctx.Logger.Error("Failed to update page", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to update page")
	}
	refreshMetadata(ctx, page)
	return ctx.JSON(page)
}

// PageDeleteAction soft-deletes a page along with its metadata row.
func PageDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid page id")
	}
	page, err := pages.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Page")
		}
		return internalError(ctx, "Failed to get page")
	}
	if err := pages.SoftDelete(ctx.DB(), page); err != nil {
		ctx.Logger.Error("Failed to delete page", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to delete page")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// MetadataIndexAction lists active metadata rows, filtered by search and
// window. Metadata is extractor-owned and therefore read-only over the API.
func MetadataIndexAction(ctx *cartridge.Context) error {
	start, end, err := parseWindow(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	list, err := pages.SearchMetadata(ctx.DB(), ctx.Query("search"), start, end)
	if err != nil {
		ctx.Logger.Error("Failed to list metadata", slog.Any("error", err))
		return internalError(ctx, "Failed to list metadata")
	}
	return ctx.JSON(list)
}

// MetadataShowAction returns a single metadata row by id.
func MetadataShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid metadata id")
	}
	md, err := pages.MetadataByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Metadata")
		}
		ctx.Logger.Error("Failed to get metadata", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to get metadata")
	}
	return ctx.JSON(md)
}
