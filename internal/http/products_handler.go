package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/shopspring/decimal"

	"adlens/internal/products"
)

type productParams struct {
	Title string          `json:"title"`
	Cost  decimal.Decimal `json:"cost"`
}

// ProductsIndexAction lists active products, filtered by search and window.
func ProductsIndexAction(ctx *cartridge.Context) error {
	start, end, err := parseWindow(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	list, err := products.Search(ctx.DB(), ctx.Query("search"), start, end)
	if err != nil {
		ctx.Logger.Error("Failed to list products", slog.Any("error", err))
		return internalError(ctx, "Failed to list products")
	}
	return ctx.JSON(list)
}

// ProductShowAction returns a single product by id.
func ProductShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid product id")
	}
	product, err := products.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Product")
		}
		ctx.Logger.Error("Failed to get product", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to get product")
	}
	return ctx.JSON(product)
}

// ProductCreateAction creates a product.
func ProductCreateAction(ctx *cartridge.Context) error {
	var params productParams
	if err := ctx.BodyParser(&params); err != nil || params.Title == "" {
		return badRequest(ctx, "title is required")
	}
	product := products.Product{Title: params.Title, Cost: params.Cost}
	if err := products.Create(ctx.DB(), &product); err != nil {
		ctx.Logger.Error("Failed to create product", slog.Any("error", err))
		return internalError(ctx, "Failed to create product")
	}
	return ctx.Status(fiber.StatusCreated).JSON(product)
}

// ProductUpdateAction updates a product.
func ProductUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid product id")
	}
	product, err := products.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Product")
		}
		return internalError(ctx, "Failed to get product")
	}
	var params productParams
	if err := ctx.BodyParser(&params); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if params.Title != "" {
		product.Title = params.Title
	}
	if !params.Cost.IsZero() {
		product.Cost = params.Cost
	}
	if err := products.Update(ctx.DB(), product); err != nil {
		ctx.Logger.Error("Failed to update product", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to update product")
	}
	return ctx.JSON(product)
}

// ProductDeleteAction soft-deletes a product.
func ProductDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid product id")
	}
	product, err := products.ByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Product")
		}
		return internalError(ctx, "Failed to get product")
	}
	if err := products.SoftDelete(ctx.DB(), product); err != nil {
		ctx.Logger.Error("Failed to delete product", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to delete product")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
