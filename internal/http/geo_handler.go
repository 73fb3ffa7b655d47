package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"adlens/internal/geo"
)

// CountriesIndexAction lists active countries, filtered by search and window.
func CountriesIndexAction(ctx *cartridge.Context) error {
	start, end, err := parseWindow(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	list, err := geo.SearchCountries(ctx.DB(), ctx.Query("search"), start, end)
	if err != nil {
		ctx.Logger.Error("Failed to list countries", slog.Any("error", err))
		return internalError(ctx, "Failed to list countries")
	}
	return ctx.JSON(list)
}

// CountryShowAction returns a single country by id.
func CountryShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid country id")
	}
	country, err := geo.CountryByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Country")
		}
		ctx.Logger.Error("Failed to get country", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to get country")
	}
	return ctx.JSON(country)
}

// CountryCreateAction creates a country.
func CountryCreateAction(ctx *cartridge.Context) error {
	var params struct {
		Title string `json:"title"`
	}
	if err := ctx.BodyParser(&params); err != nil || params.Title == "" {
		return badRequest(ctx, "title is required")
	}
	country := geo.Country{Title: params.Title}
	if err := geo.CreateCountry(ctx.DB(), &country); err != nil {
		ctx.Logger.Error("Failed to create country", slog.Any("error", err))
		return internalError(ctx, "Failed to create country")
	}
	return ctx.Status(fiber.StatusCreated).JSON(country)
}

// CountryUpdateAction updates a country's title.
func CountryUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid country id")
	}
	country, err := geo.CountryByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Country")
		}
		return internalError(ctx, "Failed to get country")
	}
	var params struct {
		Title string `json:"title"`
	}
	if err := ctx.BodyParser(&params); err != nil || params.Title == "" {
		return badRequest(ctx, "title is required")
	}
	country.Title = params.Title
	if err := geo.UpdateCountry(ctx.DB(), country); err != nil {
		ctx.Logger.Error("Failed to update country", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to update country")
	}
	return ctx.JSON(country)
}

// CountryDeleteAction soft-deletes a country.
func CountryDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid country id")
	}
	country, err := geo.CountryByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "Country")
		}
		return internalError(ctx, "Failed to get country")
	}
	if err := geo.SoftDeleteCountry(ctx.DB(), country); err != nil {
		ctx.Logger.Error("Failed to delete country", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to delete country")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// StatesIndexAction lists active states, filtered by search and window.
func StatesIndexAction(ctx *cartridge.Context) error {
	start, end, err := parseWindow(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	list, err := geo.SearchStates(ctx.DB(), ctx.Query("search"), start, end)
	if err != nil {
		ctx.Logger.Error("Failed to list states", slog.Any("error", err))
		return internalError(ctx, "Failed to list states")
	}
	return ctx.JSON(list)
}

// StateShowAction returns a single state by id.
func StateShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid state id")
	}
	state, err := geo.StateByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "State")
		}
		ctx.Logger.Error("Failed to get state", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to get state")
	}
	return ctx.JSON(state)
}

// StateCreateAction creates a state under a country.
func StateCreateAction(ctx *cartridge.Context) error {
	var params struct {
		Title     string `json:"title"`
		CountryID uint   `json:"country_id"`
	}
	if err := ctx.BodyParser(&params); err != nil || params.Title == "" || params.CountryID == 0 {
		return badRequest(ctx, "title and country_id are required")
	}
	state := geo.State{Title: params.Title, CountryID: params.CountryID}
	if err := geo.CreateState(ctx.DB(), &state); err != nil {
		ctx.Logger.Error("Failed to create state", slog.Any("error", err))
		return internalError(ctx, "Failed to create state")
	}
	return ctx.Status(fiber.StatusCreated).JSON(state)
}

// StateUpdateAction updates a state.
func StateUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid state id")
	}
	state, err := geo.StateByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "State")
		}
		return internalError(ctx, "Failed to get state")
	}
	var params struct {
		Title     string `json:"title"`
		CountryID uint   `json:"country_id"`
	}
	if err := ctx.BodyParser(&params); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if params.Title != "" {
		state.Title = params.Title
	}
	if params.CountryID != 0 {
		state.CountryID = params.CountryID
	}
	if err := geo.UpdateState(ctx.DB(), state); err != nil {
		ctx.Logger.Error("Failed to update state", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to update state")
	}
	return ctx.JSON(state)
}

// StateDeleteAction soft-deletes a state.
func StateDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid state id")
	}
	state, err := geo.StateByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "State")
		}
		return internalError(ctx, "Failed to get state")
	}
	if err := geo.SoftDeleteState(ctx.DB(), state); err != nil {
		ctx.Logger.Error("Failed to delete state", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to delete state")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// CitiesIndexAction lists active cities, filtered by search and window.
func CitiesIndexAction(ctx *cartridge.Context) error {
	start, end, err := parseWindow(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	list, err := geo.SearchCities(ctx.DB(), ctx.Query("search"), start, end)
	if err != nil {
		ctx.Logger.Error("Failed to list cities", slog.Any("error", err))
		return internalError(ctx, "Failed to list cities")
	}
	return ctx.JSON(list)
}

// CityShowAction returns a single city by id.
func CityShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid city id")
	}
	city, err := geo.CityByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "City")
		}
		ctx.Logger.Error("Failed to get city", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to get city")
	}
	return ctx.JSON(city)
}

// CityCreateAction creates a city under a state.
func CityCreateAction(ctx *cartridge.Context) error {
	var params struct {
		Title   string `json:"title"`
		StateID uint   `json:"state_id"`
	}
	if err := ctx.BodyParser(&params); err != nil || params.Title == "" || params.StateID == 0 {
		return badRequest(ctx, "title and state_id are required")
	}
	city := geo.City{Title: params.Title, StateID: params.StateID}
	if err := geo.CreateCity(ctx.DB(), &city); err != nil {
		ctx.Logger.Error("Failed to create city", slog.Any("error", err))
		return internalError(ctx, "Failed to create city")
	}
	return ctx.Status(fiber.StatusCreated).JSON(city)
}

// CityUpdateAction updates a city.
func CityUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid city id")
	}
	city, err := geo.CityByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "City")
		}
		return internalError(ctx, "Failed to get city")
	}
	var params struct {
		Title   string `json:"title"`
		StateID uint   `json:"state_id"`
	}
	if err := ctx.BodyParser(&params); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if params.Title != "" {
		city.Title = params.Title
	}
	if params.StateID != 0 {
		city.StateID = params.StateID
	}
	if err := geo.UpdateCity(ctx.DB(), city); err != nil {
		ctx.Logger.Error("Failed to update city", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to update city")
	}
	return ctx.JSON(city)
}

// CityDeleteAction soft-deletes a city.
func CityDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return badRequest(ctx, "invalid city id")
	}
	city, err := geo.CityByID(ctx.DB(), uint(id))
	if err != nil {
		if isNotFound(err) {
			return notFound(ctx, "City")
		}
		return internalError(ctx, "Failed to get city")
	}
	if err := geo.SoftDeleteCity(ctx.DB(), city); err != nil {
		ctx.Logger.Error("Failed to delete city", slog.Any("error", err), slog.Int("id", id))
		return internalError(ctx, "Failed to delete city")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
