// Package http holds the JSON API handlers. Every handler follows the same
// shape: parse params, call into the owning entity package, translate errors.
package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"gorm.io/gorm"
)

// queryDateFormat is the wire format of the start/end query params.
const queryDateFormat = "2006-01-02"

// parseWindow reads the optional start/end query params. Filtering only
// applies when both bounds are present; a lone bound is ignored, matching the
// list semantics of the entity packages.
func parseWindow(ctx *cartridge.Context) (time.Time, time.Time, error) {
	var start, end time.Time
	if s := ctx.Query("start"); s != "" {
		parsed, err := time.Parse(queryDateFormat, s)
		if err != nil {
			return start, end, fmt.Errorf("invalid start date %q: %w", s, err)
		}
		start = parsed
	}
	if s := ctx.Query("end"); s != "" {
		parsed, err := time.Parse(queryDateFormat, s)
		if err != nil {
			return start, end, fmt.Errorf("invalid end date %q: %w", s, err)
		}
		end = parsed
	}
	return start, end, nil
}

func badRequest(ctx *cartridge.Context, msg string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
		"code":  "BAD_REQUEST",
	})
}

func notFound(ctx *cartridge.Context, what string) error {
	return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": what + " not found",
		"code":  "NOT_FOUND",
	})
}

func internalError(ctx *cartridge.Context, msg string) error {
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msg,
		"code":  "INTERNAL_ERROR",
	})
}

// isNotFound reports whether err is gorm's missing-record sentinel.
func isNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}
