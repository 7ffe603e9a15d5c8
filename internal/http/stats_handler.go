package http

import (
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge"

	"folio/internal/analytics"
)

// StatsAction serves the full visitor-analytics report. The report is
// recomputed from the raw page-view log on every call; any sub-query
// failure fails the whole request rather than returning partial numbers.
func StatsAction(ctx *cartridge.Context) error {
	report, err := analytics.ComputeStats(ctx.DB(), ctx.Logger, time.Now().UTC())
	if err != nil {
		ctx.Logger.Error("Failed to compute stats", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(report)
}
