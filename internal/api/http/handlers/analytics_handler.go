package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PUZZ-INC/puzzle/internal/analytics"
	"github.com/PUZZ-INC/puzzle/internal/api/dto"
)

const (
	dashboardWindowDays = 30
	dashboardFeedLimit  = 50
)

// AnalyticsHandler serves the signed-in analytics dashboard.
type AnalyticsHandler struct {
	sink *analytics.Sink
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(sink *analytics.Sink) *AnalyticsHandler {
	return &AnalyticsHandler{sink: sink}
}

// Dashboard handles GET /api/analytics/dashboard. With the sink unavailable
// the response carries empty aggregates and clickhouse_connected=false
// instead of failing.
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	return c.JSON(fiber.Map{
		"data": dto.DashboardResponse{
			ClickhouseConnected: h.sink.Available(),
			ClickhouseAddr:      h.sink.Addr(),
			Totals:              h.sink.TotalStats(ctx),
			RegistrationsByDay:  h.sink.RegistrationsByDay(ctx, dashboardWindowDays),
			UniqueUsers:         h.sink.UniqueUsers(ctx),
			RecentEvents:        h.sink.RecentEvents(ctx, dashboardFeedLimit),
		},
	})
}
