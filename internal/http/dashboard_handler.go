package http

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge"
	"gorm.io/gorm"

	"adlens/internal/config"
	"adlens/internal/pkg/async"
	"adlens/internal/reports"
)

// DashboardResponse bundles every report the dashboard renders, keyed the way
// the frontend consumes them.
type DashboardResponse struct {
	SubscriptionsByCampaign    []reports.EntityCount   `json:"subscriptions_by_campaign"`
	SubscriptionsByAudience    []reports.EntityCount   `json:"subscriptions_by_audience"`
	SubscriptionsByProduct     []reports.EntityCount   `json:"subscriptions_by_product"`
	SubscriptionsByCity        []reports.EntityCount   `json:"subscriptions_by_city"`
	SubscriptionsByState       []reports.EntityCount   `json:"subscriptions_by_state"`
	SubscriptionsByCountry     []reports.EntityCount   `json:"subscriptions_by_country"`
	EventsByPage               []reports.EntityCount   `json:"events_by_page"`
	SubscriptionsByWeekdayHour []reports.WeekdayRow    `json:"subscriptions_by_weekday_hour"`
	SubscriptionsByMonthDay    []int                   `json:"subscriptions_by_month_day"`
	SubscriptionsByMonth       []reports.LabeledCount  `json:"subscriptions_by_month"`
	SubscriptionsByDate        []reports.LabeledCount  `json:"subscriptions_by_date"`
	EventsByDate               []reports.LabeledCount  `json:"events_by_date"`
	MarginByMonth              []reports.LabeledAmount `json:"margin_by_month"`
	LTVByCampaign              []reports.EntityAmount  `json:"ltv_by_campaign"`
	RetentionByCampaign        []reports.EntityAmount  `json:"retention_by_campaign"`
	RetentionByProduct         []reports.EntityAmount  `json:"retention_by_product"`
	MarginByCampaign           []reports.EntityAmount  `json:"margin_by_campaign"`
	Start                      string                  `json:"start"`
	End                        string                  `json:"end"`
	Search                     string                  `json:"search"`
}

// fetchReports runs every report concurrently over the worker pool and joins
// the results into one response.
func fetchReports(db *gorm.DB, logger *slog.Logger, start, end time.Time, search string) (*DashboardResponse, error) {
	engine := reports.NewEngine(db, logger, start, end, search)

	tasks := []async.Task{
		{
			Name: "subscriptionsByCampaign",
			Execute: func() (any, error) {
				return engine.SubscriptionsByCampaign()
			},
		},
		{
			Name: "subscriptionsByAudience",
			Execute: func() (any, error) {
				return engine.SubscriptionsByAudience()
			},
		},
		{
			Name: "subscriptionsByProduct",
			Execute: func() (any, error) {
				return engine.SubscriptionsByProduct()
			},
		},
		{
			Name: "subscriptionsByCity",
			Execute: func() (any, error) {
				return engine.SubscriptionsByCity()
			},
		},
		{
			Name: "subscriptionsByState",
			Execute: func() (any, error) {
				return engine.SubscriptionsByState()
			},
		},
		{
			Name: "subscriptionsByCountry",
			Execute: func() (any, error) {
				return engine.SubscriptionsByCountry()
			},
		},
		{
			Name: "eventsByPage",
			Execute: func() (any, error) {
				return engine.EventsByPage()
			},
		},
		{
			Name: "subscriptionsByWeekdayHour",
			Execute: func() (any, error) {
				return engine.SubscriptionsByWeekdayHour()
			},
		},
		{
			Name: "subscriptionsByMonthDay",
			Execute: func() (any, error) {
				return engine.SubscriptionsByMonthDay()
			},
		},
		{
			Name: "subscriptionsByMonth",
			Execute: func() (any, error) {
				return engine.SubscriptionsByMonth()
			},
		},
		{
			Name: "subscriptionsByDate",
			Execute: func() (any, error) {
				return engine.SubscriptionsByDate()
			},
		},
		{
			Name: "eventsByDate",
			Execute: func() (any, error) {
				return engine.EventsByDate()
			},
		},
		{
			Name: "marginByMonth",
			Execute: func() (any, error) {
				return engine.MarginByMonth()
			},
		},
		{
			Name: "ltvByCampaign",
			Execute: func() (any, error) {
				return engine.LTVByCampaign()
			},
		},
		{
			Name: "retentionByCampaign",
			Execute: func() (any, error) {
				return engine.RetentionByCampaign()
			},
		},
		{
			Name: "retentionByProduct",
			Execute: func() (any, error) {
				return engine.RetentionByProduct()
			},
		},
		{
			Name: "marginByCampaign",
			Execute: func() (any, error) {
				return engine.MarginByCampaign()
			},
		},
	}

	pool := async.NewPool(12)
	results := pool.Execute(context.Background(), tasks)

	for name, result := range results {
		if result.Err != nil {
			return nil, fmt.Errorf("error fetching %s: %w", name, result.Err)
		}
	}

	resp := &DashboardResponse{
		SubscriptionsByCampaign:    entityCountsOrEmpty(results, "subscriptionsByCampaign"),
		SubscriptionsByAudience:    entityCountsOrEmpty(results, "subscriptionsByAudience"),
		SubscriptionsByProduct:     entityCountsOrEmpty(results, "subscriptionsByProduct"),
		SubscriptionsByCity:        entityCountsOrEmpty(results, "subscriptionsByCity"),
		SubscriptionsByState:       entityCountsOrEmpty(results, "subscriptionsByState"),
		SubscriptionsByCountry:     entityCountsOrEmpty(results, "subscriptionsByCountry"),
		EventsByPage:               entityCountsOrEmpty(results, "eventsByPage"),
		SubscriptionsByWeekdayHour: results["subscriptionsByWeekdayHour"].Data.([]reports.WeekdayRow),
		SubscriptionsByMonthDay:    results["subscriptionsByMonthDay"].Data.([]int),
		SubscriptionsByMonth:       results["subscriptionsByMonth"].Data.([]reports.LabeledCount),
		SubscriptionsByDate:        results["subscriptionsByDate"].Data.([]reports.LabeledCount),
		EventsByDate:               results["eventsByDate"].Data.([]reports.LabeledCount),
		MarginByMonth:              results["marginByMonth"].Data.([]reports.LabeledAmount),
		LTVByCampaign:              entityAmountsOrEmpty(results, "ltvByCampaign"),
		RetentionByCampaign:        entityAmountsOrEmpty(results, "retentionByCampaign"),
		RetentionByProduct:         entityAmountsOrEmpty(results, "retentionByProduct"),
		MarginByCampaign:           entityAmountsOrEmpty(results, "marginByCampaign"),
		Start:                      start.Format(queryDateFormat),
		End:                        end.Format(queryDateFormat),
		Search:                     search,
	}

	return resp, nil
}

func entityCountsOrEmpty(results map[string]async.Result, name string) []reports.EntityCount {
	if result, exists := results[name]; exists {
		if rows, ok := result.Data.([]reports.EntityCount); ok && rows != nil {
			return rows
		}
	}
	return []reports.EntityCount{}
}

func entityAmountsOrEmpty(results map[string]async.Result, name string) []reports.EntityAmount {
	if result, exists := results[name]; exists {
		if rows, ok := result.Data.([]reports.EntityAmount); ok && rows != nil {
			return rows
		}
	}
	return []reports.EntityAmount{}
}

// DashboardIndexAction renders the aggregated dashboard. The window defaults
// to the configured trailing number of days ending now.
func DashboardIndexAction(ctx *cartridge.Context) error {
	cfg := config.GetConfig()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -cfg.ReportWindowDays)

	if s := ctx.Query("start"); s != "" {
		parsed, err := time.Parse(queryDateFormat, s)
		if err != nil {
			return badRequest(ctx, "invalid start date")
		}
		start = parsed
	}
	if s := ctx.Query("end"); s != "" {
		parsed, err := time.Parse(queryDateFormat, s)
		if err != nil {
			return badRequest(ctx, "invalid end date")
		}
		end = parsed
	}
	search := ctx.Query("search")

	ctx.Logger.Info("Dashboard accessed",
		slog.String("start", start.Format(queryDateFormat)),
		slog.String("end", end.Format(queryDateFormat)),
		slog.String("search", search))

	resp, err := fetchReports(ctx.DB(), ctx.Logger, start, end, search)
	if err != nil {
		ctx.Logger.Error("Error fetching reports", slog.Any("error", err))
		return internalError(ctx, "Error fetching reports")
	}

	return ctx.JSON(resp)
}
