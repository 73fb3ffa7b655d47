package reports

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"adlens/internal/events"
	"adlens/internal/subscriptions"
)

// Time-bucket reports histogram the whole window without the search
// predicate. Their domains are dense: every bucket appears even when empty,
// in calendar order.

// SubscriptionsByWeekdayHour counts subscriptions per weekday and hour of
// creation. Rows run Monday through Sunday, each with 24 hourly counts.
func (e *Engine) SubscriptionsByWeekdayHour() ([]WeekdayRow, error) {
	subs, err := subscriptions.InRange(e.db, e.start, e.end)
	if err != nil {
		return nil, fmt.Errorf("subscriptions by weekday and hour: %w", err)
	}
	rows := make([]WeekdayRow, 7)
	for i := range rows {
		// time.Weekday starts on Sunday; shift so row 0 is Monday.
		rows[i].Day = time.Weekday((i + 1) % 7).String()[:3]
	}
	for _, s := range subs {
		row := (int(s.CreatedAt.Weekday()) + 6) % 7
		rows[row].Hours[s.CreatedAt.Hour()]++
	}
	return rows, nil
}

// SubscriptionsByMonthDay counts subscriptions per day of month. The slice
// has 32 buckets so the day number indexes it directly; bucket 0 stays zero.
func (e *Engine) SubscriptionsByMonthDay() ([]int, error) {
	subs, err := subscriptions.InRange(e.db, e.start, e.end)
	if err != nil {
		return nil, fmt.Errorf("subscriptions by day of month: %w", err)
	}
	counts := make([]int, 32)
	for _, s := range subs {
		counts[s.CreatedAt.Day()]++
	}
	return counts, nil
}

// SubscriptionsByMonth counts subscriptions per month of year, January
// through December.
func (e *Engine) SubscriptionsByMonth() ([]LabeledCount, error) {
	subs, err := subscriptions.InRange(e.db, e.start, e.end)
	if err != nil {
		return nil, fmt.Errorf("subscriptions by month: %w", err)
	}
	rows := make([]LabeledCount, 12)
	for i := range rows {
		rows[i].Label = time.Month(i + 1).String()[:3]
	}
	for _, s := range subs {
		rows[int(s.CreatedAt.Month())-1].Count++
	}
	return rows, nil
}

// SubscriptionsByDate counts subscriptions per calendar day of the window.
func (e *Engine) SubscriptionsByDate() ([]LabeledCount, error) {
	subs, err := subscriptions.InRange(e.db, e.start, e.end)
	if err != nil {
		return nil, fmt.Errorf("subscriptions by date: %w", err)
	}
	times := make([]time.Time, len(subs))
	for i, s := range subs {
		times[i] = s.CreatedAt
	}
	return e.dateHistogram(times), nil
}

// EventsByDate counts events per calendar day of the window.
func (e *Engine) EventsByDate() ([]LabeledCount, error) {
	evs, err := events.InRange(e.db, e.start, e.end)
	if err != nil {
		return nil, fmt.Errorf("events by date: %w", err)
	}
	times := make([]time.Time, len(evs))
	for i, ev := range evs {
		times[i] = ev.CreatedAt
	}
	return e.dateHistogram(times), nil
}

// MarginByMonth sums subscription margins per calendar month of the window.
func (e *Engine) MarginByMonth() ([]LabeledAmount, error) {
	subs, err := subscriptions.InRange(e.db, e.start, e.end)
	if err != nil {
		return nil, fmt.Errorf("margin by month: %w", err)
	}

	rows := []LabeledAmount{}
	index := make(map[string]int)
	eachDay(e.start, e.end, func(day time.Time) {
		label := day.Format(MonthFormat)
		if _, ok := index[label]; ok {
			return
		}
		index[label] = len(rows)
		rows = append(rows, LabeledAmount{Label: label, Value: decimal.Zero})
	})

	for _, s := range subs {
		if i, ok := index[s.CreatedAt.Format(MonthFormat)]; ok {
			rows[i].Value = rows[i].Value.Add(s.Margin())
		}
	}
	return rows, nil
}

// dateHistogram buckets timestamps into one labeled count per calendar day
// of the window. Timestamps falling outside the window's day labels are
// dropped rather than growing the domain.
func (e *Engine) dateHistogram(times []time.Time) []LabeledCount {
	rows := []LabeledCount{}
	index := make(map[string]int)
	eachDay(e.start, e.end, func(day time.Time) {
		label := day.Format(DateFormat)
		index[label] = len(rows)
		rows = append(rows, LabeledCount{Label: label})
	})

	for _, t := range times {
		if i, ok := index[t.Format(DateFormat)]; ok {
			rows[i].Count++
		}
	}
	return rows
}
