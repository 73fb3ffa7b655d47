package reports

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"adlens/internal/campaigns"
	"adlens/internal/products"
	"adlens/internal/subscriptions"
)

// Ratio reports divide a per-group total by the group's subscription count.
// A group without subscriptions divides by epsilon instead of zero, which
// yields zero and gets filtered like any other empty group.

// LTVByCampaign averages subscription lifetime value per campaign.
func (e *Engine) LTVByCampaign() ([]EntityAmount, error) {
	list, err := campaigns.Search(e.db, e.search, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("ltv by campaign: %w", err)
	}
	rows := make([]EntityAmount, 0, len(list))
	for _, c := range list {
		subs, err := subscriptions.ForCampaign(e.db, c.ID, e.start, e.end)
		if err != nil {
			return nil, fmt.Errorf("ltv by campaign: %w", err)
		}
		total := decimal.Zero
		for i := range subs {
			total = total.Add(subs[i].LTV(e.now))
		}
		value := total.Div(e.denominator(len(subs)))
		if value.IsZero() {
			continue
		}
		rows = append(rows, EntityAmount{ID: c.ID, Title: c.Title, Value: value})
	}
	sortAmountsDesc(rows)
	return rows, nil
}

// RetentionByCampaign averages subscription lifetime in months per campaign.
func (e *Engine) RetentionByCampaign() ([]EntityAmount, error) {
	list, err := campaigns.Search(e.db, e.search, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("retention by campaign: %w", err)
	}
	rows := make([]EntityAmount, 0, len(list))
	for _, c := range list {
		subs, err := subscriptions.ForCampaign(e.db, c.ID, e.start, e.end)
		if err != nil {
			return nil, fmt.Errorf("retention by campaign: %w", err)
		}
		value := e.averageLife(subs)
		if value.IsZero() {
			continue
		}
		rows = append(rows, EntityAmount{ID: c.ID, Title: c.Title, Value: value})
	}
	sortAmountsDesc(rows)
	return rows, nil
}

// RetentionByProduct averages subscription lifetime in months per product.
func (e *Engine) RetentionByProduct() ([]EntityAmount, error) {
	list, err := products.Search(e.db, e.search, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("retention by product: %w", err)
	}
	rows := make([]EntityAmount, 0, len(list))
	for _, p := range list {
		subs, err := subscriptions.ForProduct(e.db, p.ID, e.start, e.end)
		if err != nil {
			return nil, fmt.Errorf("retention by product: %w", err)
		}
		value := e.averageLife(subs)
		if value.IsZero() {
			continue
		}
		rows = append(rows, EntityAmount{ID: p.ID, Title: p.Title, Value: value})
	}
	sortAmountsDesc(rows)
	return rows, nil
}

// MarginByCampaign reports each campaign's net result: total subscription
// lifetime value minus the campaign's spend. Unlike the averages above it is
// a plain difference, so overspending shows up as a negative value.
func (e *Engine) MarginByCampaign() ([]EntityAmount, error) {
	list, err := campaigns.Search(e.db, e.search, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("margin by campaign: %w", err)
	}
	rows := make([]EntityAmount, 0, len(list))
	for _, c := range list {
		subs, err := subscriptions.ForCampaign(e.db, c.ID, e.start, e.end)
		if err != nil {
			return nil, fmt.Errorf("margin by campaign: %w", err)
		}
		total := decimal.Zero
		for i := range subs {
			total = total.Add(subs[i].LTV(e.now))
		}
		value := total.Sub(c.Spend)
		if value.IsZero() {
			continue
		}
		rows = append(rows, EntityAmount{ID: c.ID, Title: c.Title, Value: value})
	}
	sortAmountsDesc(rows)
	return rows, nil
}

func (e *Engine) averageLife(subs []subscriptions.Subscription) decimal.Decimal {
	total := decimal.Zero
	for i := range subs {
		total = total.Add(decimal.NewFromInt(int64(subs[i].Life(e.now))))
	}
	return total.Div(e.denominator(len(subs)))
}

func (e *Engine) denominator(count int) decimal.Decimal {
	if count == 0 {
		e.logger.Debug("ratio group has no subscriptions, using epsilon denominator")
		return epsilon
	}
	return decimal.NewFromInt(int64(count))
}
