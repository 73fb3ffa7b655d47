package reports

import (
	"fmt"
	"time"

	"adlens/internal/audiences"
	"adlens/internal/campaigns"
	"adlens/internal/events"
	"adlens/internal/geo"
	"adlens/internal/pages"
	"adlens/internal/products"
	"adlens/internal/subscriptions"
)

// Grouped frequency reports count subscriptions (or events) per entity. The
// entity list honors the search predicate, groups without a single match are
// dropped, and the result is sorted by descending count.

// SubscriptionsByCampaign counts the window's subscriptions per campaign.
func (e *Engine) SubscriptionsByCampaign() ([]EntityCount, error) {
	list, err := campaigns.Search(e.db, e.search, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("subscriptions by campaign: %w", err)
	}
	rows := make([]EntityCount, 0, len(list))
	for _, c := range list {
		subs, err := subscriptions.ForCampaign(e.db, c.ID, e.start, e.end)
		if err != nil {
			return nil, fmt.Errorf("subscriptions by campaign: %w", err)
		}
		if len(subs) == 0 {
			continue
		}
		rows = append(rows, EntityCount{ID: c.ID, Title: c.Title, Count: len(subs)})
	}
	sortCountsDesc(rows)
	return rows, nil
}

// SubscriptionsByAudience counts the window's subscriptions per audience.
func (e *Engine) SubscriptionsByAudience() ([]EntityCount, error) {
	list, err := audiences.Search(e.db, e.search, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("subscriptions by audience: %w", err)
	}
	rows := make([]EntityCount, 0, len(list))
	for _, a := range list {
		subs, err := subscriptions.ForAudience(e.db, a.ID, e.start, e.end)
		if err != nil {
			return nil, fmt.Errorf("subscriptions by audience: %w", err)
		}
		if len(subs) == 0 {
			continue
		}
		rows = append(rows, EntityCount{ID: a.ID, Title: a.Title, Count: len(subs)})
	}
	sortCountsDesc(rows)
	return rows, nil
}

// SubscriptionsByProduct counts the window's subscriptions per product.
func (e *Engine) SubscriptionsByProduct() ([]EntityCount, error) {
	list, err := products.Search(e.db, e.search, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("subscriptions by product: %w", err)
	}
	rows := make([]EntityCount, 0, len(list))
	for _, p := range list {
		subs, err := subscriptions.ForProduct(e.db, p.ID, e.start, e.end)
		if err != nil {
			return nil, fmt.Errorf("subscriptions by product: %w", err)
		}
		if len(subs) == 0 {
			continue
		}
		rows = append(rows, EntityCount{ID: p.ID, Title: p.Title, Count: len(subs)})
	}
	sortCountsDesc(rows)
	return rows, nil
}

// SubscriptionsByCity counts the window's subscriptions per targeted city.
func (e *Engine) SubscriptionsByCity() ([]EntityCount, error) {
	list, err := geo.SearchCities(e.db, e.search, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("subscriptions by city: %w", err)
	}
	rows := make([]EntityCount, 0, len(list))
	for _, c := range list {
		subs, err := subscriptions.ForCity(e.db, c.ID, e.start, e.end)
		if err != nil {
			return nil, fmt.Errorf("subscriptions by city: %w", err)
		}
		if len(subs) == 0 {
			continue
		}
		rows = append(rows, EntityCount{ID: c.ID, Title: c.Title, Count: len(subs)})
	}
	sortCountsDesc(rows)
	return rows, nil
}

// SubscriptionsByState counts the window's subscriptions per targeted state.
func (e *Engine) SubscriptionsByState() ([]EntityCount, error) {
	list, err := geo.SearchStates(e.db, e.search, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("subscriptions by state: %w", err)
	}
	rows := make([]EntityCount, 0, len(list))
	for _, s := range list {
		subs, err := subscriptions.ForState(e.db, s.ID, e.start, e.end)
		if err != nil {
			return nil, fmt.Errorf("subscriptions by state: %w", err)
		}
		if len(subs) == 0 {
			continue
		}
		rows = append(rows, EntityCount{ID: s.ID, Title: s.Title, Count: len(subs)})
	}
	sortCountsDesc(rows)
	return rows, nil
}

// SubscriptionsByCountry counts the window's subscriptions per targeted country.
func (e *Engine) SubscriptionsByCountry() ([]EntityCount, error) {
	list, err := geo.SearchCountries(e.db, e.search, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("subscriptions by country: %w", err)
	}
	rows := make([]EntityCount, 0, len(list))
	for _, c := range list {
		subs, err := subscriptions.ForCountry(e.db, c.ID, e.start, e.end)
		if err != nil {
			return nil, fmt.Errorf("subscriptions by country: %w", err)
		}
		if len(subs) == 0 {
			continue
		}
		rows = append(rows, EntityCount{ID: c.ID, Title: c.Title, Count: len(subs)})
	}
	sortCountsDesc(rows)
	return rows, nil
}

// EventsByPage counts the window's events per page.
func (e *Engine) EventsByPage() ([]EntityCount, error) {
	list, err := pages.Search(e.db, e.search, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("events by page: %w", err)
	}
	rows := make([]EntityCount, 0, len(list))
	for _, p := range list {
		evs, err := events.ForPage(e.db, p.ID, e.start, e.end)
		if err != nil {
			return nil, fmt.Errorf("events by page: %w", err)
		}
		if len(evs) == 0 {
			continue
		}
		rows = append(rows, EntityCount{ID: p.ID, Title: p.Title, Count: len(evs)})
	}
	sortCountsDesc(rows)
	return rows, nil
}
