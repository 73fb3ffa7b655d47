// Package seeder populates a database with demo data so the dashboard has
// something to show on a fresh install.
package seeder

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/pariz/gountries"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"adlens/internal/audiences"
	"adlens/internal/campaigns"
	"adlens/internal/clients"
	"adlens/internal/events"
	"adlens/internal/geo"
	"adlens/internal/metrics"
	"adlens/internal/pages"
	"adlens/internal/products"
	"adlens/internal/subscriptions"
)

const (
	seedDays          = 120
	statesPerCountry  = 4
	citiesPerState    = 2
	clientCount       = 60
	eventCount        = 400
	subscriptionShare = 0.35
)

var seedCountries = []string{"US", "GB", "DE"}

var audienceTitles = []string{
	"Early Adopters", "Small Business Owners", "Enterprise Buyers",
	"Students", "Remote Teams",
}

var productSeeds = []struct {
	title string
	cost  string
}{
	{"Starter Plan", "4.50"},
	{"Pro Plan", "12.00"},
	{"Team Plan", "28.00"},
	{"Enterprise Plan", "95.00"},
}

var pageSeeds = []struct {
	title string
	url   string
}{
	{"Homepage", "https://example.com/"},
	{"Pricing", "https://example.com/pricing"},
	{"Features", "https://example.com/features"},
	{"Signup", "https://example.com/signup"},
	{"Blog", "https://example.com/blog"},
}

// Run seeds geography, targeting entities, pages, metrics and a spread of
// randomized events and subscriptions over the last few months.
func Run(db *gorm.DB) error {
	cities, err := seedGeography(db)
	if err != nil {
		return err
	}

	var audienceList []audiences.Audience
	for _, title := range audienceTitles {
		a := audiences.Audience{Title: title}
		if err := audiences.Create(db, &a); err != nil {
			return fmt.Errorf("failed to seed audience %q: %w", title, err)
		}
		audienceList = append(audienceList, a)
	}

	var productList []products.Product
	for _, seed := range productSeeds {
		cost, err := decimal.NewFromString(seed.cost)
		if err != nil {
			return fmt.Errorf("invalid product cost %q: %w", seed.cost, err)
		}
		p := products.Product{Title: seed.title, Cost: cost}
		if err := products.Create(db, &p); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", seed.title, err)
		}
		productList = append(productList, p)
	}

	var clientList []clients.Client
	for i := 0; i < clientCount; i++ {
		c := clients.Client{
			Name:  fmt.Sprintf("Client %03d", i+1),
			Email: fmt.Sprintf("client%03d@example.com", i+1),
		}
		if err := clients.Create(db, &c); err != nil {
			return fmt.Errorf("failed to seed client: %w", err)
		}
		clientList = append(clientList, c)
	}

	var campaignList []campaigns.Campaign
	for i, a := range audienceList {
		city := cities[rand.IntN(len(cities))]
		spend := decimal.NewFromInt(int64(200 + rand.IntN(1800)))
		c := campaigns.Campaign{
			Title:      fmt.Sprintf("%s Push Q%d", a.Title, i%4+1),
			AudienceID: a.ID,
			CityID:     city.ID,
			Spend:      spend,
			IsActive:   true,
		}
		if err := campaigns.Create(db, &c); err != nil {
			return fmt.Errorf("failed to seed campaign: %w", err)
		}
		campaignList = append(campaignList, c)
	}

	var pageList []pages.Page
	for _, seed := range pageSeeds {
		p := pages.Page{Title: seed.title, URL: seed.url}
		if err := pages.Create(db, &p); err != nil {
			return fmt.Errorf("failed to seed page %q: %w", seed.title, err)
		}
		pageList = append(pageList, p)
	}

	var metricList []metrics.Metric
	for _, c := range campaignList {
		for _, page := range pageList[:2+rand.IntN(len(pageList)-1)] {
			metricType := metrics.TypeView
			if rand.IntN(2) == 1 {
				metricType = metrics.TypeClick
			}
			m := metrics.Metric{
				Title:      fmt.Sprintf("%s / %s", c.Title, page.Title),
				Type:       metricType,
				CampaignID: c.ID,
				PageID:     page.ID,
			}
			if err := metrics.Create(db, &m); err != nil {
				return fmt.Errorf("failed to seed metric: %w", err)
			}
			metricList = append(metricList, m)
		}
	}

	return seedActivity(db, clientList, metricList, productList)
}

// seedGeography creates countries, their states and a couple of cities per
// state. Country and subdivision names come from the ISO dataset.
func seedGeography(db *gorm.DB) ([]geo.City, error) {
	query := gountries.New()
	var cities []geo.City

	for _, alpha := range seedCountries {
		found, err := query.FindCountryByAlpha(alpha)
		if err != nil {
			return nil, fmt.Errorf("unknown seed country %q: %w", alpha, err)
		}

		country := geo.Country{Title: found.Name.Common}
		if err := geo.CreateCountry(db, &country); err != nil {
			return nil, fmt.Errorf("failed to seed country %q: %w", country.Title, err)
		}

		subdivisions := found.SubDivisions()
		for i, sub := range subdivisions {
			if i >= statesPerCountry {
				break
			}
			state := geo.State{Title: sub.Name, CountryID: country.ID}
			if err := geo.CreateState(db, &state); err != nil {
				return nil, fmt.Errorf("failed to seed state %q: %w", state.Title, err)
			}

			for j := 0; j < citiesPerState; j++ {
				title := fmt.Sprintf("%s City", sub.Name)
				if j > 0 {
					title = fmt.Sprintf("%s Heights", strings.TrimSuffix(sub.Name, " City"))
				}
				city := geo.City{Title: title, StateID: state.ID}
				if err := geo.CreateCity(db, &city); err != nil {
					return nil, fmt.Errorf("failed to seed city %q: %w", city.Title, err)
				}
				cities = append(cities, city)
			}
		}
	}

	if len(cities) == 0 {
		return nil, fmt.Errorf("no cities seeded")
	}
	return cities, nil
}

// seedActivity spreads events over the trailing window and converts a share
// of them into subscriptions, some already canceled.
func seedActivity(db *gorm.DB, clientList []clients.Client, metricList []metrics.Metric, productList []products.Product) error {
	now := time.Now().UTC()

	for i := 0; i < eventCount; i++ {
		createdAt := now.
			AddDate(0, 0, -rand.IntN(seedDays)).
			Add(-time.Duration(rand.IntN(24)) * time.Hour)

		event := events.Event{
			ClientID: clientList[rand.IntN(len(clientList))].ID,
			MetricID: metricList[rand.IntN(len(metricList))].ID,
			Value:    decimal.NewFromInt(int64(rand.IntN(50))),
		}
		if err := events.Create(db, &event); err != nil {
			return fmt.Errorf("failed to seed event: %w", err)
		}
		// Backdate after create so the spread survives the create hook.
		event.CreatedAt = createdAt
		if err := events.Update(db, &event); err != nil {
			return fmt.Errorf("failed to backdate event: %w", err)
		}

		if rand.Float64() > subscriptionShare {
			continue
		}

		product := productList[rand.IntN(len(productList))]
		price := product.Cost.Add(decimal.NewFromInt(int64(5 + rand.IntN(40))))
		sub := subscriptions.Subscription{
			EventID:   event.ID,
			ProductID: product.ID,
			Price:     price,
		}
		if err := subscriptions.Create(db, &sub); err != nil {
			return fmt.Errorf("failed to seed subscription: %w", err)
		}
		sub.CreatedAt = createdAt
		if rand.IntN(4) == 0 {
			canceledAt := createdAt.AddDate(0, 1+rand.IntN(3), 0)
			if canceledAt.After(now) {
				canceledAt = now
			}
			sub.CanceledAt = &canceledAt
		}
		if err := subscriptions.Update(db, &sub); err != nil {
			return fmt.Errorf("failed to backdate subscription: %w", err)
		}
	}

	return nil
}
