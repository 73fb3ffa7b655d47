// Package subscriptions owns the Subscription entity and its derived revenue
// metrics. A subscription links the event that won the client to the product
// they pay for; margin, lifetime and LTV are computed here, not stored.
package subscriptions

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"adlens/internal/events"
	"adlens/internal/products"
)

// Subscription represents a client paying a recurring price for a product,
// attributed to the event that converted them.
type Subscription struct {
	ID         uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID    uint             `gorm:"not null;index" json:"event_id"`
	Event      events.Event     `json:"-"`
	ProductID  uint             `gorm:"not null;index" json:"product_id"`
	Product    products.Product `json:"-"`
	Price      decimal.Decimal  `gorm:"type:decimal(10,4);not null" json:"price"`
	CanceledAt *time.Time       `json:"canceled_at"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  *time.Time       `gorm:"index" json:"deleted_at"`
}

// Margin is the monthly profit of the subscription: price minus product cost.
// Product must be preloaded.
func (s *Subscription) Margin() decimal.Decimal {
	return s.Price.Sub(s.Product.Cost)
}

// Life is the subscription lifetime in whole months, counted from creation to
// cancellation (or now while still active). Only year and month take part;
// day-of-month is ignored, so Jan 31 to Feb 1 counts one month.
func (s *Subscription) Life(now time.Time) int {
	end := now
	if s.CanceledAt != nil {
		end = *s.CanceledAt
	}
	return (end.Year()-s.CreatedAt.Year())*12 + int(end.Month()) - int(s.CreatedAt.Month())
}

// LTV is lifetime value: months of life times monthly margin.
func (s *Subscription) LTV(now time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(s.Life(now))).Mul(s.Margin())
}

// Active returns all subscriptions that have not been soft-deleted, ordered by id.
func Active(db *gorm.DB) ([]Subscription, error) {
	var subs []Subscription
	err := db.Preload("Product").
		Where("subscriptions.deleted_at IS NULL").
		Order("subscriptions.id ASC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}
	return subs, nil
}

// Search filters active subscriptions by a text predicate over the product
// title, the converting client, and the campaign reference chain.
func Search(db *gorm.DB, search string, start, end time.Time) ([]Subscription, error) {
	q := db.Model(&Subscription{}).Where("subscriptions.deleted_at IS NULL")
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("subscriptions.created_at BETWEEN ? AND ?", start, end)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("JOIN products ON products.id = subscriptions.product_id").
			Joins("JOIN events ON events.id = subscriptions.event_id").
			Joins("JOIN clients ON clients.id = events.client_id").
			Joins("JOIN metrics ON metrics.id = events.metric_id").
			Joins("JOIN campaigns ON campaigns.id = metrics.campaign_id").
			Joins("JOIN audiences ON audiences.id = campaigns.audience_id").
			Joins("JOIN cities ON cities.id = campaigns.city_id").
			Joins("JOIN states ON states.id = cities.state_id").
			Joins("JOIN countries ON countries.id = states.country_id").
			Where(`LOWER(products.title) LIKE ?
				OR LOWER(clients.name) LIKE ?
				OR LOWER(clients.email) LIKE ?
				OR LOWER(campaigns.title) LIKE ?
				OR LOWER(audiences.title) LIKE ?
				OR LOWER(cities.title) LIKE ?
				OR LOWER(states.title) LIKE ?
				OR LOWER(countries.title) LIKE ?`,
				like, like, like, like, like, like, like, like)
	}

	var subs []Subscription
	err := q.Preload("Product").Order("subscriptions.id ASC").Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search subscriptions: %w", err)
	}
	return subs, nil
}

// InRange returns all active subscriptions created inside the window, with
// Product preloaded for the derived metrics, ordered by id.
func InRange(db *gorm.DB, start, end time.Time) ([]Subscription, error) {
	var subs []Subscription
	err := rangeQuery(db, start, end).Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions in range: %w", err)
	}
	return subs, nil
}

// ForCampaign returns the active subscriptions in the window attributed to
// the given campaign through their event's metric.
func ForCampaign(db *gorm.DB, campaignID uint, start, end time.Time) ([]Subscription, error) {
	var subs []Subscription
	err := rangeQuery(db, start, end).
		Joins("JOIN events ON events.id = subscriptions.event_id").
		Joins("JOIN metrics ON metrics.id = events.metric_id").
		Where("metrics.campaign_id = ?", campaignID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for campaign %d: %w", campaignID, err)
	}
	return subs, nil
}

// ForAudience returns the active subscriptions in the window whose campaign
// targets the given audience.
func ForAudience(db *gorm.DB, audienceID uint, start, end time.Time) ([]Subscription, error) {
	var subs []Subscription
	err := rangeQuery(db, start, end).
		Joins("JOIN events ON events.id = subscriptions.event_id").
		Joins("JOIN metrics ON metrics.id = events.metric_id").
		Joins("JOIN campaigns ON campaigns.id = metrics.campaign_id").
		Where("campaigns.audience_id = ?", audienceID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for audience %d: %w", audienceID, err)
	}
	return subs, nil
}

// ForCity returns the active subscriptions in the window whose campaign
// targets the given city.
func ForCity(db *gorm.DB, cityID uint, start, end time.Time) ([]Subscription, error) {
	var subs []Subscription
	err := rangeQuery(db, start, end).
		Joins("JOIN events ON events.id = subscriptions.event_id").
		Joins("JOIN metrics ON metrics.id = events.metric_id").
		Joins("JOIN campaigns ON campaigns.id = metrics.campaign_id").
		Where("campaigns.city_id = ?", cityID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for city %d: %w", cityID, err)
	}
	return subs, nil
}

// ForState returns the active subscriptions in the window whose campaign
// targets a city in the given state.
func ForState(db *gorm.DB, stateID uint, start, end time.Time) ([]Subscription, error) {
	var subs []Subscription
	err := rangeQuery(db, start, end).
		Joins("JOIN events ON events.id = subscriptions.event_id").
		Joins("JOIN metrics ON metrics.id = events.metric_id").
		Joins("JOIN campaigns ON campaigns.id = metrics.campaign_id").
		Joins("JOIN cities ON cities.id = campaigns.city_id").
		Where("cities.state_id = ?", stateID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for state %d: %w", stateID, err)
	}
	return subs, nil
}

// ForCountry returns the active subscriptions in the window whose campaign
// targets a city in the given country.
func ForCountry(db *gorm.DB, countryID uint, start, end time.Time) ([]Subscription, error) {
	var subs []Subscription
	err := rangeQuery(db, start, end).
		Joins("JOIN events ON events.id = subscriptions.event_id").
		Joins("JOIN metrics ON metrics.id = events.metric_id").
		Joins("JOIN campaigns ON campaigns.id = metrics.campaign_id").
		Joins("JOIN cities ON cities.id = campaigns.city_id").
		Joins("JOIN states ON states.id = cities.state_id").
		Where("states.country_id = ?", countryID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for country %d: %w", countryID, err)
	}
	return subs, nil
}

// ForProduct returns the active subscriptions in the window for the product.
func ForProduct(db *gorm.DB, productID uint, start, end time.Time) ([]Subscription, error) {
	var subs []Subscription
	err := rangeQuery(db, start, end).
		Where("subscriptions.product_id = ?", productID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for product %d: %w", productID, err)
	}
	return subs, nil
}

// ForClient returns the active subscriptions in the window held by the client.
func ForClient(db *gorm.DB, clientID uint, start, end time.Time) ([]Subscription, error) {
	var subs []Subscription
	err := rangeQuery(db, start, end).
		Joins("JOIN events ON events.id = subscriptions.event_id").
		Where("events.client_id = ?", clientID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for client %d: %w", clientID, err)
	}
	return subs, nil
}

func rangeQuery(db *gorm.DB, start, end time.Time) *gorm.DB {
	return db.Preload("Product").
		Where("subscriptions.deleted_at IS NULL").
		Where("subscriptions.created_at BETWEEN ? AND ?", start, end).
		Order("subscriptions.id ASC")
}

// ByID retrieves a subscription by its ID
func ByID(db *gorm.DB, id uint) (*Subscription, error) {
	var sub Subscription
	if err := db.Preload("Product").First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create creates a new subscription
func Create(db *gorm.DB, sub *Subscription) error {
	sub.CreatedAt = time.Now().UTC()
	return db.Create(sub).Error
}

// Update persists changes to an existing subscription
func Update(db *gorm.DB, sub *Subscription) error {
	return db.Save(sub).Error
}

// Destroy retires a subscription: it is canceled first if still running, then
// soft-deleted. Both timestamps are monotonic, set once and never cleared.
func Destroy(db *gorm.DB, sub *Subscription) error {
	now := time.Now().UTC()
	if sub.CanceledAt == nil {
		sub.CanceledAt = &now
	}
	if sub.DeletedAt == nil {
		sub.DeletedAt = &now
	}
	return db.Save(sub).Error
}
