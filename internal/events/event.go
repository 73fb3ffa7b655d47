// Package events owns the Event entity: a single client interaction with a
// metric, carrying the monetary value attributed to it.
package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"adlens/internal/clients"
	"adlens/internal/metrics"
)

// Event represents one client interaction with a metric
type Event struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID  uint            `gorm:"not null;index" json:"client_id"`
	Client    clients.Client  `json:"-"`
	MetricID  uint            `gorm:"not null;index" json:"metric_id"`
	Metric    metrics.Metric  `json:"-"`
	Value     decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `gorm:"index" json:"deleted_at"`
}

// Active returns all events that have not been soft-deleted, ordered by id.
func Active(db *gorm.DB) ([]Event, error) {
	var eventsList []Event
	err := db.Where("events.deleted_at IS NULL").
		Order("events.id ASC").
		Find(&eventsList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active events: %w", err)
	}
	return eventsList, nil
}

// Search filters active events; the text predicate reaches through the full
// attribution graph: client identity, the campaign reference chain, and the
// page with its extracted metadata.
func Search(db *gorm.DB, search string, start, end time.Time) ([]Event, error) {
	q := db.Model(&Event{}).Where("events.deleted_at IS NULL")
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("events.created_at BETWEEN ? AND ?", start, end)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("JOIN clients ON clients.id = events.client_id").
			Joins("JOIN metrics ON metrics.id = events.metric_id").
			Joins("JOIN campaigns ON campaigns.id = metrics.campaign_id").
			Joins("JOIN audiences ON audiences.id = campaigns.audience_id").
			Joins("JOIN cities ON cities.id = campaigns.city_id").
			Joins("JOIN states ON states.id = cities.state_id").
			Joins("JOIN countries ON countries.id = states.country_id").
			Joins("JOIN pages ON pages.id = metrics.page_id").
			Joins("LEFT JOIN metadata ON metadata.page_id = pages.id").
			Where(`LOWER(clients.name) LIKE ?
				OR LOWER(clients.email) LIKE ?
				OR LOWER(campaigns.title) LIKE ?
				OR LOWER(audiences.title) LIKE ?
				OR LOWER(cities.title) LIKE ?
				OR LOWER(states.title) LIKE ?
				OR LOWER(countries.title) LIKE ?
				OR LOWER(pages.title) LIKE ?
				OR LOWER(pages.url) LIKE ?
				OR LOWER(metadata.title) LIKE ?
				OR LOWER(metadata.site) LIKE ?
				OR LOWER(metadata.author) LIKE ?
				OR LOWER(metadata.keywords) LIKE ?
				OR LOWER(metadata.description) LIKE ?`,
				like, like, like, like, like, like, like,
				like, like, like, like, like, like, like)
	}

	var eventsList []Event
	if err := q.Order("events.id ASC").Find(&eventsList).Error; err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	return eventsList, nil
}

// InRange returns all active events created inside the window, ordered by id.
func InRange(db *gorm.DB, start, end time.Time) ([]Event, error) {
	var eventsList []Event
	err := db.Where("events.deleted_at IS NULL").
		Where("events.created_at BETWEEN ? AND ?", start, end).
		Order("events.id ASC").
		Find(&eventsList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events in range: %w", err)
	}
	return eventsList, nil
}

// ForPage returns the active events in the window whose metric drives the
// given page. Only the event's own deletion state is considered.
func ForPage(db *gorm.DB, pageID uint, start, end time.Time) ([]Event, error) {
	var eventsList []Event
	err := db.Joins("JOIN metrics ON metrics.id = events.metric_id").
		Where("events.deleted_at IS NULL").
		Where("events.created_at BETWEEN ? AND ?", start, end).
		Where("metrics.page_id = ?", pageID).
		Order("events.id ASC").
		Find(&eventsList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events for page %d: %w", pageID, err)
	}
	return eventsList, nil
}

// ByID retrieves an event by its ID
func ByID(db *gorm.DB, id uint) (*Event, error) {
	var event Event
	if err := db.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Create creates a new event
func Create(db *gorm.DB, event *Event) error {
	event.CreatedAt = time.Now().UTC()
	return db.Create(event).Error
}

// Update persists changes to an existing event
func Update(db *gorm.DB, event *Event) error {
	return db.Save(event).Error
}

// SoftDelete marks an event as deleted; an already-deleted row keeps its
// original deleted_at.
func SoftDelete(db *gorm.DB, event *Event) error {
	if event.DeletedAt == nil {
		now := time.Now().UTC()
		event.DeletedAt = &now
	}
	return db.Save(event).Error
}
