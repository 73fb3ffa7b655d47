// Package metrics owns the Metric entity: a measurable interaction (a view
// or a click) that links a campaign to the page it drives traffic to.
package metrics

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"adlens/internal/campaigns"
	"adlens/internal/pages"
)

// MetricType is the 2-char interaction code stored on a metric
type MetricType string

// Supported metric types
const (
	TypeView  MetricType = "VI"
	TypeClick MetricType = "CL"
)

// Metric represents a campaign interaction funnel step on a page
type Metric struct {
	ID         uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	Title      string             `gorm:"not null" json:"title"`
	Type       MetricType         `gorm:"column:metric_type;size:2;not null;default:'VI'" json:"metric_type"`
	CampaignID uint               `gorm:"not null;index" json:"campaign_id"`
	Campaign   campaigns.Campaign `json:"-"`
	PageID     uint               `gorm:"not null;index" json:"page_id"`
	Page       pages.Page         `json:"-"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	DeletedAt  *time.Time         `gorm:"index" json:"deleted_at"`
}

// Valid reports whether the metric type is one of the supported codes.
func (t MetricType) Valid() bool {
	return t == TypeView || t == TypeClick
}

// Active returns all metrics that have not been soft-deleted, ordered by id.
func Active(db *gorm.DB) ([]Metric, error) {
	var metricsList []Metric
	err := db.Where("metrics.deleted_at IS NULL").
		Order("metrics.id ASC").
		Find(&metricsList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active metrics: %w", err)
	}
	return metricsList, nil
}

// Search filters active metrics; the text predicate matches the metric title,
// the campaign reference chain, or the page title/URL.
func Search(db *gorm.DB, search string, start, end time.Time) ([]Metric, error) {
	q := db.Model(&Metric{}).Where("metrics.deleted_at IS NULL")
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("metrics.created_at BETWEEN ? AND ?", start, end)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("JOIN campaigns ON campaigns.id = metrics.campaign_id").
			Joins("JOIN audiences ON audiences.id = campaigns.audience_id").
			Joins("JOIN cities ON cities.id = campaigns.city_id").
			Joins("JOIN states ON states.id = cities.state_id").
			Joins("JOIN countries ON countries.id = states.country_id").
			Joins("JOIN pages ON pages.id = metrics.page_id").
			Where(`LOWER(metrics.title) LIKE ?
				OR LOWER(campaigns.title) LIKE ?
				OR LOWER(audiences.title) LIKE ?
				OR LOWER(cities.title) LIKE ?
				OR LOWER(states.title) LIKE ?
				OR LOWER(countries.title) LIKE ?
				OR LOWER(pages.title) LIKE ?
				OR LOWER(pages.url) LIKE ?`,
				like, like, like, like, like, like, like, like)
	}

	var metricsList []Metric
	if err := q.Order("metrics.id ASC").Find(&metricsList).Error; err != nil {
		return nil, fmt.Errorf("failed to search metrics: %w", err)
	}
	return metricsList, nil
}

// ByID retrieves a metric by its ID
func ByID(db *gorm.DB, id uint) (*Metric, error) {
	var metric Metric
	if err := db.First(&metric, id).Error; err != nil {
		return nil, err
	}
	return &metric, nil
}

// Create creates a new metric
func Create(db *gorm.DB, metric *Metric) error {
	if metric.Type == "" {
		metric.Type = TypeView
	}
	if !metric.Type.Valid() {
		return fmt.Errorf("invalid metric type: %s", metric.Type)
	}
	metric.CreatedAt = time.Now().UTC()
	return db.Create(metric).Error
}

// Update persists changes to an existing metric
func Update(db *gorm.DB, metric *Metric) error {
	if !metric.Type.Valid() {
		return fmt.Errorf("invalid metric type: %s", metric.Type)
	}
	return db.Save(metric).Error
}

// SoftDelete marks a metric as deleted; an already-deleted row keeps its
// original deleted_at.
func SoftDelete(db *gorm.DB, metric *Metric) error {
	if metric.DeletedAt == nil {
		now := time.Now().UTC()
		metric.DeletedAt = &now
	}
	return db.Save(metric).Error
}
