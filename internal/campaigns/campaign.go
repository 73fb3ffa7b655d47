// Package campaigns owns the Campaign entity: a paid advertising push aimed
// at an audience within a city, carrying a total spend figure that net-margin
// reports subtract from subscription revenue.
package campaigns

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"adlens/internal/audiences"
	"adlens/internal/geo"
)

// Campaign represents an advertising campaign
type Campaign struct {
	ID         uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	Title      string             `gorm:"not null" json:"title"`
	AudienceID uint               `gorm:"not null;index" json:"audience_id"`
	Audience   audiences.Audience `json:"-"`
	CityID     uint               `gorm:"not null;index" json:"city_id"`
	City       geo.City           `json:"-"`
	Spend      decimal.Decimal    `gorm:"type:decimal(10,4);not null" json:"spend"`
	IsActive   bool               `gorm:"not null;default:false" json:"is_active"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	DeletedAt  *time.Time         `gorm:"index" json:"deleted_at"`
}

// Active returns all campaigns that have not been soft-deleted, ordered by id.
// IsActive is a display flag and does not affect this predicate.
func Active(db *gorm.DB) ([]Campaign, error) {
	var campaignsList []Campaign
	err := db.Where("campaigns.deleted_at IS NULL").
		Order("campaigns.id ASC").
		Find(&campaignsList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active campaigns: %w", err)
	}
	return campaignsList, nil
}

// Search filters active campaigns; the text predicate matches the campaign
// title or any title along the audience/city/state/country reference chain.
func Search(db *gorm.DB, search string, start, end time.Time) ([]Campaign, error) {
	q := db.Model(&Campaign{}).Where("campaigns.deleted_at IS NULL")
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("campaigns.created_at BETWEEN ? AND ?", start, end)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("JOIN audiences ON audiences.id = campaigns.audience_id").
			Joins("JOIN cities ON cities.id = campaigns.city_id").
			Joins("JOIN states ON states.id = cities.state_id").
			Joins("JOIN countries ON countries.id = states.country_id").
			Where(`LOWER(campaigns.title) LIKE ?
				OR LOWER(audiences.title) LIKE ?
				OR LOWER(cities.title) LIKE ?
				OR LOWER(states.title) LIKE ?
				OR LOWER(countries.title) LIKE ?`,
				like, like, like, like, like)
	}

	var campaignsList []Campaign
	if err := q.Order("campaigns.id ASC").Find(&campaignsList).Error; err != nil {
		return nil, fmt.Errorf("failed to search campaigns: %w", err)
	}
	return campaignsList, nil
}

// ByID retrieves a campaign by its ID
func ByID(db *gorm.DB, id uint) (*Campaign, error) {
	var campaign Campaign
	if err := db.First(&campaign, id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// Create creates a new campaign
func Create(db *gorm.DB, campaign *Campaign) error {
	campaign.CreatedAt = time.Now().UTC()
	return db.Create(campaign).Error
}

// Update persists changes to an existing campaign
func Update(db *gorm.DB, campaign *Campaign) error {
	return db.Save(campaign).Error
}

// SoftDelete marks a campaign as deleted; an already-deleted row keeps its
// original deleted_at.
func SoftDelete(db *gorm.DB, campaign *Campaign) error {
	if campaign.DeletedAt == nil {
		now := time.Now().UTC()
		campaign.DeletedAt = &now
	}
	return db.Save(campaign).Error
}
