// Package audiences owns the Audience entity: a named segment of people a
// campaign is addressed to.
package audiences

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Audience represents a campaign target segment
type Audience struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`
}

// Active returns all audiences that have not been soft-deleted, ordered by id.
func Active(db *gorm.DB) ([]Audience, error) {
	var audiences []Audience
	err := db.Where("audiences.deleted_at IS NULL").
		Order("audiences.id ASC").
		Find(&audiences).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active audiences: %w", err)
	}
	return audiences, nil
}

// Search filters active audiences by creation range and a case-insensitive
// title substring.
func Search(db *gorm.DB, search string, start, end time.Time) ([]Audience, error) {
	q := db.Model(&Audience{}).Where("audiences.deleted_at IS NULL")
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("audiences.created_at BETWEEN ? AND ?", start, end)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(audiences.title) LIKE ?", like)
	}

	var audiences []Audience
	if err := q.Order("audiences.id ASC").Find(&audiences).Error; err != nil {
		return nil, fmt.Errorf("failed to search audiences: %w", err)
	}
	return audiences, nil
}

// ByID retrieves an audience by its ID
func ByID(db *gorm.DB, id uint) (*Audience, error) {
	var audience Audience
	if err := db.First(&audience, id).Error; err != nil {
		return nil, err
	}
	return &audience, nil
}

// Create creates a new audience
func Create(db *gorm.DB, audience *Audience) error {
	audience.CreatedAt = time.Now().UTC()
	return db.Create(audience).Error
}

// Update persists changes to an existing audience
func Update(db *gorm.DB, audience *Audience) error {
	return db.Save(audience).Error
}

// SoftDelete marks an audience as deleted; an already-deleted row keeps its
// original deleted_at.
func SoftDelete(db *gorm.DB, audience *Audience) error {
	if audience.DeletedAt == nil {
		now := time.Now().UTC()
		audience.DeletedAt = &now
	}
	return db.Save(audience).Error
}
