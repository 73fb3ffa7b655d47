// Package pages owns the Page entity and its derived Metadata record.
//
// A Page is a tracked landing URL. Its Metadata row is never created directly
// by API consumers: the extractor builds it lazily from the page's declared
// meta tags the first time the page is saved, and updates it idempotently on
// every refresh after that.
package pages

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Page represents a tracked landing page
type Page struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	URL       string     `gorm:"not null" json:"url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`
}

// Metadata holds the typed fields extracted from a page's meta tags
type Metadata struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	PageID      uint       `gorm:"not null;uniqueIndex" json:"page_id"`
	Title       string     `json:"title"`
	Site        string     `json:"site"`
	Image       string     `json:"image"`
	Locale      string     `json:"locale"`
	Description string     `json:"description"`
	Keywords    string     `json:"keywords"`
	Author      string     `json:"author"`
	Viewport    string     `json:"viewport"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `gorm:"index" json:"deleted_at"`
}

// TableName keeps the uncountable noun as-is instead of gorm's pluralization.
func (Metadata) TableName() string {
	return "metadata"
}

// Active returns all pages that have not been soft-deleted, ordered by id.
func Active(db *gorm.DB) ([]Page, error) {
	var pagesList []Page
	err := db.Where("pages.deleted_at IS NULL").
		Order("pages.id ASC").
		Find(&pagesList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active pages: %w", err)
	}
	return pagesList, nil
}

// Search filters active pages; the text predicate matches the page title, its
// URL, or any of the extracted metadata text fields.
func Search(db *gorm.DB, search string, start, end time.Time) ([]Page, error) {
	q := db.Model(&Page{}).Where("pages.deleted_at IS NULL")
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("pages.created_at BETWEEN ? AND ?", start, end)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("LEFT JOIN metadata ON metadata.page_id = pages.id").
			Where(`LOWER(pages.title) LIKE ?
				OR LOWER(pages.url) LIKE ?
				OR LOWER(metadata.title) LIKE ?
				OR LOWER(metadata.site) LIKE ?
				OR LOWER(metadata.author) LIKE ?
				OR LOWER(metadata.keywords) LIKE ?
				OR LOWER(metadata.description) LIKE ?`,
				like, like, like, like, like, like, like)
	}

	var pagesList []Page
	if err := q.Order("pages.id ASC").Find(&pagesList).Error; err != nil {
		return nil, fmt.Errorf("failed to search pages: %w", err)
	}
	return pagesList, nil
}

// SearchMetadata filters active metadata rows; the text predicate matches the
// extracted title, site, author, keywords, or description.
func SearchMetadata(db *gorm.DB, search string, start, end time.Time) ([]Metadata, error) {
	q := db.Model(&Metadata{}).Where("metadata.deleted_at IS NULL")
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("metadata.created_at BETWEEN ? AND ?", start, end)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(`LOWER(metadata.title) LIKE ?
			OR LOWER(metadata.site) LIKE ?
			OR LOWER(metadata.author) LIKE ?
			OR LOWER(metadata.keywords) LIKE ?
			OR LOWER(metadata.description) LIKE ?`,
			like, like, like, like, like)
	}

	var rows []Metadata
	if err := q.Order("metadata.id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search metadata: %w", err)
	}
	return rows, nil
}

// ByID retrieves a page by its ID
func ByID(db *gorm.DB, id uint) (*Page, error) {
	var page Page
	if err := db.First(&page, id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// MetadataByID retrieves a metadata row by its ID
func MetadataByID(db *gorm.DB, id uint) (*Metadata, error) {
	var md Metadata
	if err := db.First(&md, id).Error; err != nil {
		return nil, err
	}
	return &md, nil
}

// MetadataForPage retrieves the metadata row belonging to a page, or
// gorm.ErrRecordNotFound when none has been extracted yet.
func MetadataForPage(db *gorm.DB, pageID uint) (*Metadata, error) {
	var md Metadata
	if err := db.Where("page_id = ?", pageID).First(&md).Error; err != nil {
		return nil, err
	}
	return &md, nil
}

// AllMetadata returns every metadata row, ordered by id.
func AllMetadata(db *gorm.DB) ([]Metadata, error) {
	var rows []Metadata
	if err := db.Order("metadata.id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	return rows, nil
}

// Create creates a new page
func Create(db *gorm.DB, page *Page) error {
	page.CreatedAt = time.Now().UTC()
	return db.Create(page).Error
}

// Update persists changes to an existing page
func Update(db *gorm.DB, page *Page) error {
	return db.Save(page).Error
}

// SoftDelete marks a page as deleted and cascades the deletion to its
// metadata row. This is the only cascaded soft delete in the model.
func SoftDelete(db *gorm.DB, page *Page) error {
	now := time.Now().UTC()
	if page.DeletedAt == nil {
		page.DeletedAt = &now
	}
	if err := db.Save(page).Error; err != nil {
		return err
	}

	md, err := MetadataForPage(db, page.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return fmt.Errorf("failed to load metadata for page %d: %w", page.ID, err)
	}
	if md.DeletedAt == nil {
		md.DeletedAt = &now
	}
	return db.Save(md).Error
}
