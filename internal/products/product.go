// Package products owns the Product entity: a sellable item with a unit cost
// that subscription margins are computed against.
package products

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a sellable item
type Product struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string          `gorm:"not null" json:"title"`
	Cost      decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"cost"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `gorm:"index" json:"deleted_at"`
}

// Active returns all products that have not been soft-deleted, ordered by id.
func Active(db *gorm.DB) ([]Product, error) {
	var products []Product
	err := db.Where("products.deleted_at IS NULL").
		Order("products.id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}
	return products, nil
}

// Search filters active products by creation range and a case-insensitive
// title substring.
func Search(db *gorm.DB, search string, start, end time.Time) ([]Product, error) {
	q := db.Model(&Product{}).Where("products.deleted_at IS NULL")
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("products.created_at BETWEEN ? AND ?", start, end)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(products.title) LIKE ?", like)
	}

	var products []Product
	if err := q.Order("products.id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// ByID retrieves a product by its ID
func ByID(db *gorm.DB, id uint) (*Product, error) {
	var product Product
	if err := db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create creates a new product
func Create(db *gorm.DB, product *Product) error {
	product.CreatedAt = time.Now().UTC()
	return db.Create(product).Error
}

// Update persists changes to an existing product
func Update(db *gorm.DB, product *Product) error {
	return db.Save(product).Error
}

// SoftDelete marks a product as deleted; an already-deleted row keeps its
// original deleted_at.
func SoftDelete(db *gorm.DB, product *Product) error {
	if product.DeletedAt == nil {
		now := time.Now().UTC()
		product.DeletedAt = &now
	}
	return db.Save(product).Error
}
