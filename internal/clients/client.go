// Package clients owns the Client entity: a person whose page interactions
// produce events and, eventually, subscriptions.
package clients

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Client represents a tracked person
type Client struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"not null;default:''" json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`
}

// Active returns all clients that have not been soft-deleted, ordered by id.
func Active(db *gorm.DB) ([]Client, error) {
	var clientsList []Client
	err := db.Where("clients.deleted_at IS NULL").
		Order("clients.id ASC").
		Find(&clientsList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active clients: %w", err)
	}
	return clientsList, nil
}

// Search filters active clients; the text predicate matches name or email.
func Search(db *gorm.DB, search string, start, end time.Time) ([]Client, error) {
	q := db.Model(&Client{}).Where("clients.deleted_at IS NULL")
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("clients.created_at BETWEEN ? AND ?", start, end)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(clients.name) LIKE ? OR LOWER(clients.email) LIKE ?", like, like)
	}

	var clientsList []Client
	if err := q.Order("clients.id ASC").Find(&clientsList).Error; err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return clientsList, nil
}

// ByID retrieves a client by its ID
func ByID(db *gorm.DB, id uint) (*Client, error) {
	var client Client
	if err := db.First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// Create creates a new client
func Create(db *gorm.DB, client *Client) error {
	client.CreatedAt = time.Now().UTC()
	return db.Create(client).Error
}

// Update persists changes to an existing client
func Update(db *gorm.DB, client *Client) error {
	return db.Save(client).Error
}

// SoftDelete marks a client as deleted; an already-deleted row keeps its
// original deleted_at.
func SoftDelete(db *gorm.DB, client *Client) error {
	if client.DeletedAt == nil {
		now := time.Now().UTC()
		client.DeletedAt = &now
	}
	return db.Save(client).Error
}
