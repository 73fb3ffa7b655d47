package pages

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"gorm.io/gorm"
)

// FetchError represents a non-200 response while downloading a page
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: status %d", e.URL, e.StatusCode)
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int) *FetchError {
	return &FetchError{URL: url, StatusCode: statusCode}
}

// ContentCache stores the raw HTML downloaded for a page URL so repeated
// metadata refreshes don't hammer the upstream site.
type ContentCache struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	URL       string    `gorm:"uniqueIndex;not null"`
	Body      []byte    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CachedBody returns the HTML body for a URL, fetching and caching it on a
// miss. A non-200 upstream response surfaces as *FetchError.
func CachedBody(db *gorm.DB, client *http.Client, url string) ([]byte, error) {
	var record ContentCache
	err := db.Where("url = ?", url).First(&record).Error
	if err == nil {
		return record.Body, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to read content cache for %s: %w", url, err)
	}

	body, err := fetch(client, url)
	if err != nil {
		return nil, err
	}

	record = ContentCache{URL: url, Body: body, CreatedAt: time.Now().UTC()}
	if err := db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to cache content for %s: %w", url, err)
	}
	return body, nil
}

func fetch(client *http.Client, url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewFetchError(url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	return body, nil
}
