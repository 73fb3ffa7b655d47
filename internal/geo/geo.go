// Package geo owns the geographic targeting hierarchy: countries contain
// states, states contain cities, and campaigns target a single city.
package geo

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Country represents a top-level geographic region
type Country struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`
}

// State represents a country subdivision
type State struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	CountryID uint       `gorm:"not null;index" json:"country_id"`
	Country   Country    `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`
}

// City represents a campaign-targetable locality
type City struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	StateID   uint       `gorm:"not null;index" json:"state_id"`
	State     State      `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`
}

// ActiveCountries returns all countries that have not been soft-deleted,
// ordered by id ascending.
func ActiveCountries(db *gorm.DB) ([]Country, error) {
	var countries []Country
	err := db.Where("countries.deleted_at IS NULL").
		Order("countries.id ASC").
		Find(&countries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active countries: %w", err)
	}
	return countries, nil
}

// SearchCountries filters active countries by creation range and a
// case-insensitive title substring.
func SearchCountries(db *gorm.DB, search string, start, end time.Time) ([]Country, error) {
	q := db.Model(&Country{}).Where("countries.deleted_at IS NULL")
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("countries.created_at BETWEEN ? AND ?", start, end)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(countries.title) LIKE ?", like)
	}

	var countries []Country
	if err := q.Order("countries.id ASC").Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("failed to search countries: %w", err)
	}
	return countries, nil
}

// ActiveStates returns all states that have not been soft-deleted.
func ActiveStates(db *gorm.DB) ([]State, error) {
	var states []State
	err := db.Where("states.deleted_at IS NULL").
		Order("states.id ASC").
		Find(&states).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active states: %w", err)
	}
	return states, nil
}

// SearchStates filters active states; the text predicate matches the state
// title or its country's title.
func SearchStates(db *gorm.DB, search string, start, end time.Time) ([]State, error) {
	q := db.Model(&State{}).Where("states.deleted_at IS NULL")
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("states.created_at BETWEEN ? AND ?", start, end)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("JOIN countries ON countries.id = states.country_id").
			Where("LOWER(states.title) LIKE ? OR LOWER(countries.title) LIKE ?", like, like)
	}

	var states []State
	if err := q.Order("states.id ASC").Find(&states).Error; err != nil {
		return nil, fmt.Errorf("failed to search states: %w", err)
	}
	return states, nil
}

// ActiveCities returns all cities that have not been soft-deleted.
func ActiveCities(db *gorm.DB) ([]City, error) {
	var cities []City
	err := db.Where("cities.deleted_at IS NULL").
		Order("cities.id ASC").
		Find(&cities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active cities: %w", err)
	}
	return cities, nil
}

// SearchCities filters active cities; the text predicate matches the city
// title or any title up the state/country chain.
func SearchCities(db *gorm.DB, search string, start, end time.Time) ([]City, error) {
	q := db.Model(&City{}).Where("cities.deleted_at IS NULL")
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("cities.created_at BETWEEN ? AND ?", start, end)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("JOIN states ON states.id = cities.state_id").
			Joins("JOIN countries ON countries.id = states.country_id").
			Where("LOWER(cities.title) LIKE ? OR LOWER(states.title) LIKE ? OR LOWER(countries.title) LIKE ?",
				like, like, like)
	}

	var cities []City
	if err := q.Order("cities.id ASC").Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("failed to search cities: %w", err)
	}
	return cities, nil
}

// CountryByID retrieves a country by its ID
func CountryByID(db *gorm.DB, id uint) (*Country, error) {
	var country Country
	if err := db.First(&country, id).Error; err != nil {
		return nil, err
	}
	return &country, nil
}

// StateByID retrieves a state by its ID
func StateByID(db *gorm.DB, id uint) (*State, error) {
	var state State
	if err := db.First(&state, id).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// CityByID retrieves a city by its ID
func CityByID(db *gorm.DB, id uint) (*City, error) {
	var city City
	if err := db.First(&city, id).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

// CreateCountry creates a new country
func CreateCountry(db *gorm.DB, country *Country) error {
	country.CreatedAt = time.Now().UTC()
	return db.Create(country).Error
}

// CreateState creates a new state
func CreateState(db *gorm.DB, state *State) error {
	state.CreatedAt = time.Now().UTC()
	return db.Create(state).Error
}

// CreateCity creates a new city
func CreateCity(db *gorm.DB, city *City) error {
	city.CreatedAt = time.Now().UTC()
	return db.Create(city).Error
}

// UpdateCountry persists changes to an existing country
func UpdateCountry(db *gorm.DB, country *Country) error {
	return db.Save(country).Error
}

// UpdateState persists changes to an existing state
func UpdateState(db *gorm.DB, state *State) error {
	return db.Save(state).Error
}

// UpdateCity persists changes to an existing city
func UpdateCity(db *gorm.DB, city *City) error {
	return db.Save(city).Error
}

// SoftDeleteCountry marks a country as deleted. The timestamp is monotonic;
// an already-deleted row keeps its original deleted_at.
func SoftDeleteCountry(db *gorm.DB, country *Country) error {
	if country.DeletedAt == nil {
		now := time.Now().UTC()
		country.DeletedAt = &now
	}
	return db.Save(country).Error
}

// SoftDeleteState marks a state as deleted.
func SoftDeleteState(db *gorm.DB, state *State) error {
	if state.DeletedAt == nil {
		now := time.Now().UTC()
		state.DeletedAt = &now
	}
	return db.Save(state).Error
}

// SoftDeleteCity marks a city as deleted.
func SoftDeleteCity(db *gorm.DB, city *City) error {
	if city.DeletedAt == nil {
		now := time.Now().UTC()
		city.DeletedAt = &now
	}
	return db.Save(city).Error
}
