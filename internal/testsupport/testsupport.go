// Package testsupport holds shared helpers for package tests: in-memory
// databases, fixture builders and a minimal server harness.
package testsupport

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	ctestsupport "github.com/karloscodes/cartridge/testsupport"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"os"

	"adlens/internal/audiences"
	"adlens/internal/campaigns"
	"adlens/internal/clients"
	"adlens/internal/config"
	"adlens/internal/events"
	"adlens/internal/geo"
	"adlens/internal/metrics"
	"adlens/internal/pages"
	"adlens/internal/products"
	"adlens/internal/subscriptions"
)

// testDBCache caches test databases by test name to allow multiple calls
// within the same test to share the same database
var testDBCache = make(map[string]*gorm.DB)
var testDBCacheMu sync.Mutex

// TestDBManager wraps cartridge's TestDBManager with adlens's interface
type TestDBManager struct {
	*ctestsupport.TestDBManager
}

// NewTestDBManager creates a TestDBManager that implements cartridge.DBManager
func NewTestDBManager(db *gorm.DB) *TestDBManager {
	return &TestDBManager{
		TestDBManager: ctestsupport.NewTestDBManager(db),
	}
}

// Ensure TestDBManager implements cartridge.DBManager
var _ cartridge.DBManager = (*TestDBManager)(nil)

// allModels returns all adlens models for migration
func allModels() []any {
	return []any{
		&geo.Country{},
		&geo.State{},
		&geo.City{},
		&audiences.Audience{},
		&products.Product{},
		&clients.Client{},
		&campaigns.Campaign{},
		&pages.Page{},
		&pages.Metadata{},
		&pages.ContentCache{},
		&metrics.Metric{},
		&events.Event{},
		&subscriptions.Subscription{},
	}
}

// SetupTestDB creates a test database with all adlens models migrated.
// Uses a named in-memory database with cache=shared so multiple connections
// within a test see the same data, and caches the handle by root test name.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testName := t.Name()

	rootName := testName
	if idx := strings.Index(testName, "/"); idx > 0 {
		rootName = testName[:idx]
	}

	testDBCacheMu.Lock()
	if db, exists := testDBCache[rootName]; exists {
		testDBCacheMu.Unlock()
		return db
	}
	testDBCacheMu.Unlock()

	sanitizedName := strings.ReplaceAll(rootName, "/", "_")
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", sanitizedName, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("testsupport: failed to open test database: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	if err := db.AutoMigrate(allModels()...); err != nil {
		t.Fatalf("testsupport: failed to migrate models: %v", err)
	}

	testDBCacheMu.Lock()
	testDBCache[rootName] = db
	testDBCacheMu.Unlock()

	t.Cleanup(func() {
		testDBCacheMu.Lock()
		delete(testDBCache, rootName)
		testDBCacheMu.Unlock()
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// GetLogger returns a test logger
func GetLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}

// CleanAllTables clears all non-system tables in the database
func CleanAllTables(db *gorm.DB) {
	var tableNames []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&tableNames)

	if len(tableNames) == 0 {
		return
	}

	db.Exec("PRAGMA foreign_keys = OFF")
	defer db.Exec("PRAGMA foreign_keys = ON")

	db.Transaction(func(tx *gorm.DB) error {
		for _, table := range tableNames {
			tx.Exec("DELETE FROM " + table)
			tx.Exec("DELETE FROM sqlite_sequence WHERE name=?", table)
		}
		return nil
	})
}

// ============ Fixture builders ============

// Geo creates a country/state/city chain and returns the city with its
// parents populated.
func Geo(t *testing.T, db *gorm.DB, countryTitle, stateTitle, cityTitle string) geo.City {
	t.Helper()

	country := geo.Country{Title: countryTitle}
	require.NoError(t, geo.CreateCountry(db, &country))
	state := geo.State{Title: stateTitle, CountryID: country.ID}
	require.NoError(t, geo.CreateState(db, &state))
	city := geo.City{Title: cityTitle, StateID: state.ID}
	require.NoError(t, geo.CreateCity(db, &city))

	city.State = state
	city.State.Country = country
	return city
}

// Audience creates an audience.
func Audience(t *testing.T, db *gorm.DB, title string) audiences.Audience {
	t.Helper()
	a := audiences.Audience{Title: title}
	require.NoError(t, audiences.Create(db, &a))
	return a
}

// Product creates a product with the given cost.
func Product(t *testing.T, db *gorm.DB, title, cost string) products.Product {
	t.Helper()
	c, err := decimal.NewFromString(cost)
	require.NoError(t, err)
	p := products.Product{Title: title, Cost: c}
	require.NoError(t, products.Create(db, &p))
	return p
}

// Client creates a client.
func Client(t *testing.T, db *gorm.DB, name, email string) clients.Client {
	t.Helper()
	c := clients.Client{Name: name, Email: email}
	require.NoError(t, clients.Create(db, &c))
	return c
}

// Campaign creates a campaign with the given spend.
func Campaign(t *testing.T, db *gorm.DB, title string, audienceID, cityID uint, spend string) campaigns.Campaign {
	t.Helper()
	s, err := decimal.NewFromString(spend)
	require.NoError(t, err)
	c := campaigns.Campaign{
		Title:      title,
		AudienceID: audienceID,
		CityID:     cityID,
		Spend:      s,
		IsActive:   true,
	}
	require.NoError(t, campaigns.Create(db, &c))
	return c
}

// Page creates a page.
func Page(t *testing.T, db *gorm.DB, title, url string) pages.Page {
	t.Helper()
	p := pages.Page{Title: title, URL: url}
	require.NoError(t, pages.Create(db, &p))
	return p
}

// Metric creates a view metric for a campaign and page.
func Metric(t *testing.T, db *gorm.DB, title string, campaignID, pageID uint) metrics.Metric {
	t.Helper()
	m := metrics.Metric{Title: title, Type: metrics.TypeView, CampaignID: campaignID, PageID: pageID}
	require.NoError(t, metrics.Create(db, &m))
	return m
}

// Event creates an event at the given time.
func Event(t *testing.T, db *gorm.DB, clientID, metricID uint, createdAt time.Time) events.Event {
	t.Helper()
	e := events.Event{ClientID: clientID, MetricID: metricID, Value: decimal.NewFromInt(1)}
	require.NoError(t, events.Create(db, &e))
	e.CreatedAt = createdAt
	require.NoError(t, events.Update(db, &e))
	return e
}

// Subscription creates a subscription at the given time with the given price.
func Subscription(t *testing.T, db *gorm.DB, eventID, productID uint, price string, createdAt time.Time) subscriptions.Subscription {
	t.Helper()
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	s := subscriptions.Subscription{EventID: eventID, ProductID: productID, Price: p}
	require.NoError(t, subscriptions.Create(db, &s))
	s.CreatedAt = createdAt
	require.NoError(t, subscriptions.Update(db, &s))
	// Reload so Product is available for derived metrics.
	loaded, err := subscriptions.ByID(db, s.ID)
	require.NoError(t, err)
	return *loaded
}

// ============ Server harness ============

// CreateMinimalTestApp creates a test Fiber app with all routes
func CreateMinimalTestApp(t *testing.T, db *gorm.DB, mount func(*cartridge.Server)) *fiber.App {
	t.Helper()

	dbManager := NewTestDBManager(db)
	appConfig := config.GetConfig()
	appConfig.Environment = config.Test

	cfg := cartridge.DefaultServerConfig()
	cfg.Config = appConfig
	cfg.Logger = GetLogger()
	cfg.DBManager = dbManager
	// Sec-Fetch-Site CSRF protection rejects httptest requests, which never
	// carry the header; cartridge's own testsupport disables it the same way.
	cfg.EnableSecFetchSite = false

	srv, err := cartridge.NewServer(cfg)
	require.NoError(t, err)

	mount(srv)
	return srv.App()
}
