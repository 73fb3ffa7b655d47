package subscriptions_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"adlens/internal/products"
	"adlens/internal/subscriptions"
	"adlens/internal/testsupport"
)

func TestLife(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	canceled := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		createdAt  time.Time
		canceledAt *time.Time
		want       int
	}{
		{
			name:      "two whole months while active",
			createdAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			want:      2,
		},
		{
			name:      "day of month is ignored",
			createdAt: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			want:      2,
		},
		{
			name:      "same month is zero",
			createdAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			want:      0,
		},
		{
			name:       "cancellation beats now",
			createdAt:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			canceledAt: &canceled,
			want:       5,
		},
		{
			name:      "year boundary",
			createdAt: time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC),
			want:      4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := subscriptions.Subscription{CreatedAt: tt.createdAt, CanceledAt: tt.canceledAt}
			assert.Equal(t, tt.want, s.Life(now))
		})
	}
}

func TestMarginAndLTV(t *testing.T) {
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	s := subscriptions.Subscription{
		Price:     decimal.RequireFromString("29.99"),
		Product:   products.Product{Cost: decimal.RequireFromString("9.99")},
		CreatedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, s.Margin().Equal(decimal.RequireFromString("20.00")), "got %s", s.Margin())
	// Three months at 20.00 margin.
	assert.True(t, s.LTV(now).Equal(decimal.RequireFromString("60.00")), "got %s", s.LTV(now))
}

type subFixture struct {
	db   *gorm.DB
	sub  subscriptions.Subscription
	ids  fixtureIDs
	seed time.Time
}

type fixtureIDs struct {
	campaign uint
	audience uint
	city     uint
	state    uint
	country  uint
	product  uint
	client   uint
}

func setupSubscription(t *testing.T) *subFixture {
	t.Helper()
	db := testsupport.SetupTestDB(t)

	city := testsupport.Geo(t, db, "Spain", "Andalusia", "Seville")
	audience := testsupport.Audience(t, db, "Travelers")
	product := testsupport.Product(t, db, "Premium Plan", "12.50")
	campaign := testsupport.Campaign(t, db, "Summer Sale", audience.ID, city.ID, "300.00")
	page := testsupport.Page(t, db, "Offers", "https://example.es/offers")
	metric := testsupport.Metric(t, db, "Offer Views", campaign.ID, page.ID)
	client := testsupport.Client(t, db, "Lucia", "lucia@example.es")

	seed := time.Date(2024, 2, 14, 9, 30, 0, 0, time.UTC)
	ev := testsupport.Event(t, db, client.ID, metric.ID, seed)
	sub := testsupport.Subscription(t, db, ev.ID, product.ID, "19.99", seed)

	return &subFixture{
		db:   db,
		sub:  sub,
		seed: seed,
		ids: fixtureIDs{
			campaign: campaign.ID,
			audience: audience.ID,
			city:     city.ID,
			state:    city.StateID,
			country:  city.State.CountryID,
			product:  product.ID,
			client:   client.ID,
		},
	}
}

func TestForJoinedDimensions(t *testing.T) {
	f := setupSubscription(t)
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query func() ([]subscriptions.Subscription, error)
	}{
		{"campaign", func() ([]subscriptions.Subscription, error) {
			return subscriptions.ForCampaign(f.db, f.ids.campaign, start, end)
		}},
		{"audience", func() ([]subscriptions.Subscription, error) {
			return subscriptions.ForAudience(f.db, f.ids.audience, start, end)
		}},
		{"city", func() ([]subscriptions.Subscription, error) {
			return subscriptions.ForCity(f.db, f.ids.city, start, end)
		}},
		{"state", func() ([]subscriptions.Subscription, error) {
			return subscriptions.ForState(f.db, f.ids.state, start, end)
		}},
		{"country", func() ([]subscriptions.Subscription, error) {
			return subscriptions.ForCountry(f.db, f.ids.country, start, end)
		}},
		{"product", func() ([]subscriptions.Subscription, error) {
			return subscriptions.ForProduct(f.db, f.ids.product, start, end)
		}},
		{"client", func() ([]subscriptions.Subscription, error) {
			return subscriptions.ForClient(f.db, f.ids.client, start, end)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs, err := tt.query()
			require.NoError(t, err)
			require.Len(t, subs, 1)
			assert.Equal(t, f.sub.ID, subs[0].ID)
			assert.Equal(t, "Premium Plan", subs[0].Product.Title, "Product must be preloaded")
		})
	}
}

func TestForCampaignExcludesOutsideWindow(t *testing.T) {
	f := setupSubscription(t)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	subs, err := subscriptions.ForCampaign(f.db, f.ids.campaign, start, end)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSearchJoinPaths(t *testing.T) {
	f := setupSubscription(t)

	for _, term := range []string{"premium", "lucia@", "summer", "travelers", "seville", "andalusia", "spain"} {
		t.Run(term, func(t *testing.T) {
			subs, err := subscriptions.Search(f.db, term, time.Time{}, time.Time{})
			require.NoError(t, err)
			require.Len(t, subs, 1)
			assert.Equal(t, f.sub.ID, subs[0].ID)
		})
	}

	subs, err := subscriptions.Search(f.db, "no-such-thing", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSearchWindowRequiresBothBounds(t *testing.T) {
	f := setupSubscription(t)

	// A lone bound does not restrict the result.
	subs, err := subscriptions.Search(f.db, "", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	require.NoError(t, err)
	require.Len(t, subs, 1)

	// A closed window that misses the subscription excludes it.
	subs, err = subscriptions.Search(f.db, "",
		time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestDestroy(t *testing.T) {
	f := setupSubscription(t)

	sub, err := subscriptions.ByID(f.db, f.sub.ID)
	require.NoError(t, err)
	require.Nil(t, sub.CanceledAt)
	require.Nil(t, sub.DeletedAt)

	require.NoError(t, subscriptions.Destroy(f.db, sub))
	require.NotNil(t, sub.CanceledAt)
	require.NotNil(t, sub.DeletedAt)

	subs, err := subscriptions.Active(f.db)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestDestroyKeepsExistingCancellation(t *testing.T) {
	f := setupSubscription(t)

	sub, err := subscriptions.ByID(f.db, f.sub.ID)
	require.NoError(t, err)

	canceled := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sub.CanceledAt = &canceled
	require.NoError(t, subscriptions.Update(f.db, sub))

	require.NoError(t, subscriptions.Destroy(f.db, sub))
	assert.True(t, sub.CanceledAt.Equal(canceled), "an earlier cancellation is never overwritten")
	require.NotNil(t, sub.DeletedAt)

	// A second destroy leaves both timestamps untouched.
	deletedAt := *sub.DeletedAt
	require.NoError(t, subscriptions.Destroy(f.db, sub))
	assert.True(t, sub.CanceledAt.Equal(canceled))
	assert.True(t, sub.DeletedAt.Equal(deletedAt))
}
