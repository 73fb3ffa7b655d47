package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adlens/internal/metrics"
	"adlens/internal/testsupport"
)

func TestMetricTypeValidation(t *testing.T) {
	assert.True(t, metrics.TypeView.Valid())
	assert.True(t, metrics.TypeClick.Valid())
	assert.False(t, metrics.MetricType("XX").Valid())
	assert.False(t, metrics.MetricType("").Valid())
}

func TestCreateDefaultsToView(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	city := testsupport.Geo(t, db, "Japan", "Kanto", "Tokyo")
	audience := testsupport.Audience(t, db, "Commuters")
	campaign := testsupport.Campaign(t, db, "Metro Ads", audience.ID, city.ID, "40.00")
	page := testsupport.Page(t, db, "Timetable", "https://example.jp/timetable")

	m := metrics.Metric{Title: "Timetable Views", CampaignID: campaign.ID, PageID: page.ID}
	require.NoError(t, metrics.Create(db, &m))
	assert.Equal(t, metrics.TypeView, m.Type)

	bad := metrics.Metric{Title: "Broken", Type: "ZZ", CampaignID: campaign.ID, PageID: page.ID}
	assert.Error(t, metrics.Create(db, &bad))
}

func TestSearchReachesCampaignAndPage(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	city := testsupport.Geo(t, db, "Japan", "Kanto", "Tokyo")
	audience := testsupport.Audience(t, db, "Commuters")
	campaign := testsupport.Campaign(t, db, "Metro Ads", audience.ID, city.ID, "40.00")
	page := testsupport.Page(t, db, "Timetable", "https://example.jp/timetable")
	m := testsupport.Metric(t, db, "Timetable Views", campaign.ID, page.ID)

	for _, term := range []string{"timetable", "metro", "tokyo", "kanto", "japan", "example.jp"} {
		t.Run(term, func(t *testing.T) {
			found, err := metrics.Search(db, term, time.Time{}, time.Time{})
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, m.ID, found[0].ID)
		})
	}
}
