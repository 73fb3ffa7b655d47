package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"adlens/internal/events"
	"adlens/internal/pages"
	"adlens/internal/testsupport"
)

type eventFixture struct {
	db     *gorm.DB
	event  events.Event
	pageID uint
}

func setupEvent(t *testing.T) *eventFixture {
	t.Helper()
	db := testsupport.SetupTestDB(t)

	city := testsupport.Geo(t, db, "Italy", "Tuscany", "Florence")
	audience := testsupport.Audience(t, db, "Collectors")
	campaign := testsupport.Campaign(t, db, "Art Week", audience.ID, city.ID, "80.00")
	page := testsupport.Page(t, db, "Gallery", "https://example.it/gallery")
	metric := testsupport.Metric(t, db, "Gallery Views", campaign.ID, page.ID)
	client := testsupport.Client(t, db, "Marco", "marco@example.it")

	at := time.Date(2024, 4, 5, 14, 0, 0, 0, time.UTC)
	ev := testsupport.Event(t, db, client.ID, metric.ID, at)

	return &eventFixture{db: db, event: ev, pageID: page.ID}
}

func TestForPage(t *testing.T) {
	f := setupEvent(t)
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	evs, err := events.ForPage(f.db, f.pageID, start, end)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, f.event.ID, evs[0].ID)

	// Outside the window nothing comes back.
	evs, err = events.ForPage(f.db, f.pageID,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, evs)
}

func TestSearchReachesAttributionGraph(t *testing.T) {
	f := setupEvent(t)

	for _, term := range []string{"marco", "art week", "collectors", "florence", "tuscany", "italy", "gallery"} {
		t.Run(term, func(t *testing.T) {
			evs, err := events.Search(f.db, term, time.Time{}, time.Time{})
			require.NoError(t, err)
			require.Len(t, evs, 1)
			assert.Equal(t, f.event.ID, evs[0].ID)
		})
	}
}

func TestSearchReachesPageMetadata(t *testing.T) {
	f := setupEvent(t)

	md := pages.Metadata{
		PageID:      f.pageID,
		Site:        "Uffizi Online",
		Description: "Renaissance highlights",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(&md).Error)

	evs, err := events.Search(f.db, "uffizi", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, evs, 1)

	evs, err = events.Search(f.db, "renaissance", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, evs, 1)
}

func TestSoftDeleteIsMonotonic(t *testing.T) {
	f := setupEvent(t)

	ev, err := events.ByID(f.db, f.event.ID)
	require.NoError(t, err)
	require.NoError(t, events.SoftDelete(f.db, ev))
	require.NotNil(t, ev.DeletedAt)

	deletedAt := *ev.DeletedAt
	require.NoError(t, events.SoftDelete(f.db, ev))
	assert.True(t, ev.DeletedAt.Equal(deletedAt))

	active, err := events.Active(f.db)
	require.NoError(t, err)
	assert.Empty(t, active)
}
