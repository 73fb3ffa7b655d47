package campaigns_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adlens/internal/campaigns"
	"adlens/internal/testsupport"
)

func TestSearchReachesReferenceChain(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	lisbon := testsupport.Geo(t, db, "Portugal", "Lisboa", "Lisbon")
	madrid := testsupport.Geo(t, db, "Spain", "Madrid", "Madrid")
	students := testsupport.Audience(t, db, "Students")
	parents := testsupport.Audience(t, db, "Parents")

	west := testsupport.Campaign(t, db, "West Push", students.ID, lisbon.ID, "10.00")
	south := testsupport.Campaign(t, db, "South Push", parents.ID, madrid.ID, "20.00")

	tests := []struct {
		term string
		want uint
	}{
		{"west", west.ID},
		{"students", west.ID},
		{"lisbon", west.ID},
		{"portugal", west.ID},
		{"spain", south.ID},
		{"parents", south.ID},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			found, err := campaigns.Search(db, tt.term, time.Time{}, time.Time{})
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, tt.want, found[0].ID)
		})
	}

	// Madrid is both a state and a city title; the match stays a single row.
	found, err := campaigns.Search(db, "madrid", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, south.ID, found[0].ID)
}

func TestInactiveCampaignsStillListed(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	city := testsupport.Geo(t, db, "Portugal", "Lisboa", "Lisbon")
	audience := testsupport.Audience(t, db, "Students")
	c := testsupport.Campaign(t, db, "Paused Push", audience.ID, city.ID, "10.00")

	c.IsActive = false
	require.NoError(t, campaigns.Update(db, &c))

	// IsActive is a display flag; only soft deletion removes a campaign.
	list, err := campaigns.Active(db)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, campaigns.SoftDelete(db, &c))
	list, err = campaigns.Active(db)
	require.NoError(t, err)
	assert.Empty(t, list)
}
