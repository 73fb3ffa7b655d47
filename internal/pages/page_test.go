package pages_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"adlens/internal/pages"
	"adlens/internal/testsupport"
)

func TestSoftDeleteCascadesToMetadata(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	page := testsupport.Page(t, db, "Landing", "https://example.com/")
	md := pages.Metadata{PageID: page.ID, Title: "Landing Page", CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(&md).Error)

	require.NoError(t, pages.SoftDelete(db, &page))
	require.NotNil(t, page.DeletedAt)

	reloaded, err := pages.MetadataForPage(db, page.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.DeletedAt)

	// Deleting again keeps both original timestamps.
	pageDeletedAt := *page.DeletedAt
	mdDeletedAt := *reloaded.DeletedAt
	require.NoError(t, pages.SoftDelete(db, &page))
	assert.True(t, page.DeletedAt.Equal(pageDeletedAt))

	reloaded, err = pages.MetadataForPage(db, page.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.DeletedAt.Equal(mdDeletedAt))
}

func TestSoftDeleteWithoutMetadata(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	page := testsupport.Page(t, db, "Bare", "https://example.com/bare")
	require.NoError(t, pages.SoftDelete(db, &page))

	active, err := pages.Active(db)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSearchReachesMetadataFields(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	plain := testsupport.Page(t, db, "Plain", "https://example.com/plain")
	tagged := testsupport.Page(t, db, "Tagged", "https://example.com/tagged")
	md := pages.Metadata{
		PageID:    tagged.ID,
		Author:    "Jane Smith",
		Keywords:  "catalog,sale",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&md).Error)

	found, err := pages.Search(db, "jane", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, tagged.ID, found[0].ID)

	// A page without metadata is still reachable through its own fields.
	found, err = pages.Search(db, "plain", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, plain.ID, found[0].ID)

	rows, err := pages.SearchMetadata(db, "catalog", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, md.ID, rows[0].ID)
}

func TestMetadataForPageMissing(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	page := testsupport.Page(t, db, "Fresh", "https://example.com/fresh")
	_, err := pages.MetadataForPage(db, page.ID)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}
