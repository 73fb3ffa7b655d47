package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adlens/internal"
	"adlens/internal/audiences"
	"adlens/internal/testsupport"
)

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthEndpoint(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db, internal.MountAppRoutes)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/_health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status   string `json:"status"`
		DBStatus string `json:"db_status"`
	}
	decodeBody(t, resp, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.DBStatus)
}

func TestAudienceCRUD(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db, internal.MountAppRoutes)

	// Create
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/audiences",
		map[string]string{"title": "Early Adopters"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created audiences.Audience
	decodeBody(t, resp, &created)
	require.NotZero(t, created.ID)
	assert.Equal(t, "Early Adopters", created.Title)

	// List
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/v1/audiences", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []audiences.Audience
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)

	// Show
	resp, err = app.Test(jsonRequest(t, http.MethodGet,
		fmt.Sprintf("/api/v1/audiences/%d", created.ID), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Update
	resp, err = app.Test(jsonRequest(t, http.MethodPost,
		fmt.Sprintf("/api/v1/audiences/%d", created.ID),
		map[string]string{"title": "Power Users"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated audiences.Audience
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Power Users", updated.Title)

	// Delete
	resp, err = app.Test(jsonRequest(t, http.MethodDelete,
		fmt.Sprintf("/api/v1/audiences/%d", created.ID), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Soft-deleted rows disappear from the index.
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/v1/audiences", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &list)
	assert.Empty(t, list)
}

func TestAudienceCreateRequiresTitle(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db, internal.MountAppRoutes)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/audiences",
		map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAudienceShowUnknownID(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db, internal.MountAppRoutes)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/v1/audiences/9999", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardEmptyDatabase(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db, internal.MountAppRoutes)

	resp, err := app.Test(jsonRequest(t, http.MethodGet,
		"/api/v1/dashboard?start=2024-01-01&end=2024-01-31", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]json.RawMessage
	decodeBody(t, resp, &body)

	// Frequency and ratio reports must serialize as empty arrays, not null.
	for _, key := range []string{
		"subscriptions_by_campaign", "subscriptions_by_audience",
		"subscriptions_by_product", "subscriptions_by_city",
		"subscriptions_by_state", "subscriptions_by_country",
		"events_by_page", "ltv_by_campaign", "retention_by_campaign",
		"retention_by_product", "margin_by_campaign",
	} {
		require.Contains(t, body, key)
		assert.Equal(t, "[]", string(body[key]), "key %s", key)
	}

	// Fixed-domain buckets keep their full shape even with no data.
	var weekday []struct {
		Day   string `json:"day"`
		Hours []int  `json:"hours"`
	}
	require.NoError(t, json.Unmarshal(body["subscriptions_by_weekday_hour"], &weekday))
	require.Len(t, weekday, 7)
	assert.Equal(t, "Mon", weekday[0].Day)
	assert.Len(t, weekday[0].Hours, 24)

	var monthDay []int
	require.NoError(t, json.Unmarshal(body["subscriptions_by_month_day"], &monthDay))
	assert.Len(t, monthDay, 32)

	var dates []struct {
		Label string `json:"label"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body["subscriptions_by_date"], &dates))
	assert.Len(t, dates, 31)

	assert.Equal(t, `"2024-01-01"`, string(body["start"]))
	assert.Equal(t, `"2024-01-31"`, string(body["end"]))
}

func TestDashboardRejectsMalformedDates(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db, internal.MountAppRoutes)

	resp, err := app.Test(jsonRequest(t, http.MethodGet,
		"/api/v1/dashboard?start=notadate", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
