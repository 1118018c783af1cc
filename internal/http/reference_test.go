package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kaizen-backend-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/factories", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var factories []models.Factory
	decode(t, rec, &factories)
	assert.Len(t, factories, 3)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/departments?factoryId="+itoa(env.Factory), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var departments []models.Department
	decode(t, rec, &departments)
	require.Len(t, departments, 3)
	for _, department := range departments {
		assert.Equal(t, env.Factory, department.FactoryID)
	}

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/departments", nil))
	departments = nil
	decode(t, rec, &departments)
	assert.Len(t, departments, 8)
}

func TestSummaryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	author := env.register(t, "alice")
	viewer := env.register(t, "bob")
	quiet := env.createCase(t, author, "Quiet")
	popular := env.createCase(t, author, "Popular")
	for _, userID := range []int64{author, viewer} {
		rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/cases/"+itoa(popular.ID)+"?userId="+itoa(userID), nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/summary/top-views", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var top []TopCaseDTO
	decode(t, rec, &top)
	require.Len(t, top, 2)
	assert.Equal(t, popular.ID, top[0].ID)
	assert.Equal(t, 2, top[0].ViewCount)
	assert.Equal(t, "Head Plant", top[0].FactoryName)
	assert.Equal(t, quiet.ID, top[1].ID)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/summary/statistics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var stats StatisticsResponse
	decode(t, rec, &stats)
	assert.Equal(t, int64(2), stats.TotalCases)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
