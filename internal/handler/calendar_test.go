package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/family-ledger/internal/domain"
	"github.com/segyhp/family-ledger/internal/hijri"
)

func calendarRouter() http.Handler {
	now := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	cal := hijri.NewManager(time.UTC).WithClock(func() time.Time { return now })
	return NewRouter(Handlers{Calendar: NewCalendarHandler(cal, false)}, nil)
}

func get(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestCalendarHandler_Current(t *testing.T) {
	w, env := get(t, calendarRouter(), "/api/v1/hijri/current")

	require.Equal(t, http.StatusOK, w.Code)
	var current CurrentDate
	require.NoError(t, json.Unmarshal(env.Data, &current))
	assert.Equal(t, 1445, current.Hijri.Year)
	assert.Equal(t, 9, current.Hijri.Month)
	assert.Equal(t, 1, current.Hijri.Day)
	assert.Equal(t, "2024-03-11", current.Gregorian)
	assert.Equal(t, "11/03/2024 م", current.GregorianDisplay)
	assert.NotEmpty(t, current.HijriDisplay)
}

func TestCalendarHandler_Months(t *testing.T) {
	w, env := get(t, calendarRouter(), "/api/v1/hijri/months")

	require.Equal(t, http.StatusOK, w.Code)
	var months []domain.HijriMonth
	require.NoError(t, json.Unmarshal(env.Data, &months))
	require.Len(t, months, 12)
	assert.Equal(t, 1, months[0].Index)
	assert.Equal(t, 12, months[11].Index)
}

func TestCalendarHandler_Years(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedYears  []int
	}{
		{name: "explicit span", query: "?span=2", expectedStatus: http.StatusOK, expectedYears: []int{1443, 1444, 1445, 1446, 1447}},
		{name: "zero span", query: "?span=0", expectedStatus: http.StatusOK, expectedYears: []int{1445}},
		{name: "negative span", query: "?span=-1", expectedStatus: http.StatusBadRequest},
		{name: "not a number", query: "?span=many", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := get(t, calendarRouter(), "/api/v1/hijri/years"+tt.query)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedYears != nil {
				var years []int
				require.NoError(t, json.Unmarshal(env.Data, &years))
				assert.Equal(t, tt.expectedYears, years)
			}
		})
	}

	_, env := get(t, calendarRouter(), "/api/v1/hijri/years")
	var years []int
	require.NoError(t, json.Unmarshal(env.Data, &years))
	assert.Len(t, years, 2*defaultYearSpan+1)
}
