package weather

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyTimes(day string, from, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		h := from + i
		out = append(out, fmt.Sprintf("%sT%02d:00", nextDay(day, h/24), h%24))
	}
	return out
}

func nextDay(day string, add int) string {
	if add == 0 {
		return day
	}
	return fmt.Sprintf("2025-03-%02d", 10+add)
}

func sampleForecast() map[string]any {
	times := hourlyTimes("2025-03-10", 0, 48)
	temps := make([]float64, len(times))
	codes := make([]int, len(times))
	isDay := make([]int, len(times))
	uv := make([]float64, len(times))
	vis := make([]float64, len(times))
	for i := range times {
		temps[i] = float64(i) + 0.4
		codes[i] = 3
		if i%24 >= 6 && i%24 < 18 {
			isDay[i] = 1
		}
		uv[i] = 2.6
		vis[i] = 24140
	}
	days := []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14", "2025-03-15", "2025-03-16", "2025-03-17"}
	return map[string]any{
		"current": map[string]any{
			"time":                 "2025-03-10T14:15",
			"temperature_2m":       12.6,
			"relative_humidity_2m": 71,
			"apparent_temperature": 10.2,
			"is_day":               1,
			"precipitation":        0.2,
			"weather_code":         61,
			"pressure_msl":         1013.4,
			"wind_speed_10m":       14.5,
		},
		"hourly": map[string]any{
			"time":           times,
			"temperature_2m": temps,
			"weather_code":   codes,
			"is_day":         isDay,
			"uv_index":       uv,
			"visibility":     vis,
		},
		"daily": map[string]any{
			"time":               days,
			"weather_code":       []int{0, 2, 3, 45, 61, 71, 95, 1},
			"temperature_2m_max": []float64{15.5, 16, 17, 18, 19, 20, 21, 22},
			"temperature_2m_min": []float64{4.4, 5, 6, 7, 8, 9, 10, 11},
		},
	}
}

func jsonServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDescribe(t *testing.T) {
	text, icon := Describe(0, true)
	assert.Equal(t, "Clear sky", text)
	assert.Equal(t, "sun", icon)

	_, icon = Describe(0, false)
	assert.Equal(t, "moon", icon)

	text, icon = Describe(1234, true)
	assert.Equal(t, "Unknown", text)
	assert.Equal(t, "cloud", icon)
}

func TestClient_Report(t *testing.T) {
	var gotQuery map[string]string
	forecastSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"latitude":      r.URL.Query().Get("latitude"),
			"longitude":     r.URL.Query().Get("longitude"),
			"forecast_days": r.URL.Query().Get("forecast_days"),
		}
		_ = json.NewEncoder(w).Encode(sampleForecast())
	}))
	t.Cleanup(forecastSrv.Close)
	geoSrv := jsonServer(t, http.StatusOK, map[string]any{"city": "Lisbon", "countryName": "Portugal"})

	c := NewClient(Config{ForecastURL: forecastSrv.URL, GeocodeURL: geoSrv.URL})
	r, err := c.Report(t.Context(), 38.72, -9.14)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"latitude": "38.72", "longitude": "-9.14", "forecast_days": "8"}, gotQuery)
	assert.Equal(t, "Lisbon, Portugal", r.Location)

	cur := r.Current
	assert.Equal(t, 13, cur.Temperature)
	assert.Equal(t, "Slight rain", cur.Condition)
	assert.Equal(t, "cloud-rain", cur.Icon)
	assert.Equal(t, 71, cur.Humidity)
	assert.Equal(t, 15, cur.WindSpeed)
	assert.Equal(t, 10, cur.FeelsLike)
	assert.Equal(t, 1013, cur.Pressure)
	assert.Equal(t, 3, cur.UVIndex)
	assert.InDelta(t, 24.1, cur.Visibility, 0.001)
	assert.True(t, cur.IsDay)

	require.Len(t, r.Hourly, 24)
	assert.Equal(t, "2025-03-10T14:00", r.Hourly[0].Time)
	assert.Equal(t, 14, r.Hourly[0].Temperature)
	assert.Equal(t, "2025-03-11T13:00", r.Hourly[23].Time)
	assert.Equal(t, "cloud", r.Hourly[0].Icon)

	require.Len(t, r.Daily, 8)
	assert.Equal(t, Day{Date: "2025-03-10", MaxTemp: 16, MinTemp: 4, Condition: "Clear sky", Icon: "sun"}, r.Daily[0])
	assert.Equal(t, "Thunderstorm", r.Daily[6].Condition)
}

func TestClient_Report_GeocodeFailureFallsBack(t *testing.T) {
	forecastSrv := jsonServer(t, http.StatusOK, sampleForecast())
	geoSrv := jsonServer(t, http.StatusBadGateway, map[string]any{})

	c := NewClient(Config{ForecastURL: forecastSrv.URL, GeocodeURL: geoSrv.URL})
	r, err := c.Report(t.Context(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, UnknownLocation, r.Location)
}

func TestClient_Report_EmptyGeocodeFallsBack(t *testing.T) {
	forecastSrv := jsonServer(t, http.StatusOK, sampleForecast())
	geoSrv := jsonServer(t, http.StatusOK, map[string]any{})

	c := NewClient(Config{ForecastURL: forecastSrv.URL, GeocodeURL: geoSrv.URL})
	r, err := c.Report(t.Context(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, UnknownLocation, r.Location)
}

func TestClient_Report_ForecastFailure(t *testing.T) {
	forecastSrv := jsonServer(t, http.StatusInternalServerError, map[string]any{"error": true})
	geoSrv := jsonServer(t, http.StatusOK, map[string]any{"city": "Lisbon"})

	c := NewClient(Config{ForecastURL: forecastSrv.URL, GeocodeURL: geoSrv.URL})
	_, err := c.Report(t.Context(), 1, 2)
	require.ErrorIs(t, err, ErrUpstream)
}

func TestHandler_Get(t *testing.T) {
	forecastSrv := jsonServer(t, http.StatusOK, sampleForecast())
	geoSrv := jsonServer(t, http.StatusOK, map[string]any{"locality": "Sintra"})
	h := NewHandler(NewClient(Config{ForecastURL: forecastSrv.URL, GeocodeURL: geoSrv.URL}), nil)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/weather?lat=38.8&lng=-9.4", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Sintra", got.Location)
	assert.Len(t, got.Daily, 8)
}

func TestHandler_Get_MissingCoordinates(t *testing.T) {
	h := NewHandler(NewClient(Config{}), nil)

	for _, q := range []string{"", "?lat=1", "?lng=1", "?lat=abc&lng=1"} {
		rec := httptest.NewRecorder()
		h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/weather"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.JSONEq(t, `{"error":"Latitude and longitude are required"}`, rec.Body.String(), q)
	}
}

func TestHandler_Get_UpstreamFailure(t *testing.T) {
	forecastSrv := jsonServer(t, http.StatusServiceUnavailable, map[string]any{})
	geoSrv := jsonServer(t, http.StatusOK, map[string]any{"city": "X"})
	h := NewHandler(NewClient(Config{ForecastURL: forecastSrv.URL, GeocodeURL: geoSrv.URL}), nil)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/weather?lat=1&lng=2", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch weather data"}`, rec.Body.String())
}
