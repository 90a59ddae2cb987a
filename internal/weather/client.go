// Package weather proxies a forecast API and a reverse-geocoding API into
// one simplified report.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc"
)

const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	DefaultGeocodeURL  = "https://api.bigdatacloud.net/data/reverse-geocode-client"

	UnknownLocation = "Unknown Location"

	forecastDays = 8
	hourlySpan   = 24
)

var ErrUpstream = errors.New("weather upstream failed")

type Config struct {
	ForecastURL string
	GeocodeURL  string
	// Timeout bounds each upstream call. Zero means no timeout.
	Timeout time.Duration
}

type Client struct {
	http        *http.Client
	forecastURL string
	geocodeURL  string
}

func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.ForecastURL) == "" {
		cfg.ForecastURL = DefaultForecastURL
	}
	if strings.TrimSpace(cfg.GeocodeURL) == "" {
		cfg.GeocodeURL = DefaultGeocodeURL
	}
	return &Client{
		http:        &http.Client{Timeout: cfg.Timeout},
		forecastURL: cfg.ForecastURL,
		geocodeURL:  cfg.GeocodeURL,
	}
}

// forecast is the subset of the Open-Meteo response the report uses.
type forecast struct {
	Current struct {
		Time                string  `json:"time"`
		Temperature         float64 `json:"temperature_2m"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		IsDay               int     `json:"is_day"`
		Precipitation       float64 `json:"precipitation"`
		WeatherCode         int     `json:"weather_code"`
		PressureMSL         float64 `json:"pressure_msl"`
		WindSpeed           float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Hourly struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		WeatherCode []int     `json:"weather_code"`
		IsDay       []int     `json:"is_day"`
		UVIndex     []float64 `json:"uv_index"`
		Visibility  []float64 `json:"visibility"`
	} `json:"hourly"`
	Daily struct {
		Time        []string  `json:"time"`
		WeatherCode []int     `json:"weather_code"`
		MaxTemp     []float64 `json:"temperature_2m_max"`
		MinTemp     []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

type geocode struct {
	City                 string `json:"city"`
	Locality             string `json:"locality"`
	PrincipalSubdivision string `json:"principalSubdivision"`
	CountryName          string `json:"countryName"`
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (c *Client) getJSON(ctx context.Context, base string, params url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrUpstream, base, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return nil
}

func (c *Client) fetchForecast(ctx context.Context, lat, lng float64) (forecast, error) {
	params := url.Values{}
	params.Set("latitude", formatCoord(lat))
	params.Set("longitude", formatCoord(lng))
	params.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,is_day,precipitation,weather_code,pressure_msl,wind_speed_10m")
	params.Set("hourly", "temperature_2m,weather_code,is_day,uv_index,visibility")
	params.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min")
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(forecastDays))

	var f forecast
	err := c.getJSON(ctx, c.forecastURL, params, &f)
	return f, err
}

// locate resolves a place name for the coordinates.
func (c *Client) locate(ctx context.Context, lat, lng float64) (string, error) {
	params := url.Values{}
	params.Set("latitude", formatCoord(lat))
	params.Set("longitude", formatCoord(lng))
	params.Set("localityLanguage", "en")

	var g geocode
	if err := c.getJSON(ctx, c.geocodeURL, params, &g); err != nil {
		return "", err
	}
	place := firstNonEmpty(g.City, g.Locality, g.PrincipalSubdivision)
	switch {
	case place != "" && g.CountryName != "":
		return place + ", " + g.CountryName, nil
	case place != "":
		return place, nil
	case g.CountryName != "":
		return g.CountryName, nil
	default:
		return "", fmt.Errorf("%w: empty geocode result", ErrUpstream)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Report fetches the forecast and the place name concurrently. A failed
// geocode falls back to UnknownLocation; a failed forecast fails the report.
func (c *Client) Report(ctx context.Context, lat, lng float64) (Report, error) {
	var (
		f        forecast
		fErr     error
		location string
		gErr     error
	)

	var wg conc.WaitGroup
	wg.Go(func() { f, fErr = c.fetchForecast(ctx, lat, lng) })
	wg.Go(func() { location, gErr = c.locate(ctx, lat, lng) })
	wg.Wait()

	if fErr != nil {
		return Report{}, fErr
	}
	if gErr != nil {
		location = UnknownLocation
	}
	return buildReport(f, location), nil
}
