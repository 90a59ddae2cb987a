package weather

import "math"

type Current struct {
	Temperature   int     `json:"temperature"`
	Condition     string  `json:"condition"`
	Icon          string  `json:"icon"`
	Humidity      int     `json:"humidity"`
	WindSpeed     int     `json:"windSpeed"`
	Precipitation float64 `json:"precipitation"`
	FeelsLike     int     `json:"feelsLike"`
	UVIndex       int     `json:"uvIndex"`
	Visibility    float64 `json:"visibility"` // km
	Pressure      int     `json:"pressure"`
	IsDay         bool    `json:"isDay"`
}

type Hour struct {
	Time        string `json:"time"`
	Temperature int    `json:"temperature"`
	Icon        string `json:"icon"`
}

type Day struct {
	Date      string `json:"date"`
	MaxTemp   int    `json:"maxTemp"`
	MinTemp   int    `json:"minTemp"`
	Condition string `json:"condition"`
	Icon      string `json:"icon"`
}

// Report is the simplified weather document served to clients.
type Report struct {
	Location string  `json:"location"`
	Current  Current `json:"current"`
	Hourly   []Hour  `json:"hourly"`
	Daily    []Day   `json:"daily"`
}

func round(v float64) int { return int(math.Round(v)) }

func at[T any](xs []T, i int) T {
	var zero T
	if i < 0 || i >= len(xs) {
		return zero
	}
	return xs[i]
}

// currentHourIndex finds the hourly slot of the current observation. Both
// times are local ISO strings, so the hour prefix compares directly.
func currentHourIndex(times []string, now string) int {
	if len(now) >= 13 {
		now = now[:13]
	}
	for i, t := range times {
		if len(t) >= 13 && t[:13] >= now {
			return i
		}
	}
	return len(times)
}

func buildReport(f forecast, location string) Report {
	cur := f.Current
	isDay := cur.IsDay == 1
	text, icon := Describe(cur.WeatherCode, isDay)
	idx := currentHourIndex(f.Hourly.Time, cur.Time)

	r := Report{
		Location: location,
		Current: Current{
			Temperature:   round(cur.Temperature),
			Condition:     text,
			Icon:          icon,
			Humidity:      round(cur.RelativeHumidity),
			WindSpeed:     round(cur.WindSpeed),
			Precipitation: cur.Precipitation,
			FeelsLike:     round(cur.ApparentTemperature),
			UVIndex:       round(at(f.Hourly.UVIndex, idx)),
			Visibility:    math.Round(at(f.Hourly.Visibility, idx)/100) / 10,
			Pressure:      round(cur.PressureMSL),
			IsDay:         isDay,
		},
		Hourly: make([]Hour, 0, hourlySpan),
		Daily:  make([]Day, 0, forecastDays),
	}

	for i := idx; i < len(f.Hourly.Time) && len(r.Hourly) < hourlySpan; i++ {
		_, hIcon := Describe(at(f.Hourly.WeatherCode, i), at(f.Hourly.IsDay, i) == 1)
		r.Hourly = append(r.Hourly, Hour{
			Time:        f.Hourly.Time[i],
			Temperature: round(at(f.Hourly.Temperature, i)),
			Icon:        hIcon,
		})
	}

	for i := 0; i < len(f.Daily.Time) && i < forecastDays; i++ {
		dText, dIcon := Describe(at(f.Daily.WeatherCode, i), true)
		r.Daily = append(r.Daily, Day{
			Date:      f.Daily.Time[i],
			MaxTemp:   round(at(f.Daily.MaxTemp, i)),
			MinTemp:   round(at(f.Daily.MinTemp, i)),
			Condition: dText,
			Icon:      dIcon,
		})
	}
	return r
}
