package weather

type condition struct {
	text      string
	dayIcon   string
	nightIcon string
}

// wmoCodes is the WMO weather interpretation code table used by Open-Meteo.
var wmoCodes = map[int]condition{
	0:  {"Clear sky", "sun", "moon"},
	1:  {"Mainly clear", "sun", "moon"},
	2:  {"Partly cloudy", "cloud-sun", "cloud-moon"},
	3:  {"Overcast", "cloud", "cloud"},
	45: {"Fog", "cloud-fog", "cloud-fog"},
	48: {"Depositing rime fog", "cloud-fog", "cloud-fog"},
	51: {"Light drizzle", "cloud-drizzle", "cloud-drizzle"},
	53: {"Moderate drizzle", "cloud-drizzle", "cloud-drizzle"},
	55: {"Dense drizzle", "cloud-drizzle", "cloud-drizzle"},
	56: {"Light freezing drizzle", "cloud-drizzle", "cloud-drizzle"},
	57: {"Dense freezing drizzle", "cloud-drizzle", "cloud-drizzle"},
	61: {"Slight rain", "cloud-rain", "cloud-rain"},
	63: {"Moderate rain", "cloud-rain", "cloud-rain"},
	65: {"Heavy rain", "cloud-rain", "cloud-rain"},
	66: {"Light freezing rain", "cloud-rain", "cloud-rain"},
	67: {"Heavy freezing rain", "cloud-rain", "cloud-rain"},
	71: {"Slight snow fall", "cloud-snow", "cloud-snow"},
	73: {"Moderate snow fall", "cloud-snow", "cloud-snow"},
	75: {"Heavy snow fall", "cloud-snow", "cloud-snow"},
	77: {"Snow grains", "cloud-snow", "cloud-snow"},
	80: {"Slight rain showers", "cloud-sun-rain", "cloud-moon-rain"},
	81: {"Moderate rain showers", "cloud-sun-rain", "cloud-moon-rain"},
	82: {"Violent rain showers", "cloud-sun-rain", "cloud-moon-rain"},
	85: {"Slight snow showers", "cloud-snow", "cloud-snow"},
	86: {"Heavy snow showers", "cloud-snow", "cloud-snow"},
	95: {"Thunderstorm", "cloud-lightning", "cloud-lightning"},
	96: {"Thunderstorm with slight hail", "cloud-lightning", "cloud-lightning"},
	99: {"Thunderstorm with heavy hail", "cloud-lightning", "cloud-lightning"},
}

var unknownCondition = condition{"Unknown", "cloud", "cloud"}

// Describe returns the condition text and icon for a WMO code.
func Describe(code int, isDay bool) (text, icon string) {
	c, ok := wmoCodes[code]
	if !ok {
		c = unknownCondition
	}
	if isDay {
		return c.text, c.dayIcon
	}
	return c.text, c.nightIcon
}
