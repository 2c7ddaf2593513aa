// Package data bundles the in-memory gazetteer used by the default geo
// inferencer: a curated city table with coordinates and country metadata.
package data

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// City is one gazetteer entry.
type City struct {
	Name    string  // display name
	Lon     float64 // degrees east
	Lat     float64 // degrees north
	Country string  // ISO 3166-1 alpha-2
}

// cities maps normalized city names to their entry. Curated list of large
// and frequently mentioned cities; deployments needing full coverage plug in
// a real geocoding service instead.
var cities = map[string]City{
	"toronto":       {Name: "Toronto", Lon: -79.3832, Lat: 43.6532, Country: "CA"},
	"ottawa":        {Name: "Ottawa", Lon: -75.6972, Lat: 45.4215, Country: "CA"},
	"montreal":      {Name: "Montreal", Lon: -73.5674, Lat: 45.5019, Country: "CA"},
	"vancouver":     {Name: "Vancouver", Lon: -123.1207, Lat: 49.2827, Country: "CA"},
	"calgary":       {Name: "Calgary", Lon: -114.0719, Lat: 51.0447, Country: "CA"},
	"winnipeg":      {Name: "Winnipeg", Lon: -97.1384, Lat: 49.8954, Country: "CA"},
	"thunder bay":   {Name: "Thunder Bay", Lon: -89.2477, Lat: 48.3809, Country: "CA"},
	"sudbury":       {Name: "Sudbury", Lon: -80.9930, Lat: 46.4917, Country: "CA"},
	"new york":      {Name: "New York", Lon: -74.0060, Lat: 40.7128, Country: "US"},
	"los angeles":   {Name: "Los Angeles", Lon: -118.2437, Lat: 34.0522, Country: "US"},
	"chicago":       {Name: "Chicago", Lon: -87.6298, Lat: 41.8781, Country: "US"},
	"san francisco": {Name: "San Francisco", Lon: -122.4194, Lat: 37.7749, Country: "US"},
	"seattle":       {Name: "Seattle", Lon: -122.3321, Lat: 47.6062, Country: "US"},
	"boston":        {Name: "Boston", Lon: -71.0589, Lat: 42.3601, Country: "US"},
	"london":        {Name: "London", Lon: -0.1276, Lat: 51.5072, Country: "GB"},
	"manchester":    {Name: "Manchester", Lon: -2.2426, Lat: 53.4808, Country: "GB"},
	"paris":         {Name: "Paris", Lon: 2.3522, Lat: 48.8566, Country: "FR"},
	"berlin":        {Name: "Berlin", Lon: 13.4050, Lat: 52.5200, Country: "DE"},
	"hamburg":       {Name: "Hamburg", Lon: 9.9937, Lat: 53.5511, Country: "DE"},
	"munich":        {Name: "Munich", Lon: 11.5820, Lat: 48.1351, Country: "DE"},
	"munchen":       {Name: "Munich", Lon: 11.5820, Lat: 48.1351, Country: "DE"},
	"madrid":        {Name: "Madrid", Lon: -3.7038, Lat: 40.4168, Country: "ES"},
	"rome":          {Name: "Rome", Lon: 12.4964, Lat: 41.9028, Country: "IT"},
	"amsterdam":     {Name: "Amsterdam", Lon: 4.9041, Lat: 52.3676, Country: "NL"},
	"zurich":        {Name: "Zurich", Lon: 8.5417, Lat: 47.3769, Country: "CH"},
	"tokyo":         {Name: "Tokyo", Lon: 139.6503, Lat: 35.6762, Country: "JP"},
	"singapore":     {Name: "Singapore", Lon: 103.8198, Lat: 1.3521, Country: "SG"},
	"sydney":        {Name: "Sydney", Lon: 151.2093, Lat: -33.8688, Country: "AU"},
	"melbourne":     {Name: "Melbourne", Lon: 144.9631, Lat: -37.8136, Country: "AU"},
	"mumbai":        {Name: "Mumbai", Lon: 72.8777, Lat: 19.0760, Country: "IN"},
	"delhi":         {Name: "Delhi", Lon: 77.1025, Lat: 28.7041, Country: "IN"},
	"sao paulo":     {Name: "Sao Paulo", Lon: -46.6333, Lat: -23.5505, Country: "BR"},
	"mexico city":   {Name: "Mexico City", Lon: -99.1332, Lat: 19.4326, Country: "MX"},
	"nairobi":       {Name: "Nairobi", Lon: 36.8219, Lat: -1.2921, Country: "KE"},
	"cairo":         {Name: "Cairo", Lon: 31.2357, Lat: 30.0444, Country: "EG"},
}

// countryNames maps ISO codes to display names for the countries appearing
// in the city table.
var countryNames = map[string]string{
	"CA": "Canada",
	"US": "United States",
	"GB": "United Kingdom",
	"FR": "France",
	"DE": "Germany",
	"ES": "Spain",
	"IT": "Italy",
	"NL": "Netherlands",
	"CH": "Switzerland",
	"JP": "Japan",
	"SG": "Singapore",
	"AU": "Australia",
	"IN": "India",
	"BR": "Brazil",
	"MX": "Mexico",
	"KE": "Kenya",
	"EG": "Egypt",
}

// countryCenters maps ISO codes to an approximate country centroid in
// [lon, lat] order.
var countryCenters = map[string][2]float64{
	"CA": {-106.3468, 56.1304},
	"US": {-98.5795, 39.8283},
	"GB": {-3.4360, 55.3781},
	"FR": {2.2137, 46.2276},
	"DE": {10.4515, 51.1657},
	"ES": {-3.7492, 40.4637},
	"IT": {12.5674, 41.8719},
	"NL": {5.2913, 52.1326},
	"CH": {8.2275, 46.8182},
	"JP": {138.2529, 36.2048},
	"SG": {103.8198, 1.3521},
	"AU": {133.7751, -25.2744},
	"IN": {78.9629, 20.5937},
	"BR": {-51.9253, -14.2350},
	"MX": {-102.5528, 23.6345},
	"KE": {37.9062, -0.0236},
	"EG": {30.8025, 26.8206},
}

// LookupCity returns the entry for a normalized city name.
func LookupCity(normalized string) (City, bool) {
	c, ok := cities[normalized]
	return c, ok
}

// CountryName returns the display name for an ISO code, empty if unknown.
func CountryName(code string) string {
	return countryNames[strings.ToUpper(code)]
}

// CountryCenter returns the approximate centroid for an ISO code.
func CountryCenter(code string) ([2]float64, bool) {
	c, ok := countryCenters[strings.ToUpper(code)]
	return c, ok
}

// MaxCityWords is the longest city name in the table, in words.
const MaxCityWords = 2

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeName lowercases a place name, strips diacritics, and squeezes
// whitespace so lookups tolerate accents and casing.
func NormalizeName(name string) string {
	stripped, _, err := transform.String(diacriticStripper, name)
	if err != nil {
		stripped = name
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
