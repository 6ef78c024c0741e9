package geocoding

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackTable holds coordinates for the ports and manufacturing hubs the
// news source and the supplier roster refer to.  Keys are folded with foldKey.
var fallbackTable = map[string]Coordinate{
	"singapore":              {Lat: 1.3521, Lng: 103.8198},
	"rotterdam, netherlands": {Lat: 51.9225, Lng: 4.47917},
	"toronto, canada":        {Lat: 43.6532, Lng: -79.3832},
	"paris, france":          {Lat: 48.8566, Lng: 2.3522},
	"sao paulo, brazil":      {Lat: -23.5505, Lng: -46.6333},
	"shenzhen, china":        {Lat: 22.5431, Lng: 114.0579},
	"mexico city, mexico":    {Lat: 19.4326, Lng: -99.1332},
	"berlin, germany":        {Lat: 52.5200, Lng: 13.4050},
	"london, uk":             {Lat: 51.5074, Lng: -0.1278},
	"new york, usa":          {Lat: 40.7128, Lng: -74.0060},
	"tokyo, japan":           {Lat: 35.6895, Lng: 139.6917},
	"chennai, india":         {Lat: 13.0827, Lng: 80.2707},
	"mumbai, india":          {Lat: 19.0760, Lng: 72.8777},
	"shanghai, china":        {Lat: 31.2304, Lng: 121.4737},
	"dubai, uae":             {Lat: 25.2048, Lng: 55.2708},
	"los angeles, usa":       {Lat: 34.0522, Lng: -118.2437},
	"hamburg, germany":       {Lat: 53.5511, Lng: 9.9937},
}

// byCity indexes fallbackTable by its city segment so "Chennai" alone and
// "Chennai, Tamil Nadu, India" still hit.
var byCity = func() map[string]Coordinate {
	m := make(map[string]Coordinate, len(fallbackTable))
	for k, c := range fallbackTable {
		city := strings.TrimSpace(strings.SplitN(k, ",", 2)[0])
		m[city] = c
	}
	return m
}()

// foldKey lowercases s, trims it and strips combining marks ("São" → "sao").
func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Fallback returns the static coordinate for location, matching the full
// "city, country" key first and the city segment second.
func Fallback(location string) (Coordinate, bool) {
	key := foldKey(location)
	if key == "" {
		return Coordinate{}, false
	}
	if c, ok := fallbackTable[key]; ok {
		return c, true
	}
	city := strings.TrimSpace(strings.SplitN(key, ",", 2)[0])
	c, ok := byCity[city]
	return c, ok
}

// IsGlobal reports whether location carries no geographic information.
func IsGlobal(location string) bool {
	l := strings.TrimSpace(location)
	return l == "" || strings.EqualFold(l, "global")
}

//Personal.AI order the ending
