package geo

import (
	"hash/fnv"
	"strings"

	"github.com/jonesrussell/north-cloud/enrichment/internal/data"
	"github.com/jonesrussell/north-cloud/enrichment/internal/domain"
	"github.com/jonesrussell/north-cloud/enrichment/internal/logger"
)

// markJitterDegrees bounds the offset between a candidate's point and its
// mark, roughly one kilometer at mid latitudes.
const markJitterDegrees = 0.009

// Gazetteer resolves locations against the bundled in-memory city table.
// It is stateless after construction and safe for concurrent use.
type Gazetteer struct {
	log logger.Logger
}

// NewGazetteer creates a gazetteer-backed inferencer.
func NewGazetteer(log logger.Logger) *Gazetteer {
	return &Gazetteer{log: log}
}

// Analyse scans the query for known city names, hint tags first. The first
// candidate wins; scanning stops after maxResults candidates.
func (g *Gazetteer) Analyse(query string, hintTags []string, maxResults int, seed string) *Mark {
	if maxResults <= 0 {
		maxResults = 1
	}

	var candidates []data.City
	for _, tag := range hintTags {
		if len(candidates) >= maxResults {
			break
		}
		if city, ok := data.LookupCity(data.NormalizeName(tag)); ok {
			candidates = append(candidates, city)
		}
	}

	words := strings.Fields(data.NormalizeName(query))
	for i := 0; i < len(words) && len(candidates) < maxResults; i++ {
		// try the longest n-gram first so "new york" beats "york"
		for n := data.MaxCityWords; n >= 1; n-- {
			if i+n > len(words) {
				continue
			}
			name := strings.Join(words[i:i+n], " ")
			if city, ok := data.LookupCity(strings.Trim(name, ".,;:!?#@")); ok {
				candidates = append(candidates, city)
				break
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	names := make([]string, 0, len(candidates))
	seenNames := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, ok := seenNames[c.Name]; ok {
			continue
		}
		seenNames[c.Name] = struct{}{}
		names = append(names, c.Name)
	}

	first := candidates[0]
	dLon, dLat := jitter(seed)
	return &Mark{
		Lon:         first.Lon,
		Lat:         first.Lat,
		MarkLon:     first.Lon + dLon,
		MarkLat:     first.Lat + dLat,
		CountryCode: first.Country,
		Names:       names,
	}
}

// CountryName returns the display name for an ISO code.
func (g *Gazetteer) CountryName(code string) string {
	return data.CountryName(code)
}

// CountryCenter returns the approximate centroid for an ISO code.
func (g *Gazetteer) CountryCenter(code string) (domain.GeoPoint, bool) {
	c, ok := data.CountryCenter(code)
	return domain.GeoPoint{c[0], c[1]}, ok
}

// jitter derives a deterministic mark offset from the seed.
func jitter(seed string) (dLon, dLat float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	sum := h.Sum64()
	// two 16-bit lanes mapped into [-jitter, +jitter]
	lon := float64(uint16(sum))/65535.0*2 - 1
	lat := float64(uint16(sum>>16))/65535.0*2 - 1
	return lon * markJitterDegrees, lat * markJitterDegrees
}
