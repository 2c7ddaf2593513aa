// Package geo defines the geospatial inference collaborator of the
// enrichment pipeline and its default gazetteer-backed implementation.
package geo

import "github.com/jonesrussell/north-cloud/enrichment/internal/domain"

// Mark is one resolved location candidate. Coordinates are degrees; the mark
// pair is a deterministic jitter of the primary point, used for map-marker
// placement distinct from the inferred center.
type Mark struct {
	Lon     float64
	Lat     float64
	MarkLon float64
	MarkLat float64
	// CountryCode is the ISO 3166-1 alpha-2 code of the candidate.
	CountryCode string
	// Names holds the candidate place names, best match first.
	Names []string
}

// Inferencer resolves a location candidate from a place name or from message
// text plus hashtags. Analyse returns nil when nothing resolves; it never
// fails. Implementations must be safe for concurrent use across messages.
type Inferencer interface {
	// Analyse searches query (optionally biased by hint tags) for a known
	// place. maxResults caps the candidate scan; seed makes the mark jitter
	// deterministic per message.
	Analyse(query string, hintTags []string, maxResults int, seed string) *Mark

	// CountryName returns the display name for an ISO country code, empty
	// when unknown.
	CountryName(code string) string

	// CountryCenter returns the approximate centroid for an ISO country
	// code in [lon, lat] order.
	CountryCenter(code string) (domain.GeoPoint, bool)
}
