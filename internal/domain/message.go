// Package domain holds the message record and the value types shared by the
// enrichment pipeline, the codec, and storage.
package domain

import (
	"net/url"
	"time"
)

// GeoPoint is a coordinate pair in [longitude, latitude] order, matching the
// Elasticsearch geo_point array form.
type GeoPoint [2]float64

// Lon returns the longitude component.
func (p GeoPoint) Lon() float64 { return p[0] }

// Lat returns the latitude component.
func (p GeoPoint) Lat() float64 { return p[1] }

// Location groups the coordinate fields of a message. Point and Mark are
// always set together; a message either has a full Location or none at all.
type Location struct {
	// Point is the primary coordinate.
	Point GeoPoint
	// Mark is a secondary coordinate within Radius meters of Point, used for
	// map-marker placement distinct from the inferred center.
	Mark GeoPoint
	// Radius is the uncertainty around Point in meters.
	Radius int
	Source LocationSource
}

// TimeWindow is the optional validity window of a message. Either bound may
// be absent.
type TimeWindow struct {
	On *time.Time // valid from
	To *time.Time // valid until
}

// IsZero reports whether neither bound is set.
func (w TimeWindow) IsZero() bool { return w.On == nil && w.To == nil }

// Message is one captured social-media message plus the data derived from it.
// Raw fields are filled by the caller or the codec; derived fields are filled
// by enrichment exactly once.
type Message struct {
	// Timestamp is the capture time, assigned on arrival.
	Timestamp time.Time
	// CreatedAt is the author-asserted creation time.
	CreatedAt time.Time
	Valid     TimeWindow

	SourceType   SourceType
	ProviderType ProviderType
	ProviderHash string
	ScreenName   string
	RetweetFrom  string
	IDStr        string
	CanonicalID  string
	Parent       string

	Text        string
	StatusIDURL *url.URL

	RetweetCount    int64
	FavouritesCount int64

	PlaceName    string
	PlaceID      string
	PlaceContext PlaceContext // empty when unknown
	PlaceCountry string       // ISO 3166-1 alpha-2, empty when unknown

	Location *Location

	// Media sets are seeded from input and extended during enrichment.
	Images *StringSet
	Audio  *StringSet
	Videos *StringSet

	// Derived arrays, first-occurrence order.
	Hosts    []string
	Links    []string
	Mentions []string
	Hashtags []string

	// Residual text lengths after stripping links, links+users, and
	// links+users+hashtags. Always len(Text) >= L >= LU >= LUH >= 0.
	WithoutLLen   int
	WithoutLULen  int
	WithoutLUHLen int

	// Classifier holds per-context classification results, nil until
	// enrichment ran with a classifier attached.
	Classifier ClassifierResult

	enriched bool
}

// NewMessage returns a message with all defaults applied: capture and
// creation time set to now, closed enums at their fallback values, media
// sets empty.
func NewMessage() *Message {
	now := time.Now().UTC()
	return &Message{
		Timestamp:    now,
		CreatedAt:    now,
		SourceType:   SourceTypeGeneric,
		ProviderType: ProviderTypeNoone,
		Images:       NewStringSet(),
		Audio:        NewStringSet(),
		Videos:       NewStringSet(),
		Hosts:        []string{},
		Links:        []string{},
		Mentions:     []string{},
		Hashtags:     []string{},
	}
}

// Enriched reports whether enrichment already ran on this message.
func (m *Message) Enriched() bool { return m.enriched }

// MarkEnriched flags the message so enrichment never runs twice.
func (m *Message) MarkEnriched() { m.enriched = true }

// TextLength returns the text length in runes. Residual lengths use the same
// unit so the length invariant holds.
func (m *Message) TextLength() int {
	return runeLen(m.Text)
}
