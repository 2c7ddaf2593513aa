package codec

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/jonesrussell/north-cloud/enrichment/internal/domain"
	"github.com/jonesrussell/north-cloud/enrichment/internal/enricher"
	"github.com/jonesrussell/north-cloud/enrichment/internal/logger"
)

// ErrNotObject is returned when the input is not a JSON object. It is the
// only decode failure surfaced to the caller; every malformed field inside
// an object degrades to a documented default instead.
var ErrNotObject = errors.New("message document is not a JSON object")

// decodeTimeLayouts are tried in order when parsing timestamp fields.
var decodeTimeLayouts = []string{
	timeLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Decoder rehydrates messages from their JSON document form and runs
// enrichment as the final decode step.
type Decoder struct {
	enricher *enricher.Enricher
	log      logger.Logger
}

// NewDecoder creates a decoder. enr may be nil in tests that only exercise
// field decoding.
func NewDecoder(enr *enricher.Enricher, log logger.Logger) *Decoder {
	if log == nil {
		log = logger.NewNop()
	}
	return &Decoder{enricher: enr, log: log}
}

// Decode parses data into a message. Malformed scalars fall back to their
// defaults; only a non-object input fails.
func (d *Decoder) Decode(ctx context.Context, data []byte) (*domain.Message, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrNotObject
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return d.DecodeObject(ctx, obj)
}

// DecodeObject decodes an already-parsed JSON object.
func (d *Decoder) DecodeObject(ctx context.Context, obj map[string]any) (*domain.Message, error) {
	m := domain.NewMessage()

	m.Timestamp = d.decodeTime(obj, "timestamp")
	m.CreatedAt = d.decodeTime(obj, "created_at")
	if t, ok := d.decodeOptionalTime(obj, "on"); ok {
		m.Valid.On = &t
	}
	if t, ok := d.decodeOptionalTime(obj, "to"); ok {
		m.Valid.To = &t
	}

	m.SourceType = domain.ParseSourceType(getString(obj, "source_type"))
	m.ProviderType = domain.ParseProviderType(getString(obj, "provider_type"))
	m.ProviderHash = getString(obj, "provider_hash")
	m.ScreenName = getString(obj, "screen_name")
	m.RetweetFrom = getString(obj, "retweet_from")
	m.IDStr = getString(obj, "id_str")
	m.CanonicalID = getString(obj, "canonical_id")
	m.Parent = getString(obj, "parent")
	m.Text = decodeText(obj)

	if u := parseURL(getString(obj, "link")); u != nil {
		m.StatusIDURL = u
	}

	m.RetweetCount = getCount(obj, "retweet_count")
	m.FavouritesCount = getCount(obj, "favourites_count")

	m.Images = domain.NewStringSet(getStringList(obj, "images")...)
	m.Audio = domain.NewStringSet(getStringList(obj, "audio")...)
	m.Videos = domain.NewStringSet(getStringList(obj, "videos")...)

	m.PlaceID = getString(obj, "place_id")
	m.PlaceName = getString(obj, "place_name")
	if cc := getString(obj, "place_country_code"); len(cc) == 2 {
		m.PlaceCountry = cc
	} else if cc := getString(obj, "place_country"); len(cc) == 2 {
		m.PlaceCountry = cc
	}

	m.Location = decodeLocation(obj)

	if d.enricher != nil {
		d.enricher.Enrich(ctx, m)
	}
	return m, nil
}

// decodeTime parses a required timestamp field, falling back to the current
// time. The fallback can mask corrupt input, so it is logged.
func (d *Decoder) decodeTime(obj map[string]any, key string) time.Time {
	s := getString(obj, key)
	if t, ok := parseTime(s); ok {
		return t
	}
	if s != "" {
		d.log.Debug("unparsable time, falling back to now",
			logger.String("field", key),
			logger.String("value", s))
	}
	return time.Now().UTC()
}

// decodeOptionalTime parses an optional timestamp field. Absent or
// unparsable values decode to absent.
func (d *Decoder) decodeOptionalTime(obj map[string]any, key string) (time.Time, bool) {
	if _, present := obj[key]; !present {
		return time.Time{}, false
	}
	return parseTime(getString(obj, key))
}

// decodeText accepts both the raw string form and the emitted object form
// {"text": ..., "unshorten": {...}}.
func decodeText(obj map[string]any) string {
	switch v := obj["text"].(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["text"].(string); ok {
			return s
		}
	}
	return ""
}

// decodeLocation decodes the location block. Point and mark must both be
// well-formed pairs, otherwise every location field is cleared.
func decodeLocation(obj map[string]any) *domain.Location {
	point, okP := getGeoPoint(obj, "location_point")
	mark, okM := getGeoPoint(obj, "location_mark")
	if !okP || !okM {
		return nil
	}
	return &domain.Location{
		Point:  point,
		Mark:   mark,
		Radius: int(getCount(obj, "location_radius")),
		Source: domain.ParseLocationSource(getString(obj, "location_source")),
	}
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range decodeTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseURL returns nil for anything that is not an absolute URL with a host.
func parseURL(s string) *url.URL {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}
	return u
}

func getString(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// getCount parses a non-negative integer field; anything else decodes to 0.
func getCount(obj map[string]any, key string) int64 {
	f, ok := obj[key].(float64)
	if !ok || f < 0 {
		return 0
	}
	return int64(f)
}

func getStringList(obj map[string]any, key string) []string {
	list, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getGeoPoint(obj map[string]any, key string) (domain.GeoPoint, bool) {
	list, ok := obj[key].([]any)
	if !ok || len(list) < 2 {
		return domain.GeoPoint{}, false
	}
	lon, okLon := list[0].(float64)
	lat, okLat := list[1].(float64)
	if !okLon || !okLat {
		return domain.GeoPoint{}, false
	}
	return domain.GeoPoint{lon, lat}, true
}
