package codec

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/enrichment/internal/domain"
)

func testMessage() *domain.Message {
	m := domain.NewMessage()
	m.Timestamp = time.Date(2017, 5, 1, 12, 30, 45, 0, time.UTC)
	m.CreatedAt = time.Date(2017, 5, 1, 12, 0, 0, 0, time.UTC)
	m.ScreenName = "alice"
	m.IDStr = "901"
	m.SourceType = domain.SourceTypeTwitter
	m.ProviderType = domain.ProviderTypeScraped
	m.Text = "hello world"
	return m
}

func TestEncode_FixedTimeFormat(t *testing.T) {
	doc := NewEncoder(nil).Encode(testMessage(), EncodeOptions{})

	v, _ := doc.Get("timestamp")
	if v != "2017-05-01T12:30:45.000Z" {
		t.Errorf("timestamp: got %v", v)
	}
}

func TestEncode_LeanKeyOrder(t *testing.T) {
	doc := NewEncoder(nil).Encode(testMessage(), EncodeOptions{})

	want := []string{
		"timestamp", "created_at", "screen_name", "text", "id_str",
		"source_type", "provider_type", "retweet_count", "favourites_count",
		"place_name", "place_id",
	}
	if !reflect.DeepEqual(doc.Keys(), want) {
		t.Errorf("keys: got %v, want %v", doc.Keys(), want)
	}
}

func TestEncode_OptionalFieldsOmittedWhenUnset(t *testing.T) {
	doc := NewEncoder(nil).Encode(testMessage(), EncodeOptions{IncludeDerived: true})

	for _, key := range []string{
		"on", "to", "retweet_from", "link", "canonical_id", "parent",
		"provider_hash", "place_context", "place_country",
		"location_point", "location_radius", "location_mark", "location_source",
	} {
		if _, ok := doc.Get(key); ok {
			t.Errorf("key %q present on a message without it", key)
		}
	}
}

func TestEncode_OptionalFieldsPresentWhenSet(t *testing.T) {
	m := testMessage()
	on := time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC)
	m.Valid.On = &on
	m.RetweetFrom = "bob"
	m.CanonicalID = "can-1"
	m.Parent = "900"
	m.ProviderHash = "ab12"
	m.StatusIDURL, _ = url.Parse("https://twitter.com/alice/status/901")

	doc := NewEncoder(nil).Encode(m, EncodeOptions{})

	checks := map[string]any{
		"on":            "2017-06-01T00:00:00.000Z",
		"retweet_from":  "bob",
		"canonical_id":  "can-1",
		"parent":        "900",
		"provider_hash": "ab12",
		"link":          "https://twitter.com/alice/status/901",
	}
	for key, want := range checks {
		v, ok := doc.Get(key)
		if !ok || v != want {
			t.Errorf("key %q: got %v (%v), want %v", key, v, ok, want)
		}
	}
}

func TestEncode_DerivedBlock(t *testing.T) {
	m := testMessage()
	m.Text = "check this https://youtube.com/xyz out @alice #fun"
	m.Links = []string{"https://youtube.com/xyz"}
	m.Hosts = []string{"youtube.com"}
	m.Mentions = []string{"alice"}
	m.Hashtags = []string{"fun"}
	m.Videos.Add("https://youtube.com/xyz")
	m.WithoutLLen = 26
	m.WithoutLULen = 19
	m.WithoutLUHLen = 14

	doc := NewEncoder(nil).Encode(m, EncodeOptions{IncludeDerived: true})

	if v, _ := doc.Get("text_length"); v != 50 {
		t.Errorf("text_length: got %v", v)
	}
	if v, _ := doc.Get("links_count"); v != 1 {
		t.Errorf("links_count: got %v", v)
	}
	if v, _ := doc.Get("videos"); !reflect.DeepEqual(v, []string{"https://youtube.com/xyz"}) {
		t.Errorf("videos: got %v", v)
	}
	if v, _ := doc.Get("without_l_len"); v != 26 {
		t.Errorf("without_l_len: got %v", v)
	}
	if v, _ := doc.Get("without_luh_len"); v != 14 {
		t.Errorf("without_luh_len: got %v", v)
	}
}

func TestEncode_EmptyArraysNotNull(t *testing.T) {
	doc := NewEncoder(nil).Encode(testMessage(), EncodeOptions{IncludeDerived: true})

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"hosts", "links", "images", "audio", "videos", "mentions", "hashtags"} {
		if _, ok := obj[key].([]any); !ok {
			t.Errorf("key %q is %T, want array", key, obj[key])
		}
	}
}

func TestEncode_ClassifierNoneOmitted(t *testing.T) {
	m := testMessage()
	m.Classifier = domain.ClassifierResult{
		domain.ContextSentiment: {Category: domain.CategoryPositive, Probability: 0.5},
		domain.ContextProfanity: {Category: domain.CategoryNone},
		domain.ContextEmotion:   {Category: domain.CategoryNone},
	}

	doc := NewEncoder(nil).Encode(m, EncodeOptions{IncludeDerived: true})

	if v, _ := doc.Get("classifier_sentiment"); v != "positive" {
		t.Errorf("classifier_sentiment: got %v", v)
	}
	if v, _ := doc.Get("classifier_sentiment_probability"); v != 0.5 {
		t.Errorf("probability: got %v", v)
	}
	if _, ok := doc.Get("classifier_profanity"); ok {
		t.Error("none category was serialized")
	}
	if _, ok := doc.Get("classifier_emotion"); ok {
		t.Error("none category was serialized")
	}
}

func TestEncode_InfiniteProbabilityClamped(t *testing.T) {
	m := testMessage()
	m.Classifier = domain.ClassifierResult{
		domain.ContextSentiment: {Category: domain.CategoryPositive, Probability: math.Inf(1)},
	}

	doc := NewEncoder(nil).Encode(m, EncodeOptions{IncludeDerived: true})

	v, _ := doc.Get("classifier_sentiment_probability")
	if v != math.MaxFloat64 {
		t.Errorf("probability: got %v", v)
	}
}

func TestEncode_LocationAllOrNothing(t *testing.T) {
	m := testMessage()
	m.Location = &domain.Location{
		Point:  domain.GeoPoint{-79.3832, 43.6532},
		Mark:   domain.GeoPoint{-79.3801, 43.6550},
		Radius: 100,
		Source: domain.LocationSourceUser,
	}

	doc := NewEncoder(nil).Encode(m, EncodeOptions{IncludeDerived: true})

	for _, key := range []string{"location_point", "location_radius", "location_mark", "location_source"} {
		if _, ok := doc.Get(key); !ok {
			t.Errorf("missing %q", key)
		}
	}
	if v, _ := doc.Get("location_source"); v != "USER" {
		t.Errorf("location_source: got %v", v)
	}
}

func TestDecode_Defaults(t *testing.T) {
	d := NewDecoder(nil, nil)
	m, err := d.Decode(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if m.SourceType != domain.SourceTypeGeneric {
		t.Errorf("source_type: got %v", m.SourceType)
	}
	if m.ProviderType != domain.ProviderTypeNoone {
		t.Errorf("provider_type: got %v", m.ProviderType)
	}
	if m.Text != "" || m.IDStr != "" {
		t.Errorf("unexpected text/id: %q %q", m.Text, m.IDStr)
	}
	if time.Since(m.Timestamp) > time.Minute {
		t.Errorf("timestamp not defaulted to now: %v", m.Timestamp)
	}
	if m.Location != nil {
		t.Errorf("location: got %+v", m.Location)
	}
}

func TestDecode_NotObject(t *testing.T) {
	d := NewDecoder(nil, nil)

	for _, in := range []string{`[1,2]`, `"text"`, `42`, `{bad json`} {
		if _, err := d.Decode(context.Background(), []byte(in)); err == nil {
			t.Errorf("input %s: expected error", in)
		}
	}
}

func TestDecode_UnknownEnumsFallBack(t *testing.T) {
	d := NewDecoder(nil, nil)
	m, err := d.Decode(context.Background(), []byte(
		`{"source_type":"CARRIER_PIGEON","provider_type":"MYSTERY"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if m.SourceType != domain.SourceTypeGeneric {
		t.Errorf("source_type: got %v", m.SourceType)
	}
	if m.ProviderType != domain.ProviderTypeNoone {
		t.Errorf("provider_type: got %v", m.ProviderType)
	}
}

func TestDecode_CountryCodeValidation(t *testing.T) {
	d := NewDecoder(nil, nil)

	m, _ := d.Decode(context.Background(), []byte(`{"place_country":"USA"}`))
	if m.PlaceCountry != "" {
		t.Errorf("three-letter code accepted: %q", m.PlaceCountry)
	}

	m, _ = d.Decode(context.Background(), []byte(`{"place_country_code":"US"}`))
	if m.PlaceCountry != "US" {
		t.Errorf("place_country_code: got %q", m.PlaceCountry)
	}
}

func TestDecode_LocationAllOrNothing(t *testing.T) {
	d := NewDecoder(nil, nil)

	// point without mark clears the whole block
	m, _ := d.Decode(context.Background(), []byte(`{"location_point":[-79.4,43.7]}`))
	if m.Location != nil {
		t.Errorf("partial location kept: %+v", m.Location)
	}

	m, _ = d.Decode(context.Background(), []byte(
		`{"location_point":[-79.4,43.7],"location_mark":[-79.38,43.71],"location_radius":50,"location_source":"REPORT"}`))
	if m.Location == nil {
		t.Fatal("location missing")
	}
	if m.Location.Point.Lon() != -79.4 || m.Location.Point.Lat() != 43.7 {
		t.Errorf("point: got %+v", m.Location.Point)
	}
	if m.Location.Radius != 50 {
		t.Errorf("radius: got %d", m.Location.Radius)
	}
	if m.Location.Source != domain.LocationSourceReport {
		t.Errorf("source: got %v", m.Location.Source)
	}
}

func TestDecode_NegativeCountsClamped(t *testing.T) {
	d := NewDecoder(nil, nil)
	m, _ := d.Decode(context.Background(), []byte(`{"retweet_count":-5,"favourites_count":"x"}`))

	if m.RetweetCount != 0 || m.FavouritesCount != 0 {
		t.Errorf("counts: got %d %d", m.RetweetCount, m.FavouritesCount)
	}
}

func TestDecode_TextObjectForm(t *testing.T) {
	d := NewDecoder(nil, nil)
	m, _ := d.Decode(context.Background(), []byte(
		`{"text":{"text":"hello","unshorten":{}}}`))

	if m.Text != "hello" {
		t.Errorf("text: got %q", m.Text)
	}
}

func TestDecode_InvalidLinkDropped(t *testing.T) {
	d := NewDecoder(nil, nil)
	m, _ := d.Decode(context.Background(), []byte(`{"link":"not a url"}`))

	if m.StatusIDURL != nil {
		t.Errorf("link: got %v", m.StatusIDURL)
	}
}

func TestRoundTrip(t *testing.T) {
	m := testMessage()
	m.Text = "hello from Toronto"
	m.PlaceName = "Toronto"
	m.PlaceCountry = "CA"
	m.Location = &domain.Location{
		Point:  domain.GeoPoint{-79.3832, 43.6532},
		Mark:   domain.GeoPoint{-79.3801, 43.6550},
		Radius: 10,
		Source: domain.LocationSourcePlace,
	}

	data, err := json.Marshal(NewEncoder(nil).Encode(m, EncodeOptions{IncludeDerived: true}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := NewDecoder(nil, nil).Decode(context.Background(), data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !got.Timestamp.Equal(m.Timestamp) {
		t.Errorf("timestamp: got %v, want %v", got.Timestamp, m.Timestamp)
	}
	if got.ScreenName != m.ScreenName || got.IDStr != m.IDStr {
		t.Errorf("identity fields: got %q %q", got.ScreenName, got.IDStr)
	}
	if got.Text != m.Text {
		t.Errorf("text: got %q", got.Text)
	}
	if got.SourceType != m.SourceType {
		t.Errorf("source_type: got %v", got.SourceType)
	}
	if got.PlaceCountry != "CA" {
		t.Errorf("place_country: got %q", got.PlaceCountry)
	}
	if got.Location == nil || got.Location.Point != m.Location.Point {
		t.Errorf("location: got %+v", got.Location)
	}
	if got.Location.Source != domain.LocationSourcePlace {
		t.Errorf("location source: got %v", got.Location.Source)
	}
}
