package enricher

import (
	"context"
	"errors"
	"testing"

	"github.com/jonesrussell/north-cloud/enrichment/internal/classify"
	"github.com/jonesrussell/north-cloud/enrichment/internal/domain"
	"github.com/jonesrussell/north-cloud/enrichment/internal/geo"
)

type failingClassifier struct{}

func (failingClassifier) Classify(context.Context, string) (domain.ClassifierResult, error) {
	return nil, errors.New("backend down")
}

func TestEnrich_ExtractsEntitiesAndMedia(t *testing.T) {
	e := New(nil, nil, Config{}, nil, nil)

	m := domain.NewMessage()
	m.Text = "check this https://youtube.com/xyz out @alice #fun"
	e.Enrich(context.Background(), m)

	if len(m.Links) != 1 || m.Links[0] != "https://youtube.com/xyz" {
		t.Errorf("links: got %v", m.Links)
	}
	if len(m.Mentions) != 1 || m.Mentions[0] != "alice" {
		t.Errorf("mentions: got %v", m.Mentions)
	}
	if len(m.Hashtags) != 1 || m.Hashtags[0] != "fun" {
		t.Errorf("hashtags: got %v", m.Hashtags)
	}
	if len(m.Hosts) != 1 || m.Hosts[0] != "youtube.com" {
		t.Errorf("hosts: got %v", m.Hosts)
	}
	if !m.Videos.Contains("https://youtube.com/xyz") {
		t.Errorf("videos: got %v", m.Videos.Values())
	}
	if m.WithoutLLen != 26 || m.WithoutLULen != 19 || m.WithoutLUHLen != 14 {
		t.Errorf("residuals: got %d %d %d", m.WithoutLLen, m.WithoutLULen, m.WithoutLUHLen)
	}
}

func TestEnrich_RunsOnce(t *testing.T) {
	e := New(nil, nil, Config{}, nil, nil)

	m := domain.NewMessage()
	m.Text = "first pass @alice"
	e.Enrich(context.Background(), m)

	if len(m.Mentions) != 1 {
		t.Fatalf("mentions: got %v", m.Mentions)
	}

	m.Text = "second pass @bob @carol"
	e.Enrich(context.Background(), m)

	if len(m.Mentions) != 1 || m.Mentions[0] != "alice" {
		t.Errorf("second call re-enriched: %v", m.Mentions)
	}
}

func TestEnrich_Classification(t *testing.T) {
	cls := classify.NewRuleClassifier(classify.DefaultRules(), nil)
	e := New(cls, nil, Config{}, nil, nil)

	m := domain.NewMessage()
	m.Text = "what a great and awesome day"
	e.Enrich(context.Background(), m)

	if m.Classifier.Category(domain.ContextSentiment) != domain.CategoryPositive {
		t.Errorf("sentiment: got %v", m.Classifier.Category(domain.ContextSentiment))
	}
}

func TestEnrich_ClassifierFailureDegrades(t *testing.T) {
	e := New(failingClassifier{}, nil, Config{}, nil, nil)

	m := domain.NewMessage()
	m.Text = "some text"
	e.Enrich(context.Background(), m)

	if m.Classifier != nil {
		t.Errorf("classifier result set on failure: %v", m.Classifier)
	}
	if !m.Enriched() {
		t.Error("message not marked enriched")
	}
}

func TestEnrich_LocationFromPlaceName(t *testing.T) {
	e := New(nil, geo.NewGazetteer(nil), Config{}, nil, nil)

	m := domain.NewMessage()
	m.Text = "nothing geographic here"
	m.PlaceName = "Toronto"
	e.Enrich(context.Background(), m)

	if m.Location == nil {
		t.Fatal("location not inferred")
	}
	if m.PlaceContext != domain.PlaceContextFrom {
		t.Errorf("place_context: got %v", m.PlaceContext)
	}
	if m.Location.Source != domain.LocationSourcePlace {
		t.Errorf("location source: got %v", m.Location.Source)
	}
	if m.PlaceCountry != "CA" {
		t.Errorf("place_country: got %q", m.PlaceCountry)
	}
}

func TestEnrich_LocationFromText(t *testing.T) {
	e := New(nil, geo.NewGazetteer(nil), Config{}, nil, nil)

	m := domain.NewMessage()
	m.Text = "Snow in Toronto today"
	e.Enrich(context.Background(), m)

	if m.Location == nil {
		t.Fatal("location not inferred")
	}
	if m.PlaceContext != domain.PlaceContextAbout {
		t.Errorf("place_context: got %v", m.PlaceContext)
	}
	if m.Location.Source != domain.LocationSourceAnnotation {
		t.Errorf("location source: got %v", m.Location.Source)
	}
	if m.PlaceName != "Toronto" {
		t.Errorf("place_name not filled: %q", m.PlaceName)
	}
}

func TestEnrich_ExistingLocationKept(t *testing.T) {
	e := New(nil, geo.NewGazetteer(nil), Config{}, nil, nil)

	m := domain.NewMessage()
	m.Text = "Snow in Toronto today"
	m.Location = &domain.Location{
		Point:  domain.GeoPoint{2.3522, 48.8566},
		Mark:   domain.GeoPoint{2.3522, 48.8566},
		Source: domain.LocationSourceUser,
	}
	e.Enrich(context.Background(), m)

	if m.Location.Source != domain.LocationSourceUser {
		t.Errorf("existing location replaced: %v", m.Location.Source)
	}
	if m.PlaceContext != "" {
		t.Errorf("place_context set: %v", m.PlaceContext)
	}
}
