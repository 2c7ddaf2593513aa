// Package enricher derives the computed fields of a message: entities,
// hosts, media buckets, classifier results, and an inferred location.
package enricher

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jonesrussell/north-cloud/enrichment/internal/classify"
	"github.com/jonesrussell/north-cloud/enrichment/internal/domain"
	"github.com/jonesrussell/north-cloud/enrichment/internal/extract"
	"github.com/jonesrussell/north-cloud/enrichment/internal/geo"
	"github.com/jonesrussell/north-cloud/enrichment/internal/logger"
	"github.com/jonesrussell/north-cloud/enrichment/internal/telemetry"
)

// Enricher runs the one-time derivation pass over messages. Collaborators
// are injected; either may be nil, which skips its stage. An Enricher is
// safe for concurrent use across distinct messages; enriching the same
// message concurrently is not supported.
type Enricher struct {
	classifier    classify.Classifier
	inferencer    geo.Inferencer
	geoMaxResults int
	log           logger.Logger
	telemetry     *telemetry.Provider
}

// Config holds enricher settings.
type Config struct {
	// GeoMaxResults caps the candidate scan per geo query.
	GeoMaxResults int
}

const defaultGeoMaxResults = 5

// New creates an enricher with the given collaborators.
func New(classifier classify.Classifier, inferencer geo.Inferencer, cfg Config, log logger.Logger, tp *telemetry.Provider) *Enricher {
	if cfg.GeoMaxResults <= 0 {
		cfg.GeoMaxResults = defaultGeoMaxResults
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Enricher{
		classifier:    classifier,
		inferencer:    inferencer,
		geoMaxResults: cfg.GeoMaxResults,
		log:           log,
		telemetry:     tp,
	}
}

// Enrich fills the derived fields of m in place. It runs at most once per
// message: a second call is a no-op. Collaborator failures degrade (the
// affected fields stay empty) and never fail the pass.
func (e *Enricher) Enrich(ctx context.Context, m *domain.Message) {
	if m.Enriched() {
		return
	}
	start := time.Now()

	ents := extract.Extract(m.Text)
	m.Links = ents.Links
	m.Mentions = ents.Mentions
	m.Hashtags = ents.Hashtags
	m.WithoutLLen = ents.WithoutLinks
	m.WithoutLULen = ents.WithoutLinksUsers
	m.WithoutLUHLen = ents.WithoutLinksUsersHashtags
	m.Hosts = extract.Hosts(m.Links)

	for _, link := range m.Links {
		switch extract.ClassifyMedia(link) {
		case extract.MediaVideo:
			m.Videos.Add(link)
		case extract.MediaAudio:
			m.Audio.Add(link)
		case extract.MediaImage:
			m.Images.Add(link)
		case extract.MediaNone:
		}
	}

	e.classifyText(ctx, m)
	e.inferLocation(m)

	m.MarkEnriched()

	if e.telemetry != nil {
		e.telemetry.Metrics.MessagesEnriched.WithLabelValues(string(m.SourceType)).Inc()
		e.telemetry.Metrics.EnrichmentDuration.Observe(time.Since(start).Seconds())
		e.telemetry.Metrics.LinksExtracted.Add(float64(len(m.Links)))
	}
}

func (e *Enricher) classifyText(ctx context.Context, m *domain.Message) {
	if e.classifier == nil {
		return
	}
	result, err := e.classifier.Classify(ctx, m.Text)
	if err != nil {
		e.log.Warn("classifier failed, leaving classification empty",
			logger.String("id_str", m.IDStr),
			logger.Error(err))
		if e.telemetry != nil {
			e.telemetry.Metrics.ClassifierFailures.Inc()
		}
		return
	}
	m.Classifier = result
}

// inferLocation runs only when the message has no location yet. A non-empty
// place name is queried first; failing that, the full text plus hashtags.
func (e *Enricher) inferLocation(m *domain.Message) {
	if m.Location != nil || e.inferencer == nil {
		return
	}

	seed := textSeed(m.Text)

	var loc *geo.Mark
	var source domain.LocationSource
	if m.PlaceName != "" {
		if loc = e.inferencer.Analyse(m.PlaceName, nil, e.geoMaxResults, seed); loc != nil {
			m.PlaceContext = domain.PlaceContextFrom
			source = domain.LocationSourcePlace
		}
	}
	if loc == nil {
		if loc = e.inferencer.Analyse(m.Text, m.Hashtags, e.geoMaxResults, seed); loc != nil {
			m.PlaceContext = domain.PlaceContextAbout
			source = domain.LocationSourceAnnotation
		}
	}

	if loc == nil {
		if e.telemetry != nil {
			e.telemetry.Metrics.GeoQueries.WithLabelValues("miss").Inc()
		}
		return
	}

	if m.PlaceName == "" && len(loc.Names) > 0 {
		m.PlaceName = loc.Names[0]
	}
	m.Location = &domain.Location{
		Point:  domain.GeoPoint{loc.Lon, loc.Lat},
		Mark:   domain.GeoPoint{loc.MarkLon, loc.MarkLat},
		Radius: 0,
		Source: source,
	}
	m.PlaceCountry = loc.CountryCode
	if e.telemetry != nil {
		e.telemetry.Metrics.GeoQueries.WithLabelValues("hit").Inc()
	}
}

// textSeed derives the deterministic dedup seed for geo queries from the
// message text.
func textSeed(text string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	return fmt.Sprintf("%d", h.Sum32())
}
