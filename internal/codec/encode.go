package codec

import (
	"math"

	"github.com/jonesrussell/north-cloud/enrichment/internal/domain"
	"github.com/jonesrussell/north-cloud/enrichment/internal/geo"
)

// timeLayout is the fixed UTC textual format for all emitted timestamps.
const timeLayout = "2006-01-02T15:04:05.000Z"

// EncodeOptions parameterize one encode call.
type EncodeOptions struct {
	// IncludeDerived selects the full document with all derived and
	// redundant fields. False yields the lean form for embedding inside a
	// parent record.
	IncludeDerived bool
	// LinkLengthThreshold is the link length above which emitted text
	// carries a shortlink instead. Non-positive disables rewriting.
	LinkLengthThreshold int
	// ShortlinkStub is the base URL of the shortlink redirect service.
	ShortlinkStub string
}

// Encoder turns messages into their JSON document form. The optional
// country collaborator resolves country names and centers for the derived
// block.
type Encoder struct {
	countries geo.Inferencer
}

// NewEncoder creates an encoder. countries may be nil, which drops the
// resolved country name and center from the derived block.
func NewEncoder(countries geo.Inferencer) *Encoder {
	return &Encoder{countries: countries}
}

// Encode builds the document for m. Optional fields are emitted only when
// set; key order is fixed by this function and stable across calls.
func (e *Encoder) Encode(m *domain.Message, opts EncodeOptions) *Document {
	threshold := opts.LinkLengthThreshold
	if threshold <= 0 {
		threshold = math.MaxInt
	}

	doc := NewDocument()

	doc.Put("timestamp", m.Timestamp.UTC().Format(timeLayout))
	doc.Put("created_at", m.CreatedAt.UTC().Format(timeLayout))
	if m.Valid.On != nil {
		doc.Put("on", m.Valid.On.UTC().Format(timeLayout))
	}
	if m.Valid.To != nil {
		doc.Put("to", m.Valid.To.UTC().Format(timeLayout))
	}
	doc.Put("screen_name", m.ScreenName)
	if m.RetweetFrom != "" {
		doc.Put("retweet_from", m.RetweetFrom)
	}

	tlm := RewriteShortlinks(m.Text, m.Links, m.IDStr, threshold, opts.ShortlinkStub)
	textObj := NewDocument()
	textObj.Put("text", tlm.Text)
	textObj.Put("unshorten", tlm.ShortToLong)
	doc.Put("text", textObj)

	if m.StatusIDURL != nil {
		doc.Put("link", m.StatusIDURL.String())
	}
	doc.Put("id_str", m.IDStr)
	if m.CanonicalID != "" {
		doc.Put("canonical_id", m.CanonicalID)
	}
	if m.Parent != "" {
		doc.Put("parent", m.Parent)
	}
	doc.Put("source_type", string(m.SourceType))
	doc.Put("provider_type", string(m.ProviderType))
	if m.ProviderHash != "" {
		doc.Put("provider_hash", m.ProviderHash)
	}
	doc.Put("retweet_count", m.RetweetCount)
	// the plural naming is inconsistent but matches the upstream API
	doc.Put("favourites_count", m.FavouritesCount)
	doc.Put("place_name", m.PlaceName)
	doc.Put("place_id", m.PlaceID)

	if opts.IncludeDerived {
		e.encodeDerived(doc, m, tlm)
	}
	return doc
}

// encodeDerived appends the statistic and redundant fields used for search
// aggregations and ranking.
func (e *Encoder) encodeDerived(doc *Document, m *domain.Message, tlm TextLinkMap) {
	doc.Put("text_length", m.TextLength())

	if m.PlaceContext != "" {
		doc.Put("place_context", string(m.PlaceContext))
	}
	if len(m.PlaceCountry) == 2 {
		name := ""
		if e.countries != nil {
			name = e.countries.CountryName(m.PlaceCountry)
		}
		if name == "" {
			name = m.PlaceCountry
		}
		doc.Put("place_country", name)
		doc.Put("place_country_code", m.PlaceCountry)
		if e.countries != nil {
			if center, ok := e.countries.CountryCenter(m.PlaceCountry); ok {
				doc.Put("place_country_center", []float64{center.Lon(), center.Lat()})
			}
		}
	}

	// location is all-or-nothing: point and mark always appear together
	if m.Location != nil {
		doc.Put("location_point", []float64{m.Location.Point.Lon(), m.Location.Point.Lat()})
		doc.Put("location_radius", m.Location.Radius)
		doc.Put("location_mark", []float64{m.Location.Mark.Lon(), m.Location.Mark.Lat()})
		doc.Put("location_source", string(m.Location.Source))
	}

	doc.Put("hosts", emptyIfNil(m.Hosts))
	doc.Put("hosts_count", len(m.Hosts))
	doc.Put("links", emptyIfNil(m.Links))
	doc.Put("links_count", len(m.Links))
	doc.Put("unshorten", tlm.ShortToLong)
	doc.Put("images", m.Images.Values())
	doc.Put("images_count", m.Images.Len())
	doc.Put("audio", m.Audio.Values())
	doc.Put("audio_count", m.Audio.Len())
	doc.Put("videos", m.Videos.Values())
	doc.Put("videos_count", m.Videos.Len())
	doc.Put("mentions", emptyIfNil(m.Mentions))
	doc.Put("mentions_count", len(m.Mentions))
	doc.Put("hashtags", emptyIfNil(m.Hashtags))
	doc.Put("hashtags_count", len(m.Hashtags))

	for _, ctx := range domain.Contexts {
		c, ok := m.Classifier[ctx]
		if !ok || c.Category == domain.CategoryNone {
			// non-existing classifications are not stored
			continue
		}
		p := c.Probability
		if math.IsInf(p, 1) {
			p = math.MaxFloat64
		}
		doc.Put("classifier_"+string(ctx), string(c.Category))
		doc.Put("classifier_"+string(ctx)+"_probability", p)
	}

	doc.Put("without_l_len", m.WithoutLLen)
	doc.Put("without_lu_len", m.WithoutLULen)
	doc.Put("without_luh_len", m.WithoutLUHLen)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
