package storage

import "encoding/json"

// BaseSettings defines common index-level settings
type BaseSettings struct {
	NumberOfShards   int `json:"number_of_shards"`
	NumberOfReplicas int `json:"number_of_replicas"`
}

// DefaultSettings returns the default index settings
func DefaultSettings() BaseSettings {
	return BaseSettings{
		NumberOfShards:   1,
		NumberOfReplicas: 1,
	}
}

// Field represents an Elasticsearch field mapping
type Field struct {
	Type     string `json:"type,omitempty"`
	Analyzer string `json:"analyzer,omitempty"`
	Format   string `json:"format,omitempty"`
}

// MessageMapping represents the Elasticsearch mapping for enriched messages
type MessageMapping struct {
	Settings MessageSettings `json:"settings"`
	Mappings MessageMappings `json:"mappings"`
}

// MessageSettings defines index-level settings
type MessageSettings struct {
	BaseSettings
}

// MessageMappings defines the field mappings for enriched messages
type MessageMappings struct {
	Properties MessageProperties `json:"properties"`
}

// MessageProperties defines the properties for each field in the enriched
// message mapping
type MessageProperties struct {
	// Core identifiers and timestamps
	Timestamp   Field `json:"timestamp"`
	CreatedAt   Field `json:"created_at"`
	On          Field `json:"on"`
	To          Field `json:"to"`
	IDStr       Field `json:"id_str"`
	CanonicalID Field `json:"canonical_id"`
	Parent      Field `json:"parent"`

	// Author and provenance
	ScreenName   Field `json:"screen_name"`
	RetweetFrom  Field `json:"retweet_from"`
	SourceType   Field `json:"source_type"`
	ProviderType Field `json:"provider_type"`
	ProviderHash Field `json:"provider_hash"`

	// Content
	Text Field `json:"text"`
	Link Field `json:"link"`

	// Engagement counters
	RetweetCount    Field `json:"retweet_count"`
	FavouritesCount Field `json:"favourites_count"`

	// Place and location
	PlaceName          Field `json:"place_name"`
	PlaceID            Field `json:"place_id"`
	PlaceContext       Field `json:"place_context"`
	PlaceCountry       Field `json:"place_country"`
	PlaceCountryCode   Field `json:"place_country_code"`
	PlaceCountryCenter Field `json:"place_country_center"`
	LocationPoint      Field `json:"location_point"`
	LocationRadius     Field `json:"location_radius"`
	LocationMark       Field `json:"location_mark"`
	LocationSource     Field `json:"location_source"`

	// Derived entities
	TextLength    Field `json:"text_length"`
	Hosts         Field `json:"hosts"`
	HostsCount    Field `json:"hosts_count"`
	Links         Field `json:"links"`
	LinksCount    Field `json:"links_count"`
	Unshorten     Field `json:"unshorten"`
	Images        Field `json:"images"`
	ImagesCount   Field `json:"images_count"`
	Audio         Field `json:"audio"`
	AudioCount    Field `json:"audio_count"`
	Videos        Field `json:"videos"`
	VideosCount   Field `json:"videos_count"`
	Mentions      Field `json:"mentions"`
	MentionsCount Field `json:"mentions_count"`
	Hashtags      Field `json:"hashtags"`
	HashtagsCount Field `json:"hashtags_count"`

	// Classification results
	ClassifierSentiment            Field `json:"classifier_sentiment"`
	ClassifierSentimentProbability Field `json:"classifier_sentiment_probability"`
	ClassifierProfanity            Field `json:"classifier_profanity"`
	ClassifierProfanityProbability Field `json:"classifier_profanity_probability"`
	ClassifierEmotion              Field `json:"classifier_emotion"`
	ClassifierEmotionProbability   Field `json:"classifier_emotion_probability"`

	// Residual text lengths
	WithoutLLen   Field `json:"without_l_len"`
	WithoutLULen  Field `json:"without_lu_len"`
	WithoutLUHLen Field `json:"without_luh_len"`
}

// NewMessageMapping creates a new enriched message mapping with default
// settings
func NewMessageMapping() *MessageMapping {
	return &MessageMapping{
		Settings: MessageSettings{
			BaseSettings: DefaultSettings(),
		},
		Mappings: MessageMappings{
			Properties: MessageProperties{
				Timestamp: Field{
					Type:   "date",
					Format: "strict_date_optional_time||epoch_millis",
				},
				CreatedAt: Field{
					Type:   "date",
					Format: "strict_date_optional_time||epoch_millis",
				},
				On: Field{
					Type:   "date",
					Format: "strict_date_optional_time||epoch_millis",
				},
				To: Field{
					Type:   "date",
					Format: "strict_date_optional_time||epoch_millis",
				},
				IDStr: Field{
					Type: "keyword",
				},
				CanonicalID: Field{
					Type: "keyword",
				},
				Parent: Field{
					Type: "keyword",
				},
				ScreenName: Field{
					Type: "keyword",
				},
				RetweetFrom: Field{
					Type: "keyword",
				},
				SourceType: Field{
					Type: "keyword",
				},
				ProviderType: Field{
					Type: "keyword",
				},
				ProviderHash: Field{
					Type: "keyword",
				},
				Text: Field{
					Type: "object",
				},
				Link: Field{
					Type: "keyword",
				},
				RetweetCount: Field{
					Type: "long",
				},
				FavouritesCount: Field{
					Type: "long",
				},
				PlaceName: Field{
					Type: "keyword",
				},
				PlaceID: Field{
					Type: "keyword",
				},
				PlaceContext: Field{
					Type: "keyword",
				},
				PlaceCountry: Field{
					Type: "keyword",
				},
				PlaceCountryCode: Field{
					Type: "keyword",
				},
				PlaceCountryCenter: Field{
					Type: "geo_point",
				},
				LocationPoint: Field{
					Type: "geo_point",
				},
				LocationRadius: Field{
					Type: "integer",
				},
				LocationMark: Field{
					Type: "geo_point",
				},
				LocationSource: Field{
					Type: "keyword",
				},
				TextLength: Field{
					Type: "integer",
				},
				Hosts: Field{
					Type: "keyword",
				},
				HostsCount: Field{
					Type: "integer",
				},
				Links: Field{
					Type: "keyword",
				},
				LinksCount: Field{
					Type: "integer",
				},
				Unshorten: Field{
					Type: "object",
				},
				Images: Field{
					Type: "keyword",
				},
				ImagesCount: Field{
					Type: "integer",
				},
				Audio: Field{
					Type: "keyword",
				},
				AudioCount: Field{
					Type: "integer",
				},
				Videos: Field{
					Type: "keyword",
				},
				VideosCount: Field{
					Type: "integer",
				},
				Mentions: Field{
					Type: "keyword",
				},
				MentionsCount: Field{
					Type: "integer",
				},
				Hashtags: Field{
					Type: "keyword",
				},
				HashtagsCount: Field{
					Type: "integer",
				},
				ClassifierSentiment: Field{
					Type: "keyword",
				},
				ClassifierSentimentProbability: Field{
					Type: "double",
				},
				ClassifierProfanity: Field{
					Type: "keyword",
				},
				ClassifierProfanityProbability: Field{
					Type: "double",
				},
				ClassifierEmotion: Field{
					Type: "keyword",
				},
				ClassifierEmotionProbability: Field{
					Type: "double",
				},
				WithoutLLen: Field{
					Type: "integer",
				},
				WithoutLULen: Field{
					Type: "integer",
				},
				WithoutLUHLen: Field{
					Type: "integer",
				},
			},
		},
	}
}

// ToMap converts a mapping to a map[string]interface{} for Elasticsearch
func ToMap(mapping interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(mapping)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	return result, nil
}
