//nolint:testpackage // testing internal mapping structure
package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageMapping(t *testing.T) {
	mapping := NewMessageMapping()

	assert.Equal(t, 1, mapping.Settings.NumberOfShards)
	assert.Equal(t, 1, mapping.Settings.NumberOfReplicas)

	props := mapping.Mappings.Properties
	assert.Equal(t, "date", props.Timestamp.Type)
	assert.Equal(t, "geo_point", props.LocationPoint.Type)
	assert.Equal(t, "double", props.ClassifierSentimentProbability.Type)
	assert.Equal(t, "integer", props.WithoutLUHLen.Type)
}

func TestToMap(t *testing.T) {
	m, err := ToMap(NewMessageMapping())
	require.NoError(t, err)

	settings, ok := m["settings"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), settings["number_of_shards"])

	mappings, ok := m["mappings"].(map[string]interface{})
	require.True(t, ok)
	props, ok := mappings["properties"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"timestamp", "text", "id_str", "location_point", "classifier_sentiment"} {
		assert.Contains(t, props, key)
	}
}

func TestEnrichedIndexName(t *testing.T) {
	s := NewElasticsearchStorage(nil, "_raw_messages", "_messages")

	assert.Equal(t, "twitter_messages", s.EnrichedIndexName("TWITTER"))
	assert.Equal(t, "generic_messages", s.EnrichedIndexName("generic"))
}
