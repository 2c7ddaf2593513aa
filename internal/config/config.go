package config

import "time"

// Default configuration values.
const (
	defaultServiceName       = "enrichment"
	defaultServiceVersion    = "1.0.0"
	defaultServicePort       = 8075
	defaultConcurrency       = 10
	defaultBatchSize         = 100
	defaultPollIntervalSec   = 30
	defaultESURL             = "http://localhost:9200"
	defaultESMaxRetries      = 3
	defaultESTimeoutSec      = 30
	defaultESRawSuffix       = "_raw_messages"
	defaultESEnrichedSuffix  = "_messages"
	defaultLogLevel          = "info"
	defaultLogFormat         = "json"
	defaultGeoMaxResults     = 5
	defaultClassifierMode    = "rules"
	defaultRemoteClassifier  = "http://classifier-ml:8077"
	defaultShortlinkLength   = 500
	defaultShortlinkStub     = "http://localhost:9000"
	defaultRatePerSecond     = 50
)

// Classifier modes.
const (
	ClassifierModeRules  = "rules"
	ClassifierModeRemote = "remote"
)

// Config holds all configuration for the enrichment service.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Enrichment    EnrichmentConfig    `yaml:"enrichment"`
	Shortlink     ShortlinkConfig     `yaml:"shortlink"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Port         int           `env:"ENRICHMENT_PORT"        yaml:"port"`
	Debug        bool          `env:"APP_DEBUG"              yaml:"debug"`
	Concurrency  int           `env:"ENRICHMENT_CONCURRENCY" yaml:"concurrency"`
	BatchSize    int           `yaml:"batch_size"`
	PollInterval time.Duration `yaml:"poll_interval"`
	RatePerSec   int           `yaml:"rate_per_second"`
}

// ElasticsearchConfig holds Elasticsearch configuration.
type ElasticsearchConfig struct {
	URL            string        `env:"ELASTICSEARCH_URL" yaml:"url"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	MaxRetries     int           `yaml:"max_retries"`
	Timeout        time.Duration `yaml:"timeout"`
	RawSuffix      string        `yaml:"raw_suffix"`
	EnrichedSuffix string        `yaml:"enriched_suffix"`
}

// EnrichmentConfig holds the enrichment pipeline settings.
type EnrichmentConfig struct {
	// ClassifierMode selects "rules" (built-in Aho-Corasick rules) or
	// "remote" (HTTP classifier sidecar).
	ClassifierMode      string `env:"CLASSIFIER_MODE"        yaml:"classifier_mode"`
	RemoteClassifierURL string `env:"CLASSIFIER_URL"         yaml:"remote_classifier_url"`
	GeoMaxResults       int    `yaml:"geo_max_results"`
}

// ShortlinkConfig holds the outbound shortlink rewriting settings.
type ShortlinkConfig struct {
	// Length is the link length above which the codec substitutes a
	// shortlink in emitted text.
	Length int    `yaml:"length"`
	Stub   string `env:"SHORTLINK_STUB" yaml:"stub"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
	Output string `yaml:"output"`
}

// SetDefaults applies default values to the config.
func (c *Config) SetDefaults() {
	setServiceDefaults(&c.Service)
	setElasticsearchDefaults(&c.Elasticsearch)
	setEnrichmentDefaults(&c.Enrichment)
	setShortlinkDefaults(&c.Shortlink)
	setLoggingDefaults(&c.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
	if s.BatchSize == 0 {
		s.BatchSize = defaultBatchSize
	}
	if s.PollInterval == 0 {
		s.PollInterval = defaultPollIntervalSec * time.Second
	}
	if s.RatePerSec == 0 {
		s.RatePerSec = defaultRatePerSecond
	}
}

func setElasticsearchDefaults(e *ElasticsearchConfig) {
	if e.URL == "" {
		e.URL = defaultESURL
	}
	if e.MaxRetries == 0 {
		e.MaxRetries = defaultESMaxRetries
	}
	if e.Timeout == 0 {
		e.Timeout = defaultESTimeoutSec * time.Second
	}
	if e.RawSuffix == "" {
		e.RawSuffix = defaultESRawSuffix
	}
	if e.EnrichedSuffix == "" {
		e.EnrichedSuffix = defaultESEnrichedSuffix
	}
}

func setEnrichmentDefaults(e *EnrichmentConfig) {
	if e.ClassifierMode == "" {
		e.ClassifierMode = defaultClassifierMode
	}
	if e.RemoteClassifierURL == "" {
		e.RemoteClassifierURL = defaultRemoteClassifier
	}
	if e.GeoMaxResults == 0 {
		e.GeoMaxResults = defaultGeoMaxResults
	}
}

func setShortlinkDefaults(s *ShortlinkConfig) {
	if s.Length == 0 {
		s.Length = defaultShortlinkLength
	}
	if s.Stub == "" {
		s.Stub = defaultShortlinkStub
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}
