package search

import "time"

// Config configures web-search corroboration.
type Config struct {
	// APIKey is read from SERPER_API_KEY; the verifier is unavailable
	// without it.
	APIKey          string        `yaml:"-"`
	Endpoint        string        `yaml:"endpoint" validate:"omitempty,url"`
	ResultsPerQuery int           `yaml:"results_per_query" validate:"gte=1,lte=20"`
	QueryInterval   time.Duration `yaml:"query_interval"`
	TrustedDomains  []string      `yaml:"trusted_domains"`

	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig points at an optional valkey instance that memoizes search
// results across runs. An empty address disables caching.
type CacheConfig struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"-"`
	TLS      bool          `yaml:"tls"`
	TTL      time.Duration `yaml:"ttl"`
}

// DefaultTrustedDomains are outlets, fact-checkers and institutions whose
// coverage counts as corroboration.
var DefaultTrustedDomains = []string{
	"reuters.com", "bbc.com", "apnews.com", "factcheck.org", "snopes.com",
	"cnn.com", "nytimes.com", "washingtonpost.com", "theguardian.com",
	"npr.org", "bloomberg.com", "wsj.com", "pti.com", "ani.com",
	"thehindu.com", "indianexpress.com", "un.org", "news.un.org",
	"who.int", "unesco.org", "worldbank.org", "imf.org", "wto.org",
	"gov.uk", "gov.in", "whitehouse.gov", "state.gov", "europa.eu",
	"ec.europa.eu", "nature.com", "science.org", "nejm.org", "thelancet.com",
	"aljazeera.com", "dw.com", "france24.com", "timesofindia.com",
	"ndtv.com", "scroll.in", "thewire.in",
}

// DefaultConfig returns the standard search settings.
func DefaultConfig() Config {
	return Config{
		Endpoint:        "https://google.serper.dev/search",
		ResultsPerQuery: 5,
		QueryInterval:   500 * time.Millisecond,
		TrustedDomains:  append([]string(nil), DefaultTrustedDomains...),
		Cache: CacheConfig{
			TTL: 6 * time.Hour,
		},
	}
}
