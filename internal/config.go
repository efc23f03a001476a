package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host     string `env:"HOST,required=true"`
	Port     int    `env:"PORT,required=true"`
	LogLevel string `env:"LOG_LEVEL,required=true"`
	// NodeID tags the events of this process. Generated when empty.
	NodeID         string `env:"NODE_ID"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`

	BufferSize           int           `env:"BUFFER_SIZE,required=true"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,required=true"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,required=true"`
	LatencyThreshold     time.Duration `env:"LATENCY_THRESHOLD,required=true"`

	LimitPosts int `env:"LIMIT_POSTS,default=20"`
	// FeedConcurrency bounds the enrichment of one page, the page size when unset.
	FeedConcurrency int    `env:"FEED_CONCURRENCY"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,required=true"`
	MediaBaseURL    string `env:"MEDIA_BASE_URL"`

	// The search index lives in memory when SearchIndexPath is empty. It is
	// rebuilt from badger on start either way.
	SearchIndexPath string `env:"SEARCH_INDEX_PATH"`
	SearchLimit     int    `env:"SEARCH_LIMIT,default=20"`

	SessionRateLimit float64 `env:"SESSION_RATE_LIMIT,default=20"`
	SessionRateBurst int     `env:"SESSION_RATE_BURST,default=40"`
	AuthRateLimit    float64 `env:"AUTH_RATE_LIMIT,default=5"`
	AuthRateBurst    int     `env:"AUTH_RATE_BURST,default=10"`

	// Replication is enabled when NatsURL is set.
	NatsURL     string `env:"NATS_URL"`
	NatsSubject string `env:"NATS_SUBJECT,default=social.changes"`

	// The badger inspector is served on DebugPort when LOG_LEVEL is DEBUG.
	DebugPort int `env:"DEBUG_PORT,default=8081"`
}

const (
	defaultLimitPosts  = 20
	defaultSearchLimit = 20
)

// PageSize is the number of posts of a feed page.
func (c Config) PageSize() int {
	if c.LimitPosts <= 0 {
		return defaultLimitPosts
	}
	return c.LimitPosts
}

// EnrichmentConcurrency is the number of posts of a page enriched in parallel.
func (c Config) EnrichmentConcurrency() int {
	if c.FeedConcurrency <= 0 {
		return c.PageSize()
	}
	return c.FeedConcurrency
}

func (c Config) SearchPageSize() int {
	if c.SearchLimit <= 0 {
		return defaultSearchLimit
	}
	return c.SearchLimit
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
