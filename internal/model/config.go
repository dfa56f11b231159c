package model

import "time"

// Config is the complete claimcheck configuration.
// It is built once at startup and passed by pointer; nothing mutates it afterwards.
type Config struct {
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Retrieval    RetrievalConfig   `yaml:"retrieval" mapstructure:"retrieval"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Credibility  CredibilityConfig `yaml:"credibility" mapstructure:"credibility"`
	Scoring      ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Facts        FactsConfig       `yaml:"facts" mapstructure:"facts"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Logging      LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
}

// HTTPConfig controls outbound HTTP behaviour
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per retrieval call
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// RetrievalConfig controls query fan-out and enrichment
type RetrievalConfig struct {
	MaxEvidence   int          `yaml:"max_evidence" mapstructure:"max_evidence"`
	PerQueryLimit int          `yaml:"per_query_limit" mapstructure:"per_query_limit"`
	Parallelism   int          `yaml:"parallelism" mapstructure:"parallelism"`
	EnrichTop     int          `yaml:"enrich_top" mapstructure:"enrich_top"`
	MaxFullText   int          `yaml:"max_full_text" mapstructure:"max_full_text"`
	Encyclopedia  SourceConfig `yaml:"encyclopedia" mapstructure:"encyclopedia"`
	InstantAnswer SourceConfig `yaml:"instant_answer" mapstructure:"instant_answer"`
	News          SourceConfig `yaml:"news" mapstructure:"news"`
}

// SourceConfig enables a source and points it at an endpoint
type SourceConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
}

// CacheConfig controls the retrieval hit cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig is the per-host outbound request budget
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CredibilityConfig is the domain tier table
type CredibilityConfig struct {
	AuthorityDomains    []string `yaml:"authority_domains" mapstructure:"authority_domains"`
	EncyclopediaDomains []string `yaml:"encyclopedia_domains" mapstructure:"encyclopedia_domains"`
	NewsDomains         []string `yaml:"news_domains" mapstructure:"news_domains"`
	SocialDomains       []string `yaml:"social_domains" mapstructure:"social_domains"`
}

// ScoringConfig holds the lexical cue lists and citation limits
type ScoringConfig struct {
	RefuteCues   []string `yaml:"refute_cues" mapstructure:"refute_cues"`
	SupportCues  []string `yaml:"support_cues" mapstructure:"support_cues"`
	MaxCitations int      `yaml:"max_citations" mapstructure:"max_citations"`
}

// FactsConfig points at an optional rule table overriding the built-in one
type FactsConfig struct {
	RulesFile string `yaml:"rules_file,omitempty" mapstructure:"rules_file"`
}

// ConcurrencyConfig controls batch evaluation
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LLMConfig configures the optional narrative summary
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LoggingConfig selects zap level and encoding
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "console" or "json"
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	MaxRequestBytes int64         `yaml:"max_request_bytes" mapstructure:"max_request_bytes"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       8 * time.Second,
			UserAgent:     "claimcheck/0.1 (+https://github.com/ppiankov/claimcheck)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Retrieval: RetrievalConfig{
			MaxEvidence:   MaxEvidenceItems,
			PerQueryLimit: 5,
			Parallelism:   8,
			EnrichTop:     5,
			MaxFullText:   4000,
			Encyclopedia: SourceConfig{
				Enabled:  true,
				Endpoint: "https://en.wikipedia.org/w/api.php",
			},
			InstantAnswer: SourceConfig{
				Enabled:  true,
				Endpoint: "https://api.duckduckgo.com/",
			},
			News: SourceConfig{
				Enabled:  false,
				Endpoint: "https://news.google.com/rss/search",
			},
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".claimcheck-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Credibility: CredibilityConfig{
			AuthorityDomains: []string{
				".gov", ".gov.uk", ".gov.in", ".edu", "who.int", "nih.gov",
				"cdc.gov", "un.org",
			},
			EncyclopediaDomains: []string{
				"wikipedia.org", "britannica.com",
			},
			NewsDomains: []string{
				"reuters.com", "apnews.com", "bbc.com", "bbc.co.uk", "nytimes.com",
				"theguardian.com", "washingtonpost.com", "npr.org", "nature.com",
				"aljazeera.com", "thehindu.com",
			},
			SocialDomains: []string{
				"facebook.com", "twitter.com", "x.com", "instagram.com", "tiktok.com",
				"reddit.com", "youtube.com", "quora.com", "pinterest.com",
			},
		},
		Scoring: ScoringConfig{
			RefuteCues: []string{
				"false", "not true", "misinformation", "debunked", "hoax",
				"fake", "incorrect", "untrue", "misleading", "disproven",
				"refuted", "no evidence",
			},
			SupportCues: []string{
				"true", "confirmed", "verified", "accurate", "correct",
				"proven", "evidence shows",
			},
			MaxCitations: 5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:            ":8001",
			RequestTimeout:  60 * time.Second,
			MaxRequestBytes: 64 << 10,
		},
	}
}
