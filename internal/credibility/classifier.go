// Package credibility scores evidence URLs by the reputation tier of their domain.
package credibility

import (
	"net/url"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Tier scores
const (
	ScoreAuthority    = 0.95
	ScoreEncyclopedia = 0.85
	ScoreNews         = 0.80
	ScoreSocial       = 0.25
	ScoreMalformed    = 0.40
	ScoreDefault      = 0.50
)

// Tier names a credibility class
type Tier string

const (
	TierAuthority    Tier = "authority"
	TierEncyclopedia Tier = "encyclopedia"
	TierNews         Tier = "news"
	TierSocial       Tier = "social"
	TierMalformed    Tier = "malformed"
	TierDefault      Tier = "default"
)

// Score returns the credibility score of a tier
func (t Tier) Score() float64 {
	switch t {
	case TierAuthority:
		return ScoreAuthority
	case TierEncyclopedia:
		return ScoreEncyclopedia
	case TierNews:
		return ScoreNews
	case TierSocial:
		return ScoreSocial
	case TierMalformed:
		return ScoreMalformed
	default:
		return ScoreDefault
	}
}

// Classifier maps URLs to credibility tiers. It is immutable and safe for concurrent use.
type Classifier struct {
	tiers []tierDomains
}

type tierDomains struct {
	tier    Tier
	domains []string
}

// NewClassifier builds a classifier from the configured domain lists.
// A nil config uses the defaults.
func NewClassifier(cfg *model.CredibilityConfig) *Classifier {
	if cfg == nil {
		cfg = &model.DefaultConfig().Credibility
	}
	// Priority order: first tier with a matching domain wins
	return &Classifier{tiers: []tierDomains{
		{TierAuthority, normalizeDomains(cfg.AuthorityDomains)},
		{TierEncyclopedia, normalizeDomains(cfg.EncyclopediaDomains)},
		{TierNews, normalizeDomains(cfg.NewsDomains)},
		{TierSocial, normalizeDomains(cfg.SocialDomains)},
	}}
}

// Classify returns the tier for a URL. It never fails: anything that does
// not parse as an absolute http(s) URL with a host is TierMalformed.
func (c *Classifier) Classify(rawURL string) Tier {
	host := hostOf(rawURL)
	if host == "" {
		return TierMalformed
	}
	for _, t := range c.tiers {
		for _, d := range t.domains {
			if matchDomain(host, d) {
				return t.tier
			}
		}
	}
	return TierDefault
}

// Score returns the credibility score for a URL in [0,1]
func (c *Classifier) Score(rawURL string) float64 {
	return c.Classify(rawURL).Score()
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	host := strings.ToLower(strings.TrimSuffix(parsed.Hostname(), "."))
	if host == "" || !strings.Contains(host, ".") {
		return ""
	}
	return host
}

// matchDomain matches exact hosts and subdomains. Entries starting with a dot
// (".gov.uk") match that domain and any host under it.
func matchDomain(host, domain string) bool {
	if strings.HasPrefix(domain, ".") {
		return host == domain[1:] || strings.HasSuffix(host, domain)
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func normalizeDomains(in []string) []string {
	out := make([]string, 0, len(in))
	for _, d := range in {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
