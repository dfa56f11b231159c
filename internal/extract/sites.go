package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Site selects the readable content of pages from one family of hosts
type Site interface {
	Name() string
	CanHandle(host string) bool
	// Paragraphs returns the content paragraphs; boilerplate is already removed
	Paragraphs(doc *goquery.Document) *goquery.Selection
}

// Sites picks the Site for a URL, falling back to a generic one
type Sites struct {
	sites   []Site
	generic Site
}

// NewSites returns the built-in site table
func NewSites() *Sites {
	s := &Sites{generic: genericSite{}}
	s.Register(wikipediaSite{})
	return s
}

// Register adds a site ahead of the generic fallback
func (s *Sites) Register(site Site) {
	s.sites = append(s.sites, site)
}

// For returns the site handling rawURL
func (s *Sites) For(rawURL string) Site {
	u, err := url.Parse(rawURL)
	if err != nil {
		return s.generic
	}
	host := strings.ToLower(u.Hostname())
	for _, site := range s.sites {
		if site.CanHandle(host) {
			return site
		}
	}
	return s.generic
}

// genericSite reads paragraphs under the first common content root
type genericSite struct{}

func (genericSite) Name() string { return "generic" }

func (genericSite) CanHandle(string) bool { return true }

func (genericSite) Paragraphs(doc *goquery.Document) *goquery.Selection {
	return contentRoot(doc).Find("p")
}

// wikipediaSite reads article paragraphs without infoboxes, hatnotes,
// navigation boxes or footnote markers
type wikipediaSite struct{}

const wikipediaNoise = ".infobox, .hatnote, .navbox, .metadata, .mw-empty-elt, .shortdescription, table, sup"

func (wikipediaSite) Name() string { return "wikipedia" }

func (wikipediaSite) CanHandle(host string) bool {
	return host == "wikipedia.org" || strings.HasSuffix(host, ".wikipedia.org")
}

func (wikipediaSite) Paragraphs(doc *goquery.Document) *goquery.Selection {
	body := doc.Find(".mw-parser-output").First()
	if body.Length() == 0 {
		return genericSite{}.Paragraphs(doc)
	}
	body.Find(wikipediaNoise).Remove()
	return body.Find("p")
}

func contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, sel := range contentRoots {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return doc.Selection
}
