// Package util holds the outbound HTTP plumbing shared by the search sources
// and the article reader.
package util

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// maxRedirects bounds redirect chains on outbound requests
const maxRedirects = 3

// NewProxyFunc returns a proxy selector for the configured proxies, falling
// back to the HTTP_PROXY family of environment variables. Hosts listed in
// noProxy (comma separated) bypass the configured proxies.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}
	bypass := splitHosts(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if bypass[strings.ToLower(req.URL.Hostname())] {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// NewHTTPClient builds the outbound client: proxy selection, overall timeout
// and a redirect cap
func NewHTTPClient(cfg model.HTTPConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

func splitHosts(list string) map[string]bool {
	out := make(map[string]bool)
	for _, h := range strings.Split(list, ",") {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			out[h] = true
		}
	}
	return out
}
