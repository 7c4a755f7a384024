package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	defaultScrapeTimeout = 15 * time.Second
	maxResponseBytes     = 8 * 1024 * 1024

	// Minimum spacing between requests to the same scraped host. Structured
	// APIs are not paced; they enforce their own quotas server-side.
	scrapeHostInterval = 250 * time.Millisecond
)

// Target is one fully-formed provider fetch: URL, method, headers, body and
// the mode it should be executed in. Scrape targets get browser headers, a
// hard timeout and per-host pacing; API targets get strict status handling.
type Target struct {
	URL     string
	Method  string
	Header  http.Header
	Body    []byte
	Scrape  bool
	Timeout time.Duration
}

// Client executes single provider fetches. One instance is shared across all
// provider clients; the scrape transport carries a cookie jar since several
// scraped sites set session cookies on first contact.
type Client struct {
	api    *http.Client
	scrape *http.Client

	pacerMu sync.Mutex
	pacers  map[string]*rate.Limiter
}

// NewClient builds a client. A nil api or scrape client falls back to defaults.
func NewClient(api, scrape *http.Client) *Client {
	if api == nil {
		api = &http.Client{}
	}
	if scrape == nil {
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		scrape = &http.Client{Timeout: defaultScrapeTimeout, Jar: jar}
	}
	return &Client{
		api:    api,
		scrape: scrape,
		pacers: make(map[string]*rate.Limiter),
	}
}

// Do executes one fetch and returns the raw payload. All failures come back
// as *NetworkError or *ProtocolError; nothing is thrown past this boundary.
func (c *Client) Do(ctx context.Context, t Target) ([]byte, error) {
	return c.DoVia(ctx, t, nil)
}

// DoVia executes one fetch, optionally routed through a proxy. The retry layer
// uses this to reroute scrape attempts after a direct failure.
func (c *Client) DoVia(ctx context.Context, t Target, proxy *url.URL) ([]byte, error) {
	if t.Scrape {
		if err := c.pace(ctx, t.URL); err != nil {
			return nil, &NetworkError{URL: t.URL, Err: err}
		}
	}

	method := t.Method
	if method == "" {
		method = http.MethodGet
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	var body io.Reader
	if len(t.Body) > 0 {
		body = bytes.NewReader(t.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.URL, body)
	if err != nil {
		return nil, &NetworkError{URL: t.URL, Err: err}
	}
	for k, vs := range t.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if t.Scrape {
		addBrowserHeaders(req)
	}

	resp, err := c.clientFor(t, proxy).Do(req)
	if err != nil {
		return nil, &NetworkError{URL: t.URL, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{URL: t.URL, Err: err}
	}

	// Scrape targets accept any 2xx and let downstream parsing fail
	// gracefully; structured APIs treat non-2xx as a protocol fault.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusNotFound && !t.Scrape {
			return nil, ErrNoMatch
		}
		return nil, &ProtocolError{
			Provider: req.URL.Host,
			Status:   resp.StatusCode,
			Message:  snippet(payload),
		}
	}

	return payload, nil
}

// clientFor picks the transport for a target. Proxied scrape attempts get a
// throwaway client sharing the scrape timeout and jar.
func (c *Client) clientFor(t Target, proxy *url.URL) *http.Client {
	if !t.Scrape {
		return c.api
	}
	if proxy == nil {
		return c.scrape
	}
	return &http.Client{
		Timeout:   c.scrape.Timeout,
		Jar:       c.scrape.Jar,
		Transport: &http.Transport{Proxy: http.ProxyURL(proxy)},
	}
}

// pace blocks until this host's rate limiter admits another scrape request.
func (c *Client) pace(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil // unparseable URLs fail later with a better error
	}

	c.pacerMu.Lock()
	limiter, ok := c.pacers[u.Host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(scrapeHostInterval), 1)
		c.pacers[u.Host] = limiter
	}
	c.pacerMu.Unlock()

	return limiter.Wait(ctx)
}

// addBrowserHeaders makes scrape requests look like an ordinary desktop browser.
// Several target sites serve stripped or blocked pages to default Go clients.
func addBrowserHeaders(req *http.Request) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}

func snippet(payload []byte) string {
	const max = 256
	if len(payload) > max {
		payload = payload[:max]
	}
	return string(bytes.TrimSpace(payload))
}
