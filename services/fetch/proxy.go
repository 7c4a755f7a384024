package fetch

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ProxyPool holds the proxies rotated through by the retry layer. The pool is
// populated once at startup; the rotation cursor is process-wide and guarded
// by a mutex so concurrent retries never skip or repeat an entry.
type ProxyPool struct {
	mu      sync.Mutex
	proxies []*url.URL
	cursor  int
}

// NewProxyPool wraps an already-parsed proxy list.
func NewProxyPool(proxies []*url.URL) *ProxyPool {
	return &ProxyPool{proxies: proxies}
}

// LoadProxyPool fetches a plain-text proxy list (one host:port or URL per
// line) from listURL. Any failure degrades silently to an empty pool; retries
// then run direct-only.
func LoadProxyPool(ctx context.Context, listURL string) *ProxyPool {
	pool := &ProxyPool{}
	if strings.TrimSpace(listURL) == "" {
		return pool
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		log.Printf("[proxy] invalid proxy list URL %q: %v", listURL, err)
		return pool
	}

	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		log.Printf("[proxy] failed to fetch proxy list: %v", err)
		return pool
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[proxy] proxy list endpoint returned status %d", resp.StatusCode)
		return pool
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		log.Printf("[proxy] failed to read proxy list: %v", err)
		return pool
	}

	pool.proxies = parseProxyList(body)
	log.Printf("[proxy] loaded %d proxies", len(pool.proxies))
	return pool
}

// parseProxyList accepts one proxy per line, either scheme://host:port or a
// bare host:port (assumed http). Comment lines and garbage are skipped.
func parseProxyList(body []byte) []*url.URL {
	var proxies []*url.URL
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "://") {
			line = "http://" + line
		}
		u, err := url.Parse(line)
		if err != nil || u.Host == "" || u.Port() == "" {
			continue
		}
		proxies = append(proxies, u)
	}
	return proxies
}

// Next returns the next proxy in round-robin order, or nil when the pool is
// empty. Cursor advancement is serialized.
func (p *ProxyPool) Next() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.proxies) == 0 {
		return nil
	}
	proxy := p.proxies[p.cursor%len(p.proxies)]
	p.cursor++
	return proxy
}

// Size returns the number of loaded proxies.
func (p *ProxyPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.proxies)
}
