package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

func TestParseProxyList(t *testing.T) {
	body := []byte("10.0.0.1:8080\n# comment\n\nsocks5://10.0.0.2:1080\ngarbage line\n10.0.0.3:3128\n")
	proxies := parseProxyList(body)
	if len(proxies) != 3 {
		t.Fatalf("expected 3 proxies, got %d", len(proxies))
	}
	if proxies[0].Scheme != "http" || proxies[0].Host != "10.0.0.1:8080" {
		t.Errorf("unexpected first proxy: %v", proxies[0])
	}
	if proxies[1].Scheme != "socks5" {
		t.Errorf("expected socks5 scheme preserved, got %s", proxies[1].Scheme)
	}
}

func TestLoadProxyPoolDegradesSilently(t *testing.T) {
	if pool := LoadProxyPool(context.Background(), ""); pool.Size() != 0 {
		t.Errorf("empty URL should yield empty pool")
	}
	if pool := LoadProxyPool(context.Background(), "http://127.0.0.1:1/list"); pool.Size() != 0 {
		t.Errorf("unreachable endpoint should yield empty pool")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("10.1.1.1:8080\n10.1.1.2:8080\n"))
	}))
	defer server.Close()

	if pool := LoadProxyPool(context.Background(), server.URL); pool.Size() != 2 {
		t.Errorf("expected 2 proxies, got %d", pool.Size())
	}
}

// Across M consecutive selections from a pool of size P, each proxy must be
// picked at least floor(M/P) times and the cursor must wrap without skipping.
func TestProxyRotationFairness(t *testing.T) {
	proxies := []*url.URL{
		{Scheme: "http", Host: "a:1"},
		{Scheme: "http", Host: "b:1"},
		{Scheme: "http", Host: "c:1"},
	}
	pool := NewProxyPool(proxies)

	const m = 10
	counts := make(map[string]int)
	for i := 0; i < m; i++ {
		p := pool.Next()
		if p == nil {
			t.Fatal("Next returned nil with non-empty pool")
		}
		counts[p.Host]++
	}

	floor := m / len(proxies)
	for host, n := range counts {
		if n < floor {
			t.Errorf("proxy %s selected %d times, want at least %d", host, n, floor)
		}
	}

	// The 11th selection wraps back to the start of the rotation.
	if p := pool.Next(); p.Host != "b:1" {
		t.Errorf("expected cursor to continue rotation at b:1, got %s", p.Host)
	}
}

func TestProxyRotationConcurrentSelections(t *testing.T) {
	proxies := []*url.URL{
		{Scheme: "http", Host: "a:1"},
		{Scheme: "http", Host: "b:1"},
	}
	pool := NewProxyPool(proxies)

	const workers = 8
	const perWorker = 25
	var mu sync.Mutex
	counts := make(map[string]int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				p := pool.Next()
				mu.Lock()
				counts[p.Host]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Serialized cursor advancement means an exact even split.
	total := workers * perWorker
	if counts["a:1"] != total/2 || counts["b:1"] != total/2 {
		t.Errorf("expected even split, got %v", counts)
	}
}

func TestEmptyPoolNextReturnsNil(t *testing.T) {
	pool := &ProxyPool{}
	if p := pool.Next(); p != nil {
		t.Errorf("expected nil from empty pool, got %v", p)
	}
}
