package shell

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/gymtracker/internal/cache"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// OfflineHeader marks responses synthesized by the shell when the network failed.
const OfflineHeader = "X-Offline-Shell"

var staticAssetExtensions = []string{
	".js", ".css", ".png", ".jpg", ".jpeg", ".svg", ".gif", ".woff", ".woff2",
}

// IsStaticAsset reports whether a path names a script, stylesheet, image or font.
// Matching is case-sensitive.
func IsStaticAsset(path string) bool {
	for _, ext := range staticAssetExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// IsNavigation reports whether req is a page navigation.
func IsNavigation(req *http.Request) bool {
	if req.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return req.Method == http.MethodGet && strings.Contains(req.Header.Get("Accept"), "text/html")
}

// network routes requests either to the app origin or to the outside world.
type network struct {
	origin          *url.URL
	originTransport http.RoundTripper
	external        http.RoundTripper
}

func (n *network) isHTTP(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

// sameOrigin treats host-less urls as same origin.
func (n *network) sameOrigin(u *url.URL) bool {
	if u.Host == "" {
		return true
	}
	return u.Scheme == n.origin.Scheme && strings.EqualFold(u.Host, n.origin.Host)
}

// absolute resolves host-less request urls against the app origin.
func (n *network) absolute(u *url.URL) *url.URL {
	if u.Host != "" {
		return u
	}
	return n.origin.ResolveReference(u)
}

func (n *network) RoundTrip(req *http.Request) (*http.Response, error) {
	if n.sameOrigin(req.URL) {
		return n.originTransport.RoundTrip(req)
	}
	return n.external.RoundTrip(req)
}

// FetchManager applies the cache first strategy to every intercepted request.
// It is immutable once created and safe for concurrent use.
type FetchManager struct {
	*network
	caches       *cache.Storage
	precacheName string
	runtimeName  string
	metrics      *metrics.Manager
}

func newFetchManager(
	net *network,
	caches *cache.Storage,
	precacheName, runtimeName string,
	metricsManager *metrics.Manager,
) *FetchManager {
	return &FetchManager{
		network:      net,
		caches:       caches,
		precacheName: precacheName,
		runtimeName:  runtimeName,
		metrics:      metricsManager,
	}
}

func (fm *FetchManager) Fetch(req *http.Request) (_ *http.Response, err error) {
	ctx, span := tracing.ShellTracer.Start(req.Context(), "shell.fetch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	req = req.WithContext(ctx)

	reqURL := fm.absolute(req.URL)
	span.SetAttributes(
		attribute.String("method", req.Method),
		attribute.String("url", reqURL.String()),
	)

	if !fm.isHTTP(reqURL) || !fm.sameOrigin(reqURL) {
		span.SetAttributes(attribute.Bool("passthrough", true))
		return fm.external.RoundTrip(req)
	}

	key := cache.RequestKey(reqURL)
	if req.Method == http.MethodGet {
		if entry, found := fm.caches.Match(key, fm.precacheName); found {
			fm.metrics.CounterCacheHits.Inc()
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return entry.Response(req), nil
		}
	}
	fm.metrics.CounterCacheMisses.Inc()

	resp, err := fm.originTransport.RoundTrip(req)
	if err != nil {
		log.Debugf("shell fetch [%s %s] network error: %s", req.Method, key, err)
		return fm.networkFallback(req, reqURL), nil
	}

	if resp.StatusCode != http.StatusOK || req.Method != http.MethodGet || !IsStaticAsset(reqURL.Path) {
		return resp, nil
	}

	// the entry keeps a copy of the body, resp stays readable for the caller
	entry, err := cache.NewEntry(resp)
	if err != nil {
		log.Debugf("shell fetch [%s] body read failed: %s", key, err)
		return fm.networkFallback(req, reqURL), nil
	}
	if err := fm.caches.Open(fm.runtimeName).Put(key, entry); err != nil {
		log.Warnf("shell runtime cache put [%s]: %s", key, err)
	} else {
		fm.metrics.CounterRuntimeCachePuts.Inc()
	}

	return resp, nil
}

// networkFallback serves the cached root document for navigations and a
// synthesized 503 for everything else.
func (fm *FetchManager) networkFallback(req *http.Request, reqURL *url.URL) *http.Response {
	fm.metrics.CounterNetworkErrors.Inc()

	if IsNavigation(req) {
		if entry, found := fm.caches.Match("/", fm.precacheName); found {
			return entry.Response(req)
		}
	}

	resp := newResponse(req, http.StatusServiceUnavailable, http.Header{
		OfflineHeader:   []string{"network-error"},
		"Cache-Control": []string{"no-store"},
	}, []byte(fmt.Sprintf("offline: %s is not available\n", reqURL.Path)))
	return resp
}

// precache fetches every url from the origin and stores all of them into the
// precache partition, or none when any fetch fails.
func (fm *FetchManager) precache(ctx context.Context, urls []string) error {
	entries := make(map[string]*cache.Entry, len(urls))
	for _, rawURL := range urls {
		ref, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("parse [%s]: %w", rawURL, err)
		}
		abs := fm.origin.ResolveReference(ref)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, abs.String(), nil)
		if err != nil {
			return fmt.Errorf("new request [%s]: %w", rawURL, err)
		}
		resp, err := fm.originTransport.RoundTrip(req)
		if err != nil {
			return fmt.Errorf("fetch [%s]: %w", rawURL, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("fetch [%s]: status %d", rawURL, resp.StatusCode)
		}
		entry, err := cache.NewEntry(resp)
		if err != nil {
			return fmt.Errorf("fetch [%s]: %w", rawURL, err)
		}
		entries[cache.RequestKey(abs)] = entry
	}

	existed := fm.caches.Has(fm.precacheName)
	partition := fm.caches.Open(fm.precacheName)
	for key, entry := range entries {
		if err := partition.Put(key, entry); err != nil {
			if !existed {
				fm.caches.Delete(fm.precacheName)
			}
			return fmt.Errorf("precache put [%s]: %w", key, err)
		}
	}
	return nil
}

// cleanup deletes every partition except the current precache and the runtime cache.
func (fm *FetchManager) cleanup() []string {
	var deleted []string
	for _, name := range fm.caches.Keys() {
		if name == fm.precacheName || name == fm.runtimeName {
			continue
		}
		if fm.caches.Delete(name) {
			deleted = append(deleted, name)
		}
	}
	return deleted
}
