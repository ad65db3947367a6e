package middleware

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// ---------------------------------------------------------------------------
// CacheConfig
// ---------------------------------------------------------------------------

// CacheConfig holds HTTP cache and ETag configuration.
type CacheConfig struct {
	MaxAge             int        // Cache max-age in seconds (default 60)
	Private            bool       // Set Cache-Control: private (default true, responses carry patient data)
	VaryHeaders        []string   // Headers to include in Vary (default: ["Accept"])
	ETagEnabled        bool       // Enable ETag generation (default true)
	ConditionalEnabled bool       // Support If-None-Match (default true)
	ExcludePaths       []string   // Paths to skip caching (e.g., "/health")
	CacheStore         CacheStore // Optional response cache store
}

// DefaultCacheConfig returns a CacheConfig with defaults suited to a
// schedule viewer: short max-age because appointments change during the day.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxAge:             60,
		Private:            true,
		VaryHeaders:        []string{"Accept"},
		ETagEnabled:        true,
		ConditionalEnabled: true,
	}
}

// ---------------------------------------------------------------------------
// CacheStore interface
// ---------------------------------------------------------------------------

// CacheStore defines the interface for a response cache backend.
type CacheStore interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	Clear()
}

// ---------------------------------------------------------------------------
// LRUCacheStore
// ---------------------------------------------------------------------------

// LRUCacheStore is a CacheStore backed by an in-process LRU with TTL
// expiration. The size bound caps memory use; the LRU evicts the least
// recently used entry when full and expires entries in the background.
type LRUCacheStore struct {
	lru *expirable.LRU[string, []byte]
}

// NewLRUCacheStore creates an LRUCacheStore holding at most size entries,
// each expiring ttl after insertion.
func NewLRUCacheStore(size int, ttl time.Duration) *LRUCacheStore {
	return &LRUCacheStore{
		lru: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

// Get retrieves a value from the cache.
func (s *LRUCacheStore) Get(key string) ([]byte, bool) {
	return s.lru.Get(key)
}

// Set stores a value in the cache. The store-wide TTL applies; the ttl
// argument is accepted for CacheStore compatibility and ignored.
func (s *LRUCacheStore) Set(key string, value []byte, _ time.Duration) {
	s.lru.Add(key, value)
}

// Delete removes a single entry from the cache.
func (s *LRUCacheStore) Delete(key string) {
	s.lru.Remove(key)
}

// Clear removes all entries from the cache.
func (s *LRUCacheStore) Clear() {
	s.lru.Purge()
}

// ---------------------------------------------------------------------------
// RedisCacheStore
// ---------------------------------------------------------------------------

// RedisCacheStore is a CacheStore backed by Redis, for sharing the response
// cache across replicas. Operations are best-effort with a short internal
// timeout: Redis errors degrade to cache misses rather than failing the
// request.
type RedisCacheStore struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisCacheStore wraps an existing Redis client. The cache should use a
// dedicated logical database because Clear flushes the whole database.
func NewRedisCacheStore(client *redis.Client) *RedisCacheStore {
	return &RedisCacheStore{
		client:  client,
		timeout: 250 * time.Millisecond,
	}
}

// Get retrieves a value from Redis. Any error, including a missing key,
// reads as a miss.
func (s *RedisCacheStore) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a value in Redis with the given TTL.
func (s *RedisCacheStore) Set(key string, value []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.client.Set(ctx, key, value, ttl)
}

// Delete removes a single entry from Redis.
func (s *RedisCacheStore) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.client.Del(ctx, key)
}

// Clear flushes the cache database.
func (s *RedisCacheStore) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.client.FlushDB(ctx)
}

// ---------------------------------------------------------------------------
// Buffered response writer
// ---------------------------------------------------------------------------

// bufferedResponseWriter captures the response body in a buffer so we can
// inspect it (for ETag computation) before flushing to the real writer.
type bufferedResponseWriter struct {
	writer     http.ResponseWriter
	buf        *bytes.Buffer
	statusCode int
}

func newBufferedResponseWriter(w http.ResponseWriter) *bufferedResponseWriter {
	return &bufferedResponseWriter{
		writer:     w,
		buf:        &bytes.Buffer{},
		statusCode: http.StatusOK,
	}
}

// Header returns the underlying writer's header map so that headers set by
// handlers are visible to both the middleware and the final flush.
func (w *bufferedResponseWriter) Header() http.Header {
	return w.writer.Header()
}

// Write captures bytes into the buffer instead of sending them immediately.
func (w *bufferedResponseWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

// WriteHeader captures the status code without writing it to the underlying writer.
func (w *bufferedResponseWriter) WriteHeader(code int) {
	w.statusCode = code
}

// Flush implements http.Flusher (no-op for buffer).
func (w *bufferedResponseWriter) Flush() {}

// flushTo writes the buffered status and body to the underlying writer.
func (w *bufferedResponseWriter) flushTo() error {
	w.writer.WriteHeader(w.statusCode)
	if w.buf.Len() > 0 {
		_, err := w.writer.Write(w.buf.Bytes())
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// ETagMiddleware
// ---------------------------------------------------------------------------

// ETagMiddleware returns Echo middleware that computes and sets ETag,
// Cache-Control, and Vary headers on GET/HEAD responses. When ConditionalEnabled
// is true, it handles If-None-Match for 304 Not Modified responses.
func ETagMiddleware(config CacheConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			// Skip non-GET/HEAD methods.
			if req.Method != http.MethodGet && req.Method != http.MethodHead {
				return next(c)
			}

			// Skip excluded paths.
			if shouldSkip(req.URL.Path, config.ExcludePaths) {
				return next(c)
			}

			// Replace the response writer with a buffered version.
			res := c.Response()
			origWriter := res.Writer
			buf := newBufferedResponseWriter(origWriter)
			res.Writer = buf

			// Execute the next handler, writing into the buffer.
			if err := next(c); err != nil {
				res.Writer = origWriter
				return err
			}

			// Restore original writer.
			res.Writer = origWriter

			// Skip ETag/cache headers for error responses.
			if buf.statusCode >= 400 {
				return buf.flushTo()
			}

			// Build and set Cache-Control.
			res.Header().Set("Cache-Control", buildCacheControl(config))

			// Set Vary header.
			if len(config.VaryHeaders) > 0 {
				res.Header().Set("Vary", strings.Join(config.VaryHeaders, ", "))
			}

			// Compute ETag from body.
			if config.ETagEnabled {
				etag := computeETag(buf.buf.Bytes())
				res.Header().Set("ETag", etag)

				// Conditional: If-None-Match.
				if config.ConditionalEnabled {
					ifNoneMatch := req.Header.Get("If-None-Match")
					if ifNoneMatch != "" && etagMatch(ifNoneMatch, etag) {
						// Return 304 Not Modified with no body.
						origWriter.WriteHeader(http.StatusNotModified)
						return nil
					}
				}
			}

			// Flush the buffered response to the client.
			return buf.flushTo()
		}
	}
}

// ---------------------------------------------------------------------------
// ResponseCacheMiddleware
// ---------------------------------------------------------------------------

// ResponseCacheMiddleware returns Echo middleware that caches successful GET
// responses keyed by URL (including the query string, which carries the
// doctor and date filters) and Accept header. Requests with an Authorization
// header skip the cache to protect private data.
func ResponseCacheMiddleware(store CacheStore, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			// Only cache GET requests.
			if req.Method != http.MethodGet {
				return next(c)
			}

			// Skip caching for authorized requests (private data).
			if req.Header.Get("Authorization") != "" {
				c.Response().Header().Set("X-Cache", "SKIP")
				return next(c)
			}

			key := cacheKey(req.Method, req.URL.RequestURI(), req.Header.Get("Accept"))

			// Check cache.
			if data, ok := store.Get(key); ok {
				contentType, body := decodeCacheEntry(data)
				if contentType != "" {
					c.Response().Header().Set(echo.HeaderContentType, contentType)
				}
				c.Response().Header().Set("X-Cache", "HIT")
				c.Response().Writer.WriteHeader(http.StatusOK)
				_, err := c.Response().Writer.Write(body)
				return err
			}

			// Cache miss: buffer the response.
			res := c.Response()
			origWriter := res.Writer
			buf := newBufferedResponseWriter(origWriter)
			res.Writer = buf

			if err := next(c); err != nil {
				res.Writer = origWriter
				return err
			}

			res.Writer = origWriter

			// Only plain 200 responses are replayable from cache.
			if buf.statusCode == http.StatusOK {
				entry := encodeCacheEntry(res.Header().Get(echo.HeaderContentType), buf.buf.Bytes())
				store.Set(key, entry, ttl)
			}

			res.Header().Set("X-Cache", "MISS")
			return buf.flushTo()
		}
	}
}

// ---------------------------------------------------------------------------
// Helper functions
// ---------------------------------------------------------------------------

// computeETag returns a weak ETag based on the MD5 hash of the body.
func computeETag(body []byte) string {
	hash := md5.Sum(body)
	return fmt.Sprintf(`W/"%x"`, hash)
}

// cacheKey builds a cache key from the HTTP method, the request URI (path
// plus query string), and the Accept header.
// cacheKey builds the lookup key for a request. The query string is
// re-encoded through url.Values, which sorts parameters by name, so
// ?doctor_id=X&date=Y and ?date=Y&doctor_id=X share one entry.
func cacheKey(method, uri, accept string) string {
	if u, err := url.Parse(uri); err == nil && u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
		uri = u.String()
	}
	return method + ":" + uri + ":" + accept
}

// encodeCacheEntry prefixes the body with its content type so a hit can be
// replayed verbatim. Content types never contain a newline, so a single "\n"
// separates the two.
func encodeCacheEntry(contentType string, body []byte) []byte {
	entry := make([]byte, 0, len(contentType)+1+len(body))
	entry = append(entry, contentType...)
	entry = append(entry, '\n')
	entry = append(entry, body...)
	return entry
}

// decodeCacheEntry splits a cache entry into its content type and body.
func decodeCacheEntry(data []byte) (contentType string, body []byte) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return string(data[:i]), data[i+1:]
	}
	return "", data
}

// shouldSkip returns true if the path matches any of the excluded paths.
func shouldSkip(path string, excludes []string) bool {
	for _, ex := range excludes {
		if path == ex {
			return true
		}
	}
	return false
}

// buildCacheControl constructs a Cache-Control header value from the config.
func buildCacheControl(config CacheConfig) string {
	scope := "public"
	if config.Private {
		scope = "private"
	}
	return fmt.Sprintf("%s, max-age=%d", scope, config.MaxAge)
}

// etagMatch checks if the provided If-None-Match header value matches the
// given ETag. Supports comma-separated lists and the wildcard "*".
func etagMatch(headerVal, etag string) bool {
	headerVal = strings.TrimSpace(headerVal)
	if headerVal == "*" {
		return true
	}
	for _, candidate := range strings.Split(headerVal, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == etag {
			return true
		}
		// Weak comparison: W/"x" matches W/"x" or "x".
		if stripWeakPrefix(candidate) == stripWeakPrefix(etag) {
			return true
		}
	}
	return false
}

// stripWeakPrefix removes the W/ prefix from a weak ETag.
func stripWeakPrefix(etag string) string {
	if strings.HasPrefix(etag, `W/`) {
		return etag[2:]
	}
	return etag
}
