package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/forgo/guildhall/api/internal/model"
)

// IdempotencyStore keeps the responses of requests sent with an
// Idempotency-Key header so a retry replays them
type IdempotencyStore struct {
	mu       sync.Mutex
	entries  map[string]*idempotencyEntry
	ttl      time.Duration
	now      func() time.Time
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

type idempotencyEntry struct {
	status    int
	headers   http.Header
	body      []byte
	expiresAt time.Time
	inFlight  bool
	ready     chan struct{}
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	TTL     time.Duration // How long to keep results (default 24h)
	Cleanup time.Duration // Cleanup interval (default 1h)
}

// NewIdempotencyStore creates a store and starts its cleanup goroutine.
// Call Stop when done.
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = time.Hour
	}

	store := &IdempotencyStore{
		entries:  make(map[string]*idempotencyEntry),
		ttl:      cfg.TTL,
		now:      time.Now,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}

	go store.cleanupLoop(cfg.Cleanup)

	return store
}

// Stop stops the cleanup goroutine and waits for it to exit
func (s *IdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.done
}

func (s *IdempotencyStore) cleanupLoop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

func (s *IdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if !entry.inFlight && entry.expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
}

// generateKey fingerprints a request by client, key, method, path and body
func generateKey(client, idempotencyKey, method, path string, body []byte) string {
	h := sha256.New()
	for _, part := range []string{client, idempotencyKey, method, path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// idempotencyResponseWriter captures the response for caching
type idempotencyResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *idempotencyResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *idempotencyResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func isIdempotentCandidate(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// Idempotency returns middleware that replays the stored response of a
// POST, PUT or PATCH repeated with the same Idempotency-Key by the same
// client. A retry that arrives while the first attempt is running waits
// for it. Server errors and panics are not stored.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempotencyKey := r.Header.Get("Idempotency-Key")
			if !isIdempotentCandidate(r.Method) || idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				model.NewBadRequestError("Could not read request body").WriteJSON(w)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := generateKey(clientKey(r), idempotencyKey, r.Method, r.URL.Path, body)

			for {
				store.mu.Lock()
				entry, exists := store.entries[key]
				if !exists || (!entry.inFlight && entry.expiresAt.Before(store.now())) {
					break // leaves the lock held
				}
				if !entry.inFlight {
					store.mu.Unlock()
					replay(w, entry)
					return
				}
				store.mu.Unlock()

				select {
				case <-entry.ready:
				case <-r.Context().Done():
					return
				}
			}

			entry := &idempotencyEntry{inFlight: true, ready: make(chan struct{})}
			store.entries[key] = entry
			store.mu.Unlock()

			outer := w.Header().Clone()
			irw := &idempotencyResponseWriter{ResponseWriter: w, status: http.StatusOK}
			completed := false
			defer func() {
				store.mu.Lock()
				defer store.mu.Unlock()
				if !completed || irw.status >= http.StatusInternalServerError {
					delete(store.entries, key)
				} else {
					entry.status = irw.status
					entry.headers = handlerHeaders(irw.Header(), outer)
					entry.body = irw.body.Bytes()
					entry.expiresAt = store.now().Add(store.ttl)
					entry.inFlight = false
				}
				close(entry.ready)
			}()

			next.ServeHTTP(irw, r)
			completed = true
		})
	}
}

// transportHeaders describe how a particular response was encoded. They
// are set per request by the outer middleware and never replayed.
var transportHeaders = []string{"Content-Encoding", "Content-Length", "Vary"}

// handlerHeaders returns the headers the wrapped handler set, leaving out
// whatever the outer middleware had already put on the response.
func handlerHeaders(final, outer http.Header) http.Header {
	stored := make(http.Header, len(final))
	for k, v := range final {
		if prev, ok := outer[k]; ok && slices.Equal(prev, v) {
			continue
		}
		stored[k] = append([]string(nil), v...)
	}
	for _, k := range transportHeaders {
		stored.Del(k)
	}
	return stored
}

func replay(w http.ResponseWriter, entry *idempotencyEntry) {
	for k, v := range entry.headers {
		w.Header()[k] = append([]string(nil), v...)
	}
	w.Header().Set("X-Idempotency-Replayed", "true")
	w.WriteHeader(entry.status)
	_, _ = w.Write(entry.body)
}
