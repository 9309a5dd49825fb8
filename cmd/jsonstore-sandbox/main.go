// Command jsonstore-sandbox runs a local emulation of the jsonstore service
// so the SDK can be exercised without network access. It serves the
// /{token}/{key} surface with the ok/result envelope and supports latency and
// failure injection for testing client behaviour under degraded conditions.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/jsonstore-io/jsonstore_sdk_go/internal/devseed"
)

type failConfig struct {
	rate float64
	code int
}

type sandboxStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string][]byte
}

func newSandboxStore() *sandboxStore {
	return &sandboxStore{namespaces: make(map[string]map[string][]byte)}
}

func (s *sandboxStore) get(token, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.namespaces[token][key]
	return data, ok
}

func (s *sandboxStore) set(token, key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.namespaces[token]
	if ns == nil {
		ns = make(map[string][]byte)
		s.namespaces[token] = ns
	}
	ns[key] = append([]byte(nil), raw...)
}

func (s *sandboxStore) delete(token, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.namespaces[token]
	if _, ok := ns[key]; !ok {
		return false
	}
	delete(ns, key)
	return true
}

func (s *sandboxStore) seed(token string, entries []devseed.SeedEntry) {
	for _, e := range entries {
		data := append([]byte(nil), e.Value...)
		if len(data) == 0 {
			data = []byte("null")
		}
		s.set(token, e.Key, data)
	}
}

func main() {
	addr := flag.String("addr", ":8787", "listen address")
	seedPath := flag.String("seed", "", "path to JSON seed file")
	seedToken := flag.String("seed-token", "sandbox", "token namespace the seed is loaded into")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	store := newSandboxStore()
	if *seedPath != "" {
		entries, err := devseed.LoadSeed(*seedPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("load seed")
		}
		store.seed(*seedToken, entries)
		logger.Info().Int("entries", len(entries)).Str("token", *seedToken).Msg("seed loaded")
	}

	failCfg, err := parseFailConfig(*fail)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse fail flag")
	}

	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(injectFaults(*latency, failCfg))
	r.Route("/{token}", func(r chi.Router) {
		r.Get("/*", handleGet(store))
		r.Post("/*", handleWrite(store))
		r.Put("/*", handleWrite(store))
		r.Delete("/*", handleDelete(store))
	})

	server := &http.Server{
		Addr:    *addr,
		Handler: r,
	}

	logger.Info().Str("addr", *addr).Msg("jsonstore-sandbox listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info().
				Str("request_id", r.Header.Get("X-Request-Id")).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("request handled")
		})
	}
}

func injectFaults(latency time.Duration, cfg failConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if latency > 0 {
				time.Sleep(latency)
			}
			if cfg.rate > 0 && rand.Float64() < cfg.rate {
				writeEnvelope(w, cfg.code, map[string]any{
					"ok":    false,
					"error": "injected failure",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleGet(store *sandboxStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, key := pathParams(r)
		data, ok := store.get(token, key)
		if !ok {
			// Matches the remote service: the envelope acknowledges the
			// call but carries no result for an absent key.
			writeEnvelope(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"ok":     true,
			"result": json.RawMessage(data),
		})
	}
}

func handleWrite(store *sandboxStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, key := pathParams(r)
		defer r.Body.Close()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeEnvelope(w, http.StatusBadRequest, map[string]any{
				"ok":    false,
				"error": "read request body",
			})
			return
		}
		if !gjson.ValidBytes(body) {
			writeEnvelope(w, http.StatusBadRequest, map[string]any{
				"ok":    false,
				"error": "request body is not valid JSON",
			})
			return
		}
		store.set(token, key, body)
		writeEnvelope(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func handleDelete(store *sandboxStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, key := pathParams(r)
		if !store.delete(token, key) {
			writeEnvelope(w, http.StatusNotFound, map[string]any{
				"ok":    false,
				"error": "key not found",
			})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func pathParams(r *http.Request) (token, key string) {
	token = chi.URLParam(r, "token")
	key = strings.Trim(chi.URLParam(r, "*"), "/")
	return token, key
}

func writeEnvelope(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func parseFailConfig(raw string) (failConfig, error) {
	cfg := failConfig{code: http.StatusInternalServerError}
	if strings.TrimSpace(raw) == "" {
		return cfg, nil
	}
	for _, part := range strings.Split(raw, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return cfg, fmt.Errorf("invalid fail segment %q", part)
		}
		switch strings.TrimSpace(kv[0]) {
		case "rate":
			rate, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
			if err != nil || rate < 0 || rate > 1 {
				return cfg, fmt.Errorf("invalid fail rate %q", kv[1])
			}
			cfg.rate = rate
		case "code":
			code, err := strconv.Atoi(strings.TrimSpace(kv[1]))
			if err != nil || code < 400 || code > 599 {
				return cfg, fmt.Errorf("invalid fail code %q", kv[1])
			}
			cfg.code = code
		default:
			return cfg, fmt.Errorf("unknown fail option %q", kv[0])
		}
	}
	return cfg, nil
}
