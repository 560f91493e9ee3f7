package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/plexicon/internal/config"
	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/service/wordsource"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig mirrors the env defaults with zero reveal delays.
func testConfig(t *testing.T, upstream string) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			IdleTimeout:     5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log:       config.LogConfig{Level: "info", Format: "json"},
		CORS:      config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST,OPTIONS", AllowedHeaders: "Content-Type"},
		RateLimit: config.RateLimitConfig{DiscoverPerMinute: 30, CleanupInterval: time.Minute},
		Sources: config.SourcesConfig{
			Mode:                  config.ModeDictionary,
			Timeout:               2 * time.Second,
			DatamuseURL:           upstream,
			FreeDictionaryURL:     upstream,
			WiktionaryURLTemplate: upstream + "/%s/w/api.php",
			EnglishListSize:       100,
			WikiListSize:          50,
			MinWordLength:         3,
			MinExtractLength:      10,
			MaxDefinitionLength:   190,
			BreakMargin:           40,
		},
		Reveal: config.RevealConfig{DecoyCount: 5},
		Storage: config.StorageConfig{
			Driver: config.DriverMemory,
			Key:    "lexicon_v3_stats",
			Dir:    t.TempDir(),
		},
	}
}

// fakeWiktionary answers opensearch with two Spanish titles and query with
// an extract for any title.
func fakeWiktionary(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		switch q.Get("action") {
		case "opensearch":
			_, _ = io.WriteString(w, `["p",["perro","pato"],["",""],["",""]]`)
		case "query":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"query": map[string]any{
					"pages": map[string]any{
						"42": map[string]any{
							"title":       q.Get("titles"),
							"extract":     "Animal doméstico de la familia de los cánidos.",
							"description": "Sustantivo",
						},
					},
				},
			})
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  config.StorageConfig
	}{
		{"memory", config.StorageConfig{Driver: config.DriverMemory}},
		{"file", config.StorageConfig{Driver: config.DriverFile, Dir: filepath.Join(dir, "files")}},
		{"sqlite", config.StorageConfig{Driver: config.DriverSQLite, Dir: filepath.Join(dir, "db")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			b, err := OpenBackend(ctx, tt.cfg, discardLogger())
			require.NoError(t, err)
			t.Cleanup(func() { _ = b.Close() })

			require.NoError(t, b.Ping(ctx))

			_, err = b.Load(ctx, "stats")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			require.NoError(t, b.Save(ctx, "stats", []byte(`{"totalGenerated":1}`)))
			got, err := b.Load(ctx, "stats")
			require.NoError(t, err)
			assert.JSONEq(t, `{"totalGenerated":1}`, string(got))
		})
	}
}

func TestOpenBackend_UnknownDriver(t *testing.T) {
	_, err := OpenBackend(context.Background(), config.StorageConfig{Driver: "redis"}, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestNewSources_Modes(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")

	words, decoys := NewSources(cfg, discardLogger())
	assert.IsType(t, &wordsource.Adapter{}, words)
	assert.NotNil(t, decoys)

	cfg.Sources.Mode = config.ModeGenerative
	cfg.LLM = config.LLMConfig{APIKey: "test", Model: "m", MaxTokens: 64, Timeout: time.Second}
	words, decoys = NewSources(cfg, discardLogger())
	assert.IsType(t, &wordsource.Generative{}, words)
	assert.NotNil(t, decoys)
}

func TestApp_DiscoverCycleOverHTTP(t *testing.T) {
	upstream := fakeWiktionary(t)
	a, err := New(context.Background(), testConfig(t, upstream.URL), discardLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	h := a.Handler(nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/discover", nil))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	type revealBody struct {
		Phase      string   `json:"phase"`
		Language   string   `json:"language"`
		Word       string   `json:"word"`
		Definition string   `json:"definition"`
		Decoys     []string `json:"decoys"`
	}
	var snap revealBody
	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reveal", nil))
		if rec.Code != http.StatusOK {
			return false
		}
		snap = revealBody{}
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			return false
		}
		return snap.Phase == "revealing_definition"
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, string(domain.LanguageSpanish), snap.Language)
	assert.Contains(t, []string{"Perro", "Pato"}, snap.Word)
	assert.Equal(t, "Animal doméstico de la familia de los cánidos.", snap.Definition)
	assert.Len(t, snap.Decoys, 5)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		TotalGenerated int    `json:"totalGenerated"`
		UniqueCount    int    `json:"uniqueCount"`
		Top            string `json:"top"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalGenerated)
	assert.Equal(t, 1, stats.UniqueCount)
	assert.Equal(t, snap.Word, stats.Top)
}

func TestApp_UpstreamDownFallsBack(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(down.Close)

	a, err := New(context.Background(), testConfig(t, down.URL), discardLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	rec := a.Words.FetchWord(context.Background(), 'P', domain.LanguageSpanish)
	assert.Equal(t, domain.LanguageSpanish.Fallback('P'), rec)

	decoys := a.Decoys.FetchDecoys(context.Background(), 'P', 3, domain.LanguageSpanish)
	assert.Equal(t, []string{"P", "P", "P"}, decoys)
}

func TestNew_LoadsPersistedStats(t *testing.T) {
	upstream := fakeWiktionary(t)
	cfg := testConfig(t, upstream.URL)
	cfg.Storage.Driver = config.DriverFile

	first, err := New(context.Background(), cfg, discardLogger(), nil)
	require.NoError(t, err)
	_, err = first.Stats.Record(context.Background(), "perro")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(context.Background(), cfg, discardLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	got := second.Stats.Snapshot()
	assert.Equal(t, 1, got.TotalGenerated)
	assert.Equal(t, 1, got.WordFrequency["perro"])
}

func TestApp_ServeStopsOnCancel(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, "http://127.0.0.1:1"), discardLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

type ctxKey struct{}

func TestApp_ShutdownDrainsInFlightRequests(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, "http://127.0.0.1:1"), discardLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	entered := make(chan struct{})
	proceed := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-proceed
		if r.Context().Err() != nil || r.Context().Value(ctxKey{}) != "serve" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "serve"))
	defer cancel()
	srv := a.newServer(ctx, h)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()

	type result struct {
		status int
		err    error
	}
	got := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			got <- result{err: err}
			return
		}
		_ = resp.Body.Close()
		got <- result{status: resp.StatusCode}
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}

	cancel()
	shutdown := make(chan error, 1)
	go func() { shutdown <- srv.Shutdown(context.Background()) }()
	close(proceed)

	select {
	case r := <-got:
		require.NoError(t, r.err)
		assert.Equal(t, http.StatusOK, r.status, "request context must survive serve cancellation")
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight request did not complete")
	}
	require.NoError(t, <-shutdown)
}
