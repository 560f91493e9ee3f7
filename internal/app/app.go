package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/plexicon/internal/config"
	"github.com/heartmarshall/plexicon/internal/service/decoy"
	"github.com/heartmarshall/plexicon/internal/service/reveal"
	"github.com/heartmarshall/plexicon/internal/service/stats"
	"github.com/heartmarshall/plexicon/internal/transport/middleware"
	"github.com/heartmarshall/plexicon/internal/transport/rest"
)

// App holds the wired services shared by every front end.
type App struct {
	Config  *config.Config
	Log     *slog.Logger
	Clock   clockwork.Clock
	Backend Backend
	Stats   *stats.Store
	Words   reveal.WordFetcher
	Decoys  *decoy.Supplier
	Reveal  *reveal.Orchestrator
}

// New opens the stats backend, loads the stored stats and builds the reveal
// orchestrator. A failed stats read is logged and the zero record is used.
// A nil clock means the real clock.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, clock clockwork.Clock) (*App, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	backend, err := OpenBackend(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	store := stats.NewStore(logger, backend, cfg.Storage.Key)
	rec, err := store.Load(ctx)
	if err != nil {
		logger.WarnContext(ctx, "stats unavailable, starting from zero", slog.String("error", err.Error()))
	} else {
		logger.InfoContext(ctx, "stats loaded",
			slog.Int("total", rec.TotalGenerated),
			slog.Int("unique", rec.UniqueCount),
		)
	}

	words, decoys := NewSources(cfg, logger)

	orch := reveal.New(logger, words, decoys, store, clock, reveal.Config{
		AnticipationDelay: cfg.Reveal.AnticipationDelay,
		DefinitionDelay:   cfg.Reveal.DefinitionDelay,
		DecoyCount:        cfg.Reveal.DecoyCount,
	})

	return &App{
		Config:  cfg,
		Log:     logger,
		Clock:   clock,
		Backend: backend,
		Stats:   store,
		Words:   words,
		Decoys:  decoys,
		Reveal:  orch,
	}, nil
}

// Close stops the orchestrator and releases the backend.
func (a *App) Close() error {
	a.Reveal.Close()
	if err := a.Backend.Close(); err != nil {
		return fmt.Errorf("app: close backend: %w", err)
	}
	return nil
}

// Handler builds the REST router wrapped in the middleware chain. The caller
// stops limiter when the handler is no longer served.
func (a *App) Handler(limiter *middleware.RateLimiter) http.Handler {
	discovery := rest.NewDiscoveryHandler(a.Reveal, a.Words, a.Decoys, a.Stats, a.Config.Reveal.DecoyCount, a.Log)
	health := rest.NewHealthHandler(a.Backend, a.Config.Storage.Driver, Version)

	var limit middleware.Middleware
	if limiter != nil {
		limit = limiter.Limit(a.Config.RateLimit.DiscoverPerMinute)
	}

	mux := rest.NewRouter(discovery, health, limit)

	return middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(a.Log),
		middleware.Logger(a.Log),
		middleware.CORS(a.Config.CORS),
	)(mux)
}

// newServer builds the HTTP server. Request contexts keep ctx's values but
// not its cancellation, so Shutdown can drain in-flight requests.
func (a *App) newServer(ctx context.Context, h http.Handler) *http.Server {
	srvCfg := a.Config.Server
	base := context.WithoutCancel(ctx)
	return &http.Server{
		Addr:         net.JoinHostPort(srvCfg.Host, strconv.Itoa(srvCfg.Port)),
		Handler:      h,
		ReadTimeout:  srvCfg.ReadTimeout,
		WriteTimeout: srvCfg.WriteTimeout,
		IdleTimeout:  srvCfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return base },
	}
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// within Server.ShutdownTimeout.
func (a *App) Serve(ctx context.Context) error {
	srvCfg := a.Config.Server

	limiter := middleware.NewRateLimiter(a.Clock, a.Config.RateLimit.CleanupInterval)
	defer limiter.Stop()

	srv := a.newServer(ctx, a.Handler(limiter))

	serveErr := make(chan error, 1)
	go func() {
		a.Log.Info("http server listening",
			slog.String("addr", srv.Addr),
			slog.String("version", BuildVersion()),
		)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), srvCfg.ShutdownTimeout)
		defer cancel()
		a.Log.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app: shutdown: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	}
}
