package main

import (
	"context"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/castify/internal/auth"
	"github.com/example/castify/internal/catalog"
	appconfig "github.com/example/castify/internal/config"
	"github.com/example/castify/internal/favourites"
	"github.com/example/castify/internal/handlers"
	castifyhttp "github.com/example/castify/internal/http"
	"github.com/example/castify/internal/platform/analytics"
	platformauth "github.com/example/castify/internal/platform/auth"
	"github.com/example/castify/internal/platform/config"
	"github.com/example/castify/internal/platform/db"
	"github.com/example/castify/internal/platform/httpserver"
	"github.com/example/castify/internal/platform/logging"
	"github.com/example/castify/internal/platform/natsconn"
	"github.com/example/castify/internal/platform/run"
	"github.com/example/castify/internal/player"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	appCfg, err := appconfig.Load()
	if err != nil {
		log.Error("load app config", zap.Error(err))
		run.Exit(1)
	}

	ctx := context.Background()

	// storage: Postgres when DATABASE_URL is set, in-memory otherwise
	var (
		authStore auth.Store       = auth.NewMemoryStore()
		favStore  favourites.Store = favourites.NewMemoryStore()
		persister player.Persister = player.NewMemoryPersister()
	)
	if strings.TrimSpace(os.Getenv("DATABASE_URL")) != "" {
		pool, err := db.Open(ctx)
		if err != nil {
			log.Error("open database", zap.Error(err))
			run.Exit(1)
		}
		defer pool.Close()
		authStore = auth.PostgresStore{DB: pool}
		favStore = favourites.PostgresStore{DB: pool}
		persister = player.NewPostgresPersister(pool)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	// NATS is optional: without it analytics are dropped and progress
	// ticks are written synchronously
	var nc *nats.Conn
	var js nats.JetStreamContext
	if strings.TrimSpace(os.Getenv("NATS_URL")) != "" {
		nc, err = natsconn.Connect(natsconn.Options{})
		if err != nil {
			log.Error("connect nats", zap.Error(err))
			run.Exit(1)
		}
		defer nc.Close()
		js, err = nc.JetStream()
		if err != nil {
			log.Error("jetstream", zap.Error(err))
			run.Exit(1)
		}
	} else {
		log.Warn("NATS_URL not set, analytics disabled and ticks written synchronously")
	}
	events := analytics.New(js, log)

	authSvc := &auth.Service{
		Store: authStore,
		Tokens: auth.Tokens{
			Secret:          appCfg.JWTSecret,
			AccessTokenTTL:  appCfg.AccessTokenTTL,
			RefreshTokenTTL: appCfg.RefreshTokenTTL,
		},
	}

	catalogSvc := catalog.NewService(
		catalog.NewClient(appCfg.CatalogBaseURL),
		catalog.NewTTLCache(appCfg.CatalogCacheTTLSec, nc, "catalog.invalidate"),
		log,
	)

	playerMgr := player.NewManager(persister, log)
	if js != nil {
		playerMgr.WithTickSink(player.NewNATSTickSink(js))
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r)

	limiter := castifyhttp.NewRateLimiter(appCfg.RateLimitPerSecond, appCfg.RateLimitBurst)
	r.Use(limiter.Middleware)

	verifier := platformauth.JWTVerifier{Secret: appCfg.JWTSecret}

	r.Post("/v1/auth/register", handlers.Register(authSvc, events))
	r.Post("/v1/auth/login", handlers.Login(authSvc, events))
	r.Post("/v1/auth/refresh", handlers.Refresh(authSvc))
	r.Post("/v1/auth/logout", handlers.Logout(authSvc))

	r.Get("/v1/shows", handlers.ListShows(catalogSvc))
	r.Get("/v1/shows/{show_id}", handlers.GetShow(catalogSvc, events))
	r.Get("/v1/shows/{show_id}/seasons/{season_no}", handlers.GetSeason(catalogSvc))
	r.Get("/v1/search", handlers.Search(catalogSvc, events))
	r.Get("/v1/favourites/shared/{token}", handlers.SharedFavourites(favStore, events))

	r.Group(func(r chi.Router) {
		r.Use(platformauth.RequireUser(verifier))

		r.Get("/v1/me", handlers.Me(authSvc))

		r.Get("/v1/favourites", handlers.ListFavourites(favStore))
		r.Post("/v1/favourites", handlers.AddFavourite(favStore, events))
		r.Delete("/v1/favourites/{show_id}/{season_id}/{episode_id}", handlers.RemoveFavourite(favStore, events))

		r.Get("/v1/player", handlers.GetPlayer(playerMgr))
		r.Post("/v1/player/start", handlers.StartPlayer(playerMgr, events))
		r.Post("/v1/player/events", handlers.PlayerEvents(playerMgr))
		r.Post("/v1/player/close", handlers.ClosePlayer(playerMgr))
		r.Delete("/v1/player/history", handlers.ResetPlayHistory(playerMgr))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		catalogSvc.StartRefresher(ctx)
		if nc != nil {
			player.StartProgressConsumer(ctx, nc, persister, log)
		}
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
