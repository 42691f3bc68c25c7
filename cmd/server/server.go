// cmd/server/server.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/pickupgames/internal/api"
	"github.com/codr1/pickupgames/internal/api/apiutil"
	"github.com/codr1/pickupgames/internal/api/games"
	"github.com/codr1/pickupgames/internal/api/registration"
	"github.com/codr1/pickupgames/internal/config"
	"github.com/codr1/pickupgames/internal/email"
	"github.com/codr1/pickupgames/internal/gamesapi"
	"github.com/codr1/pickupgames/internal/metrics"
	"github.com/codr1/pickupgames/internal/ratelimit"
	"github.com/codr1/pickupgames/internal/schedule"
	"github.com/codr1/pickupgames/internal/scheduler"
	gamestempl "github.com/codr1/pickupgames/internal/templates/components/games"
	"github.com/codr1/pickupgames/internal/templates/layouts"
	"github.com/codr1/pickupgames/internal/viewstate"
)

type app struct {
	server    *http.Server
	sessions  *viewstate.Store
	limiter   *ratelimit.Limiter
	scheduler *scheduler.Service
	closed    bool
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	loc, err := schedule.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	var recorder *metrics.Recorder
	var observer gamesapi.Observer
	if cfg.Features.EnableMetrics {
		recorder = metrics.NewRecorder()
		observer = recorder
	}

	sessions := viewstate.NewStore(cfg.Sessions.IdleTTL, nil)
	limiter := ratelimit.New(&ratelimit.Config{
		Cooldown:     cfg.RateLimit.Cooldown,
		MaxPerHour:   cfg.RateLimit.MaxPerHour,
		MaxIPPerHour: cfg.RateLimit.MaxIPPerHour,
	})

	var mailer email.EmailSender
	if cfg.Email.Enabled {
		sesClient, err := email.NewSESClient(ctx, cfg.Email.AccessKeyID, cfg.Email.SecretAccessKey, cfg.Email.Region, cfg.Email.Sender)
		if err != nil {
			limiter.Close()
			return nil, fmt.Errorf("init email: %w", err)
		}
		mailer = sesClient
		log.Info().Str("region", cfg.Email.Region).Msg("Confirmation emails enabled")
	}

	games.InitHandlers(games.Dependencies{
		Client: gamesapi.NewClient(gamesapi.Config{
			GamesURL:   cfg.Upstream.GamesURL,
			PlayersURL: cfg.Upstream.PlayersURL,
			Observer:   observer,
		}),
		Renderer: gamestempl.Renderer{
			Location:     loc,
			GameDuration: cfg.Schedule.GameDuration(),
		},
		Theme: layouts.Theme{
			PrimaryColor: cfg.Theme.PrimaryColor,
			AccentColor:  cfg.Theme.AccentColor,
			SurfaceColor: cfg.Theme.SurfaceColor,
		},
		Title:        cfg.App.Name,
		FetchTimeout: cfg.Upstream.Timeout,
	})
	registration.InitHandlers(registration.Dependencies{
		Limiter:    limiter,
		TrustProxy: cfg.RateLimit.TrustProxy,
		Recorder:   recorder,
		Mailer:     mailer,
		BaseURL:    cfg.App.BaseURL,
	})

	sched, err := scheduler.New()
	if err != nil {
		limiter.Close()
		return nil, fmt.Errorf("init scheduler: %w", err)
	}
	if _, err := sched.RegisterSessionSweep(cfg.Sessions.SweepCron, sessions, recorder); err != nil {
		limiter.Close()
		return nil, fmt.Errorf("register session sweep: %w", err)
	}
	sched.Start()

	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithVisitorSession(sessions, cfg.Sessions.Secure),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	// Register routes
	registerRoutes(router, cfg, recorder)

	return &app{
		server: &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.App.Port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		sessions:  sessions,
		limiter:   limiter,
		scheduler: sched,
	}, nil
}

func (a *app) close() {
	if a.closed {
		return
	}
	a.closed = true
	if err := a.scheduler.Stop(); err != nil {
		log.Error().Err(err).Msg("Failed to stop scheduler")
	}
	a.limiter.Close()
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config, recorder *metrics.Recorder) {
	// Main page handler
	mux.HandleFunc("GET /", games.HandleBoardPage)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		apiutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if recorder != nil {
		mux.Handle("GET /metrics", recorder.Handler())
	}

	// Board routes
	mux.HandleFunc("GET /api/v1/games", games.HandleGamesRefresh)
	mux.HandleFunc("POST /api/v1/days/{day}/select", games.HandleSelectDay)

	// Roster modal routes
	mux.HandleFunc("GET /api/v1/games/{id}/roster", games.HandleRosterOpen)
	mux.HandleFunc("GET /api/v1/games/{id}/players", games.HandleRosterPlayers)
	mux.HandleFunc("POST /api/v1/roster/close", games.HandleRosterClose)

	// Registration modal routes
	mux.HandleFunc("GET /api/v1/games/{id}/register", registration.HandleRegistrationOpen)
	mux.HandleFunc("POST /api/v1/registration/close", registration.HandleRegistrationClose)
	mux.HandleFunc("POST /api/v1/registration/validate", registration.HandleFieldValidate)
	mux.HandleFunc("POST /api/v1/registration", registration.HandleRegistrationSubmit)

	staticDir := cfg.App.StaticDir
	fs := http.FileServer(http.Dir(staticDir))

	// Add logging middleware for static files
	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Ctx(r.Context()).Debug().
			Str("path", r.URL.Path).
			Str("static_dir", staticDir).
			Msg("Static file request")
		http.StripPrefix("/static/", fs).ServeHTTP(w, r)
	}))
}
