package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/virtualdeck/pass-play-be/internal/api"
	"github.com/virtualdeck/pass-play-be/internal/auth"
	"github.com/virtualdeck/pass-play-be/internal/catalog"
	"github.com/virtualdeck/pass-play-be/internal/config"
	"github.com/virtualdeck/pass-play-be/internal/db"
	"github.com/virtualdeck/pass-play-be/internal/store"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cfg := config.Load()

	// Flags override the environment.
	var (
		port        = flag.String("port", cfg.Port, "Server port")
		dbDriver    = flag.String("db-driver", cfg.DatabaseDriver, "Database driver (sqlite3 or postgres)")
		dbDSN       = flag.String("db", cfg.DatabaseDSN, "Database DSN")
		gamesPath   = flag.String("games", cfg.GamesPath, "Game catalog JSON path")
		frontendURL = flag.String("frontend", cfg.FrontendURL, "Frontend URL for CORS")
	)
	flag.Parse()

	if *dbDriver == "sqlite3" {
		if err := os.MkdirAll(filepath.Dir(*dbDSN), 0755); err != nil {
			logger.Fatal().Err(err).Msg("creating data directory")
		}
	}

	// Absence of a database is non-fatal: run memory-only.
	database, err := db.New(*dbDriver, *dbDSN, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("database unavailable, continuing without persistence")
		database = nil
	} else {
		defer database.Close()
		logger.Info().Str("driver", *dbDriver).Msg("database initialized")
	}

	var sessionStore store.Store
	if database != nil {
		sessionStore = store.NewPersistentStore(database)
	} else {
		sessionStore = store.NewMemoryStore()
	}

	library, err := catalog.Load(*gamesPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", *gamesPath).Msg("game catalog unavailable")
		library = nil
	} else {
		logger.Info().Int("games", library.Len()).Msg("game catalog loaded")
	}

	hub := api.NewHub(logger)
	go hub.Run()

	tokens := auth.NewTokenIssuer([]byte(cfg.TokenSecret), cfg.TokenTTL)
	handlers := api.NewHandlers(sessionStore, database, hub, library, tokens, logger)

	r := mux.NewRouter()
	handlers.RegisterRoutes(r)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, req)
			logger.Info().
				Str("method", req.Method).
				Str("path", req.RequestURI).
				Dur("took", time.Since(start)).
				Msg("request")
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{*frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", *port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
