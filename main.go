package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/acad-forms/acad-forms/app"
	"github.com/acad-forms/acad-forms/config"
	"github.com/acad-forms/acad-forms/database"
	"github.com/acad-forms/acad-forms/log"
	"github.com/acad-forms/acad-forms/routes"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	err = database.EnsureAdmin(db, cfg.AdminUser, cfg.AdminPass)
	if err != nil {
		log.Fatal("main.db.admin:", err)
	}

	app := app.App{
		DB:      db,
		JWTAuth: jwtauth.New("HS256", []byte(cfg.TokenSecret), nil),
		Config:  cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
