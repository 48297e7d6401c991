// Package testutil wires a real Remote Store (sqlite file in a temp dir,
// migrated schema, seeded admin) for handler and integration tests.
package testutil

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/acad-forms/acad-forms/app"
	"github.com/acad-forms/acad-forms/config"
	"github.com/acad-forms/acad-forms/database"
	"github.com/acad-forms/acad-forms/routes"
)

const (
	AdminUser = "admin"
	AdminPass = "letmein-test"
)

// NewApp opens a fresh migrated database under t.TempDir and returns an app
// bundle ready for routes.Wire.
func NewApp(t *testing.T) app.App {
	t.Helper()

	cfg := config.Config{
		DBUrl:       filepath.Join(t.TempDir(), "test.sqlite"),
		TokenSecret: "test-secret",
		TokenTTL:    time.Hour,
		AdminUser:   AdminUser,
		AdminPass:   AdminPass,
	}

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.EnsureAdmin(db, cfg.AdminUser, cfg.AdminPass); err != nil {
		t.Fatalf("seed admin user: %v", err)
	}

	return app.App{
		DB:      db,
		JWTAuth: jwtauth.New("HS256", []byte(cfg.TokenSecret), nil),
		Config:  cfg,
	}
}

// NewServer starts an httptest server running the full route table.
func NewServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(routes.Wire(NewApp(t)))
	t.Cleanup(srv.Close)
	return srv
}
