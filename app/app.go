package app

import (
	"database/sql"

	"github.com/go-chi/jwtauth/v5"

	"github.com/acad-forms/acad-forms/config"
)

type App struct {
	*sql.DB
	*jwtauth.JWTAuth
	config.Config
}
